package tokenholder

import (
	"fmt"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg                 = "tokenholder/create"
	pathAuthorizeSessionMsg       = "tokenholder/authorize_session"
	pathRevokeSessionMsg          = "tokenholder/revoke_session"
	pathRevokeSelfSessionMsg      = "tokenholder/revoke_self_session"
	pathLogoutMsg                 = "tokenholder/logout"
	pathRedeemMsg                 = "tokenholder/redeem"
	pathRevertRedemptionMsg       = "tokenholder/revert_redemption"
	pathExecuteRuleMsg            = "tokenholder/execute_rule"
	pathExecuteRedemptionMsg      = "tokenholder/execute_redemption"
	pathSubmitAuthorizeSessionMsg = "tokenholder/submit_authorize_session"
	pathSubmitRevokeSessionMsg    = "tokenholder/submit_revoke_session"
	pathSubmitLogoutMsg           = "tokenholder/submit_logout"
	pathSubmitRedeemMsg           = "tokenholder/submit_redeem"
	pathSubmitRevertRedemptionMsg = "tokenholder/submit_revert_redemption"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&AuthorizeSessionMsg{}, pathAuthorizeSessionMsg)
	weave.RegisterMsg(&RevokeSessionMsg{}, pathRevokeSessionMsg)
	weave.RegisterMsg(&RevokeSelfSessionMsg{}, pathRevokeSelfSessionMsg)
	weave.RegisterMsg(&LogoutMsg{}, pathLogoutMsg)
	weave.RegisterMsg(&RedeemMsg{}, pathRedeemMsg)
	weave.RegisterMsg(&RevertRedemptionMsg{}, pathRevertRedemptionMsg)
	weave.RegisterMsg(&ExecuteRuleMsg{}, pathExecuteRuleMsg)
	weave.RegisterMsg(&ExecuteRedemptionMsg{}, pathExecuteRedemptionMsg)
	weave.RegisterMsg(&SubmitAuthorizeSessionMsg{}, pathSubmitAuthorizeSessionMsg)
	weave.RegisterMsg(&SubmitRevokeSessionMsg{}, pathSubmitRevokeSessionMsg)
	weave.RegisterMsg(&SubmitLogoutMsg{}, pathSubmitLogoutMsg)
	weave.RegisterMsg(&SubmitRedeemMsg{}, pathSubmitRedeemMsg)
	weave.RegisterMsg(&SubmitRevertRedemptionMsg{}, pathSubmitRevertRedemptionMsg)
}

// SessionKeyConfig is a session key authorized when the holder is created.
type SessionKeyConfig struct {
	Key              weave.Address
	SpendingLimit    uint64
	ExpirationHeight int64
}

// CreateMsg creates a holder. It is the only way to set the token, the
// token rules and the owner of a holder.
type CreateMsg struct {
	Token       weave.Address
	TokenRules  weave.Address
	Owner       weave.Address
	SessionKeys []SessionKeyConfig
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	for i, k := range m.SessionKeys {
		errs = errors.AppendField(errs, fmt.Sprintf("SessionKeys.%d", i), validateKey(k.Key))
	}
	return errs
}

// AuthorizeSessionMsg authorizes a session key in the current window.
type AuthorizeSessionMsg struct {
	TokenHolder      weave.Address
	Key              weave.Address
	SpendingLimit    uint64
	ExpirationHeight int64
}

func (AuthorizeSessionMsg) Path() string { return pathAuthorizeSessionMsg }

func (m *AuthorizeSessionMsg) Target() weave.Address { return m.TokenHolder }

func (m *AuthorizeSessionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *AuthorizeSessionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *AuthorizeSessionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenHolder", m.TokenHolder.Validate())
	errs = errors.AppendField(errs, "Key", validateKey(m.Key))
	return errs
}

// validateKey rejects the null address as a session key.
func validateKey(key weave.Address) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if key.IsZero() {
		return errors.Wrap(errors.ErrInput, "null key")
	}
	return nil
}

// RevokeSessionMsg revokes an authorized session key.
type RevokeSessionMsg struct {
	TokenHolder weave.Address
	Key         weave.Address
}

func (RevokeSessionMsg) Path() string { return pathRevokeSessionMsg }

func (m *RevokeSessionMsg) Target() weave.Address { return m.TokenHolder }

func (m *RevokeSessionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RevokeSessionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RevokeSessionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenHolder", m.TokenHolder.Validate())
	errs = errors.AppendField(errs, "Key", m.Key.Validate())
	return errs
}

// RevokeSelfSessionMsg is sent by a session key to revoke itself.
type RevokeSelfSessionMsg struct {
	TokenHolder weave.Address
}

func (RevokeSelfSessionMsg) Path() string { return pathRevokeSelfSessionMsg }

func (m *RevokeSelfSessionMsg) Target() weave.Address { return m.TokenHolder }

func (m *RevokeSelfSessionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RevokeSelfSessionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RevokeSelfSessionMsg) Validate() error {
	return errors.AppendField(nil, "TokenHolder", m.TokenHolder.Validate())
}

// LogoutMsg opens a new session window.
type LogoutMsg struct {
	TokenHolder weave.Address
}

func (LogoutMsg) Path() string { return pathLogoutMsg }

func (m *LogoutMsg) Target() weave.Address { return m.TokenHolder }

func (m *LogoutMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *LogoutMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *LogoutMsg) Validate() error {
	return errors.AppendField(nil, "TokenHolder", m.TokenHolder.Validate())
}

// RedeemMsg redeems tokens of the holder through the token's gateway.
type RedeemMsg struct {
	TokenHolder weave.Address
	Amount      uint64
	Beneficiary weave.Address
	GasPrice    uint64
	GasLimit    uint64
	Nonce       uint64
	HashLock    []byte
}

func (RedeemMsg) Path() string { return pathRedeemMsg }

func (m *RedeemMsg) Target() weave.Address { return m.TokenHolder }

func (m *RedeemMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RedeemMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RedeemMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenHolder", m.TokenHolder.Validate())
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	if len(m.HashLock) != 32 {
		errs = errors.AppendField(errs, "HashLock", errors.ErrInput)
	}
	return errs
}

// RevertRedemptionMsg declares the revert of a redemption of the holder.
type RevertRedemptionMsg struct {
	TokenHolder weave.Address
	MessageHash []byte
}

func (RevertRedemptionMsg) Path() string { return pathRevertRedemptionMsg }

func (m *RevertRedemptionMsg) Target() weave.Address { return m.TokenHolder }

func (m *RevertRedemptionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RevertRedemptionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RevertRedemptionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenHolder", m.TokenHolder.Validate())
	if len(m.MessageHash) != 32 {
		errs = errors.AppendField(errs, "MessageHash", errors.ErrInput)
	}
	return errs
}

// ExecuteRuleMsg is a request signed by a session key to call a rule as
// the holder. Data is the encoded message the rule receives.
type ExecuteRuleMsg struct {
	TokenHolder weave.Address
	To          weave.Address
	Data        []byte
	Nonce       uint64
	V           uint32
	R           []byte
	S           []byte
}

func (ExecuteRuleMsg) Path() string { return pathExecuteRuleMsg }

func (m *ExecuteRuleMsg) Target() weave.Address { return m.TokenHolder }

func (m *ExecuteRuleMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ExecuteRuleMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ExecuteRuleMsg) Validate() error {
	return validateExecution(m.TokenHolder, m.To, m.R, m.S)
}

// ExecuteRedemptionMsg is a request signed by a session key to call the
// token's gateway as the holder.
type ExecuteRedemptionMsg struct {
	TokenHolder weave.Address
	To          weave.Address
	Data        []byte
	Nonce       uint64
	V           uint32
	R           []byte
	S           []byte
}

func (ExecuteRedemptionMsg) Path() string { return pathExecuteRedemptionMsg }

func (m *ExecuteRedemptionMsg) Target() weave.Address { return m.TokenHolder }

func (m *ExecuteRedemptionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ExecuteRedemptionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ExecuteRedemptionMsg) Validate() error {
	return validateExecution(m.TokenHolder, m.To, m.R, m.S)
}

func validateExecution(holder, to weave.Address, r, s []byte) error {
	var errs error
	errs = errors.AppendField(errs, "TokenHolder", holder.Validate())
	errs = errors.AppendField(errs, "To", to.Validate())
	if len(r) != crypto.SignatureRLength {
		errs = errors.AppendField(errs, "R", errors.ErrSignature)
	}
	if len(s) != crypto.SignatureSLength {
		errs = errors.AppendField(errs, "S", errors.ErrSignature)
	}
	return errs
}

// SubmitAuthorizeSessionMsg submits an AuthorizeSessionMsg to the
// multi signature wallet owning the holder.
type SubmitAuthorizeSessionMsg struct {
	TokenHolder      weave.Address
	Key              weave.Address
	SpendingLimit    uint64
	ExpirationHeight int64
}

func (SubmitAuthorizeSessionMsg) Path() string { return pathSubmitAuthorizeSessionMsg }

func (m *SubmitAuthorizeSessionMsg) Target() weave.Address { return m.TokenHolder }

func (m *SubmitAuthorizeSessionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitAuthorizeSessionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitAuthorizeSessionMsg) Validate() error {
	return m.call().Validate()
}

func (m *SubmitAuthorizeSessionMsg) call() weave.Msg {
	return &AuthorizeSessionMsg{
		TokenHolder:      m.TokenHolder,
		Key:              m.Key,
		SpendingLimit:    m.SpendingLimit,
		ExpirationHeight: m.ExpirationHeight,
	}
}

// SubmitRevokeSessionMsg submits a RevokeSessionMsg to the multi signature
// wallet owning the holder.
type SubmitRevokeSessionMsg struct {
	TokenHolder weave.Address
	Key         weave.Address
}

func (SubmitRevokeSessionMsg) Path() string { return pathSubmitRevokeSessionMsg }

func (m *SubmitRevokeSessionMsg) Target() weave.Address { return m.TokenHolder }

func (m *SubmitRevokeSessionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitRevokeSessionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitRevokeSessionMsg) Validate() error {
	return m.call().Validate()
}

func (m *SubmitRevokeSessionMsg) call() weave.Msg {
	return &RevokeSessionMsg{TokenHolder: m.TokenHolder, Key: m.Key}
}

// SubmitLogoutMsg submits a LogoutMsg to the multi signature wallet owning
// the holder.
type SubmitLogoutMsg struct {
	TokenHolder weave.Address
}

func (SubmitLogoutMsg) Path() string { return pathSubmitLogoutMsg }

func (m *SubmitLogoutMsg) Target() weave.Address { return m.TokenHolder }

func (m *SubmitLogoutMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitLogoutMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitLogoutMsg) Validate() error {
	return m.call().Validate()
}

func (m *SubmitLogoutMsg) call() weave.Msg {
	return &LogoutMsg{TokenHolder: m.TokenHolder}
}

// SubmitRedeemMsg submits a RedeemMsg to the multi signature wallet owning
// the holder.
type SubmitRedeemMsg struct {
	TokenHolder weave.Address
	Amount      uint64
	Beneficiary weave.Address
	GasPrice    uint64
	GasLimit    uint64
	Nonce       uint64
	HashLock    []byte
}

func (SubmitRedeemMsg) Path() string { return pathSubmitRedeemMsg }

func (m *SubmitRedeemMsg) Target() weave.Address { return m.TokenHolder }

func (m *SubmitRedeemMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitRedeemMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitRedeemMsg) Validate() error {
	return m.call().Validate()
}

func (m *SubmitRedeemMsg) call() weave.Msg {
	return &RedeemMsg{
		TokenHolder: m.TokenHolder,
		Amount:      m.Amount,
		Beneficiary: m.Beneficiary,
		GasPrice:    m.GasPrice,
		GasLimit:    m.GasLimit,
		Nonce:       m.Nonce,
		HashLock:    m.HashLock,
	}
}

// SubmitRevertRedemptionMsg submits a RevertRedemptionMsg to the multi
// signature wallet owning the holder.
type SubmitRevertRedemptionMsg struct {
	TokenHolder weave.Address
	MessageHash []byte
}

func (SubmitRevertRedemptionMsg) Path() string { return pathSubmitRevertRedemptionMsg }

func (m *SubmitRevertRedemptionMsg) Target() weave.Address { return m.TokenHolder }

func (m *SubmitRevertRedemptionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitRevertRedemptionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitRevertRedemptionMsg) Validate() error {
	return m.call().Validate()
}

func (m *SubmitRevertRedemptionMsg) call() weave.Msg {
	return &RevertRedemptionMsg{TokenHolder: m.TokenHolder, MessageHash: m.MessageHash}
}
