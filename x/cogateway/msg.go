package cogateway

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg           = "cogateway/create"
	pathRedeemMsg           = "cogateway/redeem"
	pathRevertRedemptionMsg = "cogateway/revert_redemption"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&RedeemMsg{}, pathRedeemMsg)
	weave.RegisterMsg(&RevertRedemptionMsg{}, pathRevertRedemptionMsg)
}

// CreateMsg creates a gateway for a token.
type CreateMsg struct {
	Token weave.Address
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	return errors.AppendField(nil, "Token", m.Token.Validate())
}

// RedeemMsg declares a redeem intent of the signer. The gateway must be
// approved for the amount.
type RedeemMsg struct {
	CoGateway   weave.Address
	Amount      uint64
	Beneficiary weave.Address
	GasPrice    uint64
	GasLimit    uint64
	Nonce       uint64
	HashLock    []byte
}

func (RedeemMsg) Path() string { return pathRedeemMsg }

func (m *RedeemMsg) Target() weave.Address { return m.CoGateway }

func (m *RedeemMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RedeemMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RedeemMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CoGateway", m.CoGateway.Validate())
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	if len(m.HashLock) != 32 {
		errs = errors.AppendField(errs, "HashLock", errors.ErrInput)
	}
	return errs
}

// RevertRedemptionMsg declares the revert of a pending redemption. Only the
// redeemer can send it.
type RevertRedemptionMsg struct {
	CoGateway   weave.Address
	MessageHash []byte
}

func (RevertRedemptionMsg) Path() string { return pathRevertRedemptionMsg }

func (m *RevertRedemptionMsg) Target() weave.Address { return m.CoGateway }

func (m *RevertRedemptionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RevertRedemptionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RevertRedemptionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CoGateway", m.CoGateway.Validate())
	if len(m.MessageHash) != 32 {
		errs = errors.AppendField(errs, "MessageHash", errors.ErrInput)
	}
	return errs
}
