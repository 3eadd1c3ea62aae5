package multisig

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg                  = "multisig/create"
	pathSubmitTransactionMsg       = "multisig/submit_transaction"
	pathSubmitAddWalletMsg         = "multisig/submit_add_wallet"
	pathSubmitRemoveWalletMsg      = "multisig/submit_remove_wallet"
	pathSubmitReplaceWalletMsg     = "multisig/submit_replace_wallet"
	pathSubmitChangeRequirementMsg = "multisig/submit_change_requirement"
	pathConfirmTransactionMsg      = "multisig/confirm_transaction"
	pathRevokeConfirmationMsg      = "multisig/revoke_confirmation"
	pathExecuteTransactionMsg      = "multisig/execute_transaction"
	pathAddWalletMsg               = "multisig/add_wallet"
	pathRemoveWalletMsg            = "multisig/remove_wallet"
	pathReplaceWalletMsg           = "multisig/replace_wallet"
	pathChangeRequirementMsg       = "multisig/change_requirement"
	pathSetRecoveryModuleMsg       = "multisig/set_recovery_module"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&SubmitTransactionMsg{}, pathSubmitTransactionMsg)
	weave.RegisterMsg(&SubmitAddWalletMsg{}, pathSubmitAddWalletMsg)
	weave.RegisterMsg(&SubmitRemoveWalletMsg{}, pathSubmitRemoveWalletMsg)
	weave.RegisterMsg(&SubmitReplaceWalletMsg{}, pathSubmitReplaceWalletMsg)
	weave.RegisterMsg(&SubmitChangeRequirementMsg{}, pathSubmitChangeRequirementMsg)
	weave.RegisterMsg(&ConfirmTransactionMsg{}, pathConfirmTransactionMsg)
	weave.RegisterMsg(&RevokeConfirmationMsg{}, pathRevokeConfirmationMsg)
	weave.RegisterMsg(&ExecuteTransactionMsg{}, pathExecuteTransactionMsg)
	weave.RegisterMsg(&AddWalletMsg{}, pathAddWalletMsg)
	weave.RegisterMsg(&RemoveWalletMsg{}, pathRemoveWalletMsg)
	weave.RegisterMsg(&ReplaceWalletMsg{}, pathReplaceWalletMsg)
	weave.RegisterMsg(&ChangeRequirementMsg{}, pathChangeRequirementMsg)
	weave.RegisterMsg(&SetRecoveryModuleMsg{}, pathSetRecoveryModuleMsg)
}

// CreateMsg creates a wallet with the given members and requirement.
type CreateMsg struct {
	Wallets  []weave.Address
	Required uint32
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallets", validateWallets(m.Wallets))
	errs = errors.AppendField(errs, "Required", validateRequirement(m.Required, len(m.Wallets)))
	return errs
}

// SubmitTransactionMsg submits a call of the destination contract.
type SubmitTransactionMsg struct {
	Wallet      weave.Address
	Destination weave.Address
	Payload     []byte
}

func (SubmitTransactionMsg) Path() string { return pathSubmitTransactionMsg }

func (m *SubmitTransactionMsg) Target() weave.Address { return m.Wallet }

func (m *SubmitTransactionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitTransactionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitTransactionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Payload) == 0 {
		errs = errors.AppendField(errs, "Payload", errors.ErrEmpty)
	}
	return errs
}

// SubmitAddWalletMsg submits adding a member.
type SubmitAddWalletMsg struct {
	Wallet    weave.Address
	NewWallet weave.Address
}

func (SubmitAddWalletMsg) Path() string { return pathSubmitAddWalletMsg }

func (m *SubmitAddWalletMsg) Target() weave.Address { return m.Wallet }

func (m *SubmitAddWalletMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitAddWalletMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitAddWalletMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "NewWallet", validateMember(m.NewWallet))
	return errs
}

// SubmitRemoveWalletMsg submits removing a member.
type SubmitRemoveWalletMsg struct {
	Wallet    weave.Address
	OldWallet weave.Address
}

func (SubmitRemoveWalletMsg) Path() string { return pathSubmitRemoveWalletMsg }

func (m *SubmitRemoveWalletMsg) Target() weave.Address { return m.Wallet }

func (m *SubmitRemoveWalletMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SubmitRemoveWalletMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SubmitRemoveWalletMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "OldWallet", m.OldWallet.Validate())
	return errs
}

// SubmitReplaceWalletMsg submits replacing a member with a new one.
type SubmitReplaceWalletMsg struct {
	Wallet    weave.Address
	OldWallet weave.Address
	NewWallet weave.Address
}

func (SubmitReplaceWalletMsg) Path() string { return pathSubmitReplaceWalletMsg }

func (m *SubmitReplaceWalletMsg) Target() weave.Address { return m.Wallet }

func (m *SubmitReplaceWalletMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *SubmitReplaceWalletMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *SubmitReplaceWalletMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "OldWallet", m.OldWallet.Validate())
	errs = errors.AppendField(errs, "NewWallet", validateMember(m.NewWallet))
	return errs
}

// SubmitChangeRequirementMsg submits a new requirement.
type SubmitChangeRequirementMsg struct {
	Wallet   weave.Address
	Required uint32
}

func (SubmitChangeRequirementMsg) Path() string { return pathSubmitChangeRequirementMsg }

func (m *SubmitChangeRequirementMsg) Target() weave.Address { return m.Wallet }

func (m *SubmitChangeRequirementMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *SubmitChangeRequirementMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *SubmitChangeRequirementMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	if m.Required == 0 {
		errs = errors.AppendField(errs, "Required", errors.ErrInput)
	}
	return errs
}

// ConfirmTransactionMsg confirms a transaction as the signing member.
type ConfirmTransactionMsg struct {
	Wallet        weave.Address
	TransactionID uint64
}

func (ConfirmTransactionMsg) Path() string { return pathConfirmTransactionMsg }

func (m *ConfirmTransactionMsg) Target() weave.Address { return m.Wallet }

func (m *ConfirmTransactionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ConfirmTransactionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ConfirmTransactionMsg) Validate() error {
	return errors.Field("Wallet", m.Wallet.Validate(), "")
}

// RevokeConfirmationMsg revokes the confirmation of the signing member.
type RevokeConfirmationMsg struct {
	Wallet        weave.Address
	TransactionID uint64
}

func (RevokeConfirmationMsg) Path() string { return pathRevokeConfirmationMsg }

func (m *RevokeConfirmationMsg) Target() weave.Address { return m.Wallet }

func (m *RevokeConfirmationMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RevokeConfirmationMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RevokeConfirmationMsg) Validate() error {
	return errors.Field("Wallet", m.Wallet.Validate(), "")
}

// ExecuteTransactionMsg executes a confirmed transaction.
type ExecuteTransactionMsg struct {
	Wallet        weave.Address
	TransactionID uint64
}

func (ExecuteTransactionMsg) Path() string { return pathExecuteTransactionMsg }

func (m *ExecuteTransactionMsg) Target() weave.Address { return m.Wallet }

func (m *ExecuteTransactionMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ExecuteTransactionMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ExecuteTransactionMsg) Validate() error {
	return errors.Field("Wallet", m.Wallet.Validate(), "")
}

// AddWalletMsg adds a member. Only the wallet itself can send it.
type AddWalletMsg struct {
	Wallet    weave.Address
	NewWallet weave.Address
}

func (AddWalletMsg) Path() string { return pathAddWalletMsg }

func (m *AddWalletMsg) Target() weave.Address { return m.Wallet }

func (m *AddWalletMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *AddWalletMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *AddWalletMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "NewWallet", validateMember(m.NewWallet))
	return errs
}

// RemoveWalletMsg removes a member. Only the wallet itself can send it.
type RemoveWalletMsg struct {
	Wallet    weave.Address
	OldWallet weave.Address
}

func (RemoveWalletMsg) Path() string { return pathRemoveWalletMsg }

func (m *RemoveWalletMsg) Target() weave.Address { return m.Wallet }

func (m *RemoveWalletMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RemoveWalletMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RemoveWalletMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "OldWallet", m.OldWallet.Validate())
	return errs
}

// ReplaceWalletMsg replaces a member. It can be sent by the wallet itself
// or by its recovery module.
type ReplaceWalletMsg struct {
	Wallet    weave.Address
	OldWallet weave.Address
	NewWallet weave.Address
}

func (ReplaceWalletMsg) Path() string { return pathReplaceWalletMsg }

func (m *ReplaceWalletMsg) Target() weave.Address { return m.Wallet }

func (m *ReplaceWalletMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ReplaceWalletMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ReplaceWalletMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "OldWallet", m.OldWallet.Validate())
	errs = errors.AppendField(errs, "NewWallet", validateMember(m.NewWallet))
	return errs
}

// ChangeRequirementMsg sets the number of required confirmations. Only the
// wallet itself can send it.
type ChangeRequirementMsg struct {
	Wallet   weave.Address
	Required uint32
}

func (ChangeRequirementMsg) Path() string { return pathChangeRequirementMsg }

func (m *ChangeRequirementMsg) Target() weave.Address { return m.Wallet }

func (m *ChangeRequirementMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ChangeRequirementMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ChangeRequirementMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	if m.Required == 0 {
		errs = errors.AppendField(errs, "Required", errors.ErrInput)
	}
	return errs
}

// SetRecoveryModuleMsg sets the recovery module allowed to replace members.
// Only the wallet itself can send it.
type SetRecoveryModuleMsg struct {
	Wallet         weave.Address
	RecoveryModule weave.Address
}

func (SetRecoveryModuleMsg) Path() string { return pathSetRecoveryModuleMsg }

func (m *SetRecoveryModuleMsg) Target() weave.Address { return m.Wallet }

func (m *SetRecoveryModuleMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SetRecoveryModuleMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SetRecoveryModuleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "RecoveryModule", m.RecoveryModule.Validate())
	return errs
}

func validateMember(addr weave.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	if addr.IsZero() {
		return errors.Wrap(errors.ErrInput, "null address")
	}
	return nil
}
