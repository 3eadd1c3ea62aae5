package recovery

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg             = "recovery/create"
	pathInitiateRecoveryMsg   = "recovery/initiate"
	pathExecuteRecoveryMsg    = "recovery/execute"
	pathAbortRecoveryMsg      = "recovery/abort"
	pathResetRecoveryOwnerMsg = "recovery/reset_owner"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&InitiateRecoveryMsg{}, pathInitiateRecoveryMsg)
	weave.RegisterMsg(&ExecuteRecoveryMsg{}, pathExecuteRecoveryMsg)
	weave.RegisterMsg(&AbortRecoveryMsg{}, pathAbortRecoveryMsg)
	weave.RegisterMsg(&ResetRecoveryOwnerMsg{}, pathResetRecoveryOwnerMsg)
}

// CreateMsg creates a recovery module for a wallet.
type CreateMsg struct {
	Wallet             weave.Address
	RecoveryOwner      weave.Address
	RecoveryController weave.Address
	RecoveryBlockDelay int64
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	mod := Module{
		Wallet:             m.Wallet,
		RecoveryOwner:      m.RecoveryOwner,
		RecoveryController: m.RecoveryController,
		RecoveryBlockDelay: m.RecoveryBlockDelay,
	}
	return mod.Validate()
}

// InitiateRecoveryMsg starts the replacement of the old owner by the new
// one. The signature is of the recovery owner.
type InitiateRecoveryMsg struct {
	Module   weave.Address
	OldOwner weave.Address
	NewOwner weave.Address
	V        uint32
	R        []byte
	S        []byte
}

func (InitiateRecoveryMsg) Path() string { return pathInitiateRecoveryMsg }

func (m *InitiateRecoveryMsg) Target() weave.Address { return m.Module }

func (m *InitiateRecoveryMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *InitiateRecoveryMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *InitiateRecoveryMsg) Validate() error {
	errs := validateOwners(m.Module, m.OldOwner, m.NewOwner)
	return errors.Append(errs, validateSignature(m.R, m.S))
}

// ExecuteRecoveryMsg executes the active recovery once its delay passed.
type ExecuteRecoveryMsg struct {
	Module   weave.Address
	OldOwner weave.Address
	NewOwner weave.Address
}

func (ExecuteRecoveryMsg) Path() string { return pathExecuteRecoveryMsg }

func (m *ExecuteRecoveryMsg) Target() weave.Address { return m.Module }

func (m *ExecuteRecoveryMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ExecuteRecoveryMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ExecuteRecoveryMsg) Validate() error {
	return validateOwners(m.Module, m.OldOwner, m.NewOwner)
}

// AbortRecoveryMsg aborts the active recovery. The signature is of the
// recovery owner.
type AbortRecoveryMsg struct {
	Module   weave.Address
	OldOwner weave.Address
	NewOwner weave.Address
	V        uint32
	R        []byte
	S        []byte
}

func (AbortRecoveryMsg) Path() string { return pathAbortRecoveryMsg }

func (m *AbortRecoveryMsg) Target() weave.Address { return m.Module }

func (m *AbortRecoveryMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *AbortRecoveryMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *AbortRecoveryMsg) Validate() error {
	errs := validateOwners(m.Module, m.OldOwner, m.NewOwner)
	return errors.Append(errs, validateSignature(m.R, m.S))
}

// ResetRecoveryOwnerMsg hands the module over to a new recovery owner. The
// signature is of the current recovery owner.
type ResetRecoveryOwnerMsg struct {
	Module           weave.Address
	NewRecoveryOwner weave.Address
	V                uint32
	R                []byte
	S                []byte
}

func (ResetRecoveryOwnerMsg) Path() string { return pathResetRecoveryOwnerMsg }

func (m *ResetRecoveryOwnerMsg) Target() weave.Address { return m.Module }

func (m *ResetRecoveryOwnerMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ResetRecoveryOwnerMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ResetRecoveryOwnerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Module", m.Module.Validate())
	errs = errors.AppendField(errs, "NewRecoveryOwner", m.NewRecoveryOwner.Validate())
	return errors.Append(errs, validateSignature(m.R, m.S))
}

func validateOwners(module, oldOwner, newOwner weave.Address) error {
	var errs error
	errs = errors.AppendField(errs, "Module", module.Validate())
	errs = errors.AppendField(errs, "OldOwner", oldOwner.Validate())
	errs = errors.AppendField(errs, "NewOwner", newOwner.Validate())
	if oldOwner.Equals(newOwner) {
		errs = errors.AppendField(errs, "NewOwner", errors.ErrDuplicate)
	}
	return errs
}

func validateSignature(r, s []byte) error {
	var errs error
	if len(r) != crypto.SignatureRLength {
		errs = errors.AppendField(errs, "R", errors.ErrSignature)
	}
	if len(s) != crypto.SignatureSLength {
		errs = errors.AppendField(errs, "S", errors.ErrSignature)
	}
	return errs
}
