package tokenrules

import (
	"fmt"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg                 = "tokenrules/create"
	pathRegisterRuleMsg           = "tokenrules/register_rule"
	pathAddGlobalConstraintMsg    = "tokenrules/add_global_constraint"
	pathRemoveGlobalConstraintMsg = "tokenrules/remove_global_constraint"
	pathAllowTransfersMsg         = "tokenrules/allow_transfers"
	pathDisallowTransfersMsg      = "tokenrules/disallow_transfers"
	pathExecuteTransfersMsg       = "tokenrules/execute_transfers"
	pathDirectTransfersMsg        = "tokenrules/direct_transfers"
	pathCheckGlobalConstraintsMsg = "tokenrules/check_global_constraints"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&RegisterRuleMsg{}, pathRegisterRuleMsg)
	weave.RegisterMsg(&AddGlobalConstraintMsg{}, pathAddGlobalConstraintMsg)
	weave.RegisterMsg(&RemoveGlobalConstraintMsg{}, pathRemoveGlobalConstraintMsg)
	weave.RegisterMsg(&AllowTransfersMsg{}, pathAllowTransfersMsg)
	weave.RegisterMsg(&DisallowTransfersMsg{}, pathDisallowTransfersMsg)
	weave.RegisterMsg(&ExecuteTransfersMsg{}, pathExecuteTransfersMsg)
	weave.RegisterMsg(&DirectTransfersMsg{}, pathDirectTransfersMsg)
	weave.RegisterMsg(&CheckGlobalConstraintsMsg{}, pathCheckGlobalConstraintsMsg)
}

func validateTransfers(to []weave.Address, amounts []uint64) error {
	if len(to) != len(amounts) {
		return errors.Field("TransfersAmount", errors.ErrInput,
			"'to' and 'amount' transfer arrays' lengths are not equal.")
	}
	var errs error
	for i, a := range to {
		errs = errors.AppendField(errs, fmt.Sprintf("TransfersTo.%d", i), a.Validate())
	}
	return errs
}

// CreateMsg creates token rules for a token governed by the organization.
type CreateMsg struct {
	Organization weave.Address
	Token        weave.Address
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", m.Organization.Validate())
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	return errs
}

// RegisterRuleMsg registers a rule contract. Rules cannot be unregistered.
type RegisterRuleMsg struct {
	TokenRules weave.Address
	Name       string
	Address    weave.Address
	Abi        string
}

func (RegisterRuleMsg) Path() string { return pathRegisterRuleMsg }

func (m *RegisterRuleMsg) Target() weave.Address { return m.TokenRules }

func (m *RegisterRuleMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RegisterRuleMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RegisterRuleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	if m.Name == "" {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrEmpty, "Rule name is empty."))
	}
	errs = errors.AppendField(errs, "Address", validateContract(m.Address))
	if m.Abi == "" {
		errs = errors.Append(errs, errors.Field("Abi", errors.ErrEmpty, "Rule ABI is empty."))
	}
	return errs
}

// AddGlobalConstraintMsg appends a constraint contract.
type AddGlobalConstraintMsg struct {
	TokenRules weave.Address
	Constraint weave.Address
}

func (AddGlobalConstraintMsg) Path() string { return pathAddGlobalConstraintMsg }

func (m *AddGlobalConstraintMsg) Target() weave.Address { return m.TokenRules }

func (m *AddGlobalConstraintMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *AddGlobalConstraintMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *AddGlobalConstraintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	errs = errors.AppendField(errs, "Constraint", validateContract(m.Constraint))
	return errs
}

func validateContract(addr weave.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	if addr.IsZero() {
		return errors.Wrap(errors.ErrInput, "null address")
	}
	return nil
}

// RemoveGlobalConstraintMsg removes a constraint contract.
type RemoveGlobalConstraintMsg struct {
	TokenRules weave.Address
	Constraint weave.Address
}

func (RemoveGlobalConstraintMsg) Path() string { return pathRemoveGlobalConstraintMsg }

func (m *RemoveGlobalConstraintMsg) Target() weave.Address { return m.TokenRules }

func (m *RemoveGlobalConstraintMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *RemoveGlobalConstraintMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *RemoveGlobalConstraintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	errs = errors.AppendField(errs, "Constraint", m.Constraint.Validate())
	return errs
}

// AllowTransfersMsg allows registered rules to move the sender's tokens
// once.
type AllowTransfersMsg struct {
	TokenRules weave.Address
}

func (AllowTransfersMsg) Path() string { return pathAllowTransfersMsg }

func (m *AllowTransfersMsg) Target() weave.Address { return m.TokenRules }

func (m *AllowTransfersMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *AllowTransfersMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *AllowTransfersMsg) Validate() error {
	return errors.AppendField(nil, "TokenRules", m.TokenRules.Validate())
}

// DisallowTransfersMsg withdraws the consent of the sender.
type DisallowTransfersMsg struct {
	TokenRules weave.Address
}

func (DisallowTransfersMsg) Path() string { return pathDisallowTransfersMsg }

func (m *DisallowTransfersMsg) Target() weave.Address { return m.TokenRules }

func (m *DisallowTransfersMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *DisallowTransfersMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *DisallowTransfersMsg) Validate() error {
	return errors.AppendField(nil, "TokenRules", m.TokenRules.Validate())
}

// ExecuteTransfersMsg is sent by a registered rule to move the tokens of
// From to every recipient.
type ExecuteTransfersMsg struct {
	TokenRules      weave.Address
	From            weave.Address
	TransfersTo     []weave.Address
	TransfersAmount []uint64
}

func (ExecuteTransfersMsg) Path() string { return pathExecuteTransfersMsg }

func (m *ExecuteTransfersMsg) Target() weave.Address { return m.TokenRules }

func (m *ExecuteTransfersMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ExecuteTransfersMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ExecuteTransfersMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	return errors.Append(errs, validateTransfers(m.TransfersTo, m.TransfersAmount))
}

// DirectTransfersMsg moves the tokens of the sender, with the token rules
// contract as the spender.
type DirectTransfersMsg struct {
	TokenRules      weave.Address
	TransfersTo     []weave.Address
	TransfersAmount []uint64
}

func (DirectTransfersMsg) Path() string { return pathDirectTransfersMsg }

func (m *DirectTransfersMsg) Target() weave.Address { return m.TokenRules }

func (m *DirectTransfersMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *DirectTransfersMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *DirectTransfersMsg) Validate() error {
	errs := errors.AppendField(nil, "TokenRules", m.TokenRules.Validate())
	return errors.Append(errs, validateTransfers(m.TransfersTo, m.TransfersAmount))
}

// CheckGlobalConstraintsMsg asks whether the transfers are accepted by all
// global constraints. The answer is returned as result data, 1 if accepted
// and 0 otherwise.
type CheckGlobalConstraintsMsg struct {
	TokenRules      weave.Address
	From            weave.Address
	TransfersTo     []weave.Address
	TransfersAmount []uint64
}

func (CheckGlobalConstraintsMsg) Path() string { return pathCheckGlobalConstraintsMsg }

func (m *CheckGlobalConstraintsMsg) Target() weave.Address { return m.TokenRules }

func (m *CheckGlobalConstraintsMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *CheckGlobalConstraintsMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *CheckGlobalConstraintsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	return errors.Append(errs, validateTransfers(m.TransfersTo, m.TransfersAmount))
}
