package constraint

import (
	"fmt"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg          = "constraint/create"
	pathSetLimitMsg        = "constraint/set_limit"
	pathAddRecipientMsg    = "constraint/add_recipient"
	pathRemoveRecipientMsg = "constraint/remove_recipient"
	pathCheckMsg           = "constraint/check"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&SetLimitMsg{}, pathSetLimitMsg)
	weave.RegisterMsg(&AddRecipientMsg{}, pathAddRecipientMsg)
	weave.RegisterMsg(&RemoveRecipientMsg{}, pathRemoveRecipientMsg)
	weave.RegisterMsg(&CheckMsg{}, pathCheckMsg)
}

func fieldIndex(name string, i int) string {
	return fmt.Sprintf("%s.%d", name, i)
}

// CreateMsg creates a constraint owned by the signer.
type CreateMsg struct {
	Type       string
	Limit      uint64
	Recipients []weave.Address
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Type", validateType(m.Type))
	for i, r := range m.Recipients {
		errs = errors.AppendField(errs, fieldIndex("Recipients", i), r.Validate())
	}
	return errs
}

// SetLimitMsg changes the limit of a cap constraint.
type SetLimitMsg struct {
	Constraint weave.Address
	Limit      uint64
}

func (SetLimitMsg) Path() string { return pathSetLimitMsg }

func (m *SetLimitMsg) Target() weave.Address { return m.Constraint }

func (m *SetLimitMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SetLimitMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SetLimitMsg) Validate() error {
	return errors.AppendField(nil, "Constraint", m.Constraint.Validate())
}

// AddRecipientMsg allows transfers to the recipient.
type AddRecipientMsg struct {
	Constraint weave.Address
	Recipient  weave.Address
}

func (AddRecipientMsg) Path() string { return pathAddRecipientMsg }

func (m *AddRecipientMsg) Target() weave.Address { return m.Constraint }

func (m *AddRecipientMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *AddRecipientMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *AddRecipientMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Constraint", m.Constraint.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	return errs
}

// RemoveRecipientMsg disallows transfers to the recipient.
type RemoveRecipientMsg struct {
	Constraint weave.Address
	Recipient  weave.Address
}

func (RemoveRecipientMsg) Path() string { return pathRemoveRecipientMsg }

func (m *RemoveRecipientMsg) Target() weave.Address { return m.Constraint }

func (m *RemoveRecipientMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RemoveRecipientMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RemoveRecipientMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Constraint", m.Constraint.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	return errs
}

// CheckMsg asks the constraint about a batch of transfers. The answer is
// returned as result data, a single byte set to 1 when the transfers are
// accepted and to 0 otherwise.
type CheckMsg struct {
	Constraint weave.Address
	From       weave.Address
	To         []weave.Address
	Amounts    []uint64
}

func (CheckMsg) Path() string { return pathCheckMsg }

func (m *CheckMsg) Target() weave.Address { return m.Constraint }

func (m *CheckMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CheckMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CheckMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Constraint", m.Constraint.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	if len(m.To) != len(m.Amounts) {
		errs = errors.AppendField(errs, "Amounts", errors.Wrap(errors.ErrInput, "length differs from recipients"))
	}
	return errs
}
