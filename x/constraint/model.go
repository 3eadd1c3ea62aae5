package constraint

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of constraint instances.
const Kind = "constraint"

const (
	// TypeCap rejects any transfer above the limit.
	TypeCap = "cap"
	// TypeRecipients rejects transfers to addresses not on the list.
	TypeRecipients = "recipients"
)

// Constraint is the state of a constraint contract.
type Constraint struct {
	Owner      weave.Address
	Type       string
	Limit      uint64
	Recipients []weave.Address
}

var _ orm.Model = (*Constraint)(nil)

func (c *Constraint) Marshal() ([]byte, error) {
	return weave.MarshalBinary(c)
}

func (c *Constraint) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, c)
}

func (c *Constraint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "Type", validateType(c.Type))
	for i, r := range c.Recipients {
		errs = errors.AppendField(errs, fieldIndex("Recipients", i), r.Validate())
	}
	return errs
}

func validateType(typ string) error {
	switch typ {
	case TypeCap, TypeRecipients:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown type %q", typ)
}

// Allows returns true if all transfers satisfy the constraint.
func (c *Constraint) Allows(from weave.Address, to []weave.Address, amounts []uint64) bool {
	if len(to) != len(amounts) {
		return false
	}
	switch c.Type {
	case TypeCap:
		for _, a := range amounts {
			if a > c.Limit {
				return false
			}
		}
		return true
	case TypeRecipients:
		for _, r := range to {
			if c.recipient(r) < 0 {
				return false
			}
		}
		return true
	}
	return false
}

func (c *Constraint) recipient(addr weave.Address) int {
	for i, r := range c.Recipients {
		if r.Equals(addr) {
			return i
		}
	}
	return -1
}

// NewBucket returns a bucket for constraint contracts.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("constraint", &Constraint{})
}
