package organization

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of organization instances.
const Kind = "organization"

// Organization is the state of a single organization contract.
type Organization struct {
	Owner         weave.Address
	ProposedOwner weave.Address
	Admin         weave.Address
	Workers       []Worker
}

// Worker is an address allowed to act for the organization until the
// expiration height.
type Worker struct {
	Address          weave.Address
	ExpirationHeight int64
}

var _ orm.Model = (*Organization)(nil)

func (o *Organization) Marshal() ([]byte, error) {
	return weave.MarshalBinary(o)
}

func (o *Organization) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, o)
}

func (o *Organization) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", o.Owner.Validate())
	if len(o.ProposedOwner) != 0 {
		errs = errors.AppendField(errs, "ProposedOwner", o.ProposedOwner.Validate())
	}
	if len(o.Admin) != 0 {
		errs = errors.AppendField(errs, "Admin", o.Admin.Validate())
	}
	for i, w := range o.Workers {
		errs = errors.AppendField(errs, fieldIndex("Workers", i), w.Address.Validate())
	}
	return errs
}

// IsOwnerOrAdmin returns true if the address is the owner or the admin.
func (o *Organization) IsOwnerOrAdmin(addr weave.Address) bool {
	if o.Owner.Equals(addr) {
		return true
	}
	return len(o.Admin) != 0 && o.Admin.Equals(addr)
}

// worker returns the index of the worker, or -1.
func (o *Organization) worker(addr weave.Address) int {
	for i, w := range o.Workers {
		if w.Address.Equals(addr) {
			return i
		}
	}
	return -1
}

// Bucket stores organizations by their contract address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for organizations.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket("organization", &Organization{}),
	}
}

// GetOrganization loads the organization stored under the address.
func (b Bucket) GetOrganization(db weave.ReadOnlyKVStore, addr weave.Address) (*Organization, error) {
	var org Organization
	if err := b.One(db, addr, &org); err != nil {
		return nil, errors.Wrapf(err, "organization %s", addr)
	}
	return &org, nil
}
