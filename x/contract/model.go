package contract

import (
	"regexp"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

const bucketName = "contract"

var isKind = regexp.MustCompile(`^[a-z_]{3,24}$`).MatchString

// Contract is the registry entry of a deployed instance.
type Contract struct {
	Kind string
}

var _ orm.Model = (*Contract)(nil)

func (c *Contract) Marshal() ([]byte, error) {
	return weave.MarshalBinary(c)
}

func (c *Contract) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, c)
}

func (c *Contract) Validate() error {
	if !isKind(c.Kind) {
		return errors.Field("Kind", errors.ErrInput, "invalid contract kind")
	}
	return nil
}

// Bucket stores all contract instances by their address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for the contract registry.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(bucketName, &Contract{}),
	}
}

// Address returns the address of the n-th instance of the given kind.
func Address(kind string, n int64) weave.Address {
	return weave.NewCondition(kind, "contract", orm.EncodeSequence(n)).Address()
}

// Create allocates the address of a new instance of the given kind and
// registers it.
func Create(db weave.KVStore, kind string) (weave.Address, error) {
	if !isKind(kind) {
		return nil, errors.Wrapf(errors.ErrInput, "contract kind %q", kind)
	}
	seq := orm.NewSequence(bucketName, kind)
	addr := Address(kind, seq.NextInt(db))
	b := NewBucket()
	if b.Has(db, addr) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "contract %s", addr)
	}
	if err := b.Put(db, addr, &Contract{Kind: kind}); err != nil {
		return nil, errors.Wrap(err, "register contract")
	}
	return addr, nil
}

// KindOf returns the kind of a registered contract. ErrNotFound is returned
// if the address does not belong to a contract.
func KindOf(db weave.ReadOnlyKVStore, addr weave.Address) (string, error) {
	var c Contract
	if err := NewBucket().One(db, addr, &c); err != nil {
		return "", errors.Wrapf(err, "contract %s", addr)
	}
	return c.Kind, nil
}

// IsContract returns true if the address belongs to a registered contract.
func IsContract(db weave.ReadOnlyKVStore, addr weave.Address) bool {
	return len(addr) != 0 && NewBucket().Has(db, addr)
}

// IsKind returns true if the address is a registered contract of the kind.
func IsKind(db weave.ReadOnlyKVStore, addr weave.Address, kind string) bool {
	k, err := KindOf(db, addr)
	return err == nil && k == kind
}
