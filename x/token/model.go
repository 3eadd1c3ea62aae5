package token

import (
	"regexp"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of token instances.
const Kind = "token"

var isSymbol = regexp.MustCompile(`^[A-Z0-9]{2,8}$`).MatchString

// Token is the state of a single token contract.
type Token struct {
	Organization weave.Address
	CoGateway    weave.Address
	Symbol       string
	Name         string
	Decimals     uint32
	TotalSupply  uint64
}

var _ orm.Model = (*Token)(nil)

func (t *Token) Marshal() ([]byte, error) {
	return weave.MarshalBinary(t)
}

func (t *Token) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, t)
}

func (t *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", t.Organization.Validate())
	if len(t.CoGateway) != 0 {
		errs = errors.AppendField(errs, "CoGateway", t.CoGateway.Validate())
	}
	if !isSymbol(t.Symbol) {
		errs = errors.AppendField(errs, "Symbol", errors.ErrInput)
	}
	if t.Decimals > 18 {
		errs = errors.AppendField(errs, "Decimals", errors.ErrInput)
	}
	return errs
}

// Amount is the balance of a holder or the allowance of a spender.
type Amount struct {
	Value uint64
}

var _ orm.Model = (*Amount)(nil)

func (a *Amount) Marshal() ([]byte, error) {
	return weave.MarshalBinary(a)
}

func (a *Amount) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, a)
}

func (a *Amount) Validate() error {
	return nil
}

// NewBucket returns a bucket for token contracts.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &Token{})
}

// NewBalanceBucket returns a bucket for balances. Balances are keyed by
// token and holder address.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("balance", &Amount{})
}

// NewAllowanceBucket returns a bucket for allowances. Allowances are keyed
// by token, holder and spender address.
func NewAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("allowance", &Amount{})
}

// loadAmount returns zero for missing entries.
func loadAmount(db weave.ReadOnlyKVStore, b orm.ModelBucket, key []byte) uint64 {
	var a Amount
	if err := b.One(db, key, &a); err != nil {
		return 0
	}
	return a.Value
}

// saveAmount deletes zero entries.
func saveAmount(db weave.KVStore, b orm.ModelBucket, key []byte, value uint64) error {
	if value == 0 {
		if b.Has(db, key) {
			return b.Delete(db, key)
		}
		return nil
	}
	return b.Put(db, key, &Amount{Value: value})
}
