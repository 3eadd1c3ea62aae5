package tokenrules

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of token rules instances.
const Kind = "tokenrules"

// TokenRules is the state of a token rules contract. Constraints are kept
// in the order they were added.
type TokenRules struct {
	Organization      weave.Address
	Token             weave.Address
	Rules             []weave.Address
	GlobalConstraints []weave.Address
}

var _ orm.Model = (*TokenRules)(nil)

func (t *TokenRules) Marshal() ([]byte, error) {
	return weave.MarshalBinary(t)
}

func (t *TokenRules) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, t)
}

func (t *TokenRules) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", t.Organization.Validate())
	errs = errors.AppendField(errs, "Token", t.Token.Validate())
	return errs
}

func (t *TokenRules) constraint(addr weave.Address) int {
	for i, c := range t.GlobalConstraints {
		if c.Equals(addr) {
			return i
		}
	}
	return -1
}

// Rule is a contract allowed to execute transfers.
type Rule struct {
	TokenRules weave.Address
	Name       string
	Address    weave.Address
	Abi        string
}

var _ orm.Model = (*Rule)(nil)

func (r *Rule) Marshal() ([]byte, error) {
	return weave.MarshalBinary(r)
}

func (r *Rule) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, r)
}

func (r *Rule) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", r.TokenRules.Validate())
	if r.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Address", r.Address.Validate())
	if r.Abi == "" {
		errs = errors.AppendField(errs, "Abi", errors.ErrEmpty)
	}
	return errs
}

// TransferConsent marks a holder that allowed the next transfer batch.
type TransferConsent struct {
	Height int64
}

var _ orm.Model = (*TransferConsent)(nil)

func (c *TransferConsent) Marshal() ([]byte, error) {
	return weave.MarshalBinary(c)
}

func (c *TransferConsent) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, c)
}

func (c *TransferConsent) Validate() error {
	return nil
}

const ruleNameIndex = "tokenrules_rulename"

// NewBucket returns a bucket for token rules contracts.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokenrules", &TokenRules{})
}

// NewRuleBucket returns a bucket of rules keyed by token rules and rule
// address. Names are unique within a token rules instance.
func NewRuleBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokenrules_rule", &Rule{},
		orm.WithIndex(ruleNameIndex, ruleNameIndexer))
}

func ruleNameIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	r, ok := obj.Value().(*Rule)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return nameKey(r.TokenRules, r.Name), nil
}

func nameKey(tokenRules weave.Address, name string) []byte {
	return orm.CompositeKey(tokenRules, crypto.Keccak256([]byte(name)))
}

// NewConsentBucket returns a bucket of transfer consents keyed by token
// rules and holder address.
func NewConsentBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokenrules_allow", &TransferConsent{})
}
