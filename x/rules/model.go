package rules

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Contract kinds of the rules.
const (
	TransferKind   = "transfer_rule"
	PricerKind     = "pricer_rule"
	CreditKind     = "credit_rule"
	FirewalledKind = "firewalled_rule"
)

// TransferRule moves tokens through token rules.
type TransferRule struct {
	TokenRules weave.Address
}

var _ orm.Model = (*TransferRule)(nil)

func (r *TransferRule) Marshal() ([]byte, error)   { return weave.MarshalBinary(r) }
func (r *TransferRule) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, r) }

func (r *TransferRule) Validate() error {
	return errors.AppendField(nil, "TokenRules", r.TokenRules.Validate())
}

// PricerRule converts amounts of a quote currency into tokens using the
// price of the base currency.
type PricerRule struct {
	Organization weave.Address
	TokenRules   weave.Address
	BaseCurrency string
	// ConversionRate is the number of tokens for one unit of the base
	// currency, with ConversionRateDecimals decimals.
	ConversionRate              uint64
	ConversionRateDecimals      uint32
	RequiredPriceOracleDecimals uint32
	TokenDecimals               uint32
}

var _ orm.Model = (*PricerRule)(nil)

func (r *PricerRule) Marshal() ([]byte, error)   { return weave.MarshalBinary(r) }
func (r *PricerRule) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, r) }

func (r *PricerRule) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", r.Organization.Validate())
	errs = errors.AppendField(errs, "TokenRules", r.TokenRules.Validate())
	errs = errors.AppendField(errs, "BaseCurrency", validateCurrency(r.BaseCurrency))
	if r.ConversionRate == 0 {
		errs = errors.Append(errs, errors.Field("ConversionRate", errors.ErrInput, "Conversion rate from the base currency to the token is 0."))
	}
	errs = errors.AppendField(errs, "ConversionRateDecimals", validateDecimals(r.ConversionRateDecimals))
	errs = errors.AppendField(errs, "RequiredPriceOracleDecimals", validateDecimals(r.RequiredPriceOracleDecimals))
	errs = errors.AppendField(errs, "TokenDecimals", validateDecimals(r.TokenDecimals))
	return errs
}

// QuoteCurrency is the pricing state of a currency payments can be made
// in. The price is the value of one unit of the base currency.
type QuoteCurrency struct {
	Price            uint64
	Decimals         uint32
	ExpirationHeight int64
	AcceptanceMargin uint64
}

var _ orm.Model = (*QuoteCurrency)(nil)

func (q *QuoteCurrency) Marshal() ([]byte, error)   { return weave.MarshalBinary(q) }
func (q *QuoteCurrency) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, q) }

func (q *QuoteCurrency) Validate() error {
	return errors.AppendField(nil, "Decimals", validateDecimals(q.Decimals))
}

// CreditRule pays transfers of a beneficiary with the credit granted by
// the budget holder.
type CreditRule struct {
	TokenRules   weave.Address
	BudgetHolder weave.Address
}

var _ orm.Model = (*CreditRule)(nil)

func (r *CreditRule) Marshal() ([]byte, error)   { return weave.MarshalBinary(r) }
func (r *CreditRule) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, r) }

func (r *CreditRule) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", r.TokenRules.Validate())
	errs = errors.AppendField(errs, "BudgetHolder", r.BudgetHolder.Validate())
	return errs
}

// Credit is the remaining credit of a beneficiary.
type Credit struct {
	Amount uint64
}

var _ orm.Model = (*Credit)(nil)

func (c *Credit) Marshal() ([]byte, error)   { return weave.MarshalBinary(c) }
func (c *Credit) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, c) }
func (c *Credit) Validate() error            { return nil }

// FirewalledRule is a transfer rule that only listed senders can use.
type FirewalledRule struct {
	Organization weave.Address
	TokenRules   weave.Address
}

var _ orm.Model = (*FirewalledRule)(nil)

func (r *FirewalledRule) Marshal() ([]byte, error)   { return weave.MarshalBinary(r) }
func (r *FirewalledRule) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, r) }

func (r *FirewalledRule) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", r.Organization.Validate())
	errs = errors.AppendField(errs, "TokenRules", r.TokenRules.Validate())
	return errs
}

// FirewallEntry marks a sender allowed to use a firewalled rule.
type FirewallEntry struct {
	Height int64
}

var _ orm.Model = (*FirewallEntry)(nil)

func (e *FirewallEntry) Marshal() ([]byte, error)   { return weave.MarshalBinary(e) }
func (e *FirewallEntry) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, e) }
func (e *FirewallEntry) Validate() error            { return nil }

type buckets struct {
	transfer   orm.ModelBucket
	pricer     orm.ModelBucket
	currencies orm.ModelBucket
	credit     orm.ModelBucket
	credits    orm.ModelBucket
	firewalled orm.ModelBucket
	firewall   orm.ModelBucket
}

func newBuckets() buckets {
	return buckets{
		transfer:   orm.NewModelBucket("transfer_rule", &TransferRule{}),
		pricer:     orm.NewModelBucket("pricer_rule", &PricerRule{}),
		currencies: orm.NewModelBucket("pricer_currency", &QuoteCurrency{}),
		credit:     orm.NewModelBucket("credit_rule", &CreditRule{}),
		credits:    orm.NewModelBucket("credit", &Credit{}),
		firewalled: orm.NewModelBucket("firewalled_rule", &FirewalledRule{}),
		firewall:   orm.NewModelBucket("firewall", &FirewallEntry{}),
	}
}

func currencyKey(rule weave.Address, code string) []byte {
	return orm.CompositeKey(rule, []byte(code))
}
