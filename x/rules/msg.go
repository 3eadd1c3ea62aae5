package rules

import (
	"fmt"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateTransferRuleMsg   = "transfer_rule/create"
	pathTransferFromMsg         = "transfer_rule/transfer_from"
	pathCreatePricerRuleMsg     = "pricer_rule/create"
	pathSetPricePointMsg        = "pricer_rule/set_price_point"
	pathRemovePricePointMsg     = "pricer_rule/remove_price_point"
	pathSetAcceptanceMarginMsg  = "pricer_rule/set_acceptance_margin"
	pathPayMsg                  = "pricer_rule/pay"
	pathCreateCreditRuleMsg     = "credit_rule/create"
	pathGrantCreditMsg          = "credit_rule/grant_credit"
	pathCreditTransfersMsg      = "credit_rule/execute_transfers"
	pathCreateFirewalledRuleMsg = "firewalled_rule/create"
	pathSetFirewallMsg          = "firewalled_rule/set_firewall"
	pathFirewalledTransferMsg   = "firewalled_rule/transfer_from"
)

func init() {
	weave.RegisterMsg(&CreateTransferRuleMsg{}, pathCreateTransferRuleMsg)
	weave.RegisterMsg(&TransferFromMsg{}, pathTransferFromMsg)
	weave.RegisterMsg(&CreatePricerRuleMsg{}, pathCreatePricerRuleMsg)
	weave.RegisterMsg(&SetPricePointMsg{}, pathSetPricePointMsg)
	weave.RegisterMsg(&RemovePricePointMsg{}, pathRemovePricePointMsg)
	weave.RegisterMsg(&SetAcceptanceMarginMsg{}, pathSetAcceptanceMarginMsg)
	weave.RegisterMsg(&PayMsg{}, pathPayMsg)
	weave.RegisterMsg(&CreateCreditRuleMsg{}, pathCreateCreditRuleMsg)
	weave.RegisterMsg(&GrantCreditMsg{}, pathGrantCreditMsg)
	weave.RegisterMsg(&CreditTransfersMsg{}, pathCreditTransfersMsg)
	weave.RegisterMsg(&CreateFirewalledRuleMsg{}, pathCreateFirewalledRuleMsg)
	weave.RegisterMsg(&SetFirewallMsg{}, pathSetFirewallMsg)
	weave.RegisterMsg(&FirewalledTransferMsg{}, pathFirewalledTransferMsg)
}

func validateTransfers(to []weave.Address, amounts []uint64) error {
	if len(to) != len(amounts) {
		return errors.Field("Amounts", errors.ErrInput, "'to' and 'amount' arrays' lengths are not equal.")
	}
	var errs error
	for i, a := range to {
		errs = errors.AppendField(errs, fmt.Sprintf("To.%d", i), a.Validate())
	}
	return errs
}

// CreateTransferRuleMsg creates a transfer rule for the token rules.
type CreateTransferRuleMsg struct {
	TokenRules weave.Address
}

func (CreateTransferRuleMsg) Path() string { return pathCreateTransferRuleMsg }

func (m *CreateTransferRuleMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *CreateTransferRuleMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *CreateTransferRuleMsg) Validate() error {
	return errors.AppendField(nil, "TokenRules", m.TokenRules.Validate())
}

// TransferFromMsg transfers the amount from one holder to a recipient.
type TransferFromMsg struct {
	Rule   weave.Address
	From   weave.Address
	To     weave.Address
	Amount uint64
}

func (TransferFromMsg) Path() string { return pathTransferFromMsg }

func (m *TransferFromMsg) Target() weave.Address { return m.Rule }

func (m *TransferFromMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *TransferFromMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *TransferFromMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	return errs
}

// CreatePricerRuleMsg creates a pricer rule. The number of decimals of the
// token is read from the token.
type CreatePricerRuleMsg struct {
	Organization                weave.Address
	TokenRules                  weave.Address
	BaseCurrency                string
	ConversionRate              uint64
	ConversionRateDecimals      uint32
	RequiredPriceOracleDecimals uint32
}

func (CreatePricerRuleMsg) Path() string { return pathCreatePricerRuleMsg }

func (m *CreatePricerRuleMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *CreatePricerRuleMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *CreatePricerRuleMsg) Validate() error {
	r := PricerRule{
		Organization:                m.Organization,
		TokenRules:                  m.TokenRules,
		BaseCurrency:                m.BaseCurrency,
		ConversionRate:              m.ConversionRate,
		ConversionRateDecimals:      m.ConversionRateDecimals,
		RequiredPriceOracleDecimals: m.RequiredPriceOracleDecimals,
	}
	return r.Validate()
}

// SetPricePointMsg sets the price of the base currency in the quote
// currency, valid until the expiration height.
type SetPricePointMsg struct {
	Rule             weave.Address
	QuoteCurrency    string
	Price            uint64
	Decimals         uint32
	ExpirationHeight int64
}

func (SetPricePointMsg) Path() string { return pathSetPricePointMsg }

func (m *SetPricePointMsg) Target() weave.Address { return m.Rule }

func (m *SetPricePointMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SetPricePointMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SetPricePointMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "QuoteCurrency", validateCurrency(m.QuoteCurrency))
	if m.Price == 0 {
		errs = errors.AppendField(errs, "Price", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Decimals", validateDecimals(m.Decimals))
	return errs
}

// RemovePricePointMsg removes the price of the quote currency. Payments in
// this currency are not possible until a new price is set.
type RemovePricePointMsg struct {
	Rule          weave.Address
	QuoteCurrency string
}

func (RemovePricePointMsg) Path() string { return pathRemovePricePointMsg }

func (m *RemovePricePointMsg) Target() weave.Address { return m.Rule }

func (m *RemovePricePointMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *RemovePricePointMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *RemovePricePointMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "QuoteCurrency", validateCurrency(m.QuoteCurrency))
	return errs
}

// SetAcceptanceMarginMsg sets how far the price intended by a payer can be
// from the current price.
type SetAcceptanceMarginMsg struct {
	Rule          weave.Address
	QuoteCurrency string
	Margin        uint64
}

func (SetAcceptanceMarginMsg) Path() string { return pathSetAcceptanceMarginMsg }

func (m *SetAcceptanceMarginMsg) Target() weave.Address { return m.Rule }

func (m *SetAcceptanceMarginMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *SetAcceptanceMarginMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *SetAcceptanceMarginMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "QuoteCurrency", validateCurrency(m.QuoteCurrency))
	return errs
}

// PayMsg pays amounts expressed in the quote currency. The payer states
// the price it expects, which must be within the acceptance margin.
type PayMsg struct {
	Rule               weave.Address
	From               weave.Address
	To                 []weave.Address
	Amounts            []uint64
	Currency           string
	IntendedPricePoint uint64
}

func (PayMsg) Path() string { return pathPayMsg }

func (m *PayMsg) Target() weave.Address { return m.Rule }

func (m *PayMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *PayMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *PayMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.Append(errs, validateTransfers(m.To, m.Amounts))
	errs = errors.AppendField(errs, "Currency", validateCurrency(m.Currency))
	return errs
}

// CreateCreditRuleMsg creates a credit rule funded by the budget holder.
type CreateCreditRuleMsg struct {
	TokenRules   weave.Address
	BudgetHolder weave.Address
}

func (CreateCreditRuleMsg) Path() string { return pathCreateCreditRuleMsg }

func (m *CreateCreditRuleMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateCreditRuleMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateCreditRuleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	errs = errors.AppendField(errs, "BudgetHolder", m.BudgetHolder.Validate())
	return errs
}

// GrantCreditMsg sets the credit of the beneficiary. Only the budget
// holder can send it.
type GrantCreditMsg struct {
	Rule        weave.Address
	Beneficiary weave.Address
	Amount      uint64
}

func (GrantCreditMsg) Path() string { return pathGrantCreditMsg }

func (m *GrantCreditMsg) Target() weave.Address { return m.Rule }

func (m *GrantCreditMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *GrantCreditMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *GrantCreditMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	return errs
}

// CreditTransfersMsg is sent by a beneficiary to pay the transfers from
// its credit.
type CreditTransfersMsg struct {
	Rule    weave.Address
	To      []weave.Address
	Amounts []uint64
}

func (CreditTransfersMsg) Path() string { return pathCreditTransfersMsg }

func (m *CreditTransfersMsg) Target() weave.Address { return m.Rule }

func (m *CreditTransfersMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreditTransfersMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreditTransfersMsg) Validate() error {
	errs := errors.AppendField(nil, "Rule", m.Rule.Validate())
	return errors.Append(errs, validateTransfers(m.To, m.Amounts))
}

// CreateFirewalledRuleMsg creates a firewalled transfer rule whose allow
// list is managed by the workers of the organization.
type CreateFirewalledRuleMsg struct {
	Organization weave.Address
	TokenRules   weave.Address
}

func (CreateFirewalledRuleMsg) Path() string { return pathCreateFirewalledRuleMsg }

func (m *CreateFirewalledRuleMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *CreateFirewalledRuleMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *CreateFirewalledRuleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", m.Organization.Validate())
	errs = errors.AppendField(errs, "TokenRules", m.TokenRules.Validate())
	return errs
}

// SetFirewallMsg adds or removes a sender from the allow list.
type SetFirewallMsg struct {
	Rule    weave.Address
	Sender  weave.Address
	Allowed bool
}

func (SetFirewallMsg) Path() string { return pathSetFirewallMsg }

func (m *SetFirewallMsg) Target() weave.Address { return m.Rule }

func (m *SetFirewallMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SetFirewallMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SetFirewallMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	return errs
}

// FirewalledTransferMsg transfers the amount when the sender is allowed.
type FirewalledTransferMsg struct {
	Rule   weave.Address
	From   weave.Address
	To     weave.Address
	Amount uint64
}

func (FirewalledTransferMsg) Path() string { return pathFirewalledTransferMsg }

func (m *FirewalledTransferMsg) Target() weave.Address { return m.Rule }

func (m *FirewalledTransferMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *FirewalledTransferMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *FirewalledTransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rule", m.Rule.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	return errs
}
