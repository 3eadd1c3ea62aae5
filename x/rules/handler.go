package rules

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/organization"
	"github.com/openst/openst-weave/x/token"
	"github.com/openst/openst-weave/x/tokenrules"
)

// Deps are the contracts rules work with.
type Deps struct {
	Caller       contract.Caller
	TokenRules   tokenrules.Controller
	Tokens       token.Controller
	Organization organization.Controller
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, deps Deps) {
	b := newBuckets()
	r.Handle(pathCreateTransferRuleMsg, CreateHandler{auth: auth, deps: deps, b: b})
	r.Handle(pathCreatePricerRuleMsg, CreateHandler{auth: auth, deps: deps, b: b})
	r.Handle(pathCreateCreditRuleMsg, CreateHandler{auth: auth, deps: deps, b: b})
	r.Handle(pathCreateFirewalledRuleMsg, CreateHandler{auth: auth, deps: deps, b: b})

	r.Handle(pathTransferFromMsg, TransferFromHandler{deps: deps, b: b})

	pricer := PricerAdminHandler{auth: auth, deps: deps, b: b}
	r.Handle(pathSetPricePointMsg, pricer)
	r.Handle(pathRemovePricePointMsg, pricer)
	r.Handle(pathSetAcceptanceMarginMsg, pricer)
	r.Handle(pathPayMsg, PayHandler{deps: deps, b: b})

	r.Handle(pathGrantCreditMsg, GrantCreditHandler{auth: auth, b: b})
	r.Handle(pathCreditTransfersMsg, CreditTransfersHandler{auth: auth, deps: deps, b: b})

	r.Handle(pathSetFirewallMsg, SetFirewallHandler{auth: auth, deps: deps, b: b})
	r.Handle(pathFirewalledTransferMsg, FirewalledTransferHandler{auth: auth, deps: deps, b: b})
}

// executeTransfers asks token rules to move the tokens with the rule as
// the spender.
func executeTransfers(ctx weave.Context, db weave.KVStore, caller contract.Caller, rule, tokenRules, from weave.Address, to []weave.Address, amounts []uint64) (*weave.DeliverResult, error) {
	return caller.Invoke(ctx, db, rule, &tokenrules.ExecuteTransfersMsg{
		TokenRules:      tokenRules,
		From:            from,
		TransfersTo:     to,
		TransfersAmount: amounts,
	})
}

// CreateHandler creates any of the rules.
type CreateHandler struct {
	auth x.Authenticator
	deps Deps
	b    buckets
}

var _ weave.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	kind, bucket, model, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := contract.Create(db, kind)
	if err != nil {
		return nil, err
	}
	if err := bucket.Put(db, addr, model); err != nil {
		return nil, errors.Wrap(err, "cannot store rule")
	}
	return &weave.DeliverResult{Data: addr}, nil
}

func (h CreateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (string, orm.ModelBucket, orm.Model, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return "", nil, nil, errors.Wrap(err, "invalid message")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return "", nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	switch m := msg.(type) {
	case *CreateTransferRuleMsg:
		if _, err := h.deps.TokenRules.TokenRules(db, m.TokenRules); err != nil {
			return "", nil, nil, err
		}
		return TransferKind, h.b.transfer, &TransferRule{TokenRules: m.TokenRules}, nil
	case *CreatePricerRuleMsg:
		tr, err := h.deps.TokenRules.TokenRules(db, m.TokenRules)
		if err != nil {
			return "", nil, nil, err
		}
		t, err := h.deps.Tokens.Token(db, tr.Token)
		if err != nil {
			return "", nil, nil, err
		}
		if !contract.IsKind(db, m.Organization, organization.Kind) {
			return "", nil, nil, errors.Wrap(errors.ErrNotFound, "organization")
		}
		return PricerKind, h.b.pricer, &PricerRule{
			Organization:                m.Organization,
			TokenRules:                  m.TokenRules,
			BaseCurrency:                m.BaseCurrency,
			ConversionRate:              m.ConversionRate,
			ConversionRateDecimals:      m.ConversionRateDecimals,
			RequiredPriceOracleDecimals: m.RequiredPriceOracleDecimals,
			TokenDecimals:               t.Decimals,
		}, nil
	case *CreateCreditRuleMsg:
		if _, err := h.deps.TokenRules.TokenRules(db, m.TokenRules); err != nil {
			return "", nil, nil, err
		}
		return CreditKind, h.b.credit, &CreditRule{TokenRules: m.TokenRules, BudgetHolder: m.BudgetHolder}, nil
	case *CreateFirewalledRuleMsg:
		if _, err := h.deps.TokenRules.TokenRules(db, m.TokenRules); err != nil {
			return "", nil, nil, err
		}
		if !contract.IsKind(db, m.Organization, organization.Kind) {
			return "", nil, nil, errors.Wrap(errors.ErrNotFound, "organization")
		}
		return FirewalledKind, h.b.firewalled, &FirewalledRule{Organization: m.Organization, TokenRules: m.TokenRules}, nil
	}
	return "", nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
}

// TransferFromHandler executes a single transfer through a transfer rule.
type TransferFromHandler struct {
	deps Deps
	b    buckets
}

var _ weave.Handler = TransferFromHandler{}

func (h TransferFromHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h TransferFromHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, rule, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	return executeTransfers(ctx, db, h.deps.Caller, msg.Rule, rule.TokenRules, msg.From,
		[]weave.Address{msg.To}, []uint64{msg.Amount})
}

func (h TransferFromHandler) validate(db weave.KVStore, tx weave.Tx) (*TransferFromMsg, *TransferRule, error) {
	var msg TransferFromMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var rule TransferRule
	if err := h.b.transfer.One(db, msg.Rule, &rule); err != nil {
		return nil, nil, errors.Wrapf(err, "rule %s", msg.Rule)
	}
	return &msg, &rule, nil
}

// PricerAdminHandler manages the quote currencies of a pricer rule. Price
// points are set by workers of the organization, acceptance margins by its
// owner or admin.
type PricerAdminHandler struct {
	auth x.Authenticator
	deps Deps
	b    buckets
}

var _ weave.Handler = PricerAdminHandler{}

func (h PricerAdminHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h PricerAdminHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	key, qc, res, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.currencies.Put(db, key, qc); err != nil {
		return nil, err
	}
	return res, nil
}

func (h PricerAdminHandler) apply(ctx weave.Context, db weave.KVStore, tx weave.Tx) ([]byte, *QuoteCurrency, *weave.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "invalid message")
	}
	cm, ok := msg.(contract.Msg)
	if !ok {
		return nil, nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	var rule PricerRule
	if err := h.b.pricer.One(db, cm.Target(), &rule); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "rule %s", cm.Target())
	}

	load := func(code string) ([]byte, *QuoteCurrency, error) {
		key := currencyKey(cm.Target(), code)
		var qc QuoteCurrency
		switch err := h.b.currencies.One(db, key, &qc); {
		case err == nil, errors.ErrNotFound.Is(err):
			return key, &qc, nil
		default:
			return nil, nil, err
		}
	}
	signers := h.auth.GetSigners(ctx)
	res := &weave.DeliverResult{}

	switch m := msg.(type) {
	case *SetPricePointMsg:
		if !anyWorker(ctx, db, h.deps.Organization, rule.Organization, signers) {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only whitelisted workers are allowed to call.")
		}
		if m.Decimals != rule.RequiredPriceOracleDecimals {
			return nil, nil, nil, errors.Wrap(errors.ErrInput, "Price oracle decimals number is different from the required one.")
		}
		if weave.IsExpired(ctx, m.ExpirationHeight) {
			return nil, nil, nil, errors.Wrap(errors.ErrExpired, "price point")
		}
		key, qc, err := load(m.QuoteCurrency)
		if err != nil {
			return nil, nil, nil, err
		}
		qc.Price = m.Price
		qc.Decimals = m.Decimals
		qc.ExpirationHeight = m.ExpirationHeight
		res.AddTag("PricePointSet", []byte(m.QuoteCurrency))
		return key, qc, res, nil
	case *RemovePricePointMsg:
		if !anyWorker(ctx, db, h.deps.Organization, rule.Organization, signers) {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only whitelisted workers are allowed to call.")
		}
		key, qc, err := load(m.QuoteCurrency)
		if err != nil {
			return nil, nil, nil, err
		}
		if qc.Price == 0 {
			return nil, nil, nil, errors.Wrap(errors.ErrNotFound, "Price point to remove does not exist.")
		}
		qc.Price = 0
		qc.ExpirationHeight = 0
		res.AddTag("PricePointRemoved", []byte(m.QuoteCurrency))
		return key, qc, res, nil
	case *SetAcceptanceMarginMsg:
		if !anyOrganization(db, h.deps.Organization, rule.Organization, signers) {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only organization is allowed to call.")
		}
		key, qc, err := load(m.QuoteCurrency)
		if err != nil {
			return nil, nil, nil, err
		}
		qc.AcceptanceMargin = m.Margin
		res.AddTag("AcceptanceMarginSet", []byte(m.QuoteCurrency))
		return key, qc, res, nil
	}
	return nil, nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
}

func anyWorker(ctx weave.Context, db weave.ReadOnlyKVStore, ctrl organization.Controller, org weave.Address, signers []weave.Address) bool {
	for _, s := range signers {
		if ctrl.IsWorker(ctx, db, org, s) {
			return true
		}
	}
	return false
}

func anyOrganization(db weave.ReadOnlyKVStore, ctrl organization.Controller, org weave.Address, signers []weave.Address) bool {
	for _, s := range signers {
		if ctrl.IsOrganization(db, org, s) {
			return true
		}
	}
	return false
}

// PayHandler converts the amounts with the current price point and
// transfers the tokens.
type PayHandler struct {
	deps Deps
	b    buckets
}

var _ weave.Handler = PayHandler{}

func (h PayHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h PayHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, rule, amounts, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if len(msg.To) == 0 {
		return &weave.DeliverResult{}, nil
	}
	return executeTransfers(ctx, db, h.deps.Caller, msg.Rule, rule.TokenRules, msg.From, msg.To, amounts)
}

func (h PayHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*PayMsg, *PricerRule, []uint64, error) {
	var msg PayMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	var rule PricerRule
	if err := h.b.pricer.One(db, msg.Rule, &rule); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "rule %s", msg.Rule)
	}
	if len(msg.To) == 0 {
		return &msg, &rule, nil, nil
	}

	var qc QuoteCurrency
	if err := h.b.currencies.One(db, currencyKey(msg.Rule, msg.Currency), &qc); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "price point for %s", msg.Currency)
	}
	if qc.Price == 0 {
		return nil, nil, nil, errors.Wrapf(errors.ErrNotFound, "price point for %s", msg.Currency)
	}
	if weave.IsExpired(ctx, qc.ExpirationHeight) {
		return nil, nil, nil, errors.Wrapf(errors.ErrExpired, "price point for %s", msg.Currency)
	}
	if !InRange(msg.IntendedPricePoint, qc.Price, qc.AcceptanceMargin) {
		return nil, nil, nil, errors.Wrap(errors.ErrInput, "Intended price point is out of range.")
	}

	amounts := make([]uint64, len(msg.Amounts))
	for i, a := range msg.Amounts {
		tokens, err := rule.ConvertToTokens(a, qc.Price)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "amount %d", i)
		}
		amounts[i] = tokens
	}
	return &msg, &rule, amounts, nil
}

// GrantCreditHandler sets the credit of a beneficiary.
type GrantCreditHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ weave.Handler = GrantCreditHandler{}

func (h GrantCreditHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h GrantCreditHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key := orm.CompositeKey(msg.Rule, msg.Beneficiary)
	if err := h.b.credits.Put(db, key, &Credit{Amount: msg.Amount}); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("CreditGranted", msg.Beneficiary)
	return res, nil
}

func (h GrantCreditHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*GrantCreditMsg, error) {
	var msg GrantCreditMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var rule CreditRule
	if err := h.b.credit.One(db, msg.Rule, &rule); err != nil {
		return nil, errors.Wrapf(err, "rule %s", msg.Rule)
	}
	if !h.auth.HasAddress(ctx, rule.BudgetHolder) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "Only budget holder is allowed to call.")
	}
	return &msg, nil
}

// CreditTransfersHandler funds the sender with its credit and executes its
// transfers.
type CreditTransfersHandler struct {
	auth x.Authenticator
	deps Deps
	b    buckets
}

var _ weave.Handler = CreditTransfersHandler{}

func (h CreditTransfersHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CreditTransfersHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, rule, beneficiary, total, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key := orm.CompositeKey(msg.Rule, beneficiary)
	var credit Credit
	if err := h.b.credits.One(db, key, &credit); err != nil {
		return nil, errors.Wrap(err, "credit")
	}
	credit.Amount -= total
	if err := h.b.credits.Put(db, key, &credit); err != nil {
		return nil, err
	}

	tr, err := h.deps.TokenRules.TokenRules(db, rule.TokenRules)
	if err != nil {
		return nil, err
	}
	if err := h.deps.Tokens.TransferFrom(db, tr.Token, msg.Rule, rule.BudgetHolder, beneficiary, total); err != nil {
		return nil, errors.Wrap(err, "credit transfer")
	}
	res, err := executeTransfers(ctx, db, h.deps.Caller, msg.Rule, rule.TokenRules, beneficiary, msg.To, msg.Amounts)
	if err != nil {
		return nil, err
	}
	token.TransferTag(res, "CreditUsed", rule.BudgetHolder, beneficiary, total)
	return res, nil
}

func (h CreditTransfersHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreditTransfersMsg, *CreditRule, weave.Address, uint64, error) {
	var msg CreditTransfersMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, 0, errors.Wrap(err, "load msg")
	}
	var rule CreditRule
	if err := h.b.credit.One(db, msg.Rule, &rule); err != nil {
		return nil, nil, nil, 0, errors.Wrapf(err, "rule %s", msg.Rule)
	}
	beneficiary := x.MainSigner(ctx, h.auth)
	if beneficiary == nil {
		return nil, nil, nil, 0, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	var total uint64
	for _, a := range msg.Amounts {
		var overflow bool
		total, overflow = math.SafeAdd(total, a)
		if overflow {
			return nil, nil, nil, 0, errors.Wrap(errors.ErrOverflow, "total amount")
		}
	}
	var credit Credit
	switch err := h.b.credits.One(db, orm.CompositeKey(msg.Rule, beneficiary), &credit); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
	default:
		return nil, nil, nil, 0, err
	}
	if total > credit.Amount {
		return nil, nil, nil, 0, errors.Wrapf(errors.ErrInsufficientAmount, "credit %d, want %d", credit.Amount, total)
	}
	return &msg, &rule, beneficiary, total, nil
}

// SetFirewallHandler manages the allow list of a firewalled rule.
type SetFirewallHandler struct {
	auth x.Authenticator
	deps Deps
	b    buckets
}

var _ weave.Handler = SetFirewallHandler{}

func (h SetFirewallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h SetFirewallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key := orm.CompositeKey(msg.Rule, msg.Sender)
	if msg.Allowed {
		height, _ := weave.GetHeight(ctx)
		if err := h.b.firewall.Put(db, key, &FirewallEntry{Height: height}); err != nil {
			return nil, err
		}
	} else if h.b.firewall.Has(db, key) {
		if err := h.b.firewall.Delete(db, key); err != nil {
			return nil, err
		}
	}
	return &weave.DeliverResult{}, nil
}

func (h SetFirewallHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetFirewallMsg, error) {
	var msg SetFirewallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var rule FirewalledRule
	if err := h.b.firewalled.One(db, msg.Rule, &rule); err != nil {
		return nil, errors.Wrapf(err, "rule %s", msg.Rule)
	}
	if !anyWorker(ctx, db, h.deps.Organization, rule.Organization, h.auth.GetSigners(ctx)) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "Only whitelisted workers are allowed to call.")
	}
	return &msg, nil
}

// FirewalledTransferHandler executes a transfer for an allowed sender.
type FirewalledTransferHandler struct {
	auth x.Authenticator
	deps Deps
	b    buckets
}

var _ weave.Handler = FirewalledTransferHandler{}

func (h FirewalledTransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h FirewalledTransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, rule, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return executeTransfers(ctx, db, h.deps.Caller, msg.Rule, rule.TokenRules, msg.From,
		[]weave.Address{msg.To}, []uint64{msg.Amount})
}

func (h FirewalledTransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*FirewalledTransferMsg, *FirewalledRule, error) {
	var msg FirewalledTransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var rule FirewalledRule
	if err := h.b.firewalled.One(db, msg.Rule, &rule); err != nil {
		return nil, nil, errors.Wrapf(err, "rule %s", msg.Rule)
	}
	for _, s := range h.auth.GetSigners(ctx) {
		if h.b.firewall.Has(db, orm.CompositeKey(msg.Rule, s)) {
			return &msg, &rule, nil
		}
	}
	return nil, nil, errors.Wrap(errors.ErrUnauthorized, "Sender is not allowed by the firewall.")
}
