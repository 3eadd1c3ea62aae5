package rules

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/organization"
	"github.com/openst/openst-weave/x/token"
	"github.com/openst/openst-weave/x/tokenrules"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	authKey *weavetest.CtxAuth
	rt      *app.Router
	db      weave.CacheableKVStore
	tokens  token.BaseController
	height  int64

	owner      weave.Address
	worker     weave.Address
	org        weave.Address
	token      weave.Address
	tokenRules weave.Address
}

func newFixture(t testing.TB) *fixture {
	d := contract.NewDispatcher()
	f := &fixture{
		authKey: &weavetest.CtxAuth{Key: "auth"},
		rt:      app.NewRouter(),
		db:      store.MemStore(),
		tokens:  token.NewController(),
		height:  10,
		owner:   weavetest.NewAddress(),
		worker:  weavetest.NewAddress(),
	}
	auth := x.ChainAuth(f.authKey, x.CallerAuth{})
	orgs := organization.NewController()
	trCtrl := tokenrules.NewController(f.tokens, d)
	organization.RegisterRoutes(f.rt, auth)
	token.RegisterRoutes(f.rt, auth, f.tokens, orgs)
	tokenrules.RegisterRoutes(f.rt, auth, trCtrl, orgs)
	RegisterRoutes(f.rt, auth, Deps{
		Caller:       d,
		TokenRules:   trCtrl,
		Tokens:       f.tokens,
		Organization: orgs,
	})
	d.Bind(f.rt)

	res, err := f.deliver(f.owner, &organization.CreateMsg{
		Workers: []organization.Worker{{Address: f.worker, ExpirationHeight: 1000}},
	})
	require.NoError(t, err)
	f.org = res.Data
	res, err = f.deliver(f.owner, &token.CreateMsg{
		Organization: f.org,
		Symbol:       "BT",
		Name:         "Branded Token",
		TotalSupply:  1000,
	})
	require.NoError(t, err)
	f.token = res.Data
	res, err = f.deliver(f.owner, &tokenrules.CreateMsg{Organization: f.org, Token: f.token})
	require.NoError(t, err)
	f.tokenRules = res.Data
	return f
}

func (f *fixture) deliver(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
	ctx := f.authKey.SetSigners(weave.WithHeight(context.Background(), f.height), signer)
	cache := f.db.CacheWrap()
	res, err := f.rt.Deliver(ctx, cache, &weavetest.Tx{Msg: msg})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	cache.Write()
	return res, nil
}

// create creates and registers a rule.
func (f *fixture) create(t testing.TB, name string, msg weave.Msg) weave.Address {
	t.Helper()
	res, err := f.deliver(f.owner, msg)
	require.NoError(t, err)
	_, err = f.deliver(f.owner, &tokenrules.RegisterRuleMsg{
		TokenRules: f.tokenRules,
		Name:       name,
		Address:    res.Data,
		Abi:        name + " abi",
	})
	require.NoError(t, err)
	return res.Data
}

// fund gives tokens to the holder and lets the rule move them once.
func (f *fixture) fund(t testing.TB, holder, rule weave.Address, amount uint64) {
	t.Helper()
	if amount > 0 {
		_, err := f.deliver(f.owner, &token.TransferMsg{Token: f.token, From: f.owner, To: holder, Amount: amount})
		require.NoError(t, err)
	}
	f.consent(t, holder, rule, 1000)
}

func (f *fixture) consent(t testing.TB, holder, rule weave.Address, limit uint64) {
	t.Helper()
	_, err := f.deliver(holder, &token.ApproveMsg{Token: f.token, Holder: holder, Spender: rule, Amount: limit})
	require.NoError(t, err)
	_, err = f.deliver(holder, &tokenrules.AllowTransfersMsg{TokenRules: f.tokenRules})
	require.NoError(t, err)
}

func TestTransferRule(t *testing.T) {
	f := newFixture(t)
	alice, bob := weavetest.NewAddress(), weavetest.NewAddress()

	res, err := f.deliver(f.owner, &CreateTransferRuleMsg{TokenRules: f.tokenRules})
	require.NoError(t, err)
	rule := weave.Address(res.Data)
	assert.Equal(t, true, contract.IsKind(f.db, rule, TransferKind))
	f.fund(t, alice, rule, 100)

	transfer := &TransferFromMsg{Rule: rule, From: alice, To: bob, Amount: 20}
	_, err = f.deliver(bob, transfer)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = f.deliver(f.owner, &tokenrules.RegisterRuleMsg{TokenRules: f.tokenRules, Name: "transfer", Address: rule, Abi: "abi"})
	require.NoError(t, err)
	_, err = f.deliver(bob, transfer)
	require.NoError(t, err)
	assert.Equal(t, uint64(80), f.tokens.Balance(f.db, f.token, alice))
	assert.Equal(t, uint64(20), f.tokens.Balance(f.db, f.token, bob))

	_, err = f.deliver(bob, transfer)
	assert.IsErr(t, tokenrules.ErrTransfersNotAllowed, err)

	_, err = f.deliver(f.owner, &CreateTransferRuleMsg{TokenRules: f.token})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestPricerRule(t *testing.T) {
	f := newFixture(t)
	alice, bob := weavetest.NewAddress(), weavetest.NewAddress()

	rule := f.create(t, "pricer", &CreatePricerRuleMsg{
		Organization:   f.org,
		TokenRules:     f.tokenRules,
		BaseCurrency:   "OST",
		ConversionRate: 2,
	})

	setPrice := &SetPricePointMsg{Rule: rule, QuoteCurrency: "USD", Price: 5, ExpirationHeight: 20}
	_, err := f.deliver(alice, setPrice)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(f.worker, &SetPricePointMsg{Rule: rule, QuoteCurrency: "USD", Price: 5, Decimals: 2, ExpirationHeight: 20})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = f.deliver(f.worker, setPrice)
	require.NoError(t, err)

	_, err = f.deliver(f.worker, &SetAcceptanceMarginMsg{Rule: rule, QuoteCurrency: "USD", Margin: 1})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(f.owner, &SetAcceptanceMarginMsg{Rule: rule, QuoteCurrency: "USD", Margin: 1})
	require.NoError(t, err)

	pay := func(intended uint64, currency string) error {
		_, err := f.deliver(alice, &PayMsg{
			Rule:               rule,
			From:               alice,
			To:                 []weave.Address{bob},
			Amounts:            []uint64{10},
			Currency:           currency,
			IntendedPricePoint: intended,
		})
		return err
	}

	f.fund(t, alice, rule, 100)
	assert.IsErr(t, errors.ErrInput, pay(7, "USD"))
	assert.IsErr(t, errors.ErrNotFound, pay(5, "EUR"))
	require.NoError(t, pay(6, "USD"))
	// 10 USD at 5 USD per OST and 2 tokens per OST
	assert.Equal(t, uint64(4), f.tokens.Balance(f.db, f.token, bob))

	f.consent(t, alice, rule, 1000)
	f.height = 20
	assert.IsErr(t, errors.ErrExpired, pay(5, "USD"))

	_, err = f.deliver(f.worker, &RemovePricePointMsg{Rule: rule, QuoteCurrency: "USD"})
	require.NoError(t, err)
	assert.IsErr(t, errors.ErrNotFound, pay(5, "USD"))
	_, err = f.deliver(f.worker, &RemovePricePointMsg{Rule: rule, QuoteCurrency: "USD"})
	assert.IsErr(t, errors.ErrNotFound, err)

	// an empty payment does nothing
	_, err = f.deliver(alice, &PayMsg{Rule: rule, From: alice, Currency: "XYZ"})
	require.NoError(t, err)
}

func TestCreditRule(t *testing.T) {
	f := newFixture(t)
	alice, bob := weavetest.NewAddress(), weavetest.NewAddress()

	rule := f.create(t, "credit", &CreateCreditRuleMsg{TokenRules: f.tokenRules, BudgetHolder: f.owner})
	_, err := f.deliver(f.owner, &token.ApproveMsg{Token: f.token, Holder: f.owner, Spender: rule, Amount: 100})
	require.NoError(t, err)

	_, err = f.deliver(alice, &GrantCreditMsg{Rule: rule, Beneficiary: alice, Amount: 30})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	res, err := f.deliver(f.owner, &GrantCreditMsg{Rule: rule, Beneficiary: alice, Amount: 30})
	require.NoError(t, err)
	assert.Tag(t, res, "CreditGranted", alice)

	spend := &CreditTransfersMsg{Rule: rule, To: []weave.Address{bob}, Amounts: []uint64{20}}
	f.fund(t, alice, rule, 0)
	_, err = f.deliver(alice, spend)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), f.tokens.Balance(f.db, f.token, alice))
	assert.Equal(t, uint64(20), f.tokens.Balance(f.db, f.token, bob))
	assert.Equal(t, uint64(980), f.tokens.Balance(f.db, f.token, f.owner))

	f.consent(t, alice, rule, 1000)
	_, err = f.deliver(alice, spend)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	// without a new consent nothing moves and the credit is kept
	_, err = f.deliver(bob, &GrantCreditMsg{Rule: rule, Beneficiary: bob, Amount: 5})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(f.owner, &GrantCreditMsg{Rule: rule, Beneficiary: bob, Amount: 5})
	require.NoError(t, err)
	_, err = f.deliver(bob, &CreditTransfersMsg{Rule: rule, To: []weave.Address{alice}, Amounts: []uint64{5}})
	assert.IsErr(t, tokenrules.ErrTransfersNotAllowed, err)
	assert.Equal(t, uint64(20), f.tokens.Balance(f.db, f.token, bob))
}

func TestFirewalledRule(t *testing.T) {
	f := newFixture(t)
	alice, bob := weavetest.NewAddress(), weavetest.NewAddress()

	rule := f.create(t, "firewalled", &CreateFirewalledRuleMsg{Organization: f.org, TokenRules: f.tokenRules})
	f.fund(t, alice, rule, 50)
	transfer := &FirewalledTransferMsg{Rule: rule, From: alice, To: bob, Amount: 50}

	_, err := f.deliver(alice, transfer)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(f.owner, &SetFirewallMsg{Rule: rule, Sender: alice, Allowed: true})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(f.worker, &SetFirewallMsg{Rule: rule, Sender: alice, Allowed: true})
	require.NoError(t, err)

	_, err = f.deliver(bob, transfer)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(alice, transfer)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), f.tokens.Balance(f.db, f.token, bob))

	_, err = f.deliver(f.worker, &SetFirewallMsg{Rule: rule, Sender: alice})
	require.NoError(t, err)
	f.consent(t, alice, rule, 10)
	_, err = f.deliver(alice, transfer)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
