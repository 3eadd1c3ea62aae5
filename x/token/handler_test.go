package token

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/organization"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	auth *weavetest.CtxAuth
	rt   *app.Router
	db   weave.CacheableKVStore
	ctrl BaseController
}

func newFixture() *fixture {
	f := &fixture{
		auth: &weavetest.CtxAuth{Key: "auth"},
		rt:   app.NewRouter(),
		db:   store.MemStore(),
		ctrl: NewController(),
	}
	organization.RegisterRoutes(f.rt, f.auth)
	RegisterRoutes(f.rt, f.auth, f.ctrl, organization.NewController())
	return f
}

func (f *fixture) deliver(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
	ctx := f.auth.SetSigners(weave.WithHeight(context.Background(), 10), signer)
	return f.rt.Deliver(ctx, f.db, &weavetest.Tx{Msg: msg})
}

func (f *fixture) createToken(t testing.TB, owner weave.Address, supply uint64) weave.Address {
	t.Helper()
	res, err := f.deliver(owner, &organization.CreateMsg{})
	require.NoError(t, err)
	res, err = f.deliver(owner, &CreateMsg{
		Organization: res.Data,
		Symbol:       "OST",
		Name:         "Simple Token",
		Decimals:     18,
		TotalSupply:  supply,
	})
	require.NoError(t, err)
	return res.Data
}

func TestCreateAndTransfer(t *testing.T) {
	f := newFixture()
	alice := weavetest.NewAddress()
	bob := weavetest.NewAddress()

	tok := f.createToken(t, alice, 1000)
	if !contract.IsKind(f.db, tok, Kind) {
		t.Fatal("token is not registered as a contract")
	}
	assert.Equal(t, uint64(1000), f.ctrl.Balance(f.db, tok, alice))

	_, err := f.deliver(bob, &TransferMsg{Token: tok, From: alice, To: bob, Amount: 10})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	res, err := f.deliver(alice, &TransferMsg{Token: tok, From: alice, To: bob, Amount: 300})
	require.NoError(t, err)
	if _, ok := res.Tag("Transfer"); !ok {
		t.Fatal("missing transfer event")
	}
	assert.Equal(t, uint64(700), f.ctrl.Balance(f.db, tok, alice))
	assert.Equal(t, uint64(300), f.ctrl.Balance(f.db, tok, bob))

	_, err = f.deliver(bob, &TransferMsg{Token: tok, From: bob, To: alice, Amount: 301})
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	_, err = f.deliver(alice, &TransferMsg{Token: weavetest.NewAddress(), From: alice, To: bob, Amount: 1})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = f.deliver(alice, &CreateMsg{Organization: weavetest.NewAddress(), Symbol: "OST"})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestApproveAndTransferFrom(t *testing.T) {
	f := newFixture()
	alice := weavetest.NewAddress()
	spender := weavetest.NewAddress()
	carol := weavetest.NewAddress()
	tok := f.createToken(t, alice, 100)

	_, err := f.deliver(spender, &TransferFromMsg{Token: tok, Spender: spender, From: alice, To: carol, Amount: 1})
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	_, err = f.deliver(alice, &ApproveMsg{Token: tok, Holder: alice, Spender: spender, Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, uint64(50), f.ctrl.Allowance(f.db, tok, alice, spender))

	_, err = f.deliver(alice, &TransferFromMsg{Token: tok, Spender: spender, From: alice, To: carol, Amount: 1})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = f.deliver(spender, &TransferFromMsg{Token: tok, Spender: spender, From: alice, To: carol, Amount: 30})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), f.ctrl.Allowance(f.db, tok, alice, spender))
	assert.Equal(t, uint64(30), f.ctrl.Balance(f.db, tok, carol))
	assert.Equal(t, uint64(70), f.ctrl.Balance(f.db, tok, alice))

	_, err = f.deliver(spender, &TransferFromMsg{Token: tok, Spender: spender, From: alice, To: carol, Amount: 21})
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	// approving zero clears the allowance
	_, err = f.deliver(alice, &ApproveMsg{Token: tok, Holder: alice, Spender: spender})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), f.ctrl.Allowance(f.db, tok, alice, spender))
}

func TestSetCoGateway(t *testing.T) {
	f := newFixture()
	owner := weavetest.NewAddress()
	tok := f.createToken(t, owner, 0)
	gw := weavetest.NewAddress()

	_, err := f.deliver(weavetest.NewAddress(), &SetCoGatewayMsg{Token: tok, CoGateway: gw})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = f.deliver(owner, &SetCoGatewayMsg{Token: tok, CoGateway: gw})
	require.NoError(t, err)
	got, err := f.ctrl.Token(f.db, tok)
	require.NoError(t, err)
	assert.Equal(t, gw, got.CoGateway)
}

func TestTransferOverflow(t *testing.T) {
	f := newFixture()
	alice := weavetest.NewAddress()
	bob := weavetest.NewAddress()
	tok := f.createToken(t, alice, 10)
	require.NoError(t, saveAmount(f.db, f.ctrl.balances, append(append([]byte{}, tok...), bob...), ^uint64(0)))

	err := f.ctrl.Transfer(f.db, tok, alice, bob, 1)
	assert.IsErr(t, errors.ErrOverflow, err)
	assert.Equal(t, uint64(10), f.ctrl.Balance(f.db, tok, alice))
}

func TestGenesis(t *testing.T) {
	org := weavetest.NewAddress()
	holder := weavetest.NewAddress()
	genesis := GenesisToken{
		Organization: org,
		Symbol:       "BT",
		Decimals:     6,
		Balances:     []GenesisBalance{{Holder: holder, Amount: 500}},
	}
	raw, err := json.Marshal([]GenesisToken{genesis})
	require.NoError(t, err)

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(weave.Options{optKey: raw}, db))

	ctrl := NewController()
	tok := contract.Address(Kind, 1)
	assert.Equal(t, uint64(500), ctrl.Balance(db, tok, holder))
	got, err := ctrl.Token(db, tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got.TotalSupply)
}
