package std

import (
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x/rules"
	"github.com/openst/openst-weave/x/sigs"
	"github.com/openst/openst-weave/x/token"
	"github.com/openst/openst-weave/x/tokenholder"
	"github.com/openst/openst-weave/x/tokenrules"
	"github.com/openst/openst-weave/x/utils"
	"github.com/stretchr/testify/require"
)

const chainID = "std-test-chain"

type account struct {
	key *crypto.PrivateKey
	seq int64
}

func (a *account) signed(t testing.TB, msg weave.Msg) *Tx {
	t.Helper()
	tx, err := NewTx(msg)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(a.key, chainID, a.seq))
	a.seq++
	return tx
}

func newLedger(t testing.TB, owner weave.Address) *app.Ledger {
	t.Helper()
	gen, err := DevGenesis(chainID, owner, 1000)
	require.NoError(t, err)
	l := NewLedger(nil)
	require.NoError(t, l.InitChain(gen, Initializers()))
	return l
}

func balance(t testing.TB, l *app.Ledger, holder weave.Address) uint64 {
	t.Helper()
	var amount uint64
	err := l.Query(func(ctx weave.Context, db weave.ReadOnlyKVStore) error {
		amount = token.NewController().Balance(db, DevToken(), holder)
		return nil
	})
	require.NoError(t, err)
	return amount
}

func deliver(t testing.TB, l *app.Ledger, tx *Tx) *weave.DeliverResult {
	t.Helper()
	res, err := l.Deliver(tx)
	require.NoError(t, err)
	return res
}

func TestGenesis(t *testing.T) {
	owner := weavetest.NewAddress()
	l := newLedger(t, owner)
	assert.Equal(t, uint64(1000), balance(t, l, owner))
}

func TestSignedTransactions(t *testing.T) {
	owner := &account{key: crypto.MustGenerateKey()}
	l := newLedger(t, owner.key.Address())
	bob := weavetest.NewAddress()

	// delivered as bytes, the way the node passes them
	raw, err := owner.signed(t, &token.TransferMsg{
		Token:  DevToken(),
		From:   owner.key.Address(),
		To:     bob,
		Amount: 10,
	}).Marshal()
	require.NoError(t, err)
	res := l.DeliverTx(raw)
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, uint64(10), balance(t, l, bob))

	// a replayed transaction is rejected
	res = l.DeliverTx(raw)
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res.Code)
	assert.Equal(t, uint64(10), balance(t, l, bob))

	// an unsigned one as well
	tx, err := NewTx(&token.TransferMsg{Token: DevToken(), From: owner.key.Address(), To: bob, Amount: 1})
	require.NoError(t, err)
	_, err = l.Deliver(tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// a valid signature of another account does not move the owner's tokens
	mallory := &account{key: crypto.MustGenerateKey()}
	_, err = l.Deliver(mallory.signed(t, &token.TransferMsg{Token: DevToken(), From: owner.key.Address(), To: bob, Amount: 1}))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, uint64(10), balance(t, l, bob))
}

func TestFailedMessageConsumesSequence(t *testing.T) {
	owner := &account{key: crypto.MustGenerateKey()}
	l := newLedger(t, owner.key.Address())
	bob := weavetest.NewAddress()

	_, err := l.Deliver(owner.signed(t, &token.TransferMsg{Token: DevToken(), From: owner.key.Address(), To: bob, Amount: 5000}))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	assert.Equal(t, uint64(0), balance(t, l, bob))
	assert.Equal(t, uint64(1000), balance(t, l, owner.key.Address()))

	err = l.Query(func(ctx weave.Context, db weave.ReadOnlyKVStore) error {
		n, err := sigs.NextNonce(db, owner.key.Address())
		assert.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)

	deliver(t, l, owner.signed(t, &token.TransferMsg{Token: DevToken(), From: owner.key.Address(), To: bob, Amount: 5}))
	assert.Equal(t, uint64(5), balance(t, l, bob))
}

func TestCheckDoesNotChangeState(t *testing.T) {
	owner := &account{key: crypto.MustGenerateKey()}
	l := newLedger(t, owner.key.Address())

	tx := owner.signed(t, &token.TransferMsg{Token: DevToken(), From: owner.key.Address(), To: weavetest.NewAddress(), Amount: 1})
	_, err := l.Check(tx)
	require.NoError(t, err)
	// the nonce was not consumed, so the same transaction can be delivered
	res := deliver(t, l, tx)
	assert.Tag(t, res, utils.ActionKey, []byte(token.TransferMsg{}.Path()))
}

func TestRelayedRuleExecution(t *testing.T) {
	owner := &account{key: crypto.MustGenerateKey()}
	relayer := &account{key: crypto.MustGenerateKey()}
	session := crypto.MustGenerateKey()
	bob := weavetest.NewAddress()
	l := newLedger(t, owner.key.Address())

	res := deliver(t, l, owner.signed(t, &tokenrules.CreateMsg{Organization: DevOrganization(), Token: DevToken()}))
	tokenRules := weave.Address(res.Data)
	res = deliver(t, l, owner.signed(t, &rules.CreateTransferRuleMsg{TokenRules: tokenRules}))
	rule := weave.Address(res.Data)
	deliver(t, l, owner.signed(t, &tokenrules.RegisterRuleMsg{
		TokenRules: tokenRules,
		Name:       "transfer",
		Address:    rule,
		Abi:        "transfer abi",
	}))
	res = deliver(t, l, owner.signed(t, &tokenholder.CreateMsg{
		Token:      DevToken(),
		TokenRules: tokenRules,
		Owner:      owner.key.Address(),
		SessionKeys: []tokenholder.SessionKeyConfig{
			{Key: session.Address(), SpendingLimit: 50, ExpirationHeight: l.Height() + 100},
		},
	}))
	holder := weave.Address(res.Data)
	deliver(t, l, owner.signed(t, &token.TransferMsg{Token: DevToken(), From: owner.key.Address(), To: holder, Amount: 100}))
	l.NextBlock()

	execute := func(nonce uint64, amount uint64) *tokenholder.ExecuteRuleMsg {
		data := weave.MustEncodeMsg(&rules.TransferFromMsg{Rule: rule, From: holder, To: bob, Amount: amount})
		v, r, s, err := session.Sign(crypto.MessageHash(holder, rule, data, nonce, crypto.ExecuteRuleCallPrefix))
		require.NoError(t, err)
		return &tokenholder.ExecuteRuleMsg{TokenHolder: holder, To: rule, Data: data, Nonce: nonce, V: v, R: r, S: s}
	}

	res = deliver(t, l, relayer.signed(t, execute(0, 30)))
	assert.Equal(t, tokenholder.StatusData(true), res.Data)
	assert.Equal(t, uint64(30), balance(t, l, bob))
	assert.Equal(t, uint64(70), balance(t, l, holder))

	// the session nonce protects against a relayer replaying the call
	_, err := l.Deliver(relayer.signed(t, execute(0, 30)))
	assert.IsErr(t, tokenholder.ErrInvalidNonce, err)

	// a call above the spending limit is executed but the transfer fails
	res = deliver(t, l, relayer.signed(t, execute(1, 60)))
	assert.Equal(t, tokenholder.StatusData(false), res.Data)
	assert.Equal(t, uint64(30), balance(t, l, bob))
}
