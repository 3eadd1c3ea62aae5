package recovery

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/multisig"
	"github.com/stretchr/testify/require"
)

func TestDelayedRecovery(t *testing.T) {
	d := contract.NewDispatcher()
	authKey := &weavetest.CtxAuth{Key: "auth"}
	auth := x.ChainAuth(authKey, x.CallerAuth{})
	rt := app.NewRouter()
	wallets := multisig.NewController(d)
	multisig.RegisterRoutes(rt, auth, wallets)
	RegisterRoutes(rt, auth, d)
	d.Bind(rt)
	db := store.MemStore()

	height := int64(10)
	deliver := func(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
		ctx := authKey.SetSigners(weave.WithHeight(context.Background(), height), signer)
		cache := db.CacheWrap()
		res, err := rt.Deliver(ctx, cache, &weavetest.Tx{Msg: msg})
		if err != nil {
			cache.Discard()
			return nil, err
		}
		cache.Write()
		return res, nil
	}

	w0, w1, lost := weavetest.NewAddress(), weavetest.NewAddress(), weavetest.NewAddress()
	replacement := weavetest.NewAddress()
	controller := weavetest.NewAddress()
	owner := crypto.MustGenerateKey()

	res, err := deliver(w0, &multisig.CreateMsg{Wallets: []weave.Address{w0, w1, lost}, Required: 1})
	require.NoError(t, err)
	wallet := weave.Address(res.Data)

	_, err = deliver(controller, &CreateMsg{Wallet: controller, RecoveryOwner: owner.Address(), RecoveryController: controller, RecoveryBlockDelay: 5})
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = deliver(controller, &CreateMsg{Wallet: wallet, RecoveryOwner: owner.Address(), RecoveryController: controller})
	assert.IsErr(t, errors.ErrInput, err)
	res, err = deliver(controller, &CreateMsg{Wallet: wallet, RecoveryOwner: owner.Address(), RecoveryController: controller, RecoveryBlockDelay: 5})
	require.NoError(t, err)
	module := weave.Address(res.Data)

	_, err = deliver(w0, &multisig.SubmitTransactionMsg{
		Wallet:      wallet,
		Destination: wallet,
		Payload:     weave.MustEncodeMsg(&multisig.SetRecoveryModuleMsg{Wallet: wallet, RecoveryModule: module}),
	})
	require.NoError(t, err)

	nonce := func() uint64 {
		var m Module
		require.NoError(t, NewBucket().One(db, module, &m))
		return m.Nonce
	}
	initiate := func(signer *crypto.PrivateKey, from, to weave.Address) *InitiateRecoveryMsg {
		v, r, s, err := signer.Sign(InitiateRecoveryHash(module, from, to, nonce()))
		require.NoError(t, err)
		return &InitiateRecoveryMsg{Module: module, OldOwner: from, NewOwner: to, V: v, R: r, S: s}
	}
	abort := func(signer *crypto.PrivateKey, from, to weave.Address) *AbortRecoveryMsg {
		// The active recovery was initiated with the previous nonce.
		v, r, s, err := signer.Sign(AbortRecoveryHash(module, from, to, nonce()-1))
		require.NoError(t, err)
		return &AbortRecoveryMsg{Module: module, OldOwner: from, NewOwner: to, V: v, R: r, S: s}
	}

	_, err = deliver(w0, initiate(owner, lost, replacement))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(controller, initiate(crypto.MustGenerateKey(), lost, replacement))
	assert.IsErr(t, errors.ErrUnauthorized, err)

	first := initiate(owner, lost, replacement)
	res, err = deliver(controller, first)
	require.NoError(t, err)
	assert.Tag(t, res, "RecoveryInitiated", replacement)
	assert.Equal(t, uint64(1), nonce())
	_, err = deliver(controller, initiate(owner, w1, replacement))
	assert.IsErr(t, errors.ErrState, err)

	// Aborting needs the recovery owner signature for the active recovery.
	_, err = deliver(controller, abort(owner, w1, replacement))
	assert.IsErr(t, errors.ErrInput, err)
	_, err = deliver(controller, abort(crypto.MustGenerateKey(), lost, replacement))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	firstAbort := abort(owner, lost, replacement)
	res, err = deliver(controller, firstAbort)
	require.NoError(t, err)
	assert.Tag(t, res, "RecoveryAborted", replacement)
	_, err = deliver(controller, &ExecuteRecoveryMsg{Module: module, OldOwner: lost, NewOwner: replacement})
	assert.IsErr(t, errors.ErrNotFound, err)

	// The aborted request cannot be submitted again.
	_, err = deliver(controller, first)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	second := initiate(owner, lost, replacement)
	_, err = deliver(controller, second)
	require.NoError(t, err)
	// Neither can the abort of the first one.
	_, err = deliver(controller, firstAbort)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	execute := &ExecuteRecoveryMsg{Module: module, OldOwner: lost, NewOwner: replacement}
	height += 4
	_, err = deliver(controller, execute)
	assert.IsErr(t, errors.ErrState, err)
	height++
	_, err = deliver(w0, execute)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	res, err = deliver(controller, execute)
	require.NoError(t, err)
	assert.Tag(t, res, "RecoveryExecuted", replacement)
	assert.Tag(t, res, "WalletAddition", replacement)
	assert.Equal(t, false, wallets.IsWallet(db, wallet, lost))
	assert.Equal(t, true, wallets.IsWallet(db, wallet, replacement))

	// Nothing is left to execute.
	_, err = deliver(controller, execute)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestResetRecoveryOwner(t *testing.T) {
	authKey := &weavetest.CtxAuth{Key: "auth"}
	rt := app.NewRouter()
	multisig.RegisterRoutes(rt, authKey, multisig.NewController(contract.NewDispatcher()))
	RegisterRoutes(rt, authKey, contract.NewDispatcher())
	db := store.MemStore()
	deliver := func(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
		ctx := authKey.SetSigners(context.Background(), signer)
		return rt.Deliver(ctx, db, &weavetest.Tx{Msg: msg})
	}

	controller := weavetest.NewAddress()
	owner, next := crypto.MustGenerateKey(), crypto.MustGenerateKey()
	res, err := deliver(controller, &multisig.CreateMsg{Wallets: []weave.Address{controller}, Required: 1})
	require.NoError(t, err)
	res, err = deliver(controller, &CreateMsg{Wallet: res.Data, RecoveryOwner: owner.Address(), RecoveryController: controller, RecoveryBlockDelay: 1})
	require.NoError(t, err)
	module := weave.Address(res.Data)

	reset := func(signer *crypto.PrivateKey, newOwner weave.Address) *ResetRecoveryOwnerMsg {
		var m Module
		require.NoError(t, NewBucket().One(db, module, &m))
		v, r, s, err := signer.Sign(ResetRecoveryOwnerHash(module, newOwner, m.Nonce))
		require.NoError(t, err)
		return &ResetRecoveryOwnerMsg{Module: module, NewRecoveryOwner: newOwner, V: v, R: r, S: s}
	}

	_, err = deliver(controller, reset(next, next.Address()))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(controller, reset(owner, owner.Address()))
	assert.IsErr(t, errors.ErrDuplicate, err)
	handover := reset(owner, next.Address())
	res, err = deliver(controller, handover)
	require.NoError(t, err)
	assert.Tag(t, res, "RecoveryOwnerReset", next.Address())

	// The old owner signature is not accepted anymore.
	_, err = deliver(controller, reset(owner, owner.Address()))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(controller, reset(next, owner.Address()))
	require.NoError(t, err)

	// Owner is back in charge but the earlier handover cannot be replayed.
	_, err = deliver(controller, handover)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestTypedDataHashesAreBoundToModule(t *testing.T) {
	a, b := weavetest.NewAddress(), weavetest.NewAddress()
	from, to := weavetest.NewAddress(), weavetest.NewAddress()

	assert.Equal(t, false, string(InitiateRecoveryHash(a, from, to, 0)) == string(InitiateRecoveryHash(b, from, to, 0)))
	assert.Equal(t, false, string(InitiateRecoveryHash(a, from, to, 0)) == string(AbortRecoveryHash(a, from, to, 0)))
	assert.Equal(t, false, string(InitiateRecoveryHash(a, from, to, 0)) == string(InitiateRecoveryHash(a, from, to, 1)))
	assert.Equal(t, false, string(ResetRecoveryOwnerHash(a, to, 0)) == string(ResetRecoveryOwnerHash(a, to, 1)))
	assert.Equal(t, 32, len(ResetRecoveryOwnerHash(a, to, 0)))
}
