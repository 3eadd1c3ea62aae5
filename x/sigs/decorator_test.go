package sigs

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(sigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := weave.WithChainID(context.Background(), chainID)

	priv := crypto.MustGenerateKey()
	want := []weave.Address{priv.Address()}

	tx := newStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec weave.Decorator, my weave.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec weave.Decorator, my weave.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(weave.Decorator, weave.Tx) error{check, deliver} {
		t.Logf("run %d", i)

		tx.Signatures = nil
		assert.IsErr(t, errors.ErrUnauthorized, fn(d, tx))

		tx.Signatures = []*StdSignature{sig}
		require.NoError(t, fn(d, tx))
		assert.Equal(t, want, signers.Signers)

		// replay
		assert.IsErr(t, ErrInvalidSequence, fn(d, tx))

		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		require.NoError(t, fn(ad, tx))
		assert.Equal(t, []weave.Address{}, signers.Signers)

		tx.Signatures = []*StdSignature{sig1}
		require.NoError(t, fn(ad, tx))
		assert.Equal(t, want, signers.Signers)
	}
}

func TestAuthenticateInContractCall(t *testing.T) {
	addr := crypto.MustGenerateKey().Address()
	ctx := withSigners(context.Background(), []weave.Address{addr})

	auth := Authenticate{}
	assert.Equal(t, true, auth.HasAddress(ctx, addr))

	ctx = x.WithCaller(ctx, crypto.MustGenerateKey().Address())
	assert.Equal(t, false, auth.HasAddress(ctx, addr))
	assert.Nil(t, auth.GetSigners(ctx))
}

func TestDecoratorKeepsSequencesOnInvalidSignature(t *testing.T) {
	kv := store.MemStore()
	chainID := "deco-rate"
	ctx := weave.WithChainID(context.Background(), chainID)

	alice := crypto.MustGenerateKey()
	bob := crypto.MustGenerateKey()
	tx := newStdTx([]byte("art"))
	aliceSig, err := SignTx(alice, tx, chainID, 0)
	require.NoError(t, err)
	// bob signs with a sequence that is not expected yet
	bobSig, err := SignTx(bob, tx, chainID, 3)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{aliceSig, bobSig}

	_, err = NewDecorator().Deliver(ctx, kv, tx, new(sigCheckHandler))
	assert.IsErr(t, ErrInvalidSequence, err)

	n, err := NextNonce(kv, alice.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
