package x_test

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/x"
	"github.com/stretchr/testify/assert"
)

func TestChainAuth(t *testing.T) {
	a := weavetest.NewAddress()
	b := weavetest.NewAddress()
	c := weavetest.NewAddress()

	ctx := context.Background()
	auth := x.ChainAuth(&weavetest.Auth{Signers: []weave.Address{a, b}}, &weavetest.Auth{Signer: b})

	assert.Equal(t, []weave.Address{a, b}, auth.GetSigners(ctx))
	assert.Equal(t, a, x.MainSigner(ctx, auth))
	assert.True(t, auth.HasAddress(ctx, b))
	assert.False(t, auth.HasAddress(ctx, c))

	assert.True(t, x.HasAllAddresses(ctx, auth, []weave.Address{a, b}))
	assert.False(t, x.HasAllAddresses(ctx, auth, []weave.Address{a, c}))
	assert.True(t, x.HasNAddresses(ctx, auth, []weave.Address{a, c}, 1))
	assert.False(t, x.HasNAddresses(ctx, auth, []weave.Address{a, c}, 2))
	assert.True(t, x.HasNAddresses(ctx, auth, nil, 0))

	assert.Nil(t, x.MainSigner(ctx, x.ChainAuth()))
}

func TestCallerAuth(t *testing.T) {
	caller := weavetest.NewAddress()
	other := weavetest.NewAddress()

	ctx := context.Background()
	assert.False(t, x.InContractCall(ctx))
	assert.Empty(t, x.CallerAuth{}.GetSigners(ctx))

	ctx = x.WithCaller(ctx, caller)
	assert.True(t, x.InContractCall(ctx))
	assert.Equal(t, []weave.Address{caller}, x.CallerAuth{}.GetSigners(ctx))
	assert.True(t, x.CallerAuth{}.HasAddress(ctx, caller))

	// Nested calls only see the immediate caller.
	ctx = x.WithCaller(ctx, other)
	assert.False(t, x.CallerAuth{}.HasAddress(ctx, caller))
	assert.True(t, x.CallerAuth{}.HasAddress(ctx, other))
}
