package cogateway

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/organization"
	"github.com/openst/openst-weave/x/token"
	"github.com/stretchr/testify/require"
)

func TestRedeem(t *testing.T) {
	authKey := &weavetest.CtxAuth{Key: "auth"}
	auth := x.ChainAuth(authKey, x.CallerAuth{})
	rt := app.NewRouter()
	tokens := token.NewController()
	organization.RegisterRoutes(rt, auth)
	token.RegisterRoutes(rt, auth, tokens, organization.NewController())
	RegisterRoutes(rt, auth, tokens)
	db := store.MemStore()

	deliver := func(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
		ctx := authKey.SetSigners(context.Background(), signer)
		cache := db.CacheWrap()
		res, err := rt.Deliver(ctx, cache, &weavetest.Tx{Msg: msg})
		if err != nil {
			cache.Discard()
			return nil, err
		}
		cache.Write()
		return res, nil
	}

	redeemer := weavetest.NewAddress()
	beneficiary := weavetest.NewAddress()
	stranger := weavetest.NewAddress()

	res, err := deliver(redeemer, &organization.CreateMsg{})
	require.NoError(t, err)
	res, err = deliver(redeemer, &token.CreateMsg{
		Organization: res.Data,
		Symbol:       "BT",
		Name:         "Branded Token",
		TotalSupply:  100,
	})
	require.NoError(t, err)
	tok := weave.Address(res.Data)

	_, err = deliver(redeemer, &CreateMsg{Token: beneficiary})
	assert.IsErr(t, errors.ErrNotFound, err)
	res, err = deliver(redeemer, &CreateMsg{Token: tok})
	require.NoError(t, err)
	gw := weave.Address(res.Data)

	lock := make([]byte, 32)
	redeem := &RedeemMsg{
		CoGateway:   gw,
		Amount:      40,
		Beneficiary: beneficiary,
		GasPrice:    1,
		GasLimit:    100,
		Nonce:       1,
		HashLock:    lock,
	}

	_, err = deliver(redeemer, redeem)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	_, err = deliver(redeemer, &token.ApproveMsg{Token: tok, Holder: redeemer, Spender: gw, Amount: 40})
	require.NoError(t, err)

	redeem.Nonce = 2
	_, err = deliver(redeemer, redeem)
	assert.IsErr(t, errors.ErrInput, err)

	redeem.Nonce = 1
	res, err = deliver(redeemer, redeem)
	require.NoError(t, err)
	hash := res.Data
	assert.Tag(t, res, "RedeemIntentDeclared", hash)
	assert.Equal(t, uint64(60), tokens.Balance(db, tok, redeemer))
	assert.Equal(t, uint64(40), tokens.Balance(db, tok, gw))
	assert.Equal(t, uint64(2), NextNonce(db, NewNonceBucket(), gw, redeemer))

	var r Redemption
	require.NoError(t, NewRedemptionBucket().One(db, orm.CompositeKey(gw, hash), &r))
	assert.Equal(t, StatusDeclared, r.Status)
	assert.Equal(t, beneficiary, r.Beneficiary)

	_, err = deliver(stranger, &RevertRedemptionMsg{CoGateway: gw, MessageHash: hash})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	res, err = deliver(redeemer, &RevertRedemptionMsg{CoGateway: gw, MessageHash: hash})
	require.NoError(t, err)
	assert.Tag(t, res, "RevertRedeemDeclared", hash)
	_, err = deliver(redeemer, &RevertRedemptionMsg{CoGateway: gw, MessageHash: hash})
	assert.IsErr(t, errors.ErrState, err)
	_, err = deliver(redeemer, &RevertRedemptionMsg{CoGateway: gw, MessageHash: lock})
	assert.IsErr(t, errors.ErrNotFound, err)
}
