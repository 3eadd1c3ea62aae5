package organization

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
	"github.com/stretchr/testify/require"
)

func TestOrganizationLifecycle(t *testing.T) {
	owner := weavetest.NewAddress()
	admin := weavetest.NewAddress()
	worker := weavetest.NewAddress()
	newOwner := weavetest.NewAddress()
	stranger := weavetest.NewAddress()

	authKey := &weavetest.CtxAuth{Key: "auth"}
	rt := app.NewRouter()
	RegisterRoutes(rt, authKey)
	db := store.MemStore()
	ctrl := NewController()

	ctx := weave.WithHeight(context.Background(), 100)
	as := func(signer weave.Address) weave.Context {
		return authKey.SetSigners(ctx, signer)
	}
	deliver := func(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
		return rt.Deliver(as(signer), db, &weavetest.Tx{Msg: msg})
	}

	res, err := deliver(owner, &CreateMsg{Admin: admin})
	require.NoError(t, err)
	org := weave.Address(res.Data)
	if !org.Equals(contractAddress(1)) {
		t.Fatalf("unexpected organization address %s", org)
	}

	assert.Equal(t, true, ctrl.IsOrganization(db, org, owner))
	assert.Equal(t, true, ctrl.IsOrganization(db, org, admin))
	assert.Equal(t, false, ctrl.IsOrganization(db, org, stranger))

	// workers are managed by owner or admin and expire
	_, err = deliver(stranger, &SetWorkerMsg{Organization: org, Worker: worker, ExpirationHeight: 200})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(admin, &SetWorkerMsg{Organization: org, Worker: worker, ExpirationHeight: 100})
	assert.IsErr(t, errors.ErrExpired, err)
	_, err = deliver(admin, &SetWorkerMsg{Organization: org, Worker: worker, ExpirationHeight: 200})
	require.NoError(t, err)
	assert.Equal(t, true, ctrl.IsWorker(ctx, db, org, worker))
	assert.Equal(t, false, ctrl.IsWorker(weave.WithHeight(context.Background(), 200), db, org, worker))

	res, err = deliver(owner, &UnsetWorkerMsg{Organization: org, Worker: worker})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, res.Data)
	assert.Equal(t, false, ctrl.IsWorker(ctx, db, org, worker))

	// two phase ownership transfer
	_, err = deliver(admin, &InitiateOwnershipTransferMsg{Organization: org, ProposedOwner: newOwner})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(newOwner, &CompleteOwnershipTransferMsg{Organization: org})
	assert.IsErr(t, errors.ErrState, err)
	_, err = deliver(owner, &InitiateOwnershipTransferMsg{Organization: org, ProposedOwner: newOwner})
	require.NoError(t, err)
	_, err = deliver(stranger, &CompleteOwnershipTransferMsg{Organization: org})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(newOwner, &CompleteOwnershipTransferMsg{Organization: org})
	require.NoError(t, err)

	assert.Equal(t, true, ctrl.IsOrganization(db, org, newOwner))
	assert.Equal(t, false, ctrl.IsOrganization(db, org, owner))

	// admin can be removed
	_, err = deliver(newOwner, &SetAdminMsg{Organization: org})
	require.NoError(t, err)
	assert.Equal(t, false, ctrl.IsOrganization(db, org, admin))
}

func TestOrganizationCalledByContract(t *testing.T) {
	caller := weavetest.NewAddress()
	authKey := &weavetest.CtxAuth{Key: "auth"}
	auth := x.ChainAuth(authKey, x.CallerAuth{})
	rt := app.NewRouter()
	RegisterRoutes(rt, auth)
	db := store.MemStore()

	ctx := weave.WithHeight(context.Background(), 1)
	res, err := rt.Deliver(authKey.SetSigners(ctx, caller), db, &weavetest.Tx{Msg: &CreateMsg{}})
	require.NoError(t, err)
	org := weave.Address(res.Data)

	// the signer is not the sender within a contract call
	inCall := x.WithCaller(authKey.SetSigners(ctx, caller), weavetest.NewAddress())
	_, err = rt.Deliver(inCall, db, &weavetest.Tx{Msg: &SetAdminMsg{Organization: org}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// but the calling contract is
	inCall = x.WithCaller(ctx, caller)
	_, err = rt.Deliver(inCall, db, &weavetest.Tx{Msg: &SetAdminMsg{Organization: org}})
	require.NoError(t, err)
}

func TestGenesis(t *testing.T) {
	owner := weavetest.NewAddress()
	worker := weavetest.NewAddress()
	genesis := `{"organization": [{"owner": "` + owner.String() + `", "workers": [{"address": "` + worker.String() + `", "expiration_height": 50}]}]}`

	var opts weave.Options
	require.NoError(t, jsonUnmarshal(genesis, &opts))
	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	ctx := weave.WithHeight(context.Background(), 1)
	ctrl := NewController()
	assert.Equal(t, true, ctrl.IsOrganization(db, contractAddress(1), owner))
	assert.Equal(t, true, ctrl.IsWorker(ctx, db, contractAddress(1), worker))
}
