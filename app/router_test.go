package app

import (
	"context"
	"testing"

	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{DeliverErr: errors.ErrUnauthorized}
	r.Handle("token/transfer", good)
	r.Handle("token/approve", bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle("token/transfer", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	ctx := context.Background()
	db := store.MemStore()
	tx := func(path string) *weavetest.Tx {
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, db, tx("token/transfer"))
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, db, tx("token/transfer"))
	assert.Nil(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, db, tx("token/approve"))
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = r.Deliver(ctx, db, tx("token/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Check(ctx, db, tx("token/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)

	if !r.HasRoute("token/approve") || r.HasRoute("token/missing") {
		t.Fatal("unexpected route lookup result")
	}
}
