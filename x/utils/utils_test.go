package utils

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestSavepoint(t *testing.T) {
	cases := map[string]struct {
		handler   *weavetest.Handler
		savepoint Savepoint
		wantErr   *errors.Error
		wantValue []byte
	}{
		"success is written": {
			handler:   &weavetest.Handler{Key: []byte("k"), Value: []byte("v")},
			savepoint: NewSavepoint().OnDeliver(),
			wantValue: []byte("v"),
		},
		"failure is discarded": {
			handler:   &weavetest.Handler{Key: []byte("k"), Value: []byte("v"), DeliverErr: errors.ErrState},
			savepoint: NewSavepoint().OnDeliver(),
			wantErr:   errors.ErrState,
		},
		"disabled savepoint keeps writes of a failure": {
			handler:   &weavetest.Handler{Key: []byte("k"), Value: []byte("v"), DeliverErr: errors.ErrState},
			savepoint: NewSavepoint().OnCheck(),
			wantErr:   errors.ErrState,
			wantValue: []byte("v"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := weavetest.Decorate(tc.handler, tc.savepoint)
			_, err := h.Deliver(context.Background(), db, &weavetest.Tx{})
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.wantValue, db.Get([]byte("k")))
		})
	}
}

func TestRecovery(t *testing.T) {
	h := weavetest.Decorate(&weavetest.Handler{Panic: "boom"}, NewRecovery())
	_, err := h.Deliver(context.Background(), store.MemStore(), &weavetest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = h.Check(context.Background(), store.MemStore(), &weavetest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestLoggingAndActionTagger(t *testing.T) {
	ctx := weave.WithLogger(context.Background(), log.NewNopLogger())
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "tokenholder/logout"}}

	h := weavetest.Decorate(weavetest.Decorate(&weavetest.Handler{}, NewActionTagger()), NewLogging())
	res, err := h.Deliver(ctx, store.MemStore(), tx)
	require.NoError(t, err)
	assert.Tag(t, res, ActionKey, []byte("tokenholder/logout"))

	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrUnauthorized}, NewLogging())
	_, err = failing.Deliver(ctx, store.MemStore(), tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
