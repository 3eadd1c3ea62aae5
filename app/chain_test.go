package app

import (
	"context"
	"testing"

	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x/utils"
)

func TestChain(t *testing.T) {
	c1 := &weavetest.Decorator{}
	c2 := &weavetest.Decorator{}
	h := &weavetest.Handler{}

	var nilDecorator *weavetest.Decorator
	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		nilDecorator,
		c2,
	).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(ctx, db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a panic is converted into an error by the recovery decorator
	h.Panic = "boom"
	_, err = stack.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())

	// a failing decorator does not call down the stack
	c1.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, c2.CallCount())
}
