package weave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	_, ok := GetHeight(bg)
	assert.False(t, ok)
	ctx := WithHeight(bg, 7)
	h, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), h)
	assert.Panics(t, func() { WithHeight(ctx, 8) })

	assert.Panics(t, func() { GetChainID(bg) })
	assert.Panics(t, func() { WithChainID(bg, "no") })
	ctx = WithChainID(ctx, "openst-test")
	assert.Equal(t, "openst-test", GetChainID(ctx))

	assert.Equal(t, DefaultLogger, GetLogger(bg))
	logger := log.NewNopLogger()
	ctx = WithLogger(ctx, logger)
	assert.NotNil(t, GetLogger(WithLogInfo(ctx, "mod", "test")))
}

func TestOptions(t *testing.T) {
	opts := Options{"holder": []byte(`{"window": 3}`)}
	var got struct {
		Window int `json:"window"`
	}
	assert.NoError(t, opts.ReadOptions("holder", &got))
	assert.Equal(t, 3, got.Window)
	assert.NoError(t, opts.ReadOptions("missing", &got))
	assert.Error(t, Options{"bad": []byte(`{`)}.ReadOptions("bad", &got))
}

func TestIsExpired(t *testing.T) {
	ctx := WithHeight(context.Background(), 10)
	assert.True(t, IsExpired(ctx, 9))
	assert.True(t, IsExpired(ctx, 10))
	assert.False(t, IsExpired(ctx, 11))
	assert.Panics(t, func() { IsExpired(context.Background(), 1) })
}
