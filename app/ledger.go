package app

import (
	"context"
	"sync"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger executes transactions against an in memory store, one at a time.
// Each transaction runs in its own cache wrap. The cache is written even when
// the handler returns an error, so that decorators like the signature
// sequence keep their writes. Discarding the writes of a failed message is
// left to a savepoint decorator. Only a panic discards the whole cache.
type Ledger struct {
	mu      sync.Mutex
	db      weave.CacheableKVStore
	handler weave.Handler
	decoder weave.TxDecoder
	logger  log.Logger
	debug   bool

	chainID string
	height  int64
}

// NewLedger returns a ledger that routes all transactions to the given
// handler. decoder is used only by DeliverTx and CheckTx and can be nil.
func NewLedger(handler weave.Handler, decoder weave.TxDecoder, logger log.Logger) *Ledger {
	if logger == nil {
		logger = weave.DefaultLogger
	}
	return &Ledger{
		db:      store.MemStore(),
		handler: handler,
		decoder: decoder,
		logger:  logger,
	}
}

// WithDebug makes ABCI responses contain full error details.
func (l *Ledger) WithDebug(debug bool) *Ledger {
	l.debug = debug
	return l
}

// InitChain sets the chain id and the first block height and loads the
// application state using the initializer.
func (l *Ledger) InitChain(gen Genesis, init weave.Initializer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrap(errors.ErrState, "chain already initialized")
	}
	if err := gen.Validate(); err != nil {
		return errors.Wrap(err, "genesis")
	}
	height := gen.InitialHeight
	if height == 0 {
		height = 1
	}

	cache := l.db.CacheWrap()
	if init != nil {
		if err := init.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "initialize from genesis")
		}
	}
	cache.Write()

	l.chainID = gen.ChainID
	l.height = height
	l.logger.Info("chain initialized", "chain_id", l.chainID, "height", l.height)
	return nil
}

// ChainID returns the id set by InitChain.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// Height returns the height of the block transactions are currently
// delivered in.
func (l *Ledger) Height() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// NextBlock closes the current block and returns the new height.
func (l *Ledger) NextBlock() int64 {
	return l.AdvanceBlocks(1)
}

// AdvanceBlocks moves the height n blocks forward and returns the new
// height.
func (l *Ledger) AdvanceBlocks(n int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n < 0 {
		panic("cannot move back in time")
	}
	l.height += n
	l.logger.Debug("block advanced", "height", l.height)
	return l.height
}

// Context returns a context for the current block. It is meant for queries
// that depend on the block height.
func (l *Ledger) Context() weave.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.blockContext()
}

func (l *Ledger) blockContext() weave.Context {
	if l.chainID == "" {
		panic("chain not initialized")
	}
	ctx := weave.WithHeight(context.Background(), l.height)
	ctx = weave.WithChainID(ctx, l.chainID)
	return weave.WithLogger(ctx, l.logger)
}

// Query calls fn with the current block context and a read only view of
// the committed state.
func (l *Ledger) Query(fn func(ctx weave.Context, db weave.ReadOnlyKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.blockContext(), l.db)
}

// Deliver executes the transaction. Writes of a failed transaction are kept
// unless the handler panics. Use a savepoint decorator to roll back the
// message.
func (l *Ledger) Deliver(tx weave.Tx) (res *weave.DeliverResult, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := weave.WithLogInfo(l.blockContext(), "call", "deliver_tx", "path", weave.GetPath(tx))
	cache := l.db.CacheWrap()
	panicked := true
	defer func() {
		if panicked {
			cache.Discard()
			return
		}
		cache.Write()
	}()
	defer errors.Recover(&err)

	res, err = l.handler.Deliver(ctx, cache, tx)
	panicked = false
	if err == nil && res == nil {
		res = &weave.DeliverResult{}
	}
	return res, err
}

// Check validates the transaction without changing the state.
func (l *Ledger) Check(tx weave.Tx) (res *weave.CheckResult, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := weave.WithLogInfo(l.blockContext(), "call", "check_tx", "path", weave.GetPath(tx))
	cache := l.db.CacheWrap()
	defer cache.Discard()
	defer errors.Recover(&err)

	res, err = l.handler.Check(ctx, cache, tx)
	if err == nil && res == nil {
		res = &weave.CheckResult{}
	}
	return res, err
}

// DeliverTx decodes and delivers a serialized transaction.
func (l *Ledger) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := l.loadTx(txBytes)
	if err != nil {
		return weave.DeliverOrError(nil, err, l.debug)
	}
	res, err := l.Deliver(tx)
	return weave.DeliverOrError(res, err, l.debug)
}

// CheckTx decodes and checks a serialized transaction.
func (l *Ledger) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := l.loadTx(txBytes)
	if err != nil {
		return weave.CheckOrError(nil, err, l.debug)
	}
	res, err := l.Check(tx)
	return weave.CheckOrError(res, err, l.debug)
}

// loadTx calls the decoder, and capture any panics
func (l *Ledger) loadTx(txBytes []byte) (tx weave.Tx, err error) {
	if l.decoder == nil {
		return nil, errors.Wrap(errors.ErrHuman, "no transaction decoder")
	}
	defer errors.Recover(&err)
	tx, err = l.decoder(txBytes)
	return
}
