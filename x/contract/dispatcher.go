package contract

import (
	"context"
	"strings"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/x"
)

// MaxCallDepth limits how deep contracts can call each other within a
// single transaction.
const MaxCallDepth = 16

// Msg is implemented by messages that are addressed to a contract
// instance.
type Msg interface {
	weave.Msg
	// Target returns the address of the instance the message is sent to.
	Target() weave.Address
}

// Caller is the interface contracts use to call other contracts.
type Caller interface {
	// Invoke delivers the message to its target as the caller. The
	// message failure is returned.
	Invoke(ctx weave.Context, db weave.KVStore, caller weave.Address, msg Msg) (*weave.DeliverResult, error)

	// Call decodes the payload and delivers it to the given address as the
	// caller. A failing call is reported with ok set to false and does not
	// change the state.
	Call(ctx weave.Context, db weave.KVStore, caller, to weave.Address, payload []byte) (res *weave.DeliverResult, ok bool)

	// StaticCall is Call whose state changes are always discarded.
	StaticCall(ctx weave.Context, db weave.KVStore, caller, to weave.Address, payload []byte) (res *weave.DeliverResult, ok bool)
}

// Dispatcher routes contract calls to the application handler.
type Dispatcher struct {
	handler weave.Handler
}

var _ Caller = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher without a handler. Bind must be called
// before the first call is made.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Bind sets the handler all calls are delivered to. This is usually the
// application router, that itself contains handlers using this dispatcher.
func (d *Dispatcher) Bind(h weave.Handler) {
	d.handler = h
}

func (d *Dispatcher) Invoke(ctx weave.Context, db weave.KVStore, caller weave.Address, msg Msg) (*weave.DeliverResult, error) {
	return d.deliver(ctx, db, caller, msg.Target(), msg, false)
}

func (d *Dispatcher) Call(ctx weave.Context, db weave.KVStore, caller, to weave.Address, payload []byte) (*weave.DeliverResult, bool) {
	return d.call(ctx, db, caller, to, payload, false)
}

func (d *Dispatcher) StaticCall(ctx weave.Context, db weave.KVStore, caller, to weave.Address, payload []byte) (*weave.DeliverResult, bool) {
	return d.call(ctx, db, caller, to, payload, true)
}

func (d *Dispatcher) call(ctx weave.Context, db weave.KVStore, caller, to weave.Address, payload []byte, static bool) (*weave.DeliverResult, bool) {
	msg, err := weave.DecodeMsg(payload)
	if err == nil {
		var res *weave.DeliverResult
		res, err = d.deliver(ctx, db, caller, to, msg, static)
		if err == nil {
			return res, true
		}
	}
	weave.GetLogger(ctx).Debug("contract call failed",
		"caller", caller, "to", to, "err", err)
	return nil, false
}

func (d *Dispatcher) deliver(ctx weave.Context, db weave.KVStore, caller, to weave.Address, msg weave.Msg, static bool) (res *weave.DeliverResult, err error) {
	if d.handler == nil {
		return nil, errors.Wrap(errors.ErrHuman, "dispatcher not bound")
	}
	depth := callDepth(ctx)
	if depth >= MaxCallDepth {
		return nil, errors.Wrap(errors.ErrState, "call depth exceeded")
	}
	if err := caller.Validate(); err != nil {
		return nil, errors.Wrap(err, "caller")
	}
	if err := checkTarget(db, to, msg); err != nil {
		return nil, err
	}

	cache := cacheWrap(db)
	defer func() {
		if err != nil || static {
			cache.Discard()
			return
		}
		cache.Write()
	}()
	defer errors.Recover(&err)

	ctx = withCallDepth(x.WithCaller(ctx, caller), depth+1)
	res, err = d.handler.Deliver(ctx, cache, &callTx{msg: msg})
	if err == nil && res == nil {
		res = &weave.DeliverResult{}
	}
	return res, err
}

func cacheWrap(db weave.KVStore) weave.KVCacheWrap {
	if c, ok := db.(weave.CacheableKVStore); ok {
		return c.CacheWrap()
	}
	return store.NewBTreeCacheWrap(db, store.NewNonAtomicBatch(db), nil)
}

// checkTarget ensures that the message is addressed to the given contract
// and that the contract is of the kind handling the message.
func checkTarget(db weave.ReadOnlyKVStore, to weave.Address, msg weave.Msg) error {
	cm, ok := msg.(Msg)
	if !ok {
		return errors.Wrapf(errors.ErrMsg, "%T is not a contract message", msg)
	}
	if !cm.Target().Equals(to) {
		return errors.Wrap(errors.ErrMsg, "message target does not match called address")
	}
	kind, err := KindOf(db, to)
	if err != nil {
		return err
	}
	if kind != PathKind(msg.Path()) {
		return errors.Wrapf(errors.ErrMsg, "%s contract cannot handle %s", kind, msg.Path())
	}
	return nil
}

// PathKind returns the contract kind that handles messages of the path.
func PathKind(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

type contextKey int // local to the contract module

const (
	contextKeyDepth contextKey = iota
)

func withCallDepth(ctx weave.Context, depth int) weave.Context {
	return context.WithValue(ctx, contextKeyDepth, depth)
}

func callDepth(ctx weave.Context) int {
	depth, _ := ctx.Value(contextKeyDepth).(int)
	return depth
}

// callTx carries a single message between contracts.
type callTx struct {
	msg weave.Msg
}

var _ weave.Tx = (*callTx)(nil)

func (tx *callTx) GetMsg() (weave.Msg, error) {
	return tx.msg, nil
}

func (tx *callTx) Marshal() ([]byte, error) {
	return weave.EncodeMsg(tx.msg)
}

func (tx *callTx) Unmarshal(raw []byte) error {
	msg, err := weave.DecodeMsg(raw)
	if err != nil {
		return err
	}
	tx.msg = msg
	return nil
}
