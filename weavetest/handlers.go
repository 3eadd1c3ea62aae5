package weavetest

import "github.com/openst/openst-weave"

// Handler is a mock implementation of the weave.Handler interface.
//
// Each method call is counted. Configured results are returned as they are.
// When Key is set, the value is written to the store before returning, so
// tests can assert if the writes of the handler were kept or discarded.
type Handler struct {
	checkCall   int
	CheckResult weave.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult weave.DeliverResult
	DeliverErr    error

	// Key and Value are written to the store on every call when Key is
	// not empty.
	Key   []byte
	Value []byte

	// Panic if set is raised instead of returning.
	Panic interface{}
}

var _ weave.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	h.checkCall++
	h.write(db)
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h.deliverCall++
	h.write(db)
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) write(db weave.KVStore) {
	if len(h.Key) != 0 {
		db.Set(h.Key, h.Value)
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
