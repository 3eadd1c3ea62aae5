package sigs

import (
	"github.com/openst/openst-weave"
)

// stdTx is a transaction signing arbitrary bytes.
type stdTx struct {
	bytes      []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)
var _ weave.Tx = (*stdTx)(nil)

func newStdTx(bz []byte) *stdTx {
	return &stdTx{bytes: bz}
}

func (t *stdTx) GetMsg() (weave.Msg, error)     { return nil, nil }
func (t *stdTx) Marshal() ([]byte, error)       { return t.bytes, nil }
func (t *stdTx) Unmarshal(raw []byte) error     { t.bytes = raw; return nil }
func (t *stdTx) GetSignBytes() ([]byte, error)  { return t.bytes, nil }
func (t *stdTx) GetSignatures() []*StdSignature { return t.Signatures }

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []weave.Address
}

var _ weave.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &weave.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &weave.DeliverResult{}, nil
}
