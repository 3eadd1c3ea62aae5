package x

import (
	"context"

	"github.com/openst/openst-weave"
)

type contextKey int // local to the x module

const (
	contextKeyCaller contextKey = iota
)

// WithCaller returns a context in which the given contract is the sender of
// the call. It is used when one contract calls another one. Any caller that
// was set before is replaced, only the immediate caller is authenticated.
func WithCaller(ctx weave.Context, caller weave.Address) weave.Context {
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// GetCaller returns the contract that is the sender of the current call, if
// the call was made by a contract.
func GetCaller(ctx weave.Context) (weave.Address, bool) {
	caller, ok := ctx.Value(contextKeyCaller).(weave.Address)
	return caller, ok
}

// InContractCall returns true if the current call was made by a contract and
// not directly by the transaction signers.
func InContractCall(ctx weave.Context) bool {
	_, ok := GetCaller(ctx)
	return ok
}

// CallerAuth authenticates the contract that made the current call.
type CallerAuth struct{}

var _ Authenticator = CallerAuth{}

// GetSigners returns the calling contract, if any.
func (CallerAuth) GetSigners(ctx weave.Context) []weave.Address {
	caller, ok := GetCaller(ctx)
	if !ok {
		return nil
	}
	return []weave.Address{caller}
}

// HasAddress returns true if addr is the calling contract.
func (CallerAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	caller, ok := GetCaller(ctx)
	return ok && caller.Equals(addr)
}
