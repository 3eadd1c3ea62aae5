package sigs

import (
	"context"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx weave.Context, signers []weave.Address) weave.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate authenticates the external accounts that signed the
// transaction. Inside a call made by a contract the signers are not the
// sender anymore and nothing is authenticated.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns who signed the current Context.
// May be empty
func (a Authenticate) GetSigners(ctx weave.Context) []weave.Address {
	if x.InContractCall(ctx) {
		return nil
	}
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]weave.Address)
	return val
}

// HasAddress returns true if the address signed the current Context.
func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
