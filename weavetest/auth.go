package weavetest

import (
	"context"
	"fmt"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/x"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. This is for the convinience and each time all signers
// (regardless which attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convinience attribute when creating an authentication method for a
	// single signer.
	Signer weave.Address

	// Signers represents an authentication of multiple signers.
	Signers []weave.Address
}

func (a *Auth) GetSigners(weave.Context) []weave.Address {
	if a.Signer != nil {
		return append(append([]weave.Address(nil), a.Signers...), a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s) {
			return true
		}
	}
	return a.Signer != nil && addr.Equals(a.Signer)
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers. Like
// the signature authenticator, it authenticates nobody within a call made by
// a contract.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convinience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetSigners(ctx weave.Context, signers ...weave.Address) weave.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetSigners(ctx weave.Context) []weave.Address {
	if x.InContractCall(ctx) {
		return nil
	}
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	signers, ok := val.([]weave.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []weave.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
