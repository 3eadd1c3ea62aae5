/*
Package std wires all extensions into one application.

It is the place to see how the router, the contract dispatcher, the
decorator chain and the genesis initializers fit together. Use Stack for
the handler and TxDecoder to read transactions.
*/
package std

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/cogateway"
	"github.com/openst/openst-weave/x/constraint"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/multisig"
	"github.com/openst/openst-weave/x/organization"
	"github.com/openst/openst-weave/x/recovery"
	"github.com/openst/openst-weave/x/rules"
	"github.com/openst/openst-weave/x/sigs"
	"github.com/openst/openst-weave/x/token"
	"github.com/openst/openst-weave/x/tokenholder"
	"github.com/openst/openst-weave/x/tokenrules"
	"github.com/openst/openst-weave/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the authentication used by all extensions. Outside
// of a contract call it trusts signatures verified by the sigs decorator.
// Inside a call only the calling contract is authenticated.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, x.CallerAuth{})
}

// Chain returns a chain of decorators, to handle authentication, logging
// and recovery.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failing message still consumes the nonce
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router with all extensions registered. Contract calls
// made by one extension to another are dispatched through the same router.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	d := contract.NewDispatcher()

	tokens := token.NewController()
	orgs := organization.NewController()
	wallets := multisig.NewController(d)
	tokenRules := tokenrules.NewController(tokens, d)

	organization.RegisterRoutes(r, authFn)
	token.RegisterRoutes(r, authFn, tokens, orgs)
	constraint.RegisterRoutes(r, authFn)
	tokenrules.RegisterRoutes(r, authFn, tokenRules, orgs)
	rules.RegisterRoutes(r, authFn, rules.Deps{
		Caller:       d,
		TokenRules:   tokenRules,
		Tokens:       tokens,
		Organization: orgs,
	})
	cogateway.RegisterRoutes(r, authFn, tokens)
	multisig.RegisterRoutes(r, authFn, wallets)
	tokenholder.RegisterRoutes(r, authFn, tokenholder.NewController(tokens), tokenholder.Deps{
		Caller:     d,
		Tokens:     tokens,
		TokenRules: tokenRules,
		Wallets:    wallets,
	})
	recovery.RegisterRoutes(r, authFn, d)

	d.Bind(r)
	return r
}

// Stack wires up the router with the decorator chain.
func Stack() weave.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Initializers returns the genesis loaders of all extensions that support
// one.
func Initializers() weave.Initializer {
	return app.ChainInitializers(
		organization.Initializer{},
		token.Initializer{},
	)
}

// NewLedger returns a ledger running the full stack. logger can be nil.
func NewLedger(logger log.Logger) *app.Ledger {
	return app.NewLedger(Stack(), TxDecoder, logger)
}
