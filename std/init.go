package std

import (
	"encoding/json"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/organization"
	"github.com/openst/openst-weave/x/token"
)

// DevGenesis produces a genesis with one organization owned by owner and one
// token of that organization. The whole supply is given to the owner.
func DevGenesis(chainID string, owner weave.Address, supply uint64) (app.Genesis, error) {
	orgs, err := json.Marshal([]organization.GenesisOrganization{{Owner: owner}})
	if err != nil {
		return app.Genesis{}, errors.Wrap(err, "organization")
	}
	tokens, err := json.Marshal([]token.GenesisToken{{
		Organization: DevOrganization(),
		Symbol:       "DEV",
		Name:         "Development Token",
		Decimals:     18,
		Balances:     []token.GenesisBalance{{Holder: owner, Amount: supply}},
	}})
	if err != nil {
		return app.Genesis{}, errors.Wrap(err, "token")
	}
	return app.Genesis{
		ChainID: chainID,
		AppState: weave.Options{
			"organization": orgs,
			"token":        tokens,
		},
	}, nil
}

// DevOrganization is the address of the organization created by DevGenesis.
func DevOrganization() weave.Address {
	return contract.Address(organization.Kind, 1)
}

// DevToken is the address of the token created by DevGenesis.
func DevToken() weave.Address {
	return contract.Address(token.Kind, 1)
}
