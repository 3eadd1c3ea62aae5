package token

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const optKey = "token"

// GenesisToken is a token created at genesis. Tokens are created in the
// order they are listed.
type GenesisToken struct {
	Organization weave.Address    `json:"organization"`
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	Decimals     uint32           `json:"decimals"`
	Balances     []GenesisBalance `json:"balances"`
}

// GenesisBalance is the initial balance of a holder.
type GenesisBalance struct {
	Holder weave.Address `json:"holder"`
	Amount uint64        `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse initial tokens and balances from genesis and save
// them to the database.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions(optKey, &tokens); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ctrl := NewController()
	for i, g := range tokens {
		t := &Token{
			Organization: g.Organization,
			Symbol:       g.Symbol,
			Name:         g.Name,
			Decimals:     g.Decimals,
		}
		addr, err := create(db, ctrl, t, nil, 0)
		if err != nil {
			return errors.Wrapf(err, "token %d", i)
		}
		for _, b := range g.Balances {
			if err := b.Holder.Validate(); err != nil {
				return errors.Wrapf(err, "token %d holder", i)
			}
			if err := mint(db, ctrl, addr, t, b.Holder, b.Amount); err != nil {
				return errors.Wrapf(err, "token %d", i)
			}
		}
	}
	return nil
}
