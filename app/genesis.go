package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

// Genesis file format. Each extension reads its own key of AppState.
type Genesis struct {
	ChainID string `json:"chain_id"`
	// InitialHeight is the height of the first block. Defaults to 1.
	InitialHeight int64         `json:"initial_height"`
	AppState      weave.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(err, "loading genesis file")
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrap(errors.ErrInput, "unmarshaling genesis file: "+err.Error())
	}
	return gen, nil
}

// Validate checks the chain id and the initial height.
func (g Genesis) Validate() error {
	if !weave.IsValidChainID(g.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", g.ChainID)
	}
	if g.InitialHeight < 0 {
		return errors.Wrap(errors.ErrInput, "negative initial height")
	}
	return nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []weave.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
