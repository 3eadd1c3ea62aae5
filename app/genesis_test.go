package app

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	raw := `{"chain_id": "test-chain", "initial_height": 5, "app_state": {"token": {"supply": 10}}}`
	require.NoError(t, ioutil.WriteFile(path, []byte(raw), 0600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "test-chain", gen.ChainID)
	assert.Equal(t, int64(5), gen.InitialHeight)
	assert.Nil(t, gen.Validate())

	var state struct {
		Supply int `json:"supply"`
	}
	require.NoError(t, gen.AppState.ReadOptions("token", &state))
	assert.Equal(t, 10, state.Supply)

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	require.NoError(t, ioutil.WriteFile(path, []byte("{"), 0600))
	_, err = LoadGenesis(path)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestGenesisValidate(t *testing.T) {
	assert.IsErr(t, errors.ErrInput, Genesis{ChainID: "x"}.Validate())
	assert.IsErr(t, errors.ErrInput, Genesis{ChainID: "test-chain", InitialHeight: -1}.Validate())
}

type recordingInit struct {
	seen *[]string
	name string
	err  error
}

func (r recordingInit) FromGenesis(opts weave.Options, db weave.KVStore) error {
	*r.seen = append(*r.seen, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var seen []string
	init := ChainInitializers(
		recordingInit{seen: &seen, name: "a"},
		recordingInit{seen: &seen, name: "b", err: errors.ErrState},
		recordingInit{seen: &seen, name: "c"},
	)
	err := init.FromGenesis(weave.Options{"a": json.RawMessage(`{}`)}, nil)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, []string{"a", "b"}, seen)
}
