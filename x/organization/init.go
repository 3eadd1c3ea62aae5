package organization

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const optKey = "organization"

// GenesisOrganization is an organization created at genesis. Organizations
// are created in the order they are listed.
type GenesisOrganization struct {
	Owner   weave.Address `json:"owner"`
	Admin   weave.Address `json:"admin"`
	Workers []struct {
		Address          weave.Address `json:"address"`
		ExpirationHeight int64         `json:"expiration_height"`
	} `json:"workers"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse initial organizations from genesis and save them
// to the database.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var orgs []GenesisOrganization
	if err := opts.ReadOptions(optKey, &orgs); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	b := NewBucket()
	for i, g := range orgs {
		org := &Organization{Owner: g.Owner, Admin: g.Admin}
		for _, w := range g.Workers {
			org.Workers = append(org.Workers, Worker{Address: w.Address, ExpirationHeight: w.ExpirationHeight})
		}
		if _, err := create(db, b, org); err != nil {
			return errors.Wrapf(err, "organization %d", i)
		}
	}
	return nil
}
