package organization

import (
	"github.com/openst/openst-weave"
)

// Controller answers authorization questions of other contracts.
type Controller interface {
	// IsOrganization returns true if the address is the owner or the admin
	// of the organization.
	IsOrganization(db weave.ReadOnlyKVStore, org, addr weave.Address) bool
	// IsWorker returns true if the address is a worker of the organization
	// that is not expired at the current height.
	IsWorker(ctx weave.Context, db weave.ReadOnlyKVStore, org, addr weave.Address) bool
}

// BaseController is the Controller backed by the organization bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller for the stored organizations.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) IsOrganization(db weave.ReadOnlyKVStore, org, addr weave.Address) bool {
	o, err := c.bucket.GetOrganization(db, org)
	if err != nil {
		return false
	}
	return o.IsOwnerOrAdmin(addr)
}

func (c BaseController) IsWorker(ctx weave.Context, db weave.ReadOnlyKVStore, org, addr weave.Address) bool {
	o, err := c.bucket.GetOrganization(db, org)
	if err != nil {
		return false
	}
	i := o.worker(addr)
	return i >= 0 && !weave.IsExpired(ctx, o.Workers[i].ExpirationHeight)
}
