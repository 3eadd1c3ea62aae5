package organization

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	b := NewBucket()
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, bucket: b})
	r.Handle(pathInitiateOwnershipTransferMsg, InitiateOwnershipTransferHandler{auth: auth, bucket: b})
	r.Handle(pathCompleteOwnershipTransferMsg, CompleteOwnershipTransferHandler{auth: auth, bucket: b})
	r.Handle(pathSetAdminMsg, SetAdminHandler{auth: auth, bucket: b})
	r.Handle(pathSetWorkerMsg, SetWorkerHandler{auth: auth, bucket: b})
	r.Handle(pathUnsetWorkerMsg, UnsetWorkerHandler{auth: auth, bucket: b})
}

// CreateHandler creates a new organization owned by the signer.
type CreateHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ weave.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := create(db, h.bucket, &Organization{
		Owner:   owner,
		Admin:   msg.Admin,
		Workers: msg.Workers,
	})
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: addr}, nil
}

func (h CreateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateMsg, weave.Address, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner := x.MainSigner(ctx, h.auth)
	if owner == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	for _, w := range msg.Workers {
		if weave.IsExpired(ctx, w.ExpirationHeight) {
			return nil, nil, errors.Wrapf(errors.ErrExpired, "worker %s", w.Address)
		}
	}
	return &msg, owner, nil
}

func create(db weave.KVStore, b Bucket, org *Organization) (weave.Address, error) {
	if err := org.Validate(); err != nil {
		return nil, err
	}
	addr, err := contract.Create(db, Kind)
	if err != nil {
		return nil, err
	}
	if err := b.Put(db, addr, org); err != nil {
		return nil, errors.Wrap(err, "cannot store organization")
	}
	return addr, nil
}

// InitiateOwnershipTransferHandler lets the owner propose a new owner.
type InitiateOwnershipTransferHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ weave.Handler = InitiateOwnershipTransferHandler{}

func (h InitiateOwnershipTransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h InitiateOwnershipTransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, org, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	org.ProposedOwner = msg.ProposedOwner
	if err := h.bucket.Put(db, msg.Organization, org); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("OwnershipTransferInitiated", msg.ProposedOwner)
	return res, nil
}

func (h InitiateOwnershipTransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*InitiateOwnershipTransferMsg, *Organization, error) {
	var msg InitiateOwnershipTransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	org, err := h.bucket.GetOrganization(db, msg.Organization)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, org.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only owner")
	}
	return &msg, org, nil
}

// CompleteOwnershipTransferHandler lets the proposed owner take over.
type CompleteOwnershipTransferHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ weave.Handler = CompleteOwnershipTransferHandler{}

func (h CompleteOwnershipTransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CompleteOwnershipTransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, org, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	org.Owner = org.ProposedOwner
	org.ProposedOwner = nil
	if err := h.bucket.Put(db, msg.Organization, org); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("OwnershipTransferCompleted", org.Owner)
	return res, nil
}

func (h CompleteOwnershipTransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CompleteOwnershipTransferMsg, *Organization, error) {
	var msg CompleteOwnershipTransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	org, err := h.bucket.GetOrganization(db, msg.Organization)
	if err != nil {
		return nil, nil, err
	}
	if len(org.ProposedOwner) == 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "no ownership transfer initiated")
	}
	if !h.auth.HasAddress(ctx, org.ProposedOwner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only proposed owner")
	}
	return &msg, org, nil
}

// SetAdminHandler replaces the admin.
type SetAdminHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ weave.Handler = SetAdminHandler{}

func (h SetAdminHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h SetAdminHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, org, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	org.Admin = msg.Admin
	if err := h.bucket.Put(db, msg.Organization, org); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("AdminAddressChanged", msg.Admin)
	return res, nil
}

func (h SetAdminHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetAdminMsg, *Organization, error) {
	var msg SetAdminMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	org, err := loadAsOwnerOrAdmin(ctx, db, h.auth, h.bucket, msg.Organization)
	if err != nil {
		return nil, nil, err
	}
	return &msg, org, nil
}

// SetWorkerHandler adds or updates a worker.
type SetWorkerHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ weave.Handler = SetWorkerHandler{}

func (h SetWorkerHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h SetWorkerHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, org, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if i := org.worker(msg.Worker); i >= 0 {
		org.Workers[i].ExpirationHeight = msg.ExpirationHeight
	} else {
		org.Workers = append(org.Workers, Worker{
			Address:          msg.Worker,
			ExpirationHeight: msg.ExpirationHeight,
		})
	}
	if err := h.bucket.Put(db, msg.Organization, org); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("WorkerSet", msg.Worker)
	return res, nil
}

func (h SetWorkerHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetWorkerMsg, *Organization, error) {
	var msg SetWorkerMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if weave.IsExpired(ctx, msg.ExpirationHeight) {
		return nil, nil, errors.Wrap(errors.ErrExpired, "expiration height must be in the future")
	}
	org, err := loadAsOwnerOrAdmin(ctx, db, h.auth, h.bucket, msg.Organization)
	if err != nil {
		return nil, nil, err
	}
	return &msg, org, nil
}

// UnsetWorkerHandler removes a worker. Removing an unknown worker is not
// an error.
type UnsetWorkerHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ weave.Handler = UnsetWorkerHandler{}

func (h UnsetWorkerHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h UnsetWorkerHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, org, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	i := org.worker(msg.Worker)
	if i < 0 {
		return &weave.DeliverResult{Data: []byte{0}}, nil
	}
	org.Workers = append(org.Workers[:i], org.Workers[i+1:]...)
	if err := h.bucket.Put(db, msg.Organization, org); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{Data: []byte{1}}
	res.AddTag("WorkerUnset", msg.Worker)
	return res, nil
}

func (h UnsetWorkerHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UnsetWorkerMsg, *Organization, error) {
	var msg UnsetWorkerMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	org, err := loadAsOwnerOrAdmin(ctx, db, h.auth, h.bucket, msg.Organization)
	if err != nil {
		return nil, nil, err
	}
	return &msg, org, nil
}

func loadAsOwnerOrAdmin(ctx weave.Context, db weave.KVStore, auth x.Authenticator, b Bucket, addr weave.Address) (*Organization, error) {
	org, err := b.GetOrganization(db, addr)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, org.Owner) && (len(org.Admin) == 0 || !auth.HasAddress(ctx, org.Admin)) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only owner or admin")
	}
	return org, nil
}
