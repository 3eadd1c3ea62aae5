package constraint

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	b := NewBucket()
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, bucket: b})
	update := UpdateHandler{auth: auth, bucket: b}
	r.Handle(pathSetLimitMsg, update)
	r.Handle(pathAddRecipientMsg, update)
	r.Handle(pathRemoveRecipientMsg, update)
	r.Handle(pathCheckMsg, CheckHandler{bucket: b})
}

// Result encodes the answer of a check.
func Result(ok bool) []byte {
	if ok {
		return []byte{1}
	}
	return []byte{0}
}

// IsAccepted decodes the result data of a check.
func IsAccepted(data []byte) bool {
	return len(data) == 1 && data[0] == 1
}

// CreateHandler creates a constraint contract.
type CreateHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
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
	addr, err := contract.Create(db, Kind)
	if err != nil {
		return nil, err
	}
	c := &Constraint{Owner: owner, Type: msg.Type, Limit: msg.Limit, Recipients: msg.Recipients}
	if err := h.bucket.Put(db, addr, c); err != nil {
		return nil, errors.Wrap(err, "cannot store constraint")
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
	return &msg, owner, nil
}

// UpdateHandler changes the configuration of a constraint. Only the owner
// can do it.
type UpdateHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ weave.Handler = UpdateHandler{}

func (h UpdateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h UpdateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	addr, c, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Put(db, addr, c); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h UpdateHandler) apply(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, *Constraint, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	cm, ok := msg.(contract.Msg)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	addr := cm.Target()
	var c Constraint
	if err := h.bucket.One(db, addr, &c); err != nil {
		return nil, nil, errors.Wrapf(err, "constraint %s", addr)
	}
	if !h.auth.HasAddress(ctx, c.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner only")
	}

	switch m := msg.(type) {
	case *SetLimitMsg:
		if c.Type != TypeCap {
			return nil, nil, errors.Wrapf(errors.ErrState, "%s constraint has no limit", c.Type)
		}
		c.Limit = m.Limit
	case *AddRecipientMsg:
		if c.Type != TypeRecipients {
			return nil, nil, errors.Wrapf(errors.ErrState, "%s constraint has no recipients", c.Type)
		}
		if c.recipient(m.Recipient) >= 0 {
			return nil, nil, errors.Wrap(errors.ErrDuplicate, "recipient")
		}
		c.Recipients = append(c.Recipients, m.Recipient)
	case *RemoveRecipientMsg:
		i := c.recipient(m.Recipient)
		if i < 0 {
			return nil, nil, errors.Wrap(errors.ErrNotFound, "recipient")
		}
		c.Recipients = append(c.Recipients[:i:i], c.Recipients[i+1:]...)
	default:
		return nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	return addr, &c, nil
}

// CheckHandler answers CheckMsg. It never changes the state.
type CheckHandler struct {
	bucket orm.ModelBucket
}

var _ weave.Handler = CheckHandler{}

func (h CheckHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.check(db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CheckHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	ok, err := h.check(db, tx)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: Result(ok)}, nil
}

func (h CheckHandler) check(db weave.KVStore, tx weave.Tx) (bool, error) {
	var msg CheckMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return false, errors.Wrap(err, "load msg")
	}
	var c Constraint
	if err := h.bucket.One(db, msg.Constraint, &c); err != nil {
		return false, errors.Wrapf(err, "constraint %s", msg.Constraint)
	}
	return c.Allows(msg.From, msg.To, msg.Amounts), nil
}
