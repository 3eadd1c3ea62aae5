package token

import (
	"encoding/binary"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/organization"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl BaseController, org organization.Controller) {
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathTransferMsg, TransferHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathApproveMsg, ApproveHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathTransferFromMsg, TransferFromHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathSetCoGatewayMsg, SetCoGatewayHandler{auth: auth, ctrl: ctrl, org: org})
}

// TransferTag adds an event tag whose value is from, to and the big endian
// amount.
func TransferTag(res *weave.DeliverResult, key string, from, to weave.Address, amount uint64) {
	value := make([]byte, 0, 2*weave.AddressLength+8)
	value = append(value, from...)
	value = append(value, to...)
	value = binary.BigEndian.AppendUint64(value, amount)
	res.AddTag(key, value)
}

// CreateHandler creates a token and credits the supply to the signer.
type CreateHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ weave.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, creator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := create(db, h.ctrl, &Token{
		Organization: msg.Organization,
		Symbol:       msg.Symbol,
		Name:         msg.Name,
		Decimals:     msg.Decimals,
	}, creator, msg.TotalSupply)
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
	creator := x.MainSigner(ctx, h.auth)
	if creator == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if !contract.IsKind(db, msg.Organization, organization.Kind) {
		return nil, nil, errors.Wrap(errors.ErrNotFound, "organization")
	}
	return &msg, creator, nil
}

func create(db weave.KVStore, ctrl BaseController, t *Token, holder weave.Address, supply uint64) (weave.Address, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	addr, err := contract.Create(db, Kind)
	if err != nil {
		return nil, err
	}
	if err := ctrl.tokens.Put(db, addr, t); err != nil {
		return nil, errors.Wrap(err, "cannot store token")
	}
	if supply > 0 {
		if err := mint(db, ctrl, addr, t, holder, supply); err != nil {
			return nil, err
		}
	}
	return addr, nil
}

// TransferHandler moves tokens of the signer.
type TransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h TransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Token, msg.From, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	TransferTag(res, "Transfer", msg.From, msg.To, msg.Amount)
	return res, nil
}

func (h TransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.From) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "holder signature missing")
	}
	return &msg, nil
}

// ApproveHandler sets an allowance over the tokens of the signer.
type ApproveHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h ApproveHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Approve(db, msg.Token, msg.Holder, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	TransferTag(res, "Approval", msg.Holder, msg.Spender, msg.Amount)
	return res, nil
}

func (h ApproveHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ApproveMsg, error) {
	var msg ApproveMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Holder) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "holder signature missing")
	}
	return &msg, nil
}

// TransferFromHandler moves tokens as an approved spender.
type TransferFromHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = TransferFromHandler{}

func (h TransferFromHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h TransferFromHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.TransferFrom(db, msg.Token, msg.Spender, msg.From, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	TransferTag(res, "Transfer", msg.From, msg.To, msg.Amount)
	return res, nil
}

func (h TransferFromHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TransferFromMsg, error) {
	var msg TransferFromMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Spender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "spender signature missing")
	}
	return &msg, nil
}

// SetCoGatewayHandler links the token to a CoGateway.
type SetCoGatewayHandler struct {
	auth x.Authenticator
	ctrl BaseController
	org  organization.Controller
}

var _ weave.Handler = SetCoGatewayHandler{}

func (h SetCoGatewayHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h SetCoGatewayHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, t, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t.CoGateway = msg.CoGateway
	if err := h.ctrl.tokens.Put(db, msg.Token, t); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("CoGatewaySet", msg.CoGateway)
	return res, nil
}

func (h SetCoGatewayHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetCoGatewayMsg, *Token, error) {
	var msg SetCoGatewayMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	t, err := h.ctrl.Token(db, msg.Token)
	if err != nil {
		return nil, nil, err
	}
	if !isOrganization(ctx, db, h.auth, h.org, t.Organization) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only organization")
	}
	return &msg, t, nil
}

func isOrganization(ctx weave.Context, db weave.ReadOnlyKVStore, auth x.Authenticator, org organization.Controller, orgAddr weave.Address) bool {
	for _, s := range auth.GetSigners(ctx) {
		if org.IsOrganization(db, orgAddr, s) {
			return true
		}
	}
	return false
}
