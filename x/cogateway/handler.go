package cogateway

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/token"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, tokens token.Controller) {
	gateways := NewBucket()
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, bucket: gateways})
	r.Handle(pathRedeemMsg, RedeemHandler{
		auth:        auth,
		tokens:      tokens,
		gateways:    gateways,
		redemptions: NewRedemptionBucket(),
		nonces:      NewNonceBucket(),
	})
	r.Handle(pathRevertRedemptionMsg, RevertRedemptionHandler{
		auth:        auth,
		redemptions: NewRedemptionBucket(),
	})
}

// CreateHandler creates a gateway contract.
type CreateHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ weave.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := contract.Create(db, Kind)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Put(db, addr, &CoGateway{Token: msg.Token}); err != nil {
		return nil, errors.Wrap(err, "cannot store gateway")
	}
	return &weave.DeliverResult{Data: addr}, nil
}

func (h CreateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if !contract.IsKind(db, msg.Token, token.Kind) {
		return nil, errors.Wrap(errors.ErrNotFound, "token")
	}
	return &msg, nil
}

// RedeemHandler declares redeem intents. The tokens are moved from the
// redeemer to the gateway.
type RedeemHandler struct {
	auth        x.Authenticator
	tokens      token.Controller
	gateways    orm.ModelBucket
	redemptions orm.ModelBucket
	nonces      orm.ModelBucket
}

var _ weave.Handler = RedeemHandler{}

func (h RedeemHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h RedeemHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, redeemer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var gw CoGateway
	if err := h.gateways.One(db, msg.CoGateway, &gw); err != nil {
		return nil, errors.Wrapf(err, "gateway %s", msg.CoGateway)
	}
	if err := h.tokens.TransferFrom(db, gw.Token, msg.CoGateway, redeemer, msg.CoGateway, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot lock redeemed tokens")
	}

	r := &Redemption{
		Redeemer:    redeemer,
		Beneficiary: msg.Beneficiary,
		Amount:      msg.Amount,
		Nonce:       msg.Nonce,
		GasPrice:    msg.GasPrice,
		GasLimit:    msg.GasLimit,
		HashLock:    msg.HashLock,
		Status:      StatusDeclared,
	}
	hash := MessageHash(msg.CoGateway, r)
	if err := h.redemptions.Put(db, orm.CompositeKey(msg.CoGateway, hash), r); err != nil {
		return nil, errors.Wrap(err, "cannot store redemption")
	}
	if err := h.nonces.Put(db, orm.CompositeKey(msg.CoGateway, redeemer), &Nonce{Value: msg.Nonce}); err != nil {
		return nil, errors.Wrap(err, "cannot store nonce")
	}

	res := &weave.DeliverResult{Data: hash}
	res.AddTag("RedeemIntentDeclared", hash)
	return res, nil
}

func (h RedeemHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*RedeemMsg, weave.Address, error) {
	var msg RedeemMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	redeemer := x.MainSigner(ctx, h.auth)
	if redeemer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if want := NextNonce(db, h.nonces, msg.CoGateway, redeemer); msg.Nonce != want {
		return nil, nil, errors.Wrapf(errors.ErrInput, "nonce %d, expected %d", msg.Nonce, want)
	}
	return &msg, redeemer, nil
}

// NextNonce returns the nonce the next redemption of the redeemer must
// carry. The first one is 1.
func NextNonce(db weave.ReadOnlyKVStore, nonces orm.ModelBucket, gateway, redeemer weave.Address) uint64 {
	var n Nonce
	if err := nonces.One(db, orm.CompositeKey(gateway, redeemer), &n); err != nil {
		return 1
	}
	return n.Value + 1
}

// RevertRedemptionHandler marks a declared redemption as revert declared.
type RevertRedemptionHandler struct {
	auth        x.Authenticator
	redemptions orm.ModelBucket
}

var _ weave.Handler = RevertRedemptionHandler{}

func (h RevertRedemptionHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h RevertRedemptionHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, r, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	r.Status = StatusRevertDeclared
	if err := h.redemptions.Put(db, orm.CompositeKey(msg.CoGateway, msg.MessageHash), r); err != nil {
		return nil, errors.Wrap(err, "cannot store redemption")
	}
	res := &weave.DeliverResult{}
	res.AddTag("RevertRedeemDeclared", msg.MessageHash)
	return res, nil
}

func (h RevertRedemptionHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*RevertRedemptionMsg, *Redemption, error) {
	var msg RevertRedemptionMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var r Redemption
	if err := h.redemptions.One(db, orm.CompositeKey(msg.CoGateway, msg.MessageHash), &r); err != nil {
		return nil, nil, errors.Wrap(err, "redemption")
	}
	if !h.auth.HasAddress(ctx, r.Redeemer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "redeemer only")
	}
	if r.Status != StatusDeclared {
		return nil, nil, errors.Wrapf(errors.ErrState, "redemption is %s", r.Status)
	}
	return &msg, &r, nil
}
