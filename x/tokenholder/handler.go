package tokenholder

import (
	"encoding/binary"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/cogateway"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/multisig"
	"github.com/openst/openst-weave/x/token"
	"github.com/openst/openst-weave/x/tokenrules"
)

// Deps are the contracts a holder works with.
type Deps struct {
	Caller     contract.Caller
	Tokens     token.Controller
	TokenRules tokenrules.Controller
	Wallets    multisig.Controller
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl Controller, deps Deps) {
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, ctrl: ctrl, deps: deps})
	owner := OwnerHandler{auth: auth, ctrl: ctrl, deps: deps}
	r.Handle(pathAuthorizeSessionMsg, owner)
	r.Handle(pathRevokeSessionMsg, owner)
	r.Handle(pathLogoutMsg, owner)
	r.Handle(pathRedeemMsg, owner)
	r.Handle(pathRevertRedemptionMsg, owner)
	r.Handle(pathRevokeSelfSessionMsg, RevokeSelfHandler{auth: auth, ctrl: ctrl})
	execute := ExecuteHandler{ctrl: ctrl, deps: deps}
	r.Handle(pathExecuteRuleMsg, execute)
	r.Handle(pathExecuteRedemptionMsg, execute)
	submit := SubmitHandler{auth: auth, ctrl: ctrl, wallets: deps.Wallets}
	r.Handle(pathSubmitAuthorizeSessionMsg, submit)
	r.Handle(pathSubmitRevokeSessionMsg, submit)
	r.Handle(pathSubmitLogoutMsg, submit)
	r.Handle(pathSubmitRedeemMsg, submit)
	r.Handle(pathSubmitRevertRedemptionMsg, submit)
}

// CreateHandler creates a holder and authorizes its initial session keys.
type CreateHandler struct {
	auth x.Authenticator
	ctrl Controller
	deps Deps
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
	th := &TokenHolder{
		Token:         msg.Token,
		TokenRules:    msg.TokenRules,
		Owner:         msg.Owner,
		SessionWindow: 1,
	}
	if err := h.ctrl.holders.Put(db, addr, th); err != nil {
		return nil, errors.Wrap(err, "cannot store token holder")
	}
	res := &weave.DeliverResult{Data: addr}
	for _, k := range msg.SessionKeys {
		if err := h.ctrl.AuthorizeSession(ctx, db, addr, k); err != nil {
			return nil, errors.Wrapf(err, "session key %s", k.Key)
		}
		res.AddTag("SessionAuthorized", k.Key)
	}
	return res, nil
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
	tr, err := h.deps.TokenRules.TokenRules(db, msg.TokenRules)
	if err != nil {
		return nil, err
	}
	if !tr.Token.Equals(msg.Token) {
		return nil, errors.Wrap(errors.ErrInput, "token rules of another token")
	}
	return &msg, nil
}

// OwnerHandler processes the messages only the owner of the holder can
// send.
type OwnerHandler struct {
	auth x.Authenticator
	ctrl Controller
	deps Deps
}

var _ weave.Handler = OwnerHandler{}

func (h OwnerHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h OwnerHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, th, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	holder := msg.Target()

	res := &weave.DeliverResult{}
	switch m := msg.(type) {
	case *AuthorizeSessionMsg:
		cfg := SessionKeyConfig{Key: m.Key, SpendingLimit: m.SpendingLimit, ExpirationHeight: m.ExpirationHeight}
		if err := h.ctrl.AuthorizeSession(ctx, db, holder, cfg); err != nil {
			return nil, err
		}
		res.AddTag("SessionAuthorized", m.Key)
	case *RevokeSessionMsg:
		if err := h.ctrl.RevokeSession(ctx, db, holder, m.Key); err != nil {
			return nil, err
		}
		res.AddTag("SessionRevoked", m.Key)
	case *LogoutMsg:
		window, err := h.ctrl.Logout(db, holder)
		if err != nil {
			return nil, err
		}
		res.AddTag("SessionsLoggedOut", windowTag(window))
	case *RedeemMsg:
		gw, err := h.gateway(db, th)
		if err != nil {
			return nil, err
		}
		redeem := &cogateway.RedeemMsg{
			CoGateway:   gw,
			Amount:      m.Amount,
			Beneficiary: m.Beneficiary,
			GasPrice:    m.GasPrice,
			GasLimit:    m.GasLimit,
			Nonce:       m.Nonce,
			HashLock:    m.HashLock,
		}
		if err := h.deps.Tokens.Approve(db, th.Token, holder, gw, m.Amount); err != nil {
			return nil, err
		}
		res, err = h.deps.Caller.Invoke(ctx, db, holder, redeem)
		if err != nil {
			return nil, errors.Wrap(err, "redeem")
		}
		if err := h.deps.Tokens.Approve(db, th.Token, holder, gw, 0); err != nil {
			return nil, err
		}
	case *RevertRedemptionMsg:
		gw, err := h.gateway(db, th)
		if err != nil {
			return nil, err
		}
		res, err = h.deps.Caller.Invoke(ctx, db, holder, &cogateway.RevertRedemptionMsg{CoGateway: gw, MessageHash: m.MessageHash})
		if err != nil {
			return nil, errors.Wrap(err, "revert redemption")
		}
	default:
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	return res, nil
}

func (h OwnerHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (contract.Msg, *TokenHolder, error) {
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
	th, err := h.ctrl.TokenHolder(db, cm.Target())
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, th.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only owner is allowed to call.")
	}
	return cm, th, nil
}

func (h OwnerHandler) gateway(db weave.ReadOnlyKVStore, th *TokenHolder) (weave.Address, error) {
	tok, err := h.deps.Tokens.Token(db, th.Token)
	if err != nil {
		return nil, err
	}
	if len(tok.CoGateway) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "token has no gateway")
	}
	return tok.CoGateway, nil
}

func windowTag(window uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, window)
}

// RevokeSelfHandler lets an authorized session key revoke itself.
type RevokeSelfHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = RevokeSelfHandler{}

func (h RevokeSelfHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h RevokeSelfHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, key, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.RevokeSession(ctx, db, msg.TokenHolder, key); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("SessionRevoked", key)
	return res, nil
}

func (h RevokeSelfHandler) validate(ctx weave.Context, tx weave.Tx) (*RevokeSelfSessionMsg, weave.Address, error) {
	var msg RevokeSelfSessionMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	key := x.MainSigner(ctx, h.auth)
	if key == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, key, nil
}

// ExecuteHandler relays requests signed by session keys. Anybody can send
// them.
//
// A failure of the called contract does not fail the transaction. The nonce
// is used and the result reports the failure.
type ExecuteHandler struct {
	ctrl Controller
	deps Deps
}

var _ weave.Handler = ExecuteHandler{}

// execution is a verified request.
type execution struct {
	holder weave.Address
	th     *TokenHolder
	key    weave.Address
	to     weave.Address
	data   []byte
	hash   []byte
	event  string
}

func (h ExecuteHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h ExecuteHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	k, err := h.ctrl.SessionKey(db, e.holder, e.key)
	if err != nil {
		return nil, err
	}
	k.Nonce++
	if err := h.ctrl.keys.Put(db, sessionKeyKey(e.holder, e.key), k); err != nil {
		return nil, err
	}

	if err := h.deps.Tokens.Approve(db, e.th.Token, e.holder, e.to, k.SpendingLimit); err != nil {
		return nil, err
	}
	if err := h.deps.TokenRules.AllowTransfers(ctx, db, e.th.TokenRules, e.holder); err != nil {
		return nil, err
	}
	callRes, ok := h.deps.Caller.Call(ctx, db, e.holder, e.to, e.data)
	if err := h.deps.Tokens.Approve(db, e.th.Token, e.holder, e.to, 0); err != nil {
		return nil, err
	}
	if err := h.deps.TokenRules.DisallowTransfers(db, e.th.TokenRules, e.holder); err != nil {
		return nil, err
	}

	res := &weave.DeliverResult{Data: StatusData(ok)}
	if ok {
		res.MergeTags(callRes)
	}
	res.AddTag(e.event, e.hash)
	res.AddTag("ExecutionStatus", StatusData(ok))
	return res, nil
}

// StatusData encodes the outcome of a relayed call.
func StatusData(ok bool) []byte {
	if ok {
		return []byte{1}
	}
	return []byte{0}
}

func (h ExecuteHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*execution, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}

	var (
		e      execution
		nonce  uint64
		v      uint32
		r, s   []byte
		prefix crypto.CallPrefix
	)
	switch m := msg.(type) {
	case *ExecuteRuleMsg:
		e = execution{holder: m.TokenHolder, to: m.To, data: m.Data, event: "RuleExecuted"}
		nonce, v, r, s = m.Nonce, m.V, m.R, m.S
		prefix = crypto.ExecuteRuleCallPrefix
	case *ExecuteRedemptionMsg:
		e = execution{holder: m.TokenHolder, to: m.To, data: m.Data, event: "RedemptionExecuted"}
		nonce, v, r, s = m.Nonce, m.V, m.R, m.S
		prefix = crypto.ExecuteRedemptionCallPrefix
	default:
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}

	e.th, err = h.ctrl.TokenHolder(db, e.holder)
	if err != nil {
		return nil, err
	}
	e.hash = crypto.MessageHash(e.holder, e.to, e.data, nonce, prefix)
	e.key, err = crypto.Recover(e.hash, v, r, s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}

	k, err := h.ctrl.SessionKey(db, e.holder, e.key)
	if err != nil {
		return nil, err
	}
	if k.Session != e.th.SessionWindow {
		return nil, errors.Wrapf(ErrSession, "key %s", e.key)
	}
	if k.Status != Authorized {
		return nil, errors.Wrap(errors.ErrUnauthorized, "Key is not authorized.")
	}
	if height, _ := weave.GetHeight(ctx); k.IsExpired(height) {
		return nil, errors.Wrap(errors.ErrExpired, "Key has expired.")
	}
	if nonce != k.Nonce {
		return nil, errors.Wrapf(ErrInvalidNonce, "got %d, expected %d", nonce, k.Nonce)
	}

	if e.to.Equals(e.th.Token) {
		return nil, errors.Wrap(errors.ErrInput, "'to' address is utility token address.")
	}
	if e.to.Equals(e.holder) {
		return nil, errors.Wrap(errors.ErrInput, "'to' address is token holder address itself.")
	}
	if prefix == crypto.ExecuteRedemptionCallPrefix {
		gw, err := h.ctrl.CoGateway(db, e.holder)
		if err != nil {
			return nil, err
		}
		if !e.to.Equals(gw) {
			return nil, errors.Wrap(errors.ErrInput, "'to' address is not coGateway address.")
		}
	}
	return &e, nil
}

// submitMsg is implemented by messages that submit a holder message to the
// multi signature wallet owning the holder.
type submitMsg interface {
	contract.Msg
	call() weave.Msg
}

// SubmitHandler lets a member of the owning wallet submit an owner message
// of the holder. The wallet confirms it as the member and executes it once
// enough members confirmed.
type SubmitHandler struct {
	auth    x.Authenticator
	ctrl    Controller
	wallets multisig.Controller
}

var _ weave.Handler = SubmitHandler{}

func (h SubmitHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h SubmitHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, th, member, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	payload, err := weave.EncodeMsg(msg.call())
	if err != nil {
		return nil, err
	}
	return h.wallets.SubmitTransaction(ctx, db, member, th.Owner, msg.Target(), payload)
}

func (h SubmitHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (submitMsg, *TokenHolder, weave.Address, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "invalid message")
	}
	sm, ok := msg.(submitMsg)
	if !ok {
		return nil, nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	th, err := h.ctrl.TokenHolder(db, sm.Target())
	if err != nil {
		return nil, nil, nil, err
	}
	if !contract.IsKind(db, th.Owner, multisig.Kind) {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "owner is not a multi signature wallet")
	}
	w, err := h.wallets.Wallet(db, th.Owner)
	if err != nil {
		return nil, nil, nil, err
	}
	member, ok := multisig.Member(h.auth.GetSigners(ctx), w)
	if !ok {
		return nil, nil, nil, multisig.ErrNotWallet
	}
	return sm, th, member, nil
}
