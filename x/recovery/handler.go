package recovery

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/multisig"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, caller contract.Caller) {
	modules := NewBucket()
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, modules: modules})
	h := RecoveryHandler{
		auth:    auth,
		caller:  caller,
		modules: modules,
		active:  NewActiveRecoveryBucket(),
	}
	r.Handle(pathInitiateRecoveryMsg, h)
	r.Handle(pathExecuteRecoveryMsg, h)
	r.Handle(pathAbortRecoveryMsg, h)
	r.Handle(pathResetRecoveryOwnerMsg, h)
}

// CreateHandler creates a recovery module.
type CreateHandler struct {
	auth    x.Authenticator
	modules orm.ModelBucket
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
	m := &Module{
		Wallet:             msg.Wallet,
		RecoveryOwner:      msg.RecoveryOwner,
		RecoveryController: msg.RecoveryController,
		RecoveryBlockDelay: msg.RecoveryBlockDelay,
	}
	if err := h.modules.Put(db, addr, m); err != nil {
		return nil, errors.Wrap(err, "cannot store recovery module")
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
	if !contract.IsKind(db, msg.Wallet, multisig.Kind) {
		return nil, errors.Wrap(errors.ErrNotFound, "wallet")
	}
	return &msg, nil
}

// RecoveryHandler processes the recovery messages. All of them are sent by
// the recovery controller.
type RecoveryHandler struct {
	auth    x.Authenticator
	caller  contract.Caller
	modules orm.ModelBucket
	active  orm.ModelBucket
}

var _ weave.Handler = RecoveryHandler{}

func (h RecoveryHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h RecoveryHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, mod, active, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr := msg.Target()

	res := &weave.DeliverResult{}
	switch m := msg.(type) {
	case *InitiateRecoveryMsg:
		height, _ := weave.GetHeight(ctx)
		r := &ActiveRecovery{
			OldOwner:        m.OldOwner,
			NewOwner:        m.NewOwner,
			ExecutionHeight: height + mod.RecoveryBlockDelay,
			Nonce:           mod.Nonce,
		}
		if err := h.active.Put(db, addr, r); err != nil {
			return nil, err
		}
		mod.Nonce++
		if err := h.modules.Put(db, addr, mod); err != nil {
			return nil, err
		}
		res.AddTag("RecoveryInitiated", m.NewOwner)
	case *ExecuteRecoveryMsg:
		if err := h.active.Delete(db, addr); err != nil {
			return nil, err
		}
		replace := &multisig.ReplaceWalletMsg{Wallet: mod.Wallet, OldWallet: active.OldOwner, NewWallet: active.NewOwner}
		replaced, err := h.caller.Invoke(ctx, db, addr, replace)
		if err != nil {
			return nil, errors.Wrap(err, "replace wallet")
		}
		res.MergeTags(replaced)
		res.AddTag("RecoveryExecuted", m.NewOwner)
	case *AbortRecoveryMsg:
		if err := h.active.Delete(db, addr); err != nil {
			return nil, err
		}
		res.AddTag("RecoveryAborted", m.NewOwner)
	case *ResetRecoveryOwnerMsg:
		mod.RecoveryOwner = m.NewRecoveryOwner
		mod.Nonce++
		if err := h.modules.Put(db, addr, mod); err != nil {
			return nil, err
		}
		res.AddTag("RecoveryOwnerReset", m.NewRecoveryOwner)
	default:
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	return res, nil
}

func (h RecoveryHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (contract.Msg, *Module, *ActiveRecovery, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "invalid message")
	}
	cm, ok := msg.(contract.Msg)
	if !ok {
		return nil, nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	addr := cm.Target()
	var mod Module
	if err := h.modules.One(db, addr, &mod); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "recovery module %s", addr)
	}
	if !h.auth.HasAddress(ctx, mod.RecoveryController) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only recovery controller is allowed to call.")
	}

	var active *ActiveRecovery
	var r ActiveRecovery
	switch err := h.active.One(db, addr, &r); {
	case err == nil:
		active = &r
	case errors.ErrNotFound.Is(err):
	default:
		return nil, nil, nil, err
	}

	switch m := msg.(type) {
	case *InitiateRecoveryMsg:
		if active != nil {
			return nil, nil, nil, errors.Wrap(errors.ErrState, "There is an active recovery.")
		}
		if err := crypto.Verify(InitiateRecoveryHash(addr, m.OldOwner, m.NewOwner, mod.Nonce), m.V, m.R, m.S, mod.RecoveryOwner); err != nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
		}
	case *ExecuteRecoveryMsg:
		if err := matchActive(active, m.OldOwner, m.NewOwner); err != nil {
			return nil, nil, nil, err
		}
		if height, _ := weave.GetHeight(ctx); height < active.ExecutionHeight {
			return nil, nil, nil, errors.Wrapf(errors.ErrState, "Recovery can be executed at height %d.", active.ExecutionHeight)
		}
	case *AbortRecoveryMsg:
		if err := matchActive(active, m.OldOwner, m.NewOwner); err != nil {
			return nil, nil, nil, err
		}
		if err := crypto.Verify(AbortRecoveryHash(addr, m.OldOwner, m.NewOwner, active.Nonce), m.V, m.R, m.S, mod.RecoveryOwner); err != nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
		}
	case *ResetRecoveryOwnerMsg:
		if m.NewRecoveryOwner.Equals(mod.RecoveryOwner) {
			return nil, nil, nil, errors.Wrap(errors.ErrDuplicate, "recovery owner")
		}
		if err := crypto.Verify(ResetRecoveryOwnerHash(addr, m.NewRecoveryOwner, mod.Nonce), m.V, m.R, m.S, mod.RecoveryOwner); err != nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
		}
	default:
		return nil, nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	return cm, &mod, active, nil
}

func matchActive(active *ActiveRecovery, oldOwner, newOwner weave.Address) error {
	if active == nil {
		return errors.Wrap(errors.ErrNotFound, "There is no active recovery.")
	}
	if !active.Matches(oldOwner, newOwner) {
		return errors.Wrap(errors.ErrInput, "The recovery request does not match existing one.")
	}
	return nil
}
