package tokenrules

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/constraint"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/organization"
	"github.com/openst/openst-weave/x/token"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl Controller, org organization.Controller) {
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, ctrl: ctrl})
	admin := AdminHandler{auth: auth, ctrl: ctrl, org: org}
	r.Handle(pathRegisterRuleMsg, admin)
	r.Handle(pathAddGlobalConstraintMsg, admin)
	r.Handle(pathRemoveGlobalConstraintMsg, admin)
	consent := ConsentHandler{auth: auth, ctrl: ctrl}
	r.Handle(pathAllowTransfersMsg, consent)
	r.Handle(pathDisallowTransfersMsg, consent)
	r.Handle(pathExecuteTransfersMsg, ExecuteTransfersHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathDirectTransfersMsg, DirectTransfersHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCheckGlobalConstraintsMsg, CheckGlobalConstraintsHandler{ctrl: ctrl})
}

// CreateHandler creates token rules.
type CreateHandler struct {
	auth x.Authenticator
	ctrl Controller
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
	tr := &TokenRules{Organization: msg.Organization, Token: msg.Token}
	if err := h.ctrl.tokenRules.Put(db, addr, tr); err != nil {
		return nil, errors.Wrap(err, "cannot store token rules")
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
	if !contract.IsKind(db, msg.Organization, organization.Kind) {
		return nil, errors.Wrap(errors.ErrNotFound, "organization")
	}
	if !contract.IsKind(db, msg.Token, token.Kind) {
		return nil, errors.Wrap(errors.ErrNotFound, "token")
	}
	return &msg, nil
}

// AdminHandler registers rules and manages global constraints. Only the
// owner or the admin of the organization can use it.
type AdminHandler struct {
	auth x.Authenticator
	ctrl Controller
	org  organization.Controller
}

var _ weave.Handler = AdminHandler{}

func (h AdminHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h AdminHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, tr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr := msg.(contract.Msg).Target()
	res := &weave.DeliverResult{}

	switch m := msg.(type) {
	case *RegisterRuleMsg:
		if h.ctrl.IsRule(db, addr, m.Address) {
			return nil, errors.Wrap(errors.ErrDuplicate, "Rule address already registered.")
		}
		rule := &Rule{TokenRules: addr, Name: m.Name, Address: m.Address, Abi: m.Abi}
		if err := h.ctrl.rules.Put(db, orm.CompositeKey(addr, m.Address), rule); err != nil {
			return nil, errors.Wrap(err, "Rule name already registered.")
		}
		tr.Rules = append(tr.Rules, m.Address)
		res.AddTag("RuleRegistered", m.Address)
	case *AddGlobalConstraintMsg:
		if tr.constraint(m.Constraint) >= 0 {
			return nil, errors.Wrap(errors.ErrDuplicate, "Constraint to add already exists.")
		}
		tr.GlobalConstraints = append(tr.GlobalConstraints, m.Constraint)
		res.AddTag("GlobalConstraintAdded", m.Constraint)
	case *RemoveGlobalConstraintMsg:
		i := tr.constraint(m.Constraint)
		if i < 0 {
			return nil, errors.Wrap(errors.ErrNotFound, "Constraint to remove does not exist.")
		}
		tr.GlobalConstraints = append(tr.GlobalConstraints[:i:i], tr.GlobalConstraints[i+1:]...)
		res.AddTag("GlobalConstraintRemoved", m.Constraint)
	default:
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}

	if err := h.ctrl.tokenRules.Put(db, addr, tr); err != nil {
		return nil, err
	}
	return res, nil
}

func (h AdminHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Msg, *TokenRules, error) {
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
	tr, err := h.ctrl.TokenRules(db, cm.Target())
	if err != nil {
		return nil, nil, err
	}
	if !isOrganization(ctx, db, h.auth, h.org, tr.Organization) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only organization is allowed to call.")
	}
	return msg, tr, nil
}

func isOrganization(ctx weave.Context, db weave.ReadOnlyKVStore, auth x.Authenticator, ctrl organization.Controller, org weave.Address) bool {
	for _, s := range auth.GetSigners(ctx) {
		if ctrl.IsOrganization(db, org, s) {
			return true
		}
	}
	return false
}

// ConsentHandler allows or disallows transfers of the sender's tokens.
type ConsentHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = ConsentHandler{}

func (h ConsentHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h ConsentHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, holder, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *AllowTransfersMsg:
		err = h.ctrl.AllowTransfers(ctx, db, m.TokenRules, holder)
	case *DisallowTransfersMsg:
		err = h.ctrl.DisallowTransfers(db, m.TokenRules, holder)
	default:
		err = errors.Wrapf(errors.ErrType, "%T", msg)
	}
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h ConsentHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (contract.Msg, weave.Address, error) {
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
	if _, err := h.ctrl.TokenRules(db, cm.Target()); err != nil {
		return nil, nil, err
	}
	holder := x.MainSigner(ctx, h.auth)
	if holder == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return cm, holder, nil
}

// ExecuteTransfersHandler executes transfers requested by a registered
// rule. The rule is the spender of the moved tokens.
type ExecuteTransfersHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = ExecuteTransfersHandler{}

func (h ExecuteTransfersHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h ExecuteTransfersHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, rule, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.ctrl.ExecuteTransfers(ctx, db, msg.TokenRules, rule, msg.From, msg.TransfersTo, msg.TransfersAmount)
}

func (h ExecuteTransfersHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ExecuteTransfersMsg, weave.Address, error) {
	var msg ExecuteTransfersMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	for _, s := range h.auth.GetSigners(ctx) {
		if h.ctrl.IsRule(db, msg.TokenRules, s) {
			return &msg, s, nil
		}
	}
	return nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only registered rule is allowed to call.")
}

// DirectTransfersHandler moves the sender's own tokens through the
// constraints, with token rules as the spender.
type DirectTransfersHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = DirectTransfersHandler{}

func (h DirectTransfersHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h DirectTransfersHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, from, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.ctrl.ExecuteTransfers(ctx, db, msg.TokenRules, msg.TokenRules, from, msg.TransfersTo, msg.TransfersAmount)
}

func (h DirectTransfersHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*DirectTransfersMsg, weave.Address, error) {
	var msg DirectTransfersMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	from := x.MainSigner(ctx, h.auth)
	if from == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, from, nil
}

// CheckGlobalConstraintsHandler answers CheckGlobalConstraintsMsg. The state
// is never changed.
type CheckGlobalConstraintsHandler struct {
	ctrl Controller
}

var _ weave.Handler = CheckGlobalConstraintsHandler{}

func (h CheckGlobalConstraintsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg CheckGlobalConstraintsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &weave.CheckResult{}, nil
}

func (h CheckGlobalConstraintsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg CheckGlobalConstraintsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	ok, err := h.ctrl.CheckGlobalConstraints(ctx, db, msg.TokenRules, msg.From, msg.TransfersTo, msg.TransfersAmount)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: constraint.Result(ok)}, nil
}
