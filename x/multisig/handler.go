package multisig

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/x"
	"github.com/openst/openst-weave/x/contract"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, ctrl: ctrl})

	submit := SubmitHandler{auth: auth, ctrl: ctrl}
	r.Handle(pathSubmitTransactionMsg, submit)
	r.Handle(pathSubmitAddWalletMsg, submit)
	r.Handle(pathSubmitRemoveWalletMsg, submit)
	r.Handle(pathSubmitReplaceWalletMsg, submit)
	r.Handle(pathSubmitChangeRequirementMsg, submit)

	r.Handle(pathConfirmTransactionMsg, ConfirmHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathRevokeConfirmationMsg, RevokeHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathExecuteTransactionMsg, ExecuteHandler{auth: auth, ctrl: ctrl})

	admin := AdminHandler{auth: auth, ctrl: ctrl}
	r.Handle(pathAddWalletMsg, admin)
	r.Handle(pathRemoveWalletMsg, admin)
	r.Handle(pathReplaceWalletMsg, admin)
	r.Handle(pathChangeRequirementMsg, admin)
	r.Handle(pathSetRecoveryModuleMsg, admin)
}

// CreateHandler creates a new wallet.
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
	w := &Wallet{Wallets: msg.Wallets, Required: msg.Required}
	if err := h.ctrl.wallets.Put(db, addr, w); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
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
	return &msg, nil
}

// SubmitHandler handles all messages that submit a transaction.
type SubmitHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = SubmitHandler{}

type submission struct {
	submitter   weave.Address
	wallet      weave.Address
	destination weave.Address
	payload     []byte
}

func (h SubmitHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h SubmitHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.ctrl.SubmitTransaction(ctx, db, s.submitter, s.wallet, s.destination, s.payload)
}

func (h SubmitHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*submission, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	cm, ok := msg.(contract.Msg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	wallet := cm.Target()
	w, err := h.ctrl.Wallet(db, wallet)
	if err != nil {
		return nil, err
	}
	submitter, ok := Member(h.auth.GetSigners(ctx), w)
	if !ok {
		return nil, ErrNotWallet
	}

	s := &submission{submitter: submitter, wallet: wallet, destination: wallet}
	var call weave.Msg
	switch m := msg.(type) {
	case *SubmitTransactionMsg:
		s.destination = m.Destination
		s.payload = m.Payload
		return s, nil
	case *SubmitAddWalletMsg:
		if w.IsWallet(m.NewWallet) {
			return nil, errors.Wrap(errors.ErrDuplicate, "Wallet exists.")
		}
		call = &AddWalletMsg{Wallet: wallet, NewWallet: m.NewWallet}
	case *SubmitRemoveWalletMsg:
		if !w.IsWallet(m.OldWallet) {
			return nil, errors.Wrap(errors.ErrNotFound, "Wallet does not exist.")
		}
		call = &RemoveWalletMsg{Wallet: wallet, OldWallet: m.OldWallet}
	case *SubmitReplaceWalletMsg:
		if !w.IsWallet(m.OldWallet) {
			return nil, errors.Wrap(errors.ErrNotFound, "Wallet does not exist.")
		}
		if w.IsWallet(m.NewWallet) {
			return nil, errors.Wrap(errors.ErrDuplicate, "Wallet exists.")
		}
		call = &ReplaceWalletMsg{Wallet: wallet, OldWallet: m.OldWallet, NewWallet: m.NewWallet}
	case *SubmitChangeRequirementMsg:
		if err := validateRequirement(m.Required, len(w.Wallets)); err != nil {
			return nil, err
		}
		call = &ChangeRequirementMsg{Wallet: wallet, Required: m.Required}
	default:
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	s.payload, err = weave.EncodeMsg(call)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// memberMsg is implemented by messages sent by a member about a
// transaction.
type memberMsg interface {
	contract.Msg
	transactionID() uint64
}

func (m *ConfirmTransactionMsg) transactionID() uint64 { return m.TransactionID }
func (m *RevokeConfirmationMsg) transactionID() uint64 { return m.TransactionID }
func (m *ExecuteTransactionMsg) transactionID() uint64 { return m.TransactionID }

// loadMember loads the message and finds the authenticated member.
func loadMember(ctx weave.Context, db weave.ReadOnlyKVStore, auth x.Authenticator, ctrl Controller, tx weave.Tx, msg memberMsg) (weave.Address, error) {
	if err := weave.LoadMsg(tx, msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	w, err := ctrl.Wallet(db, msg.Target())
	if err != nil {
		return nil, err
	}
	member, ok := Member(auth.GetSigners(ctx), w)
	if !ok {
		return nil, ErrNotWallet
	}
	return member, nil
}

// ConfirmHandler confirms a transaction.
type ConfirmHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = ConfirmHandler{}

func (h ConfirmHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg ConfirmTransactionMsg
	member, err := loadMember(ctx, db, h.auth, h.ctrl, tx, &msg)
	if err != nil {
		return nil, err
	}
	if h.ctrl.IsConfirmed(db, msg.Wallet, msg.TransactionID, member) {
		return nil, errors.Wrap(errors.ErrDuplicate, "Transaction is confirmed by this wallet.")
	}
	return &weave.CheckResult{}, nil
}

func (h ConfirmHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg ConfirmTransactionMsg
	member, err := loadMember(ctx, db, h.auth, h.ctrl, tx, &msg)
	if err != nil {
		return nil, err
	}
	return h.ctrl.Confirm(ctx, db, msg.Wallet, msg.TransactionID, member)
}

// RevokeHandler revokes a confirmation.
type RevokeHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = RevokeHandler{}

func (h RevokeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg RevokeConfirmationMsg
	if _, err := loadMember(ctx, db, h.auth, h.ctrl, tx, &msg); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h RevokeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg RevokeConfirmationMsg
	member, err := loadMember(ctx, db, h.auth, h.ctrl, tx, &msg)
	if err != nil {
		return nil, err
	}
	return h.ctrl.Revoke(ctx, db, msg.Wallet, msg.TransactionID, member)
}

// ExecuteHandler executes a confirmed transaction.
type ExecuteHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = ExecuteHandler{}

func (h ExecuteHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg ExecuteTransactionMsg
	if _, err := loadMember(ctx, db, h.auth, h.ctrl, tx, &msg); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h ExecuteHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg ExecuteTransactionMsg
	member, err := loadMember(ctx, db, h.auth, h.ctrl, tx, &msg)
	if err != nil {
		return nil, err
	}
	return h.ctrl.Execute(ctx, db, msg.Wallet, msg.TransactionID, member)
}

// AdminHandler changes the members and the requirement of a wallet. The
// messages are accepted only from the wallet itself, except for the
// replacement of a member which the recovery module can also do.
type AdminHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = AdminHandler{}

func (h AdminHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h AdminHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	wallet, w, res, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.wallets.Put(db, wallet, w); err != nil {
		return nil, err
	}
	return res, nil
}

// apply validates the message and returns the updated wallet without
// saving it.
func (h AdminHandler) apply(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, *Wallet, *weave.DeliverResult, error) {
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
	wallet := cm.Target()
	w, err := h.ctrl.Wallet(db, wallet)
	if err != nil {
		return nil, nil, nil, err
	}

	self := h.auth.HasAddress(ctx, wallet)
	res := &weave.DeliverResult{}
	switch m := msg.(type) {
	case *AddWalletMsg:
		if !self {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only wallet contract is allowed to call.")
		}
		if w.IsWallet(m.NewWallet) {
			return nil, nil, nil, errors.Wrap(errors.ErrDuplicate, "Wallet exists.")
		}
		w.Wallets = append(w.Wallets, m.NewWallet)
		res.AddTag("WalletAddition", m.NewWallet)
	case *RemoveWalletMsg:
		if !self {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only wallet contract is allowed to call.")
		}
		i := w.index(m.OldWallet)
		if i < 0 {
			return nil, nil, nil, errors.Wrap(errors.ErrNotFound, "Wallet does not exist.")
		}
		if len(w.Wallets) == 1 {
			return nil, nil, nil, errors.Wrap(errors.ErrState, "Last wallet cannot be removed.")
		}
		w.Wallets = append(w.Wallets[:i:i], w.Wallets[i+1:]...)
		if int(w.Required) > len(w.Wallets) {
			w.Required = uint32(len(w.Wallets))
			res.AddTag("RequirementChange", encodeUint64(uint64(w.Required)))
		}
		res.AddTag("WalletRemoval", m.OldWallet)
	case *ReplaceWalletMsg:
		if !self && (len(w.RecoveryModule) == 0 || !h.auth.HasAddress(ctx, w.RecoveryModule)) {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only wallet contract or recovery module is allowed to call.")
		}
		i := w.index(m.OldWallet)
		if i < 0 {
			return nil, nil, nil, errors.Wrap(errors.ErrNotFound, "Wallet does not exist.")
		}
		if w.IsWallet(m.NewWallet) {
			return nil, nil, nil, errors.Wrap(errors.ErrDuplicate, "Wallet exists.")
		}
		w.Wallets[i] = m.NewWallet
		res.AddTag("WalletRemoval", m.OldWallet)
		res.AddTag("WalletAddition", m.NewWallet)
	case *ChangeRequirementMsg:
		if !self {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only wallet contract is allowed to call.")
		}
		if err := validateRequirement(m.Required, len(w.Wallets)); err != nil {
			return nil, nil, nil, err
		}
		w.Required = m.Required
		res.AddTag("RequirementChange", encodeUint64(uint64(w.Required)))
	case *SetRecoveryModuleMsg:
		if !self {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "Only wallet contract is allowed to call.")
		}
		w.RecoveryModule = m.RecoveryModule
		res.AddTag("RecoveryModuleSet", m.RecoveryModule)
	default:
		return nil, nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	return wallet, w, res, nil
}
