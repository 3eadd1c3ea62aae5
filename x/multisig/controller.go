package multisig

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x/contract"
)

// Controller implements the confirmation engine. It is used by the
// handlers of this package and by contracts that submit transactions on
// behalf of a member.
type Controller struct {
	wallets       orm.ModelBucket
	transactions  orm.ModelBucket
	confirmations orm.ModelBucket
	caller        contract.Caller
}

// NewController returns a controller executing transactions with the
// given caller.
func NewController(caller contract.Caller) Controller {
	return Controller{
		wallets:       NewWalletBucket(),
		transactions:  NewTransactionBucket(),
		confirmations: NewConfirmationBucket(),
		caller:        caller,
	}
}

// Wallet loads the wallet state.
func (c Controller) Wallet(db weave.ReadOnlyKVStore, wallet weave.Address) (*Wallet, error) {
	var w Wallet
	if err := c.wallets.One(db, wallet, &w); err != nil {
		return nil, errors.Wrapf(err, "wallet %s", wallet)
	}
	return &w, nil
}

// Transaction loads a transaction of the wallet.
func (c Controller) Transaction(db weave.ReadOnlyKVStore, wallet weave.Address, id uint64) (*Transaction, error) {
	var t Transaction
	if err := c.transactions.One(db, transactionKey(wallet, id), &t); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", id)
	}
	return &t, nil
}

// IsWallet returns true if the address is a member of the wallet.
func (c Controller) IsWallet(db weave.ReadOnlyKVStore, wallet, addr weave.Address) bool {
	w, err := c.Wallet(db, wallet)
	return err == nil && w.IsWallet(addr)
}

// WalletCount returns the number of members.
func (c Controller) WalletCount(db weave.ReadOnlyKVStore, wallet weave.Address) (int, error) {
	w, err := c.Wallet(db, wallet)
	if err != nil {
		return 0, err
	}
	return len(w.Wallets), nil
}

// IsConfirmed returns true if the member confirmed the transaction.
func (c Controller) IsConfirmed(db weave.ReadOnlyKVStore, wallet weave.Address, id uint64, member weave.Address) bool {
	return c.confirmations.Has(db, confirmationKey(wallet, id, member))
}

// ConfirmationCount returns the number of recorded confirmations of the
// transaction.
func (c Controller) ConfirmationCount(db weave.ReadOnlyKVStore, wallet weave.Address, id uint64) (uint32, error) {
	var n uint32
	err := c.confirmations.Iterate(db, transactionKey(wallet, id), func([]byte, orm.Model) error {
		n++
		return nil
	})
	return n, err
}

// IsTransactionConfirmed returns true if the transaction has at least the
// required number of confirmations.
func (c Controller) IsTransactionConfirmed(db weave.ReadOnlyKVStore, wallet weave.Address, id uint64) (bool, error) {
	w, err := c.Wallet(db, wallet)
	if err != nil {
		return false, err
	}
	n, err := c.ConfirmationCount(db, wallet, id)
	if err != nil {
		return false, err
	}
	return n >= w.Required, nil
}

// Member returns the first authenticated address that is a member of the
// wallet.
func Member(signers []weave.Address, w *Wallet) (weave.Address, bool) {
	for _, s := range signers {
		if w.IsWallet(s) {
			return s, true
		}
	}
	return nil, false
}

// SubmitTransaction adds a transaction to the wallet and confirms it as the
// submitter, which executes it if this is the only confirmation required.
// The transaction id is returned in the result data.
func (c Controller) SubmitTransaction(ctx weave.Context, db weave.KVStore, submitter, wallet, destination weave.Address, payload []byte) (*weave.DeliverResult, error) {
	w, err := c.Wallet(db, wallet)
	if err != nil {
		return nil, err
	}
	if !w.IsWallet(submitter) {
		return nil, errors.Wrapf(ErrNotWallet, "%s", submitter)
	}

	id := w.TransactionCount
	tx := &Transaction{Destination: destination, Payload: payload}
	if err := c.transactions.Put(db, transactionKey(wallet, id), tx); err != nil {
		return nil, errors.Wrap(err, "cannot store transaction")
	}
	w.TransactionCount++
	if err := c.wallets.Put(db, wallet, w); err != nil {
		return nil, err
	}

	res := &weave.DeliverResult{Data: TransactionIDTag(id)}
	res.AddTag("TransactionSubmitted", TransactionIDTag(id))
	confirmed, err := c.Confirm(ctx, db, wallet, id, submitter)
	if err != nil {
		return nil, err
	}
	res.MergeTags(confirmed)
	return res, nil
}

// Confirm records the confirmation of the member and executes the
// transaction once it is confirmed.
func (c Controller) Confirm(ctx weave.Context, db weave.KVStore, wallet weave.Address, id uint64, member weave.Address) (*weave.DeliverResult, error) {
	if !c.IsWallet(db, wallet, member) {
		return nil, errors.Wrapf(ErrNotWallet, "%s", member)
	}
	if _, err := c.Transaction(db, wallet, id); err != nil {
		return nil, err
	}
	key := confirmationKey(wallet, id, member)
	if c.confirmations.Has(db, key) {
		return nil, errors.Wrap(errors.ErrDuplicate, "Transaction is confirmed by this wallet.")
	}
	height, _ := weave.GetHeight(ctx)
	if err := c.confirmations.Put(db, key, &Confirmation{Height: height}); err != nil {
		return nil, err
	}

	res := &weave.DeliverResult{}
	res.AddTag("TransactionConfirmed", TransactionIDTag(id))
	executed, err := c.tryExecute(ctx, db, wallet, id)
	if err != nil {
		return nil, err
	}
	res.MergeTags(executed)
	return res, nil
}

// Revoke removes the confirmation of the member from a pending
// transaction.
func (c Controller) Revoke(ctx weave.Context, db weave.KVStore, wallet weave.Address, id uint64, member weave.Address) (*weave.DeliverResult, error) {
	if !c.IsWallet(db, wallet, member) {
		return nil, errors.Wrapf(ErrNotWallet, "%s", member)
	}
	tx, err := c.Transaction(db, wallet, id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrExecuted, "transaction %d", id)
	}
	key := confirmationKey(wallet, id, member)
	if !c.confirmations.Has(db, key) {
		return nil, errors.Wrap(errors.ErrState, "Transaction is not confirmed by this wallet.")
	}
	if err := c.confirmations.Delete(db, key); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("TransactionConfirmationRevoked", TransactionIDTag(id))
	return res, nil
}

// Execute calls the destination of a confirmed transaction with the
// wallet as the sender. A failing call does not return an error; the
// transaction stays pending and can be executed again.
func (c Controller) Execute(ctx weave.Context, db weave.KVStore, wallet weave.Address, id uint64, member weave.Address) (*weave.DeliverResult, error) {
	if !c.IsWallet(db, wallet, member) {
		return nil, errors.Wrapf(ErrNotWallet, "%s", member)
	}
	tx, err := c.Transaction(db, wallet, id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrExecuted, "transaction %d", id)
	}
	confirmed, err := c.IsTransactionConfirmed(db, wallet, id)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, errors.Wrapf(ErrNotConfirmed, "transaction %d", id)
	}
	return c.execute(ctx, db, wallet, id, tx)
}

func (c Controller) tryExecute(ctx weave.Context, db weave.KVStore, wallet weave.Address, id uint64) (*weave.DeliverResult, error) {
	tx, err := c.Transaction(db, wallet, id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, nil
	}
	confirmed, err := c.IsTransactionConfirmed(db, wallet, id)
	if err != nil || !confirmed {
		return nil, err
	}
	return c.execute(ctx, db, wallet, id, tx)
}

func (c Controller) execute(ctx weave.Context, db weave.KVStore, wallet weave.Address, id uint64, tx *Transaction) (*weave.DeliverResult, error) {
	key := transactionKey(wallet, id)
	// Marked before the call so that the call cannot execute it again.
	tx.Executed = true
	if err := c.transactions.Put(db, key, tx); err != nil {
		return nil, err
	}

	res := &weave.DeliverResult{}
	callRes, ok := c.caller.Call(ctx, db, wallet, tx.Destination, tx.Payload)
	if !ok {
		tx.Executed = false
		if err := c.transactions.Put(db, key, tx); err != nil {
			return nil, err
		}
		res.AddTag("TransactionExecutionFailed", TransactionIDTag(id))
		return res, nil
	}
	res.MergeTags(callRes)
	res.AddTag("TransactionExecutionSucceeded", TransactionIDTag(id))
	return res, nil
}
