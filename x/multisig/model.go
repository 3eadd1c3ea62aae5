package multisig

import (
	"encoding/binary"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of multi signature wallets.
const Kind = "multisig"

// Wallet is the state of a multi signature wallet contract.
type Wallet struct {
	Wallets          []weave.Address
	Required         uint32
	TransactionCount uint64
	RecoveryModule   weave.Address
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return weave.MarshalBinary(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, w)
}

func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallets", validateWallets(w.Wallets))
	errs = errors.AppendField(errs, "Required", validateRequirement(w.Required, len(w.Wallets)))
	if len(w.RecoveryModule) != 0 {
		errs = errors.AppendField(errs, "RecoveryModule", w.RecoveryModule.Validate())
	}
	return errs
}

// IsWallet returns true if the address is a member of the wallet.
func (w *Wallet) IsWallet(addr weave.Address) bool {
	return w.index(addr) >= 0
}

func (w *Wallet) index(addr weave.Address) int {
	for i, a := range w.Wallets {
		if a.Equals(addr) {
			return i
		}
	}
	return -1
}

func validateWallets(wallets []weave.Address) error {
	if len(wallets) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no wallets")
	}
	for i, a := range wallets {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		if a.IsZero() {
			return errors.Wrapf(errors.ErrInput, "wallet %d is null", i)
		}
		for _, b := range wallets[:i] {
			if a.Equals(b) {
				return errors.Wrapf(errors.ErrDuplicate, "wallet %s", a)
			}
		}
	}
	return nil
}

func validateRequirement(required uint32, count int) error {
	if required == 0 || int(required) > count {
		return errors.Wrapf(errors.ErrInput, "requirement %d for %d wallets", required, count)
	}
	return nil
}

// Transaction is submitted to a wallet and executed once confirmed.
type Transaction struct {
	Destination weave.Address
	Payload     []byte
	Executed    bool
}

var _ orm.Model = (*Transaction)(nil)

func (t *Transaction) Marshal() ([]byte, error) {
	return weave.MarshalBinary(t)
}

func (t *Transaction) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, t)
}

func (t *Transaction) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Destination", t.Destination.Validate())
	if len(t.Payload) == 0 {
		errs = errors.AppendField(errs, "Payload", errors.ErrEmpty)
	}
	return errs
}

// Confirmation records the height a member confirmed a transaction at.
type Confirmation struct {
	Height int64
}

var _ orm.Model = (*Confirmation)(nil)

func (c *Confirmation) Marshal() ([]byte, error) {
	return weave.MarshalBinary(c)
}

func (c *Confirmation) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, c)
}

func (c *Confirmation) Validate() error {
	if c.Height < 0 {
		return errors.Field("Height", errors.ErrInput, "negative")
	}
	return nil
}

// NewWalletBucket returns a bucket for wallets, keyed by their address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("multisig", &Wallet{})
}

// NewTransactionBucket returns a bucket for transactions, keyed by the
// wallet address and the transaction id.
func NewTransactionBucket() orm.ModelBucket {
	return orm.NewModelBucket("multisig_tx", &Transaction{})
}

// NewConfirmationBucket returns a bucket for confirmations, keyed by the
// wallet address, the transaction id and the member address.
func NewConfirmationBucket() orm.ModelBucket {
	return orm.NewModelBucket("multisig_conf", &Confirmation{})
}

func transactionKey(wallet weave.Address, id uint64) []byte {
	return orm.CompositeKey(wallet, encodeUint64(id))
}

func confirmationKey(wallet weave.Address, id uint64, member weave.Address) []byte {
	return orm.CompositeKey(transactionKey(wallet, id), member)
}

// TransactionIDTag encodes a transaction id as an event value.
func TransactionIDTag(id uint64) []byte {
	return encodeUint64(id)
}

func encodeUint64(n uint64) []byte {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], n)
	return raw[:]
}
