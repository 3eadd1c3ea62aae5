package token

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Controller is the token interface other contracts use.
type Controller interface {
	// Token loads the token contract state.
	Token(db weave.ReadOnlyKVStore, token weave.Address) (*Token, error)
	// Balance returns the amount owned by the holder.
	Balance(db weave.ReadOnlyKVStore, token, holder weave.Address) uint64
	// Allowance returns the amount the spender can move on behalf of the
	// holder.
	Allowance(db weave.ReadOnlyKVStore, token, holder, spender weave.Address) uint64
	// Transfer moves the amount from one holder to another.
	Transfer(db weave.KVStore, token, from, to weave.Address, amount uint64) error
	// Approve sets the allowance of the spender, replacing the previous one.
	Approve(db weave.KVStore, token, holder, spender weave.Address, amount uint64) error
	// TransferFrom moves the amount as the spender, consuming its allowance.
	TransferFrom(db weave.KVStore, token, spender, from, to weave.Address, amount uint64) error
}

// BaseController is the Controller backed by the token buckets.
type BaseController struct {
	tokens     orm.ModelBucket
	balances   orm.ModelBucket
	allowances orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller for the stored tokens.
func NewController() BaseController {
	return BaseController{
		tokens:     NewBucket(),
		balances:   NewBalanceBucket(),
		allowances: NewAllowanceBucket(),
	}
}

func (c BaseController) Token(db weave.ReadOnlyKVStore, token weave.Address) (*Token, error) {
	var t Token
	if err := c.tokens.One(db, token, &t); err != nil {
		return nil, errors.Wrapf(err, "token %s", token)
	}
	return &t, nil
}

func (c BaseController) Balance(db weave.ReadOnlyKVStore, token, holder weave.Address) uint64 {
	return loadAmount(db, c.balances, orm.CompositeKey(token, holder))
}

func (c BaseController) Allowance(db weave.ReadOnlyKVStore, token, holder, spender weave.Address) uint64 {
	return loadAmount(db, c.allowances, orm.CompositeKey(token, holder, spender))
}

func (c BaseController) Transfer(db weave.KVStore, token, from, to weave.Address, amount uint64) error {
	if !c.tokens.Has(db, token) {
		return errors.Wrapf(errors.ErrNotFound, "token %s", token)
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if from.Equals(to) || amount == 0 {
		// Nothing to move, but the sender must still be able to pay.
		if c.Balance(db, token, from) < amount {
			return errors.Wrap(errors.ErrInsufficientAmount, "balance")
		}
		return nil
	}

	fromKey := orm.CompositeKey(token, from)
	toKey := orm.CompositeKey(token, to)
	fromBalance := loadAmount(db, c.balances, fromKey)
	if fromBalance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", fromBalance, amount)
	}
	toBalance, overflow := math.SafeAdd(loadAmount(db, c.balances, toKey), amount)
	if overflow {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	if err := saveAmount(db, c.balances, fromKey, fromBalance-amount); err != nil {
		return err
	}
	return saveAmount(db, c.balances, toKey, toBalance)
}

func (c BaseController) Approve(db weave.KVStore, token, holder, spender weave.Address, amount uint64) error {
	if !c.tokens.Has(db, token) {
		return errors.Wrapf(errors.ErrNotFound, "token %s", token)
	}
	if err := spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	return saveAmount(db, c.allowances, orm.CompositeKey(token, holder, spender), amount)
}

func (c BaseController) TransferFrom(db weave.KVStore, token, spender, from, to weave.Address, amount uint64) error {
	key := orm.CompositeKey(token, from, spender)
	allowance := loadAmount(db, c.allowances, key)
	if allowance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "allowance %d, want %d", allowance, amount)
	}
	if err := saveAmount(db, c.allowances, key, allowance-amount); err != nil {
		return err
	}
	return c.Transfer(db, token, from, to, amount)
}

// mint credits the amount to the holder and increases the total supply.
func mint(db weave.KVStore, c BaseController, token weave.Address, t *Token, holder weave.Address, amount uint64) error {
	supply, overflow := math.SafeAdd(t.TotalSupply, amount)
	if overflow {
		return errors.Wrap(errors.ErrOverflow, "total supply")
	}
	key := orm.CompositeKey(token, holder)
	balance, overflow := math.SafeAdd(loadAmount(db, c.balances, key), amount)
	if overflow {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	t.TotalSupply = supply
	if err := c.tokens.Put(db, token, t); err != nil {
		return err
	}
	return saveAmount(db, c.balances, key, balance)
}
