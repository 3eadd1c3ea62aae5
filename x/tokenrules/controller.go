package tokenrules

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x/constraint"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/token"
)

// Controller gives access to token rules state and transfer execution. It
// is used by the handlers of this package and by token holders.
type Controller struct {
	tokenRules orm.ModelBucket
	rules      orm.ModelBucket
	consents   orm.ModelBucket
	tokens     token.Controller
	caller     contract.Caller
}

// NewController returns a controller moving tokens with the token
// controller and asking constraints with the caller.
func NewController(tokens token.Controller, caller contract.Caller) Controller {
	return Controller{
		tokenRules: NewBucket(),
		rules:      NewRuleBucket(),
		consents:   NewConsentBucket(),
		tokens:     tokens,
		caller:     caller,
	}
}

// TokenRules loads the token rules state.
func (c Controller) TokenRules(db weave.ReadOnlyKVStore, addr weave.Address) (*TokenRules, error) {
	var t TokenRules
	if err := c.tokenRules.One(db, addr, &t); err != nil {
		return nil, errors.Wrapf(err, "token rules %s", addr)
	}
	return &t, nil
}

// Rule returns the rule registered under the address.
func (c Controller) Rule(db weave.ReadOnlyKVStore, tokenRules, addr weave.Address) (*Rule, error) {
	var r Rule
	if err := c.rules.One(db, orm.CompositeKey(tokenRules, addr), &r); err != nil {
		return nil, errors.Wrapf(err, "rule %s", addr)
	}
	return &r, nil
}

// RuleByName returns the rule registered under the name.
func (c Controller) RuleByName(db weave.ReadOnlyKVStore, tokenRules weave.Address, name string) (*Rule, error) {
	var r Rule
	if _, err := c.rules.ByIndex(db, ruleNameIndex, nameKey(tokenRules, name), &r); err != nil {
		return nil, errors.Wrapf(err, "rule %q", name)
	}
	return &r, nil
}

// IsRule returns true if the address is a registered rule.
func (c Controller) IsRule(db weave.ReadOnlyKVStore, tokenRules, addr weave.Address) bool {
	return c.rules.Has(db, orm.CompositeKey(tokenRules, addr))
}

// AreTransfersAllowed returns true if the holder consented to the next
// transfer batch.
func (c Controller) AreTransfersAllowed(db weave.ReadOnlyKVStore, tokenRules, holder weave.Address) bool {
	return c.consents.Has(db, orm.CompositeKey(tokenRules, holder))
}

// AllowTransfers records the consent of the holder.
func (c Controller) AllowTransfers(ctx weave.Context, db weave.KVStore, tokenRules, holder weave.Address) error {
	if _, err := c.TokenRules(db, tokenRules); err != nil {
		return err
	}
	height, _ := weave.GetHeight(ctx)
	return c.consents.Put(db, orm.CompositeKey(tokenRules, holder), &TransferConsent{Height: height})
}

// DisallowTransfers withdraws the consent of the holder, if any.
func (c Controller) DisallowTransfers(db weave.KVStore, tokenRules, holder weave.Address) error {
	key := orm.CompositeKey(tokenRules, holder)
	if !c.consents.Has(db, key) {
		return nil
	}
	return c.consents.Delete(db, key)
}

// CheckGlobalConstraints asks every global constraint, in the order they
// were added, whether the transfers are acceptable. It stops at the first
// refusal. Constraints are called statically and a failing call counts as
// a refusal.
func (c Controller) CheckGlobalConstraints(ctx weave.Context, db weave.KVStore, tokenRules, from weave.Address, to []weave.Address, amounts []uint64) (bool, error) {
	if len(to) != len(amounts) {
		return false, errors.Wrap(errors.ErrInput, "'to' and 'amount' transfer arrays' lengths are not equal.")
	}
	tr, err := c.TokenRules(db, tokenRules)
	if err != nil {
		return false, err
	}
	for _, addr := range tr.GlobalConstraints {
		payload, err := weave.EncodeMsg(&constraint.CheckMsg{
			Constraint: addr,
			From:       from,
			To:         to,
			Amounts:    amounts,
		})
		if err != nil {
			return false, err
		}
		res, ok := c.caller.StaticCall(ctx, db, tokenRules, addr, payload)
		if !ok || !constraint.IsAccepted(res.Data) {
			return false, nil
		}
	}
	return true, nil
}

// ExecuteTransfers moves the tokens of from to every recipient with the
// spender's allowance. The holder consent is required and consumed.
func (c Controller) ExecuteTransfers(ctx weave.Context, db weave.KVStore, tokenRules, spender, from weave.Address, to []weave.Address, amounts []uint64) (*weave.DeliverResult, error) {
	tr, err := c.TokenRules(db, tokenRules)
	if err != nil {
		return nil, err
	}
	if !c.AreTransfersAllowed(db, tokenRules, from) {
		return nil, errors.Wrapf(ErrTransfersNotAllowed, "%s", from)
	}
	ok, err := c.CheckGlobalConstraints(ctx, db, tokenRules, from, to, amounts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConstraints
	}

	res := &weave.DeliverResult{}
	for i, recipient := range to {
		if err := c.tokens.TransferFrom(db, tr.Token, spender, from, recipient, amounts[i]); err != nil {
			return nil, errors.Wrapf(err, "transfer %d", i)
		}
		token.TransferTag(res, "Transfer", from, recipient, amounts[i])
	}
	if err := c.DisallowTransfers(db, tokenRules, from); err != nil {
		return nil, err
	}
	return res, nil
}
