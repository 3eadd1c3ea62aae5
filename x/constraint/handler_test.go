package constraint

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/app"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x/contract"
	"github.com/stretchr/testify/require"
)

func TestAllows(t *testing.T) {
	a, b := weavetest.NewAddress(), weavetest.NewAddress()
	from := weavetest.NewAddress()

	cases := map[string]struct {
		c       Constraint
		to      []weave.Address
		amounts []uint64
		want    bool
	}{
		"cap below":          {c: Constraint{Type: TypeCap, Limit: 10}, to: []weave.Address{a, b}, amounts: []uint64{10, 3}, want: true},
		"cap above":          {c: Constraint{Type: TypeCap, Limit: 10}, to: []weave.Address{a, b}, amounts: []uint64{3, 11}, want: false},
		"cap empty batch":    {c: Constraint{Type: TypeCap}, want: true},
		"recipient listed":   {c: Constraint{Type: TypeRecipients, Recipients: []weave.Address{a}}, to: []weave.Address{a}, amounts: []uint64{1}, want: true},
		"recipient unlisted": {c: Constraint{Type: TypeRecipients, Recipients: []weave.Address{a}}, to: []weave.Address{a, b}, amounts: []uint64{1, 1}, want: false},
		"length mismatch":    {c: Constraint{Type: TypeCap, Limit: 10}, to: []weave.Address{a}, amounts: nil, want: false},
		"unknown type":       {c: Constraint{Type: "other"}, want: false},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.c.Allows(from, tc.to, tc.amounts))
		})
	}
}

func TestConstraintLifecycle(t *testing.T) {
	owner := weavetest.NewAddress()
	stranger := weavetest.NewAddress()
	recipient := weavetest.NewAddress()

	authKey := &weavetest.CtxAuth{Key: "auth"}
	rt := app.NewRouter()
	RegisterRoutes(rt, authKey)
	db := store.MemStore()

	deliver := func(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
		ctx := authKey.SetSigners(context.Background(), signer)
		return rt.Deliver(ctx, db, &weavetest.Tx{Msg: msg})
	}

	_, err := deliver(owner, &CreateMsg{Type: "unknown"})
	assert.IsErr(t, errors.ErrInput, err)

	res, err := deliver(owner, &CreateMsg{Type: TypeRecipients})
	require.NoError(t, err)
	list := weave.Address(res.Data)
	assert.Equal(t, true, contract.IsKind(db, list, Kind))

	check := &CheckMsg{Constraint: list, From: owner, To: []weave.Address{recipient}, Amounts: []uint64{5}}
	res, err = deliver(stranger, check)
	require.NoError(t, err)
	assert.Equal(t, Result(false), res.Data)

	_, err = deliver(stranger, &AddRecipientMsg{Constraint: list, Recipient: recipient})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(owner, &SetLimitMsg{Constraint: list, Limit: 1})
	assert.IsErr(t, errors.ErrState, err)
	_, err = deliver(owner, &AddRecipientMsg{Constraint: list, Recipient: recipient})
	require.NoError(t, err)
	_, err = deliver(owner, &AddRecipientMsg{Constraint: list, Recipient: recipient})
	assert.IsErr(t, errors.ErrDuplicate, err)

	res, err = deliver(stranger, check)
	require.NoError(t, err)
	assert.Equal(t, true, IsAccepted(res.Data))

	_, err = deliver(owner, &RemoveRecipientMsg{Constraint: list, Recipient: recipient})
	require.NoError(t, err)
	_, err = deliver(owner, &RemoveRecipientMsg{Constraint: list, Recipient: recipient})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = deliver(stranger, &CheckMsg{Constraint: list, From: owner, To: []weave.Address{recipient}})
	assert.IsErr(t, errors.ErrInput, err)
}
