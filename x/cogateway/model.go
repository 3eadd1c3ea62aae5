package cogateway

import (
	"encoding/binary"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of gateway instances.
const Kind = "cogateway"

// CoGateway is the state of a gateway contract.
type CoGateway struct {
	Token weave.Address
}

var _ orm.Model = (*CoGateway)(nil)

func (g *CoGateway) Marshal() ([]byte, error)   { return weave.MarshalBinary(g) }
func (g *CoGateway) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, g) }

func (g *CoGateway) Validate() error {
	return errors.AppendField(nil, "Token", g.Token.Validate())
}

// Status of a redemption.
const (
	StatusDeclared       = "declared"
	StatusRevertDeclared = "revert_declared"
)

// Redemption is a declared redeem intent.
type Redemption struct {
	Redeemer    weave.Address
	Beneficiary weave.Address
	Amount      uint64
	Nonce       uint64
	GasPrice    uint64
	GasLimit    uint64
	HashLock    []byte
	Status      string
}

var _ orm.Model = (*Redemption)(nil)

func (r *Redemption) Marshal() ([]byte, error)   { return weave.MarshalBinary(r) }
func (r *Redemption) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, r) }

func (r *Redemption) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Redeemer", r.Redeemer.Validate())
	errs = errors.AppendField(errs, "Beneficiary", r.Beneficiary.Validate())
	if len(r.HashLock) != 32 {
		errs = errors.AppendField(errs, "HashLock", errors.ErrInput)
	}
	switch r.Status {
	case StatusDeclared, StatusRevertDeclared:
	default:
		errs = errors.AppendField(errs, "Status", errors.ErrState)
	}
	return errs
}

// MessageHash identifies the redemption.
func MessageHash(gateway weave.Address, r *Redemption) []byte {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[0:], r.Amount)
	binary.BigEndian.PutUint64(buf[8:], r.Nonce)
	binary.BigEndian.PutUint64(buf[16:], r.GasPrice)
	binary.BigEndian.PutUint64(buf[24:], r.GasLimit)
	return crypto.Keccak256(gateway, r.Redeemer, r.Beneficiary, buf[:], r.HashLock)
}

// Nonce is the next redemption nonce of a redeemer.
type Nonce struct {
	Value uint64
}

var _ orm.Model = (*Nonce)(nil)

func (n *Nonce) Marshal() ([]byte, error)   { return weave.MarshalBinary(n) }
func (n *Nonce) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, n) }
func (n *Nonce) Validate() error            { return nil }

// NewBucket returns a bucket for gateway contracts.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("cogateway", &CoGateway{})
}

// NewRedemptionBucket returns a bucket of redemptions keyed by gateway and
// message hash.
func NewRedemptionBucket() orm.ModelBucket {
	return orm.NewModelBucket("redemption", &Redemption{})
}

// NewNonceBucket returns a bucket of redeemer nonces keyed by gateway and
// redeemer.
func NewNonceBucket() orm.ModelBucket {
	return orm.NewModelBucket("redeem_nonce", &Nonce{})
}
