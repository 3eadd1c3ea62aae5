package recovery

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of recovery modules.
const Kind = "recovery"

// Module is the state of a recovery module.
type Module struct {
	Wallet             weave.Address
	RecoveryOwner      weave.Address
	RecoveryController weave.Address
	RecoveryBlockDelay int64
	// Nonce is bound into every signed request and incremented each time
	// a recovery is initiated or the recovery owner is reset.
	Nonce uint64
}

var _ orm.Model = (*Module)(nil)

func (m *Module) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *Module) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *Module) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "RecoveryOwner", m.RecoveryOwner.Validate())
	errs = errors.AppendField(errs, "RecoveryController", m.RecoveryController.Validate())
	if m.RecoveryBlockDelay <= 0 {
		errs = errors.AppendField(errs, "RecoveryBlockDelay", errors.ErrInput)
	}
	return errs
}

// ActiveRecovery is the recovery in progress of a module.
type ActiveRecovery struct {
	OldOwner        weave.Address
	NewOwner        weave.Address
	ExecutionHeight int64
	// Nonce is the module nonce the recovery was initiated with.
	Nonce uint64
}

var _ orm.Model = (*ActiveRecovery)(nil)

func (r *ActiveRecovery) Marshal() ([]byte, error)   { return weave.MarshalBinary(r) }
func (r *ActiveRecovery) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, r) }

func (r *ActiveRecovery) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "OldOwner", r.OldOwner.Validate())
	errs = errors.AppendField(errs, "NewOwner", r.NewOwner.Validate())
	return errs
}

// Matches returns true if the recovery replaces the old owner by the new
// one.
func (r *ActiveRecovery) Matches(oldOwner, newOwner weave.Address) bool {
	return r.OldOwner.Equals(oldOwner) && r.NewOwner.Equals(newOwner)
}

// NewBucket returns a bucket for recovery modules.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("recovery", &Module{})
}

// NewActiveRecoveryBucket returns a bucket of active recoveries keyed by
// module.
func NewActiveRecoveryBucket() orm.ModelBucket {
	return orm.NewModelBucket("recovery_active", &ActiveRecovery{})
}
