package organization

import (
	"fmt"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg                    = "organization/create"
	pathInitiateOwnershipTransferMsg = "organization/initiate_ownership_transfer"
	pathCompleteOwnershipTransferMsg = "organization/complete_ownership_transfer"
	pathSetAdminMsg                  = "organization/set_admin"
	pathSetWorkerMsg                 = "organization/set_worker"
	pathUnsetWorkerMsg               = "organization/unset_worker"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&InitiateOwnershipTransferMsg{}, pathInitiateOwnershipTransferMsg)
	weave.RegisterMsg(&CompleteOwnershipTransferMsg{}, pathCompleteOwnershipTransferMsg)
	weave.RegisterMsg(&SetAdminMsg{}, pathSetAdminMsg)
	weave.RegisterMsg(&SetWorkerMsg{}, pathSetWorkerMsg)
	weave.RegisterMsg(&UnsetWorkerMsg{}, pathUnsetWorkerMsg)
}

func fieldIndex(name string, i int) string {
	return fmt.Sprintf("%s.%d", name, i)
}

// CreateMsg creates an organization owned by the signer.
type CreateMsg struct {
	Admin   weave.Address
	Workers []Worker
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	var errs error
	if len(m.Admin) != 0 {
		errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	}
	for i, w := range m.Workers {
		errs = errors.AppendField(errs, fieldIndex("Workers", i), w.Address.Validate())
	}
	return errs
}

// InitiateOwnershipTransferMsg proposes a new owner.
type InitiateOwnershipTransferMsg struct {
	Organization  weave.Address
	ProposedOwner weave.Address
}

func (InitiateOwnershipTransferMsg) Path() string { return pathInitiateOwnershipTransferMsg }

func (m *InitiateOwnershipTransferMsg) Target() weave.Address { return m.Organization }

func (m *InitiateOwnershipTransferMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *InitiateOwnershipTransferMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *InitiateOwnershipTransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", m.Organization.Validate())
	errs = errors.AppendField(errs, "ProposedOwner", m.ProposedOwner.Validate())
	return errs
}

// CompleteOwnershipTransferMsg is sent by the proposed owner to accept the
// ownership.
type CompleteOwnershipTransferMsg struct {
	Organization weave.Address
}

func (CompleteOwnershipTransferMsg) Path() string { return pathCompleteOwnershipTransferMsg }

func (m *CompleteOwnershipTransferMsg) Target() weave.Address { return m.Organization }

func (m *CompleteOwnershipTransferMsg) Marshal() ([]byte, error) { return weave.MarshalBinary(m) }
func (m *CompleteOwnershipTransferMsg) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, m)
}

func (m *CompleteOwnershipTransferMsg) Validate() error {
	return errors.Field("Organization", m.Organization.Validate(), "")
}

// SetAdminMsg sets the admin. An empty admin removes the current one.
type SetAdminMsg struct {
	Organization weave.Address
	Admin        weave.Address
}

func (SetAdminMsg) Path() string { return pathSetAdminMsg }

func (m *SetAdminMsg) Target() weave.Address { return m.Organization }

func (m *SetAdminMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SetAdminMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SetAdminMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", m.Organization.Validate())
	if len(m.Admin) != 0 {
		errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	}
	return errs
}

// SetWorkerMsg adds a worker or updates its expiration height.
type SetWorkerMsg struct {
	Organization     weave.Address
	Worker           weave.Address
	ExpirationHeight int64
}

func (SetWorkerMsg) Path() string { return pathSetWorkerMsg }

func (m *SetWorkerMsg) Target() weave.Address { return m.Organization }

func (m *SetWorkerMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SetWorkerMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SetWorkerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", m.Organization.Validate())
	errs = errors.AppendField(errs, "Worker", m.Worker.Validate())
	if m.ExpirationHeight <= 0 {
		errs = errors.AppendField(errs, "ExpirationHeight", errors.ErrInput)
	}
	return errs
}

// UnsetWorkerMsg removes a worker.
type UnsetWorkerMsg struct {
	Organization weave.Address
	Worker       weave.Address
}

func (UnsetWorkerMsg) Path() string { return pathUnsetWorkerMsg }

func (m *UnsetWorkerMsg) Target() weave.Address { return m.Organization }

func (m *UnsetWorkerMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *UnsetWorkerMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *UnsetWorkerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Organization", m.Organization.Validate())
	errs = errors.AppendField(errs, "Worker", m.Worker.Validate())
	return errs
}
