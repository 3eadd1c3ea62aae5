package token

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	pathCreateMsg       = "token/create"
	pathTransferMsg     = "token/transfer"
	pathApproveMsg      = "token/approve"
	pathTransferFromMsg = "token/transfer_from"
	pathSetCoGatewayMsg = "token/set_cogateway"
)

func init() {
	weave.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	weave.RegisterMsg(&TransferMsg{}, pathTransferMsg)
	weave.RegisterMsg(&ApproveMsg{}, pathApproveMsg)
	weave.RegisterMsg(&TransferFromMsg{}, pathTransferFromMsg)
	weave.RegisterMsg(&SetCoGatewayMsg{}, pathSetCoGatewayMsg)
}

// CreateMsg creates a token. The whole supply is credited to the signer.
type CreateMsg struct {
	Organization weave.Address
	Symbol       string
	Name         string
	Decimals     uint32
	TotalSupply  uint64
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *CreateMsg) Validate() error {
	t := Token{
		Organization: m.Organization,
		Symbol:       m.Symbol,
		Name:         m.Name,
		Decimals:     m.Decimals,
	}
	return t.Validate()
}

// TransferMsg moves tokens of From to To.
type TransferMsg struct {
	Token  weave.Address
	From   weave.Address
	To     weave.Address
	Amount uint64
}

func (TransferMsg) Path() string { return pathTransferMsg }

func (m *TransferMsg) Target() weave.Address { return m.Token }

func (m *TransferMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *TransferMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	return errs
}

// ApproveMsg sets the allowance of Spender over the tokens of Holder.
type ApproveMsg struct {
	Token   weave.Address
	Holder  weave.Address
	Spender weave.Address
	Amount  uint64
}

func (ApproveMsg) Path() string { return pathApproveMsg }

func (m *ApproveMsg) Target() weave.Address { return m.Token }

func (m *ApproveMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *ApproveMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Holder", m.Holder.Validate())
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	return errs
}

// TransferFromMsg moves tokens of From to To as Spender.
type TransferFromMsg struct {
	Token   weave.Address
	Spender weave.Address
	From    weave.Address
	To      weave.Address
	Amount  uint64
}

func (TransferFromMsg) Path() string { return pathTransferFromMsg }

func (m *TransferFromMsg) Target() weave.Address { return m.Token }

func (m *TransferFromMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *TransferFromMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *TransferFromMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	return errs
}

// SetCoGatewayMsg links the token to its CoGateway.
type SetCoGatewayMsg struct {
	Token     weave.Address
	CoGateway weave.Address
}

func (SetCoGatewayMsg) Path() string { return pathSetCoGatewayMsg }

func (m *SetCoGatewayMsg) Target() weave.Address { return m.Token }

func (m *SetCoGatewayMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *SetCoGatewayMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

func (m *SetCoGatewayMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "CoGateway", m.CoGateway.Validate())
	return errs
}
