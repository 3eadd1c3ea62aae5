package std

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/x/sigs"
)

// Tx is the transaction format of the application. Msg holds a message
// encoded with weave.EncodeMsg. Every signature covers the encoded message,
// the chain id and the sequence of the signer.
type Tx struct {
	Msg        []byte
	Signatures []*sigs.StdSignature
}

var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg weave.Msg) (*Tx, error) {
	raw, err := weave.EncodeMsg(msg)
	if err != nil {
		return nil, errors.Wrap(err, "encode msg")
	}
	return &Tx{Msg: raw}, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return weave.MarshalBinary(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return weave.UnmarshalBinary(raw, tx)
}

// GetMsg decodes the carried message.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	return weave.DecodeMsg(tx.Msg)
}

// GetSignBytes returns the encoded message. Signatures are not part of it.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	if len(tx.Msg) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "msg")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// Sign appends a signature of key for the given chain and sequence.
func (tx *Tx) Sign(key *crypto.PrivateKey, chainID string, seq int64) error {
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}
