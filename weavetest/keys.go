package weavetest

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
)

// NewKey returns a new random secp256k1 key.
func NewKey() *crypto.PrivateKey {
	return crypto.MustGenerateKey()
}

// NewAddress returns the address of a new random key.
func NewAddress() weave.Address {
	return NewKey().Address()
}

// SequenceID returns the 8 byte big endian representation of n.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
