package crypto

import (
	"crypto/ecdsa"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

// PrivateKey is a secp256k1 signing key of an external account or a session
// key.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// GenerateKey creates a new random private key.
func GenerateKey() (*PrivateKey, error) {
	k, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return &PrivateKey{key: k}, nil
}

// MustGenerateKey is GenerateKey that panics on failure.
func MustGenerateKey() *PrivateKey {
	k, err := GenerateKey()
	if err != nil {
		panic(err)
	}
	return k
}

// PrivateKeyFromHex parses a hex encoded 32 byte private key.
func PrivateKeyFromHex(hexkey string) (*PrivateKey, error) {
	k, err := ethcrypto.HexToECDSA(hexkey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &PrivateKey{key: k}, nil
}

// Address returns the account address of the key.
func (p *PrivateKey) Address() weave.Address {
	return PublicKeyAddress(ethcrypto.FromECDSAPub(&p.key.PublicKey))
}

// PublicKey returns the uncompressed 65 byte public key.
func (p *PrivateKey) PublicKey() []byte {
	return ethcrypto.FromECDSAPub(&p.key.PublicKey)
}

// Sign signs the 32 byte hash as it is. Returned v is 27 or 28.
func (p *PrivateKey) Sign(hash []byte) (v uint32, r, s []byte, err error) {
	sig, err := ethcrypto.Sign(hash, p.key)
	if err != nil {
		return 0, nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return uint32(sig[64]) + 27, sig[0:32], sig[32:64], nil
}

// PublicKeyAddress derives the account address from an uncompressed
// public key.
func PublicKeyAddress(pub []byte) weave.Address {
	if len(pub) == 65 {
		pub = pub[1:]
	}
	return weave.NewAddress(pub)
}
