package crypto

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const (
	// SignatureRLength is the size of the r component.
	SignatureRLength = 32
	// SignatureSLength is the size of the s component.
	SignatureSLength = 32
)

// Recover returns the address of the account that produced the signature
// over the given hash. The hash is used as it is, no prefix is added.
//
// The recovered address is not compared to anything. The caller decides if
// the signer is allowed to perform the action.
func Recover(hash []byte, v uint32, r, s []byte) (weave.Address, error) {
	if len(hash) != 32 {
		return nil, errors.Wrapf(errors.ErrInput, "hash must be 32 bytes, got %d", len(hash))
	}
	if v != 27 && v != 28 {
		return nil, errors.Wrapf(errors.ErrSignature, "invalid v value %d", v)
	}
	if len(r) != SignatureRLength || len(s) != SignatureSLength {
		return nil, errors.Wrap(errors.ErrSignature, "r and s must be 32 bytes")
	}
	recID := byte(v - 27)
	if !ethcrypto.ValidateSignatureValues(recID, new(big.Int).SetBytes(r), new(big.Int).SetBytes(s), true) {
		return nil, errors.Wrap(errors.ErrSignature, "signature values out of range")
	}

	sig := make([]byte, ethcrypto.SignatureLength)
	copy(sig[0:32], r)
	copy(sig[32:64], s)
	sig[64] = recID

	pub, err := ethcrypto.Ecrecover(hash, sig)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSignature, err.Error())
	}
	return weave.NewAddress(pub[1:]), nil
}

// Verify returns nil if the signature over the hash was produced by the
// expected account.
func Verify(hash []byte, v uint32, r, s []byte, expected weave.Address) error {
	signer, err := Recover(hash, v, r, s)
	if err != nil {
		return err
	}
	if !signer.Equals(expected) {
		return errors.Wrapf(errors.ErrSignature, "signed by %s, not %s", signer, expected)
	}
	return nil
}
