package crypto

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/openst/openst-weave"
	"golang.org/x/crypto/sha3"
)

// CallPrefix is the 4 byte selector of an entry point. It is part of the
// signed message so that a signature for one entry point cannot be used
// with another.
type CallPrefix [4]byte

var (
	// ExecuteRuleCallPrefix is the selector of the execute rule entry point.
	ExecuteRuleCallPrefix = selector("executeRule(address,bytes,uint256,uint8,bytes32,bytes32)")

	// ExecuteRedemptionCallPrefix is the selector of the execute redemption
	// entry point.
	ExecuteRedemptionCallPrefix = selector("executeRedemption(address,bytes,uint256,uint8,bytes32,bytes32)")
)

func selector(signature string) CallPrefix {
	var p CallPrefix
	copy(p[:], ethcrypto.Keccak256([]byte(signature))[:4])
	return p
}

// MessageHash returns the hash a session key signs to authorize a relayed
// call of the holder. The layout is
//
//	0x19 0x00 holder(20) to(20) value(1) keccak(data)(32) nonce(32)
//	gasPrice(1) gasLimit(1) gasToken(1) callPrefix(4) operation(1) extraHash(32)
//
// with value, gas fields, operation and extra hash always zero.
func MessageHash(holder, to weave.Address, data []byte, nonce uint64, prefix CallPrefix) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{0x19, 0x00})
	h.Write(pad(holder, weave.AddressLength))
	h.Write(pad(to, weave.AddressLength))
	h.Write([]byte{0x00})
	h.Write(ethcrypto.Keccak256(data))

	var n [32]byte
	binary.BigEndian.PutUint64(n[24:], nonce)
	h.Write(n[:])

	h.Write([]byte{0x00, 0x00, 0x00})
	h.Write(prefix[:])
	h.Write([]byte{0x00})
	h.Write(make([]byte, 32))
	return h.Sum(nil)
}

// TypedDataHash returns the EIP-712 digest of a struct hash within the given
// domain.
func TypedDataHash(domainSeparator, structHash []byte) []byte {
	return ethcrypto.Keccak256([]byte{0x19, 0x01}, domainSeparator, structHash)
}

// Keccak256 hashes all given chunks together.
func Keccak256(data ...[]byte) []byte {
	return ethcrypto.Keccak256(data...)
}

// pad left pads the value with zeros to the given size. Longer values are
// truncated to their last size bytes.
func pad(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
