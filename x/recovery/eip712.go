package recovery

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
)

var (
	domainTypeHash             = crypto.Keccak256([]byte("EIP712Domain(address verifyingContract)"))
	initiateRecoveryTypeHash   = crypto.Keccak256([]byte("InitiateRecoveryStruct(address oldOwner,address newOwner,uint256 nonce)"))
	abortRecoveryTypeHash      = crypto.Keccak256([]byte("AbortRecoveryStruct(address oldOwner,address newOwner,uint256 nonce)"))
	resetRecoveryOwnerTypeHash = crypto.Keccak256([]byte("ResetRecoveryOwnerStruct(address newRecoveryOwner,uint256 nonce)"))
)

// DomainSeparator returns the EIP-712 domain separator of the module.
func DomainSeparator(module weave.Address) []byte {
	return crypto.Keccak256(domainTypeHash, word(module))
}

// InitiateRecoveryHash is the digest the recovery owner signs to initiate
// a recovery. The nonce is the current Module.Nonce.
func InitiateRecoveryHash(module, oldOwner, newOwner weave.Address, nonce uint64) []byte {
	s := crypto.Keccak256(initiateRecoveryTypeHash, word(oldOwner), word(newOwner), uint256(nonce))
	return crypto.TypedDataHash(DomainSeparator(module), s)
}

// AbortRecoveryHash is the digest the recovery owner signs to abort the
// active recovery. The nonce is the one the recovery was initiated with.
func AbortRecoveryHash(module, oldOwner, newOwner weave.Address, nonce uint64) []byte {
	s := crypto.Keccak256(abortRecoveryTypeHash, word(oldOwner), word(newOwner), uint256(nonce))
	return crypto.TypedDataHash(DomainSeparator(module), s)
}

// ResetRecoveryOwnerHash is the digest the recovery owner signs to hand
// over the module to a new recovery owner.
func ResetRecoveryOwnerHash(module, newRecoveryOwner weave.Address, nonce uint64) []byte {
	s := crypto.Keccak256(resetRecoveryOwnerTypeHash, word(newRecoveryOwner), uint256(nonce))
	return crypto.TypedDataHash(DomainSeparator(module), s)
}

func word(a weave.Address) []byte {
	return common.LeftPadBytes(a, 32)
}

func uint256(n uint64) []byte {
	return math.U256Bytes(new(big.Int).SetUint64(n))
}
