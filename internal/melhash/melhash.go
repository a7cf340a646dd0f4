// Package melhash supplies the module's single 32-byte hash primitive,
// Keccak-256 via golang.org/x/crypto/sha3. It is the one function used for
// header-prev chaining, state-key derivation, and transaction signing
// hashes.
package melhash

import (
	"golang.org/x/crypto/sha3"

	"mel2stf.dev/mel2stf/internal/meltypes"
)

// Sum hashes arbitrary canonical-encoded bytes into a Hash.
func Sum(data []byte) meltypes.Hash {
	var out meltypes.Hash
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(out[:0])
	return out
}

// Sum2 hashes the concatenation of two 32-byte digests, used internally by
// the sparse Merkle tree for internal-node hashing.
func Sum2(a, b meltypes.Hash) meltypes.Hash {
	buf := make([]byte, 0, 64)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return Sum(buf)
}
