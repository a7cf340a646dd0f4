package state

import (
	"mel2stf.dev/mel2stf/internal/canon"
	"mel2stf.dev/mel2stf/internal/melhash"
	"mel2stf.dev/mel2stf/internal/meltypes"
)

// contractKey returns the state key holding addr's contract code: the raw
// 32 address bytes.
func contractKey(addr meltypes.Address) [32]byte {
	return [32]byte(addr)
}

// balanceKey returns the state key holding addr's balance in tok:
// H(canonical_encode((addr, "token", tok))).
func balanceKey(addr meltypes.Address, tok meltypes.TokenId) [32]byte {
	return tokenKeyHash(addr, "token", tok)
}

// blobKey returns the reserved, currently unwritten blob key for addr/tok:
// H(canonical_encode((addr, "blob", tok))).
func blobKey(addr meltypes.Address, tok meltypes.TokenId) [32]byte {
	return tokenKeyHash(addr, "blob", tok)
}

func tokenKeyHash(addr meltypes.Address, label string, tok meltypes.TokenId) [32]byte {
	w := canon.NewWriter(32 + len(label) + 8)
	w.WriteFixed(addr.Bytes())
	w.WriteBytes([]byte(label))
	w.WriteUint64(uint64(tok))
	return melhash.Sum(w.Bytes())
}
