package meltypes

import "encoding/hex"

// Address is an opaque 32-byte account identifier.
type Address [32]byte

// ZeroAddress is the all-zero address, used as the genesis proposer.
var ZeroAddress = Address{}

// Bytes returns the address's 32 raw bytes.
func (a Address) Bytes() []byte { return a[:] }

// String renders the address as lowercase hex.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// Hash is a 32-byte digest produced by the module's single hash primitive
// over a canonical encoding.
type Hash [32]byte

// ZeroHash is the all-zero hash, used as the genesis prev/state reference.
var ZeroHash = Hash{}

// Bytes returns the hash's 32 raw bytes.
func (h Hash) Bytes() []byte { return h[:] }

// String renders the hash as lowercase hex.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }
