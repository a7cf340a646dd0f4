// Package header implements the committed block summary and the fee->gas
// conversion the apply engine depends on.
package header

import (
	"mel2stf.dev/mel2stf/internal/canon"
	"mel2stf.dev/mel2stf/internal/melhash"
	"mel2stf.dev/mel2stf/internal/meltypes"
)

// Header is the committed summary of a block: chain id, parent hash,
// height, gas price, and state root. Equality is structural.
type Header struct {
	ChainId  meltypes.ChainId
	Prev     meltypes.Hash
	Height   uint64
	GasPrice meltypes.Quantity
	State    meltypes.Hash
}

// Canon returns the header's canonical encoding.
func (h Header) Canon() []byte {
	w := canon.NewWriter(90)
	w.WriteUint16(uint16(h.ChainId))
	w.WriteFixed(h.Prev.Bytes())
	w.WriteUint64(h.Height)
	gp := h.GasPrice.Bytes16()
	w.WriteFixed(gp[:])
	w.WriteFixed(h.State.Bytes())
	return w.Bytes()
}

// Hash returns H(canonical_encode(h)), the value used as the next header's
// Prev field.
func (h Header) Hash() meltypes.Hash {
	return melhash.Sum(h.Canon())
}

// Equal reports field-for-field structural equality, as required when
// validating a replayed header against a candidate.
func (h Header) Equal(o Header) bool {
	return h.ChainId == o.ChainId &&
		h.Prev == o.Prev &&
		h.Height == o.Height &&
		h.GasPrice.Cmp(o.GasPrice) == 0 &&
		h.State == o.State
}

// FeeToGas computes the gas purchased by fee at this header's gas price.
func (h Header) FeeToGas(fee meltypes.Quantity) uint64 {
	return meltypes.FeeToGas(fee, h.GasPrice)
}

// DecodeHeader decodes a canonical Header encoding.
func DecodeHeader(b []byte) (Header, error) {
	r := canon.NewReader(b)
	var h Header

	chainID, err := r.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	h.ChainId = meltypes.ChainId(chainID)

	prev, err := r.ReadFixed(32)
	if err != nil {
		return Header{}, err
	}
	copy(h.Prev[:], prev)

	h.Height, err = r.ReadUint64()
	if err != nil {
		return Header{}, err
	}

	gp, err := r.ReadFixed(16)
	if err != nil {
		return Header{}, err
	}
	var gp16 [16]byte
	copy(gp16[:], gp)
	h.GasPrice = meltypes.QuantityFromBytes16(gp16)

	state, err := r.ReadFixed(32)
	if err != nil {
		return Header{}, err
	}
	copy(h.State[:], state)

	return h, nil
}
