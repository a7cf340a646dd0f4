package meltypes

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
)

// microPerWhole is the fixed-point scale: a Quantity's display form is its
// integer value divided by this many micro-units.
const microPerWhole = 1_000_000

// Quantity is a 128-bit unsigned micro-unit count. It is backed by
// holiman/uint256.Int (a 256-bit word) for headroom during intermediate
// products in fee-to-gas conversion; callers must never construct a value
// exceeding 128 bits. The constructors here stay within 128 bits; Add and
// MulDivFloor do not check the width, and Bytes16 panics on a wider value.
type Quantity struct {
	v uint256.Int
}

// ZeroQuantity is the additive identity.
var ZeroQuantity = Quantity{}

// NewQuantity builds a Quantity from a whole-unit and micro-unit pair, e.g.
// NewQuantity(1, 500000) == 1.5 MEL-equivalent in whatever token.
func NewQuantity(whole, micro uint64) Quantity {
	var q Quantity
	q.v.SetUint64(whole)
	q.v.Mul(&q.v, uint256.NewInt(microPerWhole))
	var m uint256.Int
	m.SetUint64(micro)
	q.v.Add(&q.v, &m)
	return q
}

// QuantityFromMicro builds a Quantity directly from a micro-unit count.
func QuantityFromMicro(micro uint64) Quantity {
	var q Quantity
	q.v.SetUint64(micro)
	return q
}

// QuantityFromBytes16 decodes a 128-bit little-endian value, as produced by
// Bytes16.
func QuantityFromBytes16(b [16]byte) Quantity {
	var q Quantity
	// uint256.Int.SetBytes expects big-endian; reverse into a scratch buffer.
	var be [16]byte
	for i := range b {
		be[15-i] = b[i]
	}
	q.v.SetBytes(be[:])
	return q
}

// Bytes16 encodes the value as 16 little-endian bytes. Panics if the value
// does not fit in 128 bits, which callers must never trigger in practice
// since all constructors here stay within 128 bits.
func (q Quantity) Bytes16() [16]byte {
	if q.v.BitLen() > 128 {
		panic("meltypes: quantity exceeds 128 bits")
	}
	be := q.v.Bytes32()
	var out [16]byte
	for i := 0; i < 16; i++ {
		out[i] = be[31-i]
	}
	return out
}

// Add returns q+o.
func (q Quantity) Add(o Quantity) Quantity {
	var r Quantity
	r.v.Add(&q.v, &o.v)
	return r
}

// Sub returns q-o. Callers must ensure q >= o; the algorithm in
// internal/state always checks this before subtracting.
func (q Quantity) Sub(o Quantity) Quantity {
	var r Quantity
	r.v.Sub(&q.v, &o.v)
	return r
}

// Cmp returns -1, 0, or 1 as q is less than, equal to, or greater than o.
func (q Quantity) Cmp(o Quantity) int {
	return q.v.Cmp(&o.v)
}

// LessThan reports whether q < o.
func (q Quantity) LessThan(o Quantity) bool { return q.Cmp(o) < 0 }

// IsZero reports whether q is the additive identity.
func (q Quantity) IsZero() bool { return q.v.IsZero() }

// String renders the value as "whole.000000fraction" per the micro-unit
// display convention.
func (q Quantity) String() string {
	var whole, rem uint256.Int
	whole.Div(&q.v, uint256.NewInt(microPerWhole))
	rem.Mod(&q.v, uint256.NewInt(microPerWhole))
	return fmt.Sprintf("%s.%06d", whole.Dec(), rem.Uint64())
}

// FeeToGas computes floor(fee * 1_000_000 / price) using exact integer
// arithmetic, split as whole=fee/price, rem=fee mod price, to avoid any
// intermediate overflow, saturating to math.MaxUint64.
func FeeToGas(fee, price Quantity) uint64 {
	if price.IsZero() {
		return math.MaxUint64
	}
	var whole, rem uint256.Int
	whole.Div(&fee.v, &price.v)
	rem.Mod(&fee.v, &price.v)

	var wholeGas uint256.Int
	wholeGas.Mul(&whole, uint256.NewInt(microPerWhole))

	var remGas uint256.Int
	remGas.Mul(&rem, uint256.NewInt(microPerWhole))
	remGas.Div(&remGas, &price.v)

	var total uint256.Int
	total.Add(&wholeGas, &remGas)

	if !total.IsUint64() {
		return math.MaxUint64
	}
	return total.Uint64()
}

// MulDivFloor computes floor(q*mul/div) with a 256-bit intermediate product,
// used by the sealing layer's gas-price drift bound (9/10 and 10/9 ratios).
func MulDivFloor(q Quantity, mul, div uint64) Quantity {
	var product uint256.Int
	product.Mul(&q.v, uint256.NewInt(mul))
	var r Quantity
	r.v.Div(&product, uint256.NewInt(div))
	return r
}
