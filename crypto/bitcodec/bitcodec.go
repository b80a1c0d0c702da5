// Package bitcodec converts between unsigned integers and fixed-width
// LSB-first bit vectors. The same ordering is used by the witness generation
// path and by the in-circuit binary decompositions; a mismatch between the
// two silently produces mismatched hash preimages, so this package is the
// single source of truth for the encoding and carries fixed test vectors.
package bitcodec

import (
	"fmt"
	"math/big"
)

// ErrValueTooWide is returned when the value does not fit in the requested
// bit width.
var ErrValueTooWide = fmt.Errorf("value does not fit in the given bit width")

// EncodeBitsLSB returns the bits of v as a slice of length width, where the
// element at index 0 is the least-significant bit of v. It fails if v is
// negative or if v >= 2^width.
func EncodeBitsLSB(v *big.Int, width int) ([]uint8, error) {
	if v == nil || v.Sign() < 0 {
		return nil, fmt.Errorf("negative or nil value")
	}
	if v.BitLen() > width {
		return nil, fmt.Errorf("%w: %s needs %d bits, got %d", ErrValueTooWide, v.String(), v.BitLen(), width)
	}
	bits := make([]uint8, width)
	for i := 0; i < width; i++ {
		bits[i] = uint8(v.Bit(i))
	}
	return bits, nil
}

// DecodeBitsLSB is the inverse of EncodeBitsLSB: it interprets bits as an
// LSB-first bit vector and returns the corresponding unsigned integer. Any
// non-zero element counts as a set bit.
func DecodeBitsLSB(bits []uint8) *big.Int {
	v := new(big.Int)
	for i, b := range bits {
		if b != 0 {
			v.SetBit(v, i, 1)
		}
	}
	return v
}

// EncodeUint64LSB is a convenience wrapper over EncodeBitsLSB for 64-bit
// inputs, the width used by the bit-oriented commitment hash.
func EncodeUint64LSB(v uint64) []uint8 {
	bits, err := EncodeBitsLSB(new(big.Int).SetUint64(v), 64)
	if err != nil {
		// a uint64 always fits in 64 bits
		panic(err)
	}
	return bits
}
