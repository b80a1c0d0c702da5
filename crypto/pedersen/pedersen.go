// Package pedersen implements the bit-oriented, fixed-base multi-scalar
// commitment hash over the Baby JubJub curve. It is the historical variant
// of the commitment scheme and is kept exclusively as a cross-check utility
// with its own test vectors: the production circuits and the ledger use the
// Poseidon family from crypto/commitment, and the two outputs are never
// interchangeable.
package pedersen

import (
	"math/big"
	"sync"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/vocdoni/commitreveal-sandbox/crypto/bitcodec"
)

const (
	// InputWidth is the fixed bit width of each hash input.
	InputWidth = 64
	// NumInputs is the number of inputs folded into the hash:
	// choice, reveal identity and salt.
	NumInputs = 3

	totalBits = InputWidth * NumInputs

	// generatorDomain separates the base-point derivation from any other
	// use of Poseidon in this repository.
	generatorDomain = 0x70656465 // "pede"
)

var (
	basePointsOnce sync.Once
	basePoints     [totalBits]*babyjub.Point
)

// generators derives one fixed base point per bit position. Each point is
// B8 scaled by Poseidon(generatorDomain, i) reduced into the subgroup
// order, so the bases are nothing-up-my-sleeve and reproducible by any
// implementation of the scheme.
func generators() [totalBits]*babyjub.Point {
	basePointsOnce.Do(func() {
		for i := 0; i < totalBits; i++ {
			s, err := poseidon.Hash([]*big.Int{
				big.NewInt(generatorDomain),
				big.NewInt(int64(i)),
			})
			if err != nil {
				panic(err)
			}
			s.Mod(s, babyjub.SubOrder)
			basePoints[i] = babyjub.NewPoint().Mul(s, babyjub.B8)
		}
	})
	return basePoints
}

// Hash computes the fixed-base multi-scalar hash of the three 64-bit inputs
// and returns the resulting curve point in affine coordinates. The scalar
// for each base point is the corresponding bit of the LSB-first
// concatenation choice || identity || salt.
func Hash(choice, identity, salt uint64) (x, y *big.Int) {
	bits := make([]uint8, 0, totalBits)
	bits = append(bits, bitcodec.EncodeUint64LSB(choice)...)
	bits = append(bits, bitcodec.EncodeUint64LSB(identity)...)
	bits = append(bits, bitcodec.EncodeUint64LSB(salt)...)

	bases := generators()
	acc := babyjub.NewPoint().Projective()
	for i, bit := range bits {
		if bit != 0 {
			acc = babyjub.NewPoint().Projective().Add(acc, bases[i].Projective())
		}
	}
	p := acc.Affine()
	return new(big.Int).Set(p.X), new(big.Int).Set(p.Y)
}
