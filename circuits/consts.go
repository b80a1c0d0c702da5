// Package circuits contains the shared definitions of the commit and reveal
// constraint systems: the proving curve, the choice range bounds, the
// Groth16 artifact management and the proof wire codec consumed by the
// ledger verifier.
package circuits

import "github.com/consensys/gnark-crypto/ecc"

// BallotProofCurve is the curve over which both the commit and the reveal
// circuits are proven. BN254 is forced by the Poseidon hash family, which is
// defined over its scalar field.
const BallotProofCurve = ecc.BN254

const (
	// MaxChoiceBound is the exclusive upper bound enforced on the choice
	// value inside the commit circuit: choice < MaxChoiceBound.
	MaxChoiceBound = 5
	// ChoiceNumBits is the fixed bit width of the in-circuit binary
	// decomposition used by the strict less-than range check. It must be
	// wide enough to hold MaxChoiceBound-1.
	ChoiceNumBits = 8
	// SerializedFieldSize is the byte size of a serialized BN254 field
	// element.
	SerializedFieldSize = 32
)
