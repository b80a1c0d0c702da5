// Package commitproof contains the constraint system proving knowledge of a
// vote witness behind a public commitment: the prover knows (choice,
// revealIdentity, salt, ballotId) such that the disclosed commitment is
// their Poseidon hash and the choice is inside the valid range. Nothing but
// the commitment itself is revealed; in particular the ballot id is bound
// only through the hash preimage.
package commitproof

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-crypto-primitives/poseidon"

	"github.com/vocdoni/commitreveal-sandbox/circuits"
)

// CommitCircuit proves, for the public commitment:
//  1. choice < MaxChoiceBound, via a strict comparison over a fixed-width
//     binary decomposition of the choice.
//  2. commitment == Poseidon(choice, revealIdentity, salt, ballotId).
type CommitCircuit struct {
	// PUBLIC INPUTS
	Commitment frontend.Variable `gnark:",public"`
	// SECRET INPUTS
	Choice         frontend.Variable
	RevealIdentity frontend.Variable
	Salt           frontend.Variable
	BallotID       frontend.Variable
}

// Define declares the circuit's constraints.
func (c *CommitCircuit) Define(api frontend.API) error {
	// Fixed-width LSB-first decomposition; bit 0 is the least-significant
	// bit, the same ordering as crypto/bitcodec on the witness side. The
	// decomposition bounds the choice to ChoiceNumBits bits so the strict
	// less-than below operates on a fixed width.
	bits := api.ToBinary(c.Choice, circuits.ChoiceNumBits)
	bounded := api.FromBinary(bits...)
	api.AssertIsEqual(bounded, c.Choice)
	api.AssertIsLessOrEqual(c.Choice, circuits.MaxChoiceBound-1)

	hash, err := poseidon.Hash(api, c.Choice, c.RevealIdentity, c.Salt, c.BallotID)
	if err != nil {
		circuits.FrontendError(api, "failed to hash the commitment preimage", err)
		return err
	}
	api.AssertIsEqual(hash, c.Commitment)
	return nil
}
