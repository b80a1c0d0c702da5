// Package revealproof contains the constraint system backing the reveal
// phase: the prover shows knowledge of a salt consistent with the declared
// nullifier and reveal identity, with the choice, identity and ballot id
// now public.
//
// The circuit deliberately does NOT prove that the revealed tuple matches a
// commitment previously recorded on the ledger: checking set membership
// would require a Merkle structure this design explicitly forgoes. The
// binding to the commit phase is operational (the client only ever reveals
// a salt it committed with) and is documented as a trust assumption, not
// enforced here.
package revealproof

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-crypto-primitives/poseidon"

	"github.com/vocdoni/commitreveal-sandbox/circuits"
)

// RevealCircuit proves that nullifier == Poseidon(sender, salt). The order
// of the public fields below is the public-input ordering the ledger
// verifies against: [choice, nullifier, sender, ballotId].
type RevealCircuit struct {
	// PUBLIC INPUTS
	Choice    frontend.Variable `gnark:",public"`
	Nullifier frontend.Variable `gnark:",public"`
	Sender    frontend.Variable `gnark:",public"`
	BallotID  frontend.Variable `gnark:",public"`
	// SECRET INPUTS
	Salt frontend.Variable
}

// Define declares the circuit's constraints.
func (c *RevealCircuit) Define(api frontend.API) error {
	// Recompute the candidate commitment from the now-public tuple. It is
	// computed but never asserted against a stored value; see the package
	// documentation for the resulting trust gap.
	if _, err := poseidon.Hash(api, c.Choice, c.Sender, c.Salt, c.BallotID); err != nil {
		circuits.FrontendError(api, "failed to hash the candidate commitment", err)
		return err
	}

	nullifier, err := poseidon.Hash(api, c.Sender, c.Salt)
	if err != nil {
		circuits.FrontendError(api, "failed to hash the nullifier preimage", err)
		return err
	}
	api.AssertIsEqual(nullifier, c.Nullifier)
	return nil
}
