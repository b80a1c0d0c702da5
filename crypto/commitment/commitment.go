// Package commitment implements the production hash family of the
// commit-reveal protocol: a 4-input Poseidon commitment binding a choice to
// a reveal identity, a salt and a ballot id, and a 2-input Poseidon
// nullifier binding a reveal identity to a salt. Both hashes operate over
// the BN254 scalar field and match bit for bit the in-circuit Poseidon
// gadget used by the commit and reveal circuits.
//
// A second, bit-oriented hash family lives in crypto/pedersen; it exists
// only for parity testing and its outputs must never be conflated with the
// outputs of this package.
package commitment

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/vocdoni/commitreveal-sandbox/util"
)

// Hash computes the vote commitment as
// Poseidon(choice, revealIdentity, salt, ballotID). Every input is reduced
// into the BN254 scalar field before hashing, exactly as the circuit does
// with its witness values.
func Hash(choice, revealIdentity, salt, ballotID *big.Int) (*big.Int, error) {
	for _, in := range []*big.Int{choice, revealIdentity, salt, ballotID} {
		if in == nil {
			return nil, fmt.Errorf("nil commitment input")
		}
	}
	return poseidon.Hash([]*big.Int{
		util.BigToFF(choice),
		util.BigToFF(revealIdentity),
		util.BigToFF(salt),
		util.BigToFF(ballotID),
	})
}

// Nullifier computes the reveal nullifier as Poseidon(revealIdentity, salt).
// Recording the nullifier on the ledger is what prevents the same secret
// from being used to reveal twice.
func Nullifier(revealIdentity, salt *big.Int) (*big.Int, error) {
	if revealIdentity == nil || salt == nil {
		return nil, fmt.Errorf("nil nullifier input")
	}
	return poseidon.Hash([]*big.Int{
		util.BigToFF(revealIdentity),
		util.BigToFF(salt),
	})
}
