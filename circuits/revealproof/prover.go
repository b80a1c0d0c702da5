package revealproof

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/commitreveal-sandbox/circuits"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

// Prover wraps the Groth16 artifacts of the reveal circuit, acting also as
// the verifier for the ledger.
type Prover struct {
	artifact *circuits.Artifact
}

// NewProver creates a reveal circuit prover. If artifactsDir is not empty
// the compiled circuit and keys are persisted there and reused.
func NewProver(artifactsDir string) *Prover {
	return &Prover{
		artifact: circuits.NewArtifact("revealproof", &RevealCircuit{}, artifactsDir),
	}
}

// Prove generates a proof for the given inputs, failing closed when the
// declared nullifier does not match the witness.
func (p *Prover) Prove(inputs *ProofInputs) (*types.ProofData, error) {
	assignment, err := inputs.assignment()
	if err != nil {
		return nil, err
	}
	proof, err := p.artifact.Prove(assignment)
	if err != nil {
		return nil, err
	}
	return circuits.EncodeProof(proof)
}

// PublicInputs returns the ordered public input vector of a reveal proof:
// [choice, nullifier, sender, ballotId].
func PublicInputs(choice, nullifier, sender, ballotID *big.Int) []*big.Int {
	return []*big.Int{choice, nullifier, sender, ballotID}
}

// VerifyProof checks the proof against the ordered public inputs
// [choice, nullifier, sender, ballotId]. It implements the verifier
// interface consumed by the ledger.
func (p *Prover) VerifyProof(proof *types.ProofData, publicInputs []*types.BigInt) (bool, error) {
	if len(publicInputs) != 4 {
		return false, fmt.Errorf("reveal proof expects 4 public inputs, got %d", len(publicInputs))
	}
	g16Proof, err := circuits.DecodeProof(proof)
	if err != nil {
		return false, fmt.Errorf("decode proof: %w", err)
	}
	return p.artifact.Verify(g16Proof, &RevealCircuit{
		Choice:    publicInputs[0].MathBigInt(),
		Nullifier: publicInputs[1].MathBigInt(),
		Sender:    publicInputs[2].MathBigInt(),
		BallotID:  publicInputs[3].MathBigInt(),
	})
}
