package commitproof

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/commitreveal-sandbox/circuits"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

// Prover wraps the Groth16 artifacts of the commit circuit. The same
// instance acts as the verifier for the ledger, so prover and verifier
// always share a verifying key.
type Prover struct {
	artifact *circuits.Artifact
}

// NewProver creates a commit circuit prover. If artifactsDir is not empty
// the compiled circuit and keys are persisted there and reused.
func NewProver(artifactsDir string) *Prover {
	return &Prover{
		artifact: circuits.NewArtifact("commitproof", &CommitCircuit{}, artifactsDir),
	}
}

// Prove generates a proof for the given inputs. Proof generation fails
// closed, before any submission, when the witness violates the choice range
// or the commitment equation.
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

// PublicInputs returns the ordered public input vector of a commit proof:
// [commitment].
func PublicInputs(commitment *big.Int) []*big.Int {
	return []*big.Int{commitment}
}

// VerifyProof checks the proof against the ordered public inputs
// [commitment]. It implements the verifier interface consumed by the
// ledger.
func (p *Prover) VerifyProof(proof *types.ProofData, publicInputs []*types.BigInt) (bool, error) {
	if len(publicInputs) != 1 {
		return false, fmt.Errorf("commit proof expects 1 public input, got %d", len(publicInputs))
	}
	g16Proof, err := circuits.DecodeProof(proof)
	if err != nil {
		return false, fmt.Errorf("decode proof: %w", err)
	}
	return p.artifact.Verify(g16Proof, &CommitCircuit{
		Commitment: publicInputs[0].MathBigInt(),
	})
}
