package commitproof

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/vocdoni/commitreveal-sandbox/crypto/commitment"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

// ProofInputs is the JSON-encodable input set of the commit circuit, with
// every field element as a decimal string. Only the commitment is public;
// the remaining fields are the private witness.
type ProofInputs struct {
	Commitment     *types.BigInt `json:"commitment"`
	Choice         *types.BigInt `json:"choice"`
	RevealIdentity *types.BigInt `json:"revealIdentity"`
	Salt           *types.BigInt `json:"salt"`
	BallotID       *types.BigInt `json:"ballotId"`
}

// InputsFromWitness computes the commitment for the given private witness
// on the native hash path and returns the full circuit input set. The
// native and in-circuit hashes must agree, which is covered by the prover
// tests.
func InputsFromWitness(choice, revealIdentity, salt, ballotID *big.Int) (*ProofInputs, error) {
	comm, err := commitment.Hash(choice, revealIdentity, salt, ballotID)
	if err != nil {
		return nil, fmt.Errorf("compute commitment: %w", err)
	}
	return &ProofInputs{
		Commitment:     types.FromBig(comm),
		Choice:         types.FromBig(choice),
		RevealIdentity: types.FromBig(revealIdentity),
		Salt:           types.FromBig(salt),
		BallotID:       types.FromBig(ballotID),
	}, nil
}

func (in *ProofInputs) check() error {
	if in == nil || in.Commitment == nil || in.Choice == nil ||
		in.RevealIdentity == nil || in.Salt == nil || in.BallotID == nil {
		return fmt.Errorf("incomplete commit proof inputs")
	}
	return nil
}

// String returns the JSON representation of the inputs, as consumed by the
// external witness-generation tooling.
func (in *ProofInputs) String() string {
	data, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	return string(data)
}

// assignment converts the inputs to the circuit assignment.
func (in *ProofInputs) assignment() (*CommitCircuit, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	return &CommitCircuit{
		Commitment:     in.Commitment.MathBigInt(),
		Choice:         in.Choice.MathBigInt(),
		RevealIdentity: in.RevealIdentity.MathBigInt(),
		Salt:           in.Salt.MathBigInt(),
		BallotID:       in.BallotID.MathBigInt(),
	}, nil
}
