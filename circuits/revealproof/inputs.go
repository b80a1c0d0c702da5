package revealproof

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/vocdoni/commitreveal-sandbox/crypto/commitment"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

// ProofInputs is the JSON-encodable input set of the reveal circuit, with
// every field element as a decimal string. Only the salt is private.
type ProofInputs struct {
	Choice    *types.BigInt `json:"choice"`
	Nullifier *types.BigInt `json:"nullifier"`
	Sender    *types.BigInt `json:"sender"`
	BallotID  *types.BigInt `json:"ballotId"`
	Salt      *types.BigInt `json:"salt"`
}

// InputsFromWitness computes the nullifier for the given reveal identity
// and salt on the native hash path and returns the full circuit input set.
func InputsFromWitness(choice, sender, salt, ballotID *big.Int) (*ProofInputs, error) {
	nullifier, err := commitment.Nullifier(sender, salt)
	if err != nil {
		return nil, fmt.Errorf("compute nullifier: %w", err)
	}
	return &ProofInputs{
		Choice:    types.FromBig(choice),
		Nullifier: types.FromBig(nullifier),
		Sender:    types.FromBig(sender),
		BallotID:  types.FromBig(ballotID),
		Salt:      types.FromBig(salt),
	}, nil
}

func (in *ProofInputs) check() error {
	if in == nil || in.Choice == nil || in.Nullifier == nil ||
		in.Sender == nil || in.BallotID == nil || in.Salt == nil {
		return fmt.Errorf("incomplete reveal proof inputs")
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
func (in *ProofInputs) assignment() (*RevealCircuit, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	return &RevealCircuit{
		Choice:    in.Choice.MathBigInt(),
		Nullifier: in.Nullifier.MathBigInt(),
		Sender:    in.Sender.MathBigInt(),
		BallotID:  in.BallotID.MathBigInt(),
		Salt:      in.Salt.MathBigInt(),
	}, nil
}
