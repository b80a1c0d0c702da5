// Package voter implements the client side of the protocol: witness
// generation, commitment and nullifier computation and proof generation.
// Everything here is CPU-bound and shares no state, so voters can run in
// parallel without coordination.
package voter

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/vocdoni/commitreveal-sandbox/circuits"
	"github.com/vocdoni/commitreveal-sandbox/circuits/commitproof"
	"github.com/vocdoni/commitreveal-sandbox/circuits/revealproof"
	"github.com/vocdoni/commitreveal-sandbox/crypto/commitment"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

// VoteWitness is the private witness of a single vote. The reveal identity
// is a fresh address, unlinkable to the identity that submitted the
// commitment, and the salt blinds the commitment against brute-force over
// the small choice space.
type VoteWitness struct {
	Choice         uint64
	RevealIdentity *big.Int
	Salt           *big.Int
	BallotID       types.BallotID
}

// NewVoteWitness generates a witness with a fresh secp256k1-derived reveal
// identity and a random salt, both drawn from rnd (crypto/rand if nil) so
// tests can seed deterministic witnesses. The choice must be below the
// circuit bound.
func NewVoteWitness(rnd io.Reader, choice uint64, ballotID types.BallotID) (*VoteWitness, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	if choice >= circuits.MaxChoiceBound {
		return nil, fmt.Errorf("choice %d out of range [0, %d)", choice, circuits.MaxChoiceBound)
	}
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rnd)
	if err != nil {
		return nil, fmt.Errorf("generate reveal identity: %w", err)
	}
	identity := ethcrypto.PubkeyToAddress(key.PublicKey)
	salt := make([]byte, 31) // below the BN254 scalar field size
	if _, err := io.ReadFull(rnd, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return &VoteWitness{
		Choice:         choice,
		RevealIdentity: new(big.Int).SetBytes(identity.Bytes()),
		Salt:           new(big.Int).SetBytes(salt),
		BallotID:       ballotID,
	}, nil
}

// Commitment computes the commitment of the witness on the native hash
// path, identical to the value the commit circuit constrains.
func (w *VoteWitness) Commitment() (*big.Int, error) {
	return commitment.Hash(
		new(big.Int).SetUint64(w.Choice),
		w.RevealIdentity,
		w.Salt,
		new(big.Int).SetUint64(uint64(w.BallotID)),
	)
}

// Nullifier computes the nullifier of the witness on the native hash path.
func (w *VoteWitness) Nullifier() (*big.Int, error) {
	return commitment.Nullifier(w.RevealIdentity, w.Salt)
}

// CommitProof generates the commit proof for the witness. The returned
// commitment is the single public input.
func (w *VoteWitness) CommitProof(prover *commitproof.Prover) (*types.ProofData, *big.Int, error) {
	inputs, err := commitproof.InputsFromWitness(
		new(big.Int).SetUint64(w.Choice),
		w.RevealIdentity,
		w.Salt,
		new(big.Int).SetUint64(uint64(w.BallotID)),
	)
	if err != nil {
		return nil, nil, err
	}
	proof, err := prover.Prove(inputs)
	if err != nil {
		return nil, nil, err
	}
	return proof, inputs.Commitment.MathBigInt(), nil
}

// RevealProof generates the reveal proof for the witness. The returned
// nullifier is part of the public input vector, together with the choice,
// the reveal identity and the ballot id.
func (w *VoteWitness) RevealProof(prover *revealproof.Prover) (*types.ProofData, *big.Int, error) {
	inputs, err := revealproof.InputsFromWitness(
		new(big.Int).SetUint64(w.Choice),
		w.RevealIdentity,
		w.Salt,
		new(big.Int).SetUint64(uint64(w.BallotID)),
	)
	if err != nil {
		return nil, nil, err
	}
	proof, err := prover.Prove(inputs)
	if err != nil {
		return nil, nil, err
	}
	return proof, inputs.Nullifier.MathBigInt(), nil
}
