package types

import "fmt"

// ProofData is the opaque Groth16 proof triple exchanged between the provers
// and the ledger verifier: two G1 points (A, C) and one G2 point (B) over
// BN254, with coordinates as decimal-marshalled field elements. It is not
// interpretable on its own, only paired with a verifying key and the ordered
// public inputs it accompanies.
type ProofData struct {
	A [2]*BigInt    `json:"a"`
	B [2][2]*BigInt `json:"b"`
	C [2]*BigInt    `json:"c"`
}

// Valid checks that every coordinate of the proof is present.
func (p *ProofData) Valid() error {
	if p == nil {
		return fmt.Errorf("nil proof")
	}
	for i := range 2 {
		if p.A[i] == nil || p.C[i] == nil || p.B[i][0] == nil || p.B[i][1] == nil {
			return fmt.Errorf("missing proof coordinate")
		}
	}
	return nil
}
