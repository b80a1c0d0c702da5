package circuits

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"

	"github.com/vocdoni/commitreveal-sandbox/types"
)

// FrontendError function is an in-circuit function to print an error message
// and an error trace, making the circuit fail.
func FrontendError(api frontend.API, msg string, trace error) {
	err := fmt.Errorf("%s", msg)
	if trace != nil {
		err = fmt.Errorf("%w: %v", err, trace)
	}
	api.Println(err.Error())
	api.AssertIsEqual(1, 0)
}

// EncodeProof serializes a Groth16 proof over BN254 into the (a, b, c)
// triple of affine coordinates exchanged with the ledger. The layout of the
// raw serialization is Ar | Bs | Krs, with the G2 point Bs encoded as
// x.A1 | x.A0 | y.A1 | y.A0.
func EncodeProof(proof groth16.Proof) (*types.ProofData, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteRawTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize proof: %w", err)
	}
	proofBytes := buf.Bytes()
	const fpSize = SerializedFieldSize
	if len(proofBytes) < fpSize*8 {
		return nil, fmt.Errorf("unexpected proof size: %d", len(proofBytes))
	}
	p := &types.ProofData{}
	p.A[0] = new(types.BigInt).SetBytes(proofBytes[fpSize*0 : fpSize*1])
	p.A[1] = new(types.BigInt).SetBytes(proofBytes[fpSize*1 : fpSize*2])
	p.B[0][0] = new(types.BigInt).SetBytes(proofBytes[fpSize*2 : fpSize*3])
	p.B[0][1] = new(types.BigInt).SetBytes(proofBytes[fpSize*3 : fpSize*4])
	p.B[1][0] = new(types.BigInt).SetBytes(proofBytes[fpSize*4 : fpSize*5])
	p.B[1][1] = new(types.BigInt).SetBytes(proofBytes[fpSize*5 : fpSize*6])
	p.C[0] = new(types.BigInt).SetBytes(proofBytes[fpSize*6 : fpSize*7])
	p.C[1] = new(types.BigInt).SetBytes(proofBytes[fpSize*7 : fpSize*8])
	return p, nil
}

// DecodeProof is the inverse of EncodeProof: it rebuilds a verifiable
// Groth16 proof from the (a, b, c) coordinate triple.
func DecodeProof(p *types.ProofData) (groth16.Proof, error) {
	if err := p.Valid(); err != nil {
		return nil, err
	}
	proof := &groth16_bn254.Proof{}
	setFp := func(e *fp.Element, v *types.BigInt) error {
		if v.MathBigInt().Cmp(fp.Modulus()) >= 0 || v.MathBigInt().Sign() < 0 {
			return fmt.Errorf("proof coordinate out of range")
		}
		e.SetBigInt(v.MathBigInt())
		return nil
	}
	if err := setFp(&proof.Ar.X, p.A[0]); err != nil {
		return nil, err
	}
	if err := setFp(&proof.Ar.Y, p.A[1]); err != nil {
		return nil, err
	}
	if err := setFp(&proof.Bs.X.A1, p.B[0][0]); err != nil {
		return nil, err
	}
	if err := setFp(&proof.Bs.X.A0, p.B[0][1]); err != nil {
		return nil, err
	}
	if err := setFp(&proof.Bs.Y.A1, p.B[1][0]); err != nil {
		return nil, err
	}
	if err := setFp(&proof.Bs.Y.A0, p.B[1][1]); err != nil {
		return nil, err
	}
	if err := setFp(&proof.Krs.X, p.C[0]); err != nil {
		return nil, err
	}
	if err := setFp(&proof.Krs.Y, p.C[1]); err != nil {
		return nil, err
	}
	return proof, nil
}

// BigIntsToPublicInputs converts raw big integers to the BigInt slice used
// on the verifier interface, preserving order.
func BigIntsToPublicInputs(inputs []*big.Int) []*types.BigInt {
	out := make([]*types.BigInt, len(inputs))
	for i, in := range inputs {
		out[i] = types.FromBig(in)
	}
	return out
}
