package circuits

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/vocdoni/commitreveal-sandbox/log"
)

// Artifact holds the compiled constraint system and the Groth16 keys of a
// circuit. Compilation and setup run lazily on first use and exactly once;
// if a directory is configured, the artifacts are reused from disk across
// runs so the prover and the verifier of a node always share the same keys.
type Artifact struct {
	Name        string
	Placeholder frontend.Circuit

	dir  string
	once sync.Once
	ccs  constraint.ConstraintSystem
	pk   groth16.ProvingKey
	vk   groth16.VerifyingKey
	err  error
}

// NewArtifact creates the artifact set for the given circuit placeholder.
// If dir is not empty, the constraint system and keys are persisted there.
func NewArtifact(name string, placeholder frontend.Circuit, dir string) *Artifact {
	return &Artifact{Name: name, Placeholder: placeholder, dir: dir}
}

func (a *Artifact) load() error {
	a.once.Do(func() {
		if a.dir != "" {
			if err := a.read(); err == nil {
				log.Infow("loaded circuit artifacts", "circuit", a.Name, "dir", a.dir)
				return
			}
		}
		log.Infow("compiling circuit", "circuit", a.Name)
		a.ccs, a.err = frontend.Compile(BallotProofCurve.ScalarField(), r1cs.NewBuilder, a.Placeholder)
		if a.err != nil {
			a.err = fmt.Errorf("compile %s circuit: %w", a.Name, a.err)
			return
		}
		a.pk, a.vk, a.err = groth16.Setup(a.ccs)
		if a.err != nil {
			a.err = fmt.Errorf("setup %s circuit: %w", a.Name, a.err)
			return
		}
		if a.dir != "" {
			if err := a.write(); err != nil {
				log.Warnw("could not persist circuit artifacts", "circuit", a.Name, "error", err)
			}
		}
	})
	return a.err
}

// Prove generates a Groth16 proof for the given full assignment. It fails
// closed: if the witness does not satisfy the circuit constraints no proof
// is emitted.
func (a *Artifact) Prove(assignment frontend.Circuit) (groth16.Proof, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	witness, err := frontend.NewWitness(assignment, BallotProofCurve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build %s witness: %w", a.Name, err)
	}
	proof, err := groth16.Prove(a.ccs, a.pk, witness)
	if err != nil {
		return nil, fmt.Errorf("prove %s: %w", a.Name, err)
	}
	return proof, nil
}

// Verify checks a Groth16 proof against the public-only assignment. It
// returns false both for an invalid proof and for malformed proof data.
func (a *Artifact) Verify(proof groth16.Proof, publicAssignment frontend.Circuit) (bool, error) {
	if err := a.load(); err != nil {
		return false, err
	}
	pubWitness, err := frontend.NewWitness(publicAssignment, BallotProofCurve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("build %s public witness: %w", a.Name, err)
	}
	if err := groth16.Verify(proof, a.vk, pubWitness); err != nil {
		return false, nil
	}
	return true, nil
}

func (a *Artifact) csPath() string { return filepath.Join(a.dir, a.Name+".ccs") }
func (a *Artifact) pkPath() string { return filepath.Join(a.dir, a.Name+".pk") }
func (a *Artifact) vkPath() string { return filepath.Join(a.dir, a.Name+".vk") }

func (a *Artifact) read() error {
	a.ccs = groth16.NewCS(BallotProofCurve)
	if err := readFrom(a.csPath(), a.ccs); err != nil {
		return err
	}
	a.pk = groth16.NewProvingKey(BallotProofCurve)
	if err := readFrom(a.pkPath(), a.pk); err != nil {
		return err
	}
	a.vk = groth16.NewVerifyingKey(BallotProofCurve)
	return readFrom(a.vkPath(), a.vk)
}

func (a *Artifact) write() error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}
	if err := writeTo(a.csPath(), a.ccs); err != nil {
		return err
	}
	if err := writeTo(a.pkPath(), a.pk); err != nil {
		return err
	}
	return writeTo(a.vkPath(), a.vk)
}

func readFrom(path string, artifact interface{ ReadFrom(r io.Reader) (int64, error) }) error {
	fd, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := fd.Close(); err != nil {
			log.Warnw("could not close artifact file", "path", path, "error", err)
		}
	}()
	_, err = artifact.ReadFrom(fd)
	return err
}

func writeTo(path string, artifact interface{ WriteTo(w io.Writer) (int64, error) }) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := fd.Close(); err != nil {
			log.Warnw("could not close artifact file", "path", path, "error", err)
		}
	}()
	_, err = artifact.WriteTo(fd)
	return err
}
