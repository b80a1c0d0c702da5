package commitment

import (
	"crypto/rand"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func randomField(t *testing.T) *big.Int {
	t.Helper()
	max := new(big.Int).Lsh(big.NewInt(1), 250)
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestHashDeterminism(t *testing.T) {
	c := qt.New(t)
	choice := big.NewInt(3)
	identity := randomField(t)
	salt := randomField(t)
	ballotID := big.NewInt(42)

	h1, err := Hash(choice, identity, salt, ballotID)
	c.Assert(err, qt.IsNil)
	h2, err := Hash(choice, identity, salt, ballotID)
	c.Assert(err, qt.IsNil)
	c.Assert(h1.Cmp(h2), qt.Equals, 0)

	n1, err := Nullifier(identity, salt)
	c.Assert(err, qt.IsNil)
	n2, err := Nullifier(identity, salt)
	c.Assert(err, qt.IsNil)
	c.Assert(n1.Cmp(n2), qt.Equals, 0)
}

func TestHashBinding(t *testing.T) {
	c := qt.New(t)
	// statistical binding check: distinct random witnesses never collide
	seen := map[string]bool{}
	for range 256 {
		h, err := Hash(big.NewInt(int64(1)), randomField(t), randomField(t), big.NewInt(1))
		c.Assert(err, qt.IsNil)
		c.Assert(seen[h.String()], qt.IsFalse)
		seen[h.String()] = true
	}
}

func TestHashInputSensitivity(t *testing.T) {
	c := qt.New(t)
	identity := randomField(t)
	salt := randomField(t)

	base, err := Hash(big.NewInt(1), identity, salt, big.NewInt(7))
	c.Assert(err, qt.IsNil)
	// changing any single input must change the output
	other, err := Hash(big.NewInt(2), identity, salt, big.NewInt(7))
	c.Assert(err, qt.IsNil)
	c.Assert(base.Cmp(other), qt.Not(qt.Equals), 0)
	other, err = Hash(big.NewInt(1), identity, salt, big.NewInt(8))
	c.Assert(err, qt.IsNil)
	c.Assert(base.Cmp(other), qt.Not(qt.Equals), 0)

	// the nullifier must not depend on the choice or the ballot id at all
	n, err := Nullifier(identity, salt)
	c.Assert(err, qt.IsNil)
	c.Assert(n.Cmp(base), qt.Not(qt.Equals), 0)
}

func TestNilInputs(t *testing.T) {
	c := qt.New(t)
	_, err := Hash(nil, big.NewInt(1), big.NewInt(1), big.NewInt(1))
	c.Assert(err, qt.IsNotNil)
	_, err = Nullifier(big.NewInt(1), nil)
	c.Assert(err, qt.IsNotNil)
}
