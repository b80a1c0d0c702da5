package tests

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/commitreveal-sandbox/api"
	"github.com/vocdoni/commitreveal-sandbox/api/client"
	"github.com/vocdoni/commitreveal-sandbox/circuits/commitproof"
	"github.com/vocdoni/commitreveal-sandbox/circuits/revealproof"
	"github.com/vocdoni/commitreveal-sandbox/ledger"
	"github.com/vocdoni/commitreveal-sandbox/storage"
	"github.com/vocdoni/commitreveal-sandbox/util"
)

// TestClock is a shared, settable clock driving the ledger phase windows.
type TestClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewTestClock creates a clock set to the given time.
func NewTestClock(t time.Time) *TestClock {
	return &TestClock{t: t}
}

// Now returns the current clock time.
func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to the given time.
func (c *TestClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Advance moves the clock forward by d.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// TestNode bundles the in-process node pieces the integration tests drive.
type TestNode struct {
	Ledger       *ledger.Ledger
	Clock        *TestClock
	CommitProver *commitproof.Prover
	RevealProver *revealproof.Prover
	Port         int
}

// SetupNode starts an in-process ballot node with real Groth16 verifiers
// and a settable clock, serving the API on a random local port. The
// database and circuit artifacts live under tmpDir.
func SetupNode(tmpDir string, clock *TestClock) (*TestNode, error) {
	database, err := metadb.New(db.TypePebble, filepath.Join(tmpDir, "db"))
	if err != nil {
		return nil, err
	}
	stg := storage.New(database)
	artifactsDir := filepath.Join(tmpDir, "artifacts")
	commitProver := commitproof.NewProver(artifactsDir)
	revealProver := revealproof.NewProver(artifactsDir)
	ledg := ledger.NewWithClock(stg, commitProver, revealProver, clock.Now)

	tmpPort := util.RandomInt(40000, 60000)
	if _, err := api.New(&api.APIConfig{
		Host:   "127.0.0.1",
		Port:   tmpPort,
		Ledger: ledg,
	}); err != nil {
		return nil, err
	}
	// Wait for the HTTP server to start
	time.Sleep(500 * time.Millisecond)

	return &TestNode{
		Ledger:       ledg,
		Clock:        clock,
		CommitProver: commitProver,
		RevealProver: revealProver,
		Port:         tmpPort,
	}, nil
}

// NewTestClient creates a client pointed at the test node port.
func NewTestClient(port int) (*client.HTTPclient, error) {
	return client.New(fmt.Sprintf("http://127.0.0.1:%d", port))
}

// addr is a shorthand for building test addresses.
func addr(b byte) common.Address {
	var a common.Address
	a[common.AddressLength-1] = b
	return a
}
