// Package ledger implements the ballot state machine on top of the
// prefixed artifact store. Every mutating operation is serialized by a
// single-writer mutex and applied through one storage transaction, so a
// rejected operation leaves no partial state behind. Phase transitions are
// implicit, derived from the injected clock against the ballot window
// timestamps; finalization is the only explicit transition.
package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vocdoni/commitreveal-sandbox/log"
	"github.com/vocdoni/commitreveal-sandbox/storage"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

// ProofVerifier checks a Groth16 proof against an ordered public input
// vector. A false result and an error are treated identically by the
// ledger, as a rejection of the submission.
type ProofVerifier interface {
	VerifyProof(proof *types.ProofData, publicInputs []*types.BigInt) (bool, error)
}

// eventBuffer is the per-subscriber channel capacity. A subscriber that
// falls further behind misses events rather than blocking the ledger.
const eventBuffer = 64

// Ledger is the single-writer ballot state machine.
type Ledger struct {
	stg            *storage.Storage
	commitVerifier ProofVerifier
	revealVerifier ProofVerifier
	now            func() time.Time

	mu sync.Mutex // serializes all mutating operations

	subMu   sync.Mutex
	subs    map[uint64]chan *types.Event
	nextSub uint64
}

// New creates a ledger over the given store and proof verifiers, using the
// wall clock for phase derivation.
func New(stg *storage.Storage, commitVerifier, revealVerifier ProofVerifier) *Ledger {
	return NewWithClock(stg, commitVerifier, revealVerifier, time.Now)
}

// NewWithClock creates a ledger with an injected clock. Tests use it to
// drive the phase windows deterministically.
func NewWithClock(stg *storage.Storage, commitVerifier, revealVerifier ProofVerifier,
	now func() time.Time,
) *Ledger {
	return &Ledger{
		stg:            stg,
		commitVerifier: commitVerifier,
		revealVerifier: revealVerifier,
		now:            now,
		subs:           make(map[uint64]chan *types.Event),
	}
}

// Subscribe returns a channel receiving every event published from now on,
// and a cancel function that closes it. Slow subscribers drop events.
func (l *Ledger) Subscribe() (<-chan *types.Event, func()) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	id := l.nextSub
	l.nextSub++
	ch := make(chan *types.Event, eventBuffer)
	l.subs[id] = ch
	return ch, func() {
		l.subMu.Lock()
		defer l.subMu.Unlock()
		if sub, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(sub)
		}
	}
}

// publish delivers an already persisted event to the subscribers.
func (l *Ledger) publish(ev *types.Event) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- ev:
		default:
			log.Warnw("subscriber lagging, event dropped", "seq", ev.Seq, "type", string(ev.Type))
		}
	}
}

// Ballot returns the current state of a ballot.
func (l *Ledger) Ballot(id types.BallotID) (*types.Ballot, error) {
	ballot, err := l.stg.Ballot(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBallotNotFound
		}
		return nil, err
	}
	return ballot, nil
}

// ListBallots returns every ballot in creation order.
func (l *Ledger) ListBallots() ([]*types.Ballot, error) {
	return l.stg.ListBallots()
}

// IsRegistered reports whether the identity is a registered voter of the
// ballot.
func (l *Ledger) IsRegistered(id types.BallotID, identity common.Address) (bool, error) {
	return l.stg.IsRegistered(id, identity)
}

// HasCommitment reports whether the commitment is part of the ballot set.
func (l *Ledger) HasCommitment(id types.BallotID, value *types.BigInt) (bool, error) {
	return l.stg.HasCommitment(id, value)
}

// HasNullifier reports whether the nullifier has been consumed.
func (l *Ledger) HasNullifier(id types.BallotID, value *types.BigInt) (bool, error) {
	return l.stg.HasNullifier(id, value)
}

// Events returns the persisted event log starting at fromSeq.
func (l *Ledger) Events(fromSeq uint64) ([]*types.Event, error) {
	return l.stg.Events(fromSeq)
}

// BallotStatus is the read-only state report of a ballot.
type BallotStatus struct {
	Ballot      *types.Ballot `json:"ballot"`
	Phase       string        `json:"phase"`
	Commitments int           `json:"commitments"`
	Nullifiers  int           `json:"nullifiers"`
}

// Status reports the current phase of a ballot together with the sizes of
// its commitment and nullifier sets.
func (l *Ledger) Status(id types.BallotID) (*BallotStatus, error) {
	ballot, err := l.Ballot(id)
	if err != nil {
		return nil, err
	}
	commitments, err := l.stg.CountCommitments(id)
	if err != nil {
		return nil, err
	}
	nullifiers, err := l.stg.CountNullifiers(id)
	if err != nil {
		return nil, err
	}
	phase := ballot.PhaseAt(l.now()).String()
	if ballot.Finalized {
		phase = "finalized"
	}
	return &BallotStatus{
		Ballot:      ballot,
		Phase:       phase,
		Commitments: commitments,
		Nullifiers:  nullifiers,
	}, nil
}
