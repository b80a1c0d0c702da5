// Package storage persists the ledger artifacts in a prefixed key-value
// store: ballots, per-ballot voter registrations, accepted commitments,
// consumed nullifiers and the event log. The following prefixes are used:
//   - 'b/' for ballots
//   - 'r/' for registered voters
//   - 'c/' for commitments
//   - 'n/' for nullifiers
//   - 'e/' for events
//   - 's/' for sequence counters (next ballot id, next event)
//
// Every ledger operation that mutates more than one artifact is applied
// through a single write transaction, so a rejected operation never leaves
// partial state behind.
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/vocdoni/commitreveal-sandbox/log"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

var (
	// Prefixes for the keys in the database.
	ballotPrefix     = []byte("b/")
	voterPrefix      = []byte("r/")
	commitmentPrefix = []byte("c/")
	nullifierPrefix  = []byte("n/")
	eventPrefix      = []byte("e/")
	seqPrefix        = []byte("s/")

	ballotSeqKey = []byte("ballots")
	eventSeqKey  = []byte("events")
)

// ErrNotFound is returned when the requested artifact does not exist.
var ErrNotFound = fmt.Errorf("artifact not found")

// valueKeySize is the fixed byte width of commitment and nullifier values
// inside keys, so that every set entry sorts and compares consistently.
const valueKeySize = 32

// Storage is the prefixed artifact store shared by the ledger and the API.
type Storage struct {
	db db.Database
}

// New creates a new Storage instance over the given database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnw("could not close database", "error", err)
	}
}

func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	// the core deterministic profile truncates time.Time to whole Unix
	// seconds; ballot windows keep their sub-second components
	encOpts.Time = cbor.TimeRFC3339Nano
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// setArtifactTx stores an artifact under prefix/key inside the given write
// transaction without committing it.
func setArtifactTx(wtx db.WriteTx, prefix, key []byte, artifact any) error {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	return prefixeddb.NewPrefixedWriteTx(wtx, prefix).Set(key, data)
}

// getArtifact retrieves and decodes an artifact stored under prefix/key.
// It returns ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	data, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return decodeArtifact(data, out)
}

// hasKey reports whether prefix/key exists.
func (s *Storage) hasKey(prefix, key []byte) (bool, error) {
	_, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, db.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// countKeys counts the keys stored under prefix that start with keyPrefix.
func (s *Storage) countKeys(prefix, keyPrefix []byte) (int, error) {
	count := 0
	err := prefixeddb.NewPrefixedReader(s.db, prefix).Iterate(keyPrefix, func(_, _ []byte) bool {
		count++
		return true
	})
	return count, err
}

// nextSeq reads the current value of the named sequence counter inside the
// transaction and stores the incremented value. The first returned value
// of a fresh counter is 0.
func nextSeq(wtx db.WriteTx, name []byte) (uint64, error) {
	stx := prefixeddb.NewPrefixedWriteTx(wtx, seqPrefix)
	var seq uint64
	data, err := stx.Get(name)
	switch {
	case err == nil:
		seq = binary.BigEndian.Uint64(data)
	case errors.Is(err, db.ErrKeyNotFound):
		seq = 0
	default:
		return 0, err
	}
	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, seq+1)
	if err := stx.Set(name, next); err != nil {
		return 0, err
	}
	return seq, nil
}

// appendEventTx assigns the next event sequence number to ev and stores it,
// inside the given transaction.
func appendEventTx(wtx db.WriteTx, ev *types.Event) error {
	if ev == nil {
		return fmt.Errorf("nil event")
	}
	seq, err := nextSeq(wtx, eventSeqKey)
	if err != nil {
		return err
	}
	ev.Seq = seq
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return setArtifactTx(wtx, eventPrefix, key, ev)
}

// valueKey normalizes a field element to its fixed-width key representation.
// Canonical BN254 scalar elements fit in valueKeySize bytes, so distinct
// elements always map to distinct keys.
func valueKey(v *types.BigInt) []byte {
	b := v.Bytes()
	if len(b) >= valueKeySize {
		return b
	}
	out := make([]byte, valueKeySize)
	copy(out[valueKeySize-len(b):], b)
	return out
}

// setValueKey builds the key of a per-ballot set entry.
func setValueKey(id types.BallotID, v *types.BigInt) []byte {
	return append(id.Marshal(), valueKey(v)...)
}

// voterKey builds the key of a per-ballot voter registration.
func voterKey(id types.BallotID, addr common.Address) []byte {
	return append(id.Marshal(), addr.Bytes()...)
}
