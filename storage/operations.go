package storage

import (
	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/vocdoni/commitreveal-sandbox/types"
)

// CreateBallot assigns the next ballot identifier to the given ballot,
// persists it and appends the creation event, all inside a single write
// transaction. It returns the assigned identifier.
func (s *Storage) CreateBallot(ballot *types.Ballot, ev *types.Event) (types.BallotID, error) {
	wtx := s.db.WriteTx()
	defer wtx.Discard()

	seq, err := nextSeq(wtx, ballotSeqKey)
	if err != nil {
		return 0, err
	}
	ballot.ID = types.BallotID(seq)
	if err := setArtifactTx(wtx, ballotPrefix, ballot.ID.Marshal(), ballot); err != nil {
		return 0, err
	}
	ev.BallotID = ballot.ID
	ev.Ballot = ballot
	if err := appendEventTx(wtx, ev); err != nil {
		return 0, err
	}
	return ballot.ID, wtx.Commit()
}

// Ballot retrieves a ballot by its identifier. It returns ErrNotFound if
// the ballot does not exist.
func (s *Storage) Ballot(id types.BallotID) (*types.Ballot, error) {
	ballot := new(types.Ballot)
	if err := s.getArtifact(ballotPrefix, id.Marshal(), ballot); err != nil {
		return nil, err
	}
	return ballot, nil
}

// ListBallots returns all stored ballots in creation order.
func (s *Storage) ListBallots() ([]*types.Ballot, error) {
	var ballots []*types.Ballot
	var decodeErr error
	err := s.iterate(ballotPrefix, func(_, value []byte) bool {
		ballot := new(types.Ballot)
		if decodeErr = decodeArtifact(value, ballot); decodeErr != nil {
			return false
		}
		ballots = append(ballots, ballot)
		return true
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return ballots, nil
}

// RegisterVoters stores the voter registrations for a ballot, updates the
// ballot flag and appends the registration event atomically. Addresses
// already registered are stored again without effect, so the operation is
// idempotent at the storage level.
func (s *Storage) RegisterVoters(ballot *types.Ballot, voters []common.Address, ev *types.Event) error {
	wtx := s.db.WriteTx()
	defer wtx.Discard()

	for _, addr := range voters {
		if err := setArtifactTx(wtx, voterPrefix, voterKey(ballot.ID, addr), true); err != nil {
			return err
		}
	}
	if err := setArtifactTx(wtx, ballotPrefix, ballot.ID.Marshal(), ballot); err != nil {
		return err
	}
	if err := appendEventTx(wtx, ev); err != nil {
		return err
	}
	return wtx.Commit()
}

// IsRegistered reports whether the address is a registered voter of the
// given ballot.
func (s *Storage) IsRegistered(id types.BallotID, addr common.Address) (bool, error) {
	return s.hasKey(voterPrefix, voterKey(id, addr))
}

// ApplyCommit appends a commitment to the ballot set and records the
// commit event atomically.
func (s *Storage) ApplyCommit(id types.BallotID, commitment *types.BigInt, ev *types.Event) error {
	wtx := s.db.WriteTx()
	defer wtx.Discard()

	if err := setArtifactTx(wtx, commitmentPrefix, setValueKey(id, commitment), true); err != nil {
		return err
	}
	if err := appendEventTx(wtx, ev); err != nil {
		return err
	}
	return wtx.Commit()
}

// HasCommitment reports whether the commitment is already part of the
// ballot commitment set.
func (s *Storage) HasCommitment(id types.BallotID, commitment *types.BigInt) (bool, error) {
	return s.hasKey(commitmentPrefix, setValueKey(id, commitment))
}

// CountCommitments returns the number of commitments accepted for a ballot.
func (s *Storage) CountCommitments(id types.BallotID) (int, error) {
	return s.countKeys(commitmentPrefix, id.Marshal())
}

// ApplyReveal consumes a nullifier, stores the updated ballot tally and
// records the reveal event atomically.
func (s *Storage) ApplyReveal(ballot *types.Ballot, nullifier *types.BigInt, ev *types.Event) error {
	wtx := s.db.WriteTx()
	defer wtx.Discard()

	if err := setArtifactTx(wtx, nullifierPrefix, setValueKey(ballot.ID, nullifier), true); err != nil {
		return err
	}
	if err := setArtifactTx(wtx, ballotPrefix, ballot.ID.Marshal(), ballot); err != nil {
		return err
	}
	if err := appendEventTx(wtx, ev); err != nil {
		return err
	}
	return wtx.Commit()
}

// HasNullifier reports whether the nullifier has already been consumed for
// the given ballot.
func (s *Storage) HasNullifier(id types.BallotID, nullifier *types.BigInt) (bool, error) {
	return s.hasKey(nullifierPrefix, setValueKey(id, nullifier))
}

// CountNullifiers returns the number of nullifiers consumed for a ballot.
func (s *Storage) CountNullifiers(id types.BallotID) (int, error) {
	return s.countKeys(nullifierPrefix, id.Marshal())
}

// FinalizeBallot stores the finalized ballot and records the finalization
// event atomically.
func (s *Storage) FinalizeBallot(ballot *types.Ballot, ev *types.Event) error {
	wtx := s.db.WriteTx()
	defer wtx.Discard()

	if err := setArtifactTx(wtx, ballotPrefix, ballot.ID.Marshal(), ballot); err != nil {
		return err
	}
	if err := appendEventTx(wtx, ev); err != nil {
		return err
	}
	return wtx.Commit()
}

// Events returns the persisted events with sequence number greater than or
// equal to fromSeq, in sequence order.
func (s *Storage) Events(fromSeq uint64) ([]*types.Event, error) {
	var events []*types.Event
	var decodeErr error
	err := s.iterate(eventPrefix, func(_, value []byte) bool {
		ev := new(types.Event)
		if decodeErr = decodeArtifact(value, ev); decodeErr != nil {
			return false
		}
		if ev.Seq >= fromSeq {
			events = append(events, ev)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return events, nil
}

func (s *Storage) iterate(prefix []byte, cb func(key, value []byte) bool) error {
	return prefixeddb.NewPrefixedReader(s.db, prefix).Iterate(nil, cb)
}
