package types

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// BallotID is the sequential identifier of a ballot. It is assigned by the
// ledger at creation time and is immutable afterwards.
type BallotID uint64

// Marshal encodes the BallotID as 8 big-endian bytes, so that ballot
// artifacts iterate in creation order in the key-value store.
func (id BallotID) Marshal() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// Unmarshal decodes a BallotID from its 8-byte big-endian representation.
func (id *BallotID) Unmarshal(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("invalid BallotID length: %d", len(data))
	}
	*id = BallotID(binary.BigEndian.Uint64(data))
	return nil
}

// String returns a human readable representation of the ballot ID.
func (id BallotID) String() string {
	return fmt.Sprintf("%d", id)
}

// Phase enumerates the time-driven states of a ballot. Transitions between
// phases are implicit, derived from the current time against the ballot
// window timestamps, except Finalized which is an explicit one-shot action.
type Phase int

const (
	PhaseUnstarted Phase = iota
	PhaseCommit
	PhaseReveal
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseUnstarted:
		return "unstarted"
	case PhaseCommit:
		return "commit"
	case PhaseReveal:
		return "reveal"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// Ballot holds the authoritative state of a single voting process. The
// window timestamps satisfy StartTime < CommitEndTime < EndTime. The tally
// is mutated only by accepted reveals and is readable only once the ballot
// is finalized.
type Ballot struct {
	ID                  BallotID       `json:"id"`
	Title               string         `json:"title"`
	Choices             []string       `json:"choices"`
	Admin               common.Address `json:"admin"`
	StartTime           time.Time      `json:"startTime"`
	CommitEndTime       time.Time      `json:"commitEndTime"`
	EndTime             time.Time      `json:"endTime"`
	HasRegisteredVoters bool           `json:"hasRegisteredVoters"`
	Finalized           bool           `json:"finalized"`
	Tally               []uint64       `json:"tally,omitempty"`
}

// PhaseAt derives the phase of the ballot at the given time. The commit
// window is [StartTime, CommitEndTime] and the reveal window is
// (CommitEndTime, EndTime], matching the ledger operation preconditions.
func (b *Ballot) PhaseAt(now time.Time) Phase {
	switch {
	case now.Before(b.StartTime):
		return PhaseUnstarted
	case !now.After(b.CommitEndTime):
		return PhaseCommit
	case !now.After(b.EndTime):
		return PhaseReveal
	default:
		return PhaseEnded
	}
}

func (b *Ballot) String() string {
	data, err := json.Marshal(b)
	if err != nil {
		return ""
	}
	return string(data)
}
