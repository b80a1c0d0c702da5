package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventType identifies the kind of ledger event.
type EventType string

const (
	EventBallotCreated    EventType = "ballot-created"
	EventVotersRegistered EventType = "voters-registered"
	EventVoteCommitted    EventType = "vote-committed"
	EventVoteRevealed     EventType = "vote-revealed"
	EventBallotFinalized  EventType = "ballot-finalized"
)

// Event is the payload emitted and persisted by the ledger for every
// accepted state transition. Seq is a monotonic sequence number across all
// ballots, assigned at emission.
type Event struct {
	Seq      uint64           `json:"seq"`
	Type     EventType        `json:"type"`
	BallotID BallotID         `json:"ballotId"`
	Time     time.Time        `json:"time"`
	Ballot   *Ballot          `json:"ballot,omitempty"`     // ballot-created
	Voters   []common.Address `json:"voters,omitempty"`     // voters-registered
	Value    *BigInt          `json:"value,omitempty"`      // commitment or nullifier
	Choice   *uint64          `json:"choice,omitempty"`     // vote-revealed
	Tally    []uint64         `json:"tally,omitempty"`      // ballot-finalized snapshot
}
