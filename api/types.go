package api

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vocdoni/commitreveal-sandbox/types"
)

// NewBallot is the request body to create a ballot. The window is given as
// a start time plus total and commit durations in seconds.
type NewBallot struct {
	Admin          common.Address `json:"admin"`
	Title          string         `json:"title"`
	Choices        []string       `json:"choices"`
	StartTime      int64          `json:"startTime"`      // unix seconds
	Duration       int64          `json:"duration"`       // seconds
	CommitDuration int64          `json:"commitDuration"` // seconds
}

// NewBallotResponse carries the identifier assigned to a created ballot.
type NewBallotResponse struct {
	BallotID types.BallotID `json:"ballotId"`
}

// RegisterVoters is the request body to register voters on a ballot.
type RegisterVoters struct {
	Caller common.Address   `json:"caller"`
	Voters []common.Address `json:"voters"`
}

// CommitVote is the request body to submit a vote commitment.
type CommitVote struct {
	Sender     common.Address   `json:"sender"`
	Commitment *types.BigInt    `json:"commitment"`
	Proof      *types.ProofData `json:"proof"`
}

// RevealVote is the request body to submit a vote reveal.
type RevealVote struct {
	Sender    common.Address   `json:"sender"`
	Choice    uint64           `json:"choice"`
	Nullifier *types.BigInt    `json:"nullifier"`
	Proof     *types.ProofData `json:"proof"`
}

// Results carries the tally vector of a finalized ballot.
type Results struct {
	BallotID types.BallotID `json:"ballotId"`
	Tally    []uint64       `json:"tally"`
}

// BallotList carries the stored ballots in creation order.
type BallotList struct {
	Ballots []*types.Ballot `json:"ballots"`
}

// EventList carries a slice of the persisted event log.
type EventList struct {
	Events []*types.Event `json:"events"`
}
