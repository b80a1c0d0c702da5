package storage

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/commitreveal-sandbox/types"
)

func testBallot(start time.Time) *types.Ballot {
	return &types.Ballot{
		Title:         "test ballot",
		Choices:       []string{"yes", "no"},
		Admin:         common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		StartTime:     start,
		CommitEndTime: start.Add(time.Hour),
		EndTime:       start.Add(2 * time.Hour),
	}
}

func TestCreateAndGetBallot(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	start := time.Now().UTC().Truncate(time.Second)
	ballot := testBallot(start)
	id, err := stg.CreateBallot(ballot, &types.Event{
		Type: types.EventBallotCreated,
		Time: start,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, types.BallotID(0))

	got, err := stg.Ballot(id)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, ballot.Title)
	c.Assert(got.Choices, qt.DeepEquals, ballot.Choices)
	c.Assert(got.Admin, qt.Equals, ballot.Admin)
	c.Assert(got.StartTime.Equal(ballot.StartTime), qt.IsTrue)

	// identifiers are sequential
	id2, err := stg.CreateBallot(testBallot(start), &types.Event{
		Type: types.EventBallotCreated,
		Time: start,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(id2, qt.Equals, types.BallotID(1))

	_, err = stg.Ballot(types.BallotID(42))
	c.Assert(err, qt.Equals, ErrNotFound)

	ballots, err := stg.ListBallots()
	c.Assert(err, qt.IsNil)
	c.Assert(ballots, qt.HasLen, 2)
	c.Assert(ballots[0].ID, qt.Equals, types.BallotID(0))
	c.Assert(ballots[1].ID, qt.Equals, types.BallotID(1))
}

func TestBallotTimePrecision(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	// sub-second window components must survive the round trip
	start := time.Date(2026, 1, 1, 12, 0, 0, 123456789, time.UTC)
	ballot := testBallot(start)
	id, err := stg.CreateBallot(ballot, &types.Event{
		Type: types.EventBallotCreated,
		Time: start,
	})
	c.Assert(err, qt.IsNil)

	got, err := stg.Ballot(id)
	c.Assert(err, qt.IsNil)
	c.Assert(got.StartTime.Equal(start), qt.IsTrue)
	c.Assert(got.StartTime.Nanosecond(), qt.Equals, 123456789)
	c.Assert(got.CommitEndTime.Equal(ballot.CommitEndTime), qt.IsTrue)
	c.Assert(got.EndTime.Equal(ballot.EndTime), qt.IsTrue)

	events, err := stg.Events(0)
	c.Assert(err, qt.IsNil)
	c.Assert(events, qt.HasLen, 1)
	c.Assert(events[0].Time.Equal(start), qt.IsTrue)
}

func TestRegisterVoters(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	start := time.Now().UTC()
	ballot := testBallot(start)
	id, err := stg.CreateBallot(ballot, &types.Event{Type: types.EventBallotCreated, Time: start})
	c.Assert(err, qt.IsNil)

	voters := []common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000001"),
		common.HexToAddress("0x0000000000000000000000000000000000000002"),
	}
	ballot.HasRegisteredVoters = true
	err = stg.RegisterVoters(ballot, voters, &types.Event{
		Type:     types.EventVotersRegistered,
		BallotID: id,
		Time:     start,
		Voters:   voters,
	})
	c.Assert(err, qt.IsNil)

	for _, addr := range voters {
		ok, err := stg.IsRegistered(id, addr)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
	}
	ok, err := stg.IsRegistered(id, common.HexToAddress("0x00000000000000000000000000000000000000ff"))
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	got, err := stg.Ballot(id)
	c.Assert(err, qt.IsNil)
	c.Assert(got.HasRegisteredVoters, qt.IsTrue)
}

func TestCommitmentAndNullifierSets(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	start := time.Now().UTC()
	ballot := testBallot(start)
	id, err := stg.CreateBallot(ballot, &types.Event{Type: types.EventBallotCreated, Time: start})
	c.Assert(err, qt.IsNil)

	commitment := (*types.BigInt)(new(big.Int).SetUint64(123456789))
	ok, err := stg.HasCommitment(id, commitment)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	err = stg.ApplyCommit(id, commitment, &types.Event{
		Type:     types.EventVoteCommitted,
		BallotID: id,
		Time:     start,
		Value:    commitment,
	})
	c.Assert(err, qt.IsNil)

	ok, err = stg.HasCommitment(id, commitment)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	// commitment sets are scoped per ballot
	other, err := stg.CreateBallot(testBallot(start), &types.Event{Type: types.EventBallotCreated, Time: start})
	c.Assert(err, qt.IsNil)
	ok, err = stg.HasCommitment(other, commitment)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	count, err := stg.CountCommitments(id)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 1)

	nullifier := (*types.BigInt)(new(big.Int).SetUint64(987654321))
	ballot.Tally = []uint64{1, 0}
	choice := uint64(0)
	err = stg.ApplyReveal(ballot, nullifier, &types.Event{
		Type:     types.EventVoteRevealed,
		BallotID: id,
		Time:     start,
		Value:    nullifier,
		Choice:   &choice,
	})
	c.Assert(err, qt.IsNil)

	ok, err = stg.HasNullifier(id, nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	ok, err = stg.HasNullifier(other, nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	count, err = stg.CountNullifiers(id)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 1)

	got, err := stg.Ballot(id)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Tally, qt.DeepEquals, []uint64{1, 0})
}

func TestFinalizeBallot(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	start := time.Now().UTC()
	ballot := testBallot(start)
	id, err := stg.CreateBallot(ballot, &types.Event{Type: types.EventBallotCreated, Time: start})
	c.Assert(err, qt.IsNil)

	ballot.Finalized = true
	ballot.Tally = []uint64{0, 1}
	err = stg.FinalizeBallot(ballot, &types.Event{
		Type:     types.EventBallotFinalized,
		BallotID: id,
		Time:     start,
		Tally:    ballot.Tally,
	})
	c.Assert(err, qt.IsNil)

	got, err := stg.Ballot(id)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Finalized, qt.IsTrue)
	c.Assert(got.Tally, qt.DeepEquals, []uint64{0, 1})
}

func TestEventSequence(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	start := time.Now().UTC()
	ballot := testBallot(start)
	id, err := stg.CreateBallot(ballot, &types.Event{Type: types.EventBallotCreated, Time: start})
	c.Assert(err, qt.IsNil)

	commitment := (*types.BigInt)(new(big.Int).SetUint64(1))
	err = stg.ApplyCommit(id, commitment, &types.Event{
		Type:     types.EventVoteCommitted,
		BallotID: id,
		Time:     start,
		Value:    commitment,
	})
	c.Assert(err, qt.IsNil)

	events, err := stg.Events(0)
	c.Assert(err, qt.IsNil)
	c.Assert(events, qt.HasLen, 2)
	c.Assert(events[0].Seq, qt.Equals, uint64(0))
	c.Assert(events[0].Type, qt.Equals, types.EventBallotCreated)
	c.Assert(events[0].Ballot, qt.IsNotNil)
	c.Assert(events[1].Seq, qt.Equals, uint64(1))
	c.Assert(events[1].Type, qt.Equals, types.EventVoteCommitted)
	c.Assert(events[1].Value.MathBigInt().Uint64(), qt.Equals, uint64(1))

	tail, err := stg.Events(1)
	c.Assert(err, qt.IsNil)
	c.Assert(tail, qt.HasLen, 1)
	c.Assert(tail[0].Seq, qt.Equals, uint64(1))
}
