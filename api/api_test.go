package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/commitreveal-sandbox/ledger"
	"github.com/vocdoni/commitreveal-sandbox/storage"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

type acceptAllVerifier struct{}

func (acceptAllVerifier) VerifyProof(*types.ProofData, []*types.BigInt) (bool, error) {
	return true, nil
}

type rejectAllVerifier struct{}

func (rejectAllVerifier) VerifyProof(*types.ProofData, []*types.BigInt) (bool, error) {
	return false, nil
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func newTestServer(t *testing.T, commitV, revealV ledger.ProofVerifier, clock *testClock) *httptest.Server {
	l := ledger.NewWithClock(storage.New(metadb.NewTest(t)), commitV, revealV, clock.now)
	a := &API{ledger: l}
	a.initRouter()
	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(c *qt.C, method, url string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		c.Assert(err, qt.IsNil)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	c.Assert(err, qt.IsNil)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	c.Assert(err, qt.IsNil)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	c.Assert(err, qt.IsNil)
	return resp.StatusCode, data
}

func errorCode(c *qt.C, data []byte) int {
	var e struct {
		Code int `json:"code"`
	}
	c.Assert(json.Unmarshal(data, &e), qt.IsNil)
	return e.Code
}

func dummyProof() *types.ProofData {
	one := func() *types.BigInt { return types.FromBig(big.NewInt(1)) }
	return &types.ProofData{
		A: [2]*types.BigInt{one(), one()},
		B: [2][2]*types.BigInt{{one(), one()}, {one(), one()}},
		C: [2]*types.BigInt{one(), one()},
	}
}

func TestBallotLifecycle(t *testing.T) {
	c := qt.New(t)
	clock := &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	srv := newTestServer(t, acceptAllVerifier{}, acceptAllVerifier{}, clock)

	status, _ := doJSON(c, http.MethodGet, srv.URL+PingEndpoint, nil)
	c.Assert(status, qt.Equals, http.StatusOK)

	admin := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	status, data := doJSON(c, http.MethodPost, srv.URL+BallotsEndpoint, &NewBallot{
		Admin:          admin,
		Title:          "api test",
		Choices:        []string{"yes", "no"},
		StartTime:      clock.t.Add(time.Hour).Unix(),
		Duration:       7200,
		CommitDuration: 3600,
	})
	c.Assert(status, qt.Equals, http.StatusOK)
	res := &NewBallotResponse{}
	c.Assert(json.Unmarshal(data, res), qt.IsNil)
	id := res.BallotID

	// status report before the start time
	status, data = doJSON(c, http.MethodGet, fmt.Sprintf("%s/ballots/%s", srv.URL, id), nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	report := &ledger.BallotStatus{}
	c.Assert(json.Unmarshal(data, report), qt.IsNil)
	c.Assert(report.Phase, qt.Equals, "unstarted")
	c.Assert(report.Ballot.Title, qt.Equals, "api test")

	// commit and reveal across the phase windows
	sender := common.HexToAddress("0x0000000000000000000000000000000000000001")
	clock.t = clock.t.Add(time.Hour + time.Minute)
	status, _ = doJSON(c, http.MethodPost, fmt.Sprintf("%s/ballots/%s/commits", srv.URL, id), &CommitVote{
		Sender:     sender,
		Commitment: types.FromBig(big.NewInt(101)),
		Proof:      dummyProof(),
	})
	c.Assert(status, qt.Equals, http.StatusOK)

	clock.t = clock.t.Add(time.Hour)
	status, _ = doJSON(c, http.MethodPost, fmt.Sprintf("%s/ballots/%s/reveals", srv.URL, id), &RevealVote{
		Sender:    sender,
		Choice:    1,
		Nullifier: types.FromBig(big.NewInt(202)),
		Proof:     dummyProof(),
	})
	c.Assert(status, qt.Equals, http.StatusOK)

	// finalize once ended and read the results
	clock.t = clock.t.Add(2 * time.Hour)
	status, _ = doJSON(c, http.MethodPost, fmt.Sprintf("%s/ballots/%s/finalize", srv.URL, id), nil)
	c.Assert(status, qt.Equals, http.StatusOK)

	status, data = doJSON(c, http.MethodGet, fmt.Sprintf("%s/ballots/%s/results", srv.URL, id), nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	results := &Results{}
	c.Assert(json.Unmarshal(data, results), qt.IsNil)
	c.Assert(results.Tally, qt.DeepEquals, []uint64{0, 1})

	// the event log covers the whole lifecycle
	status, data = doJSON(c, http.MethodGet, srv.URL+EventsEndpoint, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	events := &EventList{}
	c.Assert(json.Unmarshal(data, events), qt.IsNil)
	c.Assert(events.Events, qt.HasLen, 4)
	c.Assert(events.Events[3].Type, qt.Equals, types.EventBallotFinalized)
	c.Assert(events.Events[3].Tally, qt.DeepEquals, []uint64{0, 1})
}

func TestErrorCodes(t *testing.T) {
	c := qt.New(t)
	clock := &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	srv := newTestServer(t, rejectAllVerifier{}, rejectAllVerifier{}, clock)

	// malformed body
	req, err := http.NewRequest(http.MethodPost, srv.URL+BallotsEndpoint, bytes.NewReader([]byte("{broken")))
	c.Assert(err, qt.IsNil)
	resp, err := http.DefaultClient.Do(req)
	c.Assert(err, qt.IsNil)
	data, err := io.ReadAll(resp.Body)
	c.Assert(err, qt.IsNil)
	c.Assert(resp.Body.Close(), qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(c, data), qt.Equals, ErrMalformedBody.Code)

	// unknown ballot
	status, data := doJSON(c, http.MethodGet, srv.URL+"/ballots/42", nil)
	c.Assert(status, qt.Equals, http.StatusNotFound)
	c.Assert(errorCode(c, data), qt.Equals, ErrBallotNotFound.Code)

	// malformed ballot id
	status, data = doJSON(c, http.MethodGet, srv.URL+"/ballots/notanumber", nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(c, data), qt.Equals, ErrMalformedBallotID.Code)

	// invalid ballot setup
	status, data = doJSON(c, http.MethodPost, srv.URL+BallotsEndpoint, &NewBallot{
		Title:          "bad",
		Choices:        []string{"only"},
		StartTime:      clock.t.Add(time.Hour).Unix(),
		Duration:       7200,
		CommitDuration: 3600,
	})
	c.Assert(status, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(c, data), qt.Equals, ErrInvalidBallotSetup.Code)

	// valid ballot, then phase and proof rejections
	status, data = doJSON(c, http.MethodPost, srv.URL+BallotsEndpoint, &NewBallot{
		Title:          "errors",
		Choices:        []string{"a", "b"},
		StartTime:      clock.t.Add(time.Hour).Unix(),
		Duration:       7200,
		CommitDuration: 3600,
	})
	c.Assert(status, qt.Equals, http.StatusOK)
	res := &NewBallotResponse{}
	c.Assert(json.Unmarshal(data, res), qt.IsNil)
	id := res.BallotID

	sender := common.HexToAddress("0x0000000000000000000000000000000000000001")
	commit := &CommitVote{
		Sender:     sender,
		Commitment: types.FromBig(big.NewInt(1)),
		Proof:      dummyProof(),
	}

	// commit outside the window
	status, data = doJSON(c, http.MethodPost, fmt.Sprintf("%s/ballots/%s/commits", srv.URL, id), commit)
	c.Assert(status, qt.Equals, http.StatusConflict)
	c.Assert(errorCode(c, data), qt.Equals, ErrOutsidePhaseWindow.Code)

	// verifier rejects inside the window
	clock.t = clock.t.Add(time.Hour + time.Minute)
	status, data = doJSON(c, http.MethodPost, fmt.Sprintf("%s/ballots/%s/commits", srv.URL, id), commit)
	c.Assert(status, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(c, data), qt.Equals, ErrInvalidProof.Code)

	// non-canonical commitment value
	modulus, ok := new(big.Int).SetString(
		"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)
	c.Assert(ok, qt.IsTrue)
	status, data = doJSON(c, http.MethodPost, fmt.Sprintf("%s/ballots/%s/commits", srv.URL, id), &CommitVote{
		Sender:     sender,
		Commitment: types.FromBig(modulus),
		Proof:      dummyProof(),
	})
	c.Assert(status, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(c, data), qt.Equals, ErrValueOutOfField.Code)

	// results before finalization
	status, data = doJSON(c, http.MethodGet, fmt.Sprintf("%s/ballots/%s/results", srv.URL, id), nil)
	c.Assert(status, qt.Equals, http.StatusConflict)
	c.Assert(errorCode(c, data), qt.Equals, ErrBallotNotFinalized.Code)
}
