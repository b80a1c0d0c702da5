package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vocdoni/commitreveal-sandbox/log"
)

// newBallot creates a new ballot
// POST /ballots
func (a *API) newBallot(w http.ResponseWriter, r *http.Request) {
	b := &NewBallot{}
	if err := json.NewDecoder(r.Body).Decode(b); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	id, err := a.ledger.CreateBallot(b.Admin, b.Title, b.Choices,
		time.Unix(b.StartTime, 0),
		time.Duration(b.Duration)*time.Second,
		time.Duration(b.CommitDuration)*time.Second)
	if err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	log.Infow("new ballot", "ballotId", id.String(), "title", b.Title)
	httpWriteJSON(w, &NewBallotResponse{BallotID: id})
}

// listBallots returns every stored ballot
// GET /ballots
func (a *API) listBallots(w http.ResponseWriter, _ *http.Request) {
	ballots, err := a.ledger.ListBallots()
	if err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	httpWriteJSON(w, &BallotList{Ballots: ballots})
}

// ballotStatus returns the state report of a single ballot
// GET /ballots/{ballotId}
func (a *API) ballotStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlBallotID(r)
	if !ok {
		ErrMalformedBallotID.Write(w)
		return
	}
	status, err := a.ledger.Status(id)
	if err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	httpWriteJSON(w, status)
}

// registerVoters registers voters on a ballot
// POST /ballots/{ballotId}/voters
func (a *API) registerVoters(w http.ResponseWriter, r *http.Request) {
	id, ok := urlBallotID(r)
	if !ok {
		ErrMalformedBallotID.Write(w)
		return
	}
	req := &RegisterVoters{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.ledger.RegisterVoters(req.Caller, id, req.Voters); err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// finalizeBallot finalizes an ended ballot
// POST /ballots/{ballotId}/finalize
func (a *API) finalizeBallot(w http.ResponseWriter, r *http.Request) {
	id, ok := urlBallotID(r)
	if !ok {
		ErrMalformedBallotID.Write(w)
		return
	}
	if err := a.ledger.FinalizeBallot(id); err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// results returns the tally of a finalized ballot
// GET /ballots/{ballotId}/results
func (a *API) results(w http.ResponseWriter, r *http.Request) {
	id, ok := urlBallotID(r)
	if !ok {
		ErrMalformedBallotID.Write(w)
		return
	}
	tally, err := a.ledger.Results(id)
	if err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	httpWriteJSON(w, &Results{BallotID: id, Tally: tally})
}

// events returns the persisted event log, optionally from a sequence number
// GET /events?from=N
func (a *API) events(w http.ResponseWriter, r *http.Request) {
	var from uint64
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			ErrMalformedBody.Withf("invalid from parameter: %v", err).Write(w)
			return
		}
		from = parsed
	}
	events, err := a.ledger.Events(from)
	if err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	httpWriteJSON(w, &EventList{Events: events})
}
