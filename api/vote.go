package api

import (
	"encoding/json"
	"net/http"

	"github.com/vocdoni/commitreveal-sandbox/log"
)

// commitVote records a vote commitment on a ballot
// POST /ballots/{ballotId}/commits
func (a *API) commitVote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlBallotID(r)
	if !ok {
		ErrMalformedBallotID.Write(w)
		return
	}
	req := &CommitVote{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Commitment == nil || req.Proof == nil {
		ErrMalformedBody.With("missing commitment or proof").Write(w)
		return
	}
	if err := a.ledger.CommitVote(req.Sender, id, req.Commitment, req.Proof); err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	log.Debugw("commit accepted", "ballotId", id.String(), "sender", req.Sender.Hex())
	httpWriteOK(w)
}

// revealVote consumes a nullifier and counts the revealed choice
// POST /ballots/{ballotId}/reveals
func (a *API) revealVote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlBallotID(r)
	if !ok {
		ErrMalformedBallotID.Write(w)
		return
	}
	req := &RevealVote{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Nullifier == nil || req.Proof == nil {
		ErrMalformedBody.With("missing nullifier or proof").Write(w)
		return
	}
	if err := a.ledger.RevealVote(req.Sender, id, req.Choice, req.Nullifier, req.Proof); err != nil {
		fromLedgerError(err).Write(w)
		return
	}
	log.Debugw("reveal accepted", "ballotId", id.String(), "choice", req.Choice)
	httpWriteOK(w)
}
