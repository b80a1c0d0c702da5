package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vocdoni/commitreveal-sandbox/api"
	"github.com/vocdoni/commitreveal-sandbox/ledger"
	"github.com/vocdoni/commitreveal-sandbox/types"
)

// apiError decodes the error body returned by the API, falling back to the
// raw payload when it is not the standard error JSON.
func apiError(data []byte, status int) error {
	var e struct {
		Err  string `json:"error"`
		Code int    `json:"code"`
	}
	if err := json.Unmarshal(data, &e); err != nil || e.Err == "" {
		return fmt.Errorf("API error %d: %s", status, data)
	}
	return fmt.Errorf("API error %d (code %d): %s", status, e.Code, e.Err)
}

func (c *HTTPclient) post(body any, urlPath ...string) ([]byte, error) {
	data, status, err := c.Request(HTTPPOST, body, nil, urlPath...)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(data, status)
	}
	return data, nil
}

func (c *HTTPclient) get(params []string, urlPath ...string) ([]byte, error) {
	data, status, err := c.Request(HTTPGET, nil, params, urlPath...)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(data, status)
	}
	return data, nil
}

// CreateBallot creates a ballot and returns its assigned identifier.
func (c *HTTPclient) CreateBallot(req *api.NewBallot) (types.BallotID, error) {
	data, err := c.post(req, api.BallotsEndpoint)
	if err != nil {
		return 0, err
	}
	res := &api.NewBallotResponse{}
	if err := json.Unmarshal(data, res); err != nil {
		return 0, fmt.Errorf("decode ballot response: %w", err)
	}
	return res.BallotID, nil
}

// Ballots returns every stored ballot in creation order.
func (c *HTTPclient) Ballots() ([]*types.Ballot, error) {
	data, err := c.get(nil, api.BallotsEndpoint)
	if err != nil {
		return nil, err
	}
	res := &api.BallotList{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decode ballot list: %w", err)
	}
	return res.Ballots, nil
}

// BallotStatus returns the state report of a single ballot.
func (c *HTTPclient) BallotStatus(id types.BallotID) (*ledger.BallotStatus, error) {
	data, err := c.get(nil, api.BallotsEndpoint, id.String())
	if err != nil {
		return nil, err
	}
	status := &ledger.BallotStatus{}
	if err := json.Unmarshal(data, status); err != nil {
		return nil, fmt.Errorf("decode ballot status: %w", err)
	}
	return status, nil
}

// RegisterVoters registers the voters on the ballot on behalf of caller.
func (c *HTTPclient) RegisterVoters(id types.BallotID, caller common.Address, voters []common.Address) error {
	_, err := c.post(&api.RegisterVoters{Caller: caller, Voters: voters},
		api.BallotsEndpoint, id.String(), "voters")
	return err
}

// CommitVote submits a vote commitment with its proof.
func (c *HTTPclient) CommitVote(id types.BallotID, sender common.Address,
	commitment *types.BigInt, proof *types.ProofData,
) error {
	_, err := c.post(&api.CommitVote{Sender: sender, Commitment: commitment, Proof: proof},
		api.BallotsEndpoint, id.String(), "commits")
	return err
}

// RevealVote submits a vote reveal with its proof.
func (c *HTTPclient) RevealVote(id types.BallotID, sender common.Address, choice uint64,
	nullifier *types.BigInt, proof *types.ProofData,
) error {
	_, err := c.post(&api.RevealVote{Sender: sender, Choice: choice, Nullifier: nullifier, Proof: proof},
		api.BallotsEndpoint, id.String(), "reveals")
	return err
}

// FinalizeBallot finalizes an ended ballot.
func (c *HTTPclient) FinalizeBallot(id types.BallotID) error {
	_, err := c.post(nil, api.BallotsEndpoint, id.String(), "finalize")
	return err
}

// Results returns the tally of a finalized ballot.
func (c *HTTPclient) Results(id types.BallotID) ([]uint64, error) {
	data, err := c.get(nil, api.BallotsEndpoint, id.String(), "results")
	if err != nil {
		return nil, err
	}
	res := &api.Results{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return res.Tally, nil
}

// Events returns the persisted event log starting at fromSeq.
func (c *HTTPclient) Events(fromSeq uint64) ([]*types.Event, error) {
	data, err := c.get([]string{"from", fmt.Sprint(fromSeq)}, api.EventsEndpoint)
	if err != nil {
		return nil, err
	}
	res := &api.EventList{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return res.Events, nil
}
