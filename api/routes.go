package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// BallotsEndpoint is the endpoint for creating and listing ballots
	BallotsEndpoint = "/ballots"
	// BallotURLParam is the URL parameter carrying the ballot id
	BallotURLParam = "ballotId"
	// BallotEndpoint is the endpoint to get a single ballot state report
	BallotEndpoint = "/ballots/{" + BallotURLParam + "}"
	// VotersEndpoint is the endpoint for registering voters on a ballot
	VotersEndpoint = BallotEndpoint + "/voters"
	// CommitsEndpoint is the endpoint for submitting a vote commitment
	CommitsEndpoint = BallotEndpoint + "/commits"
	// RevealsEndpoint is the endpoint for submitting a vote reveal
	RevealsEndpoint = BallotEndpoint + "/reveals"
	// FinalizeEndpoint is the endpoint for finalizing an ended ballot
	FinalizeEndpoint = BallotEndpoint + "/finalize"
	// ResultsEndpoint is the endpoint for reading a finalized tally
	ResultsEndpoint = BallotEndpoint + "/results"
	// EventsEndpoint is the endpoint for reading the event log
	EventsEndpoint = "/events"
)
