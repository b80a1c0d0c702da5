package ledger

import "errors"

// Sentinel errors for every rejection class, so callers can map them to
// stable API codes with errors.Is.
var (
	ErrBallotNotFound     = errors.New("ballot not found")
	ErrTooFewChoices      = errors.New("a ballot needs at least two choices")
	ErrStartTimeNotFuture = errors.New("start time must be strictly in the future")
	ErrBadPhaseWindow     = errors.New("commit window must be shorter than the ballot duration")
	ErrNotAdmin           = errors.New("caller is not the ballot admin")
	ErrRegistrationClosed = errors.New("voter registration is closed once the ballot starts")
	ErrVoterNotRegistered = errors.New("sender is not a registered voter")
	ErrCommitPhaseClosed  = errors.New("outside the commit window")
	ErrRevealPhaseClosed  = errors.New("outside the reveal window")
	ErrCommitmentExists   = errors.New("commitment already recorded")
	ErrNullifierUsed      = errors.New("nullifier already consumed")
	ErrInvalidChoice      = errors.New("choice is not a valid index")
	ErrValueOutOfField    = errors.New("value is not a canonical scalar field element")
	ErrInvalidProof       = errors.New("invalid proof")
	ErrBallotNotEnded     = errors.New("ballot has not ended yet")
	ErrBallotFinalized    = errors.New("ballot already finalized")
	ErrNotFinalized       = errors.New("ballot not finalized")
)
