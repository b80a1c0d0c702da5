//nolint:lll
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vocdoni/commitreveal-sandbox/ledger"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400 or 404 (or even 204), whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// If you notice there's a gap (say, error code 40010, 40011 and 40013 exist, 40012 is missing) DON'T fill in the gap,
// that code was used in the past for some error (not anymore) and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound   = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody      = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedBallotID  = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed ballot ID")}
	ErrBallotNotFound     = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("ballot not found")}
	ErrInvalidBallotSetup = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid ballot setup")}
	ErrNotAdmin           = Error{Code: 40009, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("caller is not the ballot admin")}
	ErrRegistrationClosed = Error{Code: 40010, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voter registration closed")}
	ErrVoterNotRegistered = Error{Code: 40011, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("voter not registered")}
	ErrOutsidePhaseWindow = Error{Code: 40012, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("operation outside its phase window")}
	ErrDuplicateValue     = Error{Code: 40013, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("commitment or nullifier already recorded")}
	ErrInvalidChoice      = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid choice")}
	ErrInvalidProof       = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid proof")}
	ErrBallotNotFinalized = Error{Code: 40016, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("ballot not finalized")}
	ErrBallotFinalized    = Error{Code: 40017, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("ballot already finalized")}
	ErrValueOutOfField    = Error{Code: 40018, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("value is not a canonical field element")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)

// fromLedgerError maps the ledger sentinel errors to the stable API error
// catalogue, so that phase, proof and double-spend rejections remain
// distinguishable by code on the wire.
func fromLedgerError(err error) Error {
	switch {
	case errors.Is(err, ledger.ErrBallotNotFound):
		return ErrBallotNotFound
	case errors.Is(err, ledger.ErrTooFewChoices),
		errors.Is(err, ledger.ErrStartTimeNotFuture),
		errors.Is(err, ledger.ErrBadPhaseWindow):
		return ErrInvalidBallotSetup.WithErr(err)
	case errors.Is(err, ledger.ErrNotAdmin):
		return ErrNotAdmin
	case errors.Is(err, ledger.ErrRegistrationClosed):
		return ErrRegistrationClosed
	case errors.Is(err, ledger.ErrVoterNotRegistered):
		return ErrVoterNotRegistered
	case errors.Is(err, ledger.ErrCommitPhaseClosed),
		errors.Is(err, ledger.ErrRevealPhaseClosed),
		errors.Is(err, ledger.ErrBallotNotEnded):
		return ErrOutsidePhaseWindow.WithErr(err)
	case errors.Is(err, ledger.ErrCommitmentExists),
		errors.Is(err, ledger.ErrNullifierUsed):
		return ErrDuplicateValue.WithErr(err)
	case errors.Is(err, ledger.ErrInvalidChoice):
		return ErrInvalidChoice
	case errors.Is(err, ledger.ErrValueOutOfField):
		return ErrValueOutOfField
	case errors.Is(err, ledger.ErrInvalidProof):
		return ErrInvalidProof.WithErr(err)
	case errors.Is(err, ledger.ErrBallotFinalized):
		return ErrBallotFinalized
	case errors.Is(err, ledger.ErrNotFinalized):
		return ErrBallotNotFinalized
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
