package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vocdoni/commitreveal-sandbox/log"
)

// Error carries a handler failure to the wire: a stable numeric code, the
// HTTP status to respond with and the wrapped cause.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON emits Err.Error() and Code; HTTPstatus only shapes the
// response status line, never the body.
//
// Example output: {"error":"ballot not found","code":40007}
func (e Error) MarshalJSON() ([]byte, error) {
	// json.Marshal never calls Err.Error() on its own, so the anon
	// struct flattens it into the body explicitly
	return json.Marshal(
		struct {
			Err  string `json:"error"`
			Code int    `json:"code"`
		}{
			Err:  e.Err.Error(),
			Code: e.Code,
		})
}

// Error returns the message of the wrapped cause.
func (e Error) Error() string {
	return e.Err.Error()
}

// Write responds with the JSON form of e under its HTTPstatus.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	if log.Level() == log.LogLevelDebug {
		log.Debugw("API error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	}
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of e with the Sprintf formatted string appended to Err.
// The code and status are preserved, so catalogue entries stay comparable
// on the wire after annotation.
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of e with the string appended to Err.
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of e with err.Error() appended to Err.
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}
