package database

import "errors"

// ErrNotFound is returned when a statement selects or affects no row.
var ErrNotFound = errors.New("chatstore: no matching row")

// ErrNotAuthorized is returned when the target row exists but the acting
// user's grant does not satisfy the statement's authorization gate.
var ErrNotAuthorized = errors.New("chatstore: not authorized")

// ErrInvalidVoteLevel is returned for vote levels outside pin, star, up, down.
var ErrInvalidVoteLevel = errors.New("chatstore: unknown vote level")

// ErrNoProfileId is returned when an OAuth profile carries no usable id.
var ErrNoProfileId = errors.New("chatstore: no id in oauth profile")

// ConnectionError wraps a failure to open or ping the database.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "chatstore: connect: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
