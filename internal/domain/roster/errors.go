package roster

import "errors"

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrUnknownMode       = errors.New("unknown eligibility mode")
)
