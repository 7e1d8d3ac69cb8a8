package review

import "errors"

var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrReviewerNotFound   = errors.New("reviewer not found")
	ErrNoReviewerStanding = errors.New("caller has no reviewer standing for this candidate")
	ErrForbidden          = errors.New("forbidden")
	ErrSubmissionLocked   = errors.New("department review is submitted and locked")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotSubmitted       = errors.New("department has not submitted its review")
	ErrInvalidStatus      = errors.New("invalid confirmation status")
)
