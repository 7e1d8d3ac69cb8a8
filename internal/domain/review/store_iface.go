package review

import (
	"context"

	"levelup/internal/domain/identity"
)

type StoreAPI interface {
	ReviewContext(ctx context.Context, reviewID string) (ReviewContext, error)
	ReviewerIdentity(ctx context.Context, userID string) (identity.UserContext, error)
	// SaveOpinion upserts the opinion and re-derives the authoritative
	// recommendation in one transaction: the own-head existence check and
	// the review write must not be separable under concurrent savers.
	SaveOpinion(ctx context.Context, opinion Opinion) (SaveOutcome, error)
	ListOpinions(ctx context.Context, reviewID string) ([]Opinion, error)
	UpdateCompetency(ctx context.Context, reviewID string, score float64, eval string) error

	CreateSubmission(ctx context.Context, department string, year int, submittedBy string) error
	DeleteSubmission(ctx context.Context, department string, year int) error
	IsSubmitted(ctx context.Context, department string, year int) (bool, error)
	ListSubmissions(ctx context.Context, year int) ([]Submission, error)

	CandidateContext(ctx context.Context, candidateID string) (department string, year int, err error)
	SetConfirmation(ctx context.Context, candidateID string, year int, status ConfirmationStatus) (Confirmation, error)
	ConfirmationRoster(ctx context.Context, year int, departments []string) ([]ConfirmationRow, error)
}
