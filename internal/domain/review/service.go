package review

import (
	"context"

	"levelup/internal/domain/identity"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// OpinionInput is the reviewer-facing payload for an opinion save.
type OpinionInput struct {
	Text                 string
	Recommendation       *bool
	OnBehalfOfReviewerID string
}

// SaveOpinion attaches (or replaces) the caller's opinion on a review and
// re-derives the authoritative recommendation. An administrator may act on
// behalf of any reviewer; precedence is evaluated with the substituted
// reviewer's role and the substitution is recorded on the opinion.
func (s *Service) SaveOpinion(ctx context.Context, caller identity.UserContext, reviewID string, in OpinionInput) (SaveOutcome, error) {
	rc, err := s.store.ReviewContext(ctx, reviewID)
	if err != nil {
		return SaveOutcome{}, err
	}

	reviewer := caller
	onBehalf := in.OnBehalfOfReviewerID != "" && in.OnBehalfOfReviewerID != caller.UserID
	if onBehalf {
		if !identity.HasPermission(caller.Role, identity.PermOpinionOnBehalf) {
			return SaveOutcome{}, ErrForbidden
		}
		reviewer, err = s.store.ReviewerIdentity(ctx, in.OnBehalfOfReviewerID)
		if err != nil {
			return SaveOutcome{}, err
		}
	}

	reviewerRole := identity.ReviewerRoleFor(reviewer, rc.Department)
	if reviewerRole == "" {
		return SaveOutcome{}, ErrNoReviewerStanding
	}

	// The lock freezes department-head actors; HR and administrators keep
	// editing through it.
	if caller.Role == identity.RoleDepartmentHead {
		locked, err := s.store.IsSubmitted(ctx, rc.Department, rc.Year)
		if err != nil {
			return SaveOutcome{}, err
		}
		if locked {
			return SaveOutcome{}, ErrSubmissionLocked
		}
	}

	opinion := Opinion{
		ReviewID:       reviewID,
		ReviewerID:     reviewer.UserID,
		ReviewerRole:   reviewerRole,
		Text:           in.Text,
		Recommendation: RecommendationFromBool(in.Recommendation),
	}
	if reviewerRole == identity.ReviewerHRLead {
		// The HR lead never carries a recommendation value.
		opinion.Recommendation = RecommendationUnset
	}
	if onBehalf {
		opinion.ModifiedBy = caller.UserID
	}

	return s.store.SaveOpinion(ctx, opinion)
}

func (s *Service) ListOpinions(ctx context.Context, reviewID string) ([]Opinion, error) {
	if _, err := s.store.ReviewContext(ctx, reviewID); err != nil {
		return nil, err
	}
	return s.store.ListOpinions(ctx, reviewID)
}

func (s *Service) UpdateCompetency(ctx context.Context, caller identity.UserContext, reviewID string, score float64, eval string) error {
	rc, err := s.store.ReviewContext(ctx, reviewID)
	if err != nil {
		return err
	}
	if caller.Role == identity.RoleDepartmentHead {
		locked, err := s.store.IsSubmitted(ctx, rc.Department, rc.Year)
		if err != nil {
			return err
		}
		if locked {
			return ErrSubmissionLocked
		}
	}
	return s.store.UpdateCompetency(ctx, reviewID, score, eval)
}

// Submit locks a department's review for the year. Department heads may only
// lock their own department. Completeness of the opinions is not validated
// here; that is a presentation concern.
func (s *Service) Submit(ctx context.Context, caller identity.UserContext, department string, year int) error {
	if caller.Role == identity.RoleDepartmentHead && caller.Department != department {
		return ErrForbidden
	}
	return s.store.CreateSubmission(ctx, department, year, caller.UserID)
}

// CancelSubmission re-opens editing. Always permitted for callers holding
// the cancel permission.
func (s *Service) CancelSubmission(ctx context.Context, caller identity.UserContext, department string, year int) error {
	if caller.Role == identity.RoleDepartmentHead && caller.Department != department {
		return ErrForbidden
	}
	return s.store.DeleteSubmission(ctx, department, year)
}

func (s *Service) ListSubmissions(ctx context.Context, year int) ([]Submission, error) {
	return s.store.ListSubmissions(ctx, year)
}

// Confirm moves a candidate's final decision. All transitions, including
// back to pending, require the final-approval role; the route permission
// enforces that. Without the override flag the candidate's department must
// hold a submission.
func (s *Service) Confirm(ctx context.Context, caller identity.UserContext, candidateID string, status ConfirmationStatus, override bool) (Confirmation, error) {
	if _, ok := ParseConfirmationStatus(string(status)); !ok {
		return Confirmation{}, ErrInvalidStatus
	}

	department, year, err := s.store.CandidateContext(ctx, candidateID)
	if err != nil {
		return Confirmation{}, err
	}

	if !override {
		submitted, err := s.store.IsSubmitted(ctx, department, year)
		if err != nil {
			return Confirmation{}, err
		}
		if !submitted {
			return Confirmation{}, ErrNotSubmitted
		}
	}

	return s.store.SetConfirmation(ctx, candidateID, year, status)
}

// ConfirmationRoster lists the final-decision roster. By default only
// departments holding a submission lock are visible; the unfiltered view is
// reserved for final approvers and administrators (route permission).
func (s *Service) ConfirmationRoster(ctx context.Context, year int, unfiltered bool) ([]ConfirmationRow, error) {
	if unfiltered {
		return s.store.ConfirmationRoster(ctx, year, nil)
	}

	submissions, err := s.store.ListSubmissions(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(submissions) == 0 {
		return []ConfirmationRow{}, nil
	}
	departments := make([]string, 0, len(submissions))
	for _, sub := range submissions {
		departments = append(departments, sub.Department)
	}
	return s.store.ConfirmationRoster(ctx, year, departments)
}
