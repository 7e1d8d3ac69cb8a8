package roster

import (
	"context"

	"levelup/internal/domain/scoring"
)

type StoreAPI interface {
	EligibilityRows(ctx context.Context, year int) ([]EligibilityRow, error)
	// UpsertCandidate is keyed on (employee_id, year); it refreshes met
	// flags but never downgrades a manual source or clears a manual review
	// target. Returns true when a new roster entry was created.
	UpsertCandidate(ctx context.Context, candidate Candidate) (bool, error)
	MarkReviewTarget(ctx context.Context, employeeID string, year int, target bool) (Candidate, error)
	RosterRows(ctx context.Context, q RosterQuery) ([]RosterRow, int, error)
	GradesByEmployee(ctx context.Context, employeeIDs []string) (map[string]map[int]string, error)
}

// ConfigSource supplies the scoring configuration the roster needs for
// tenure gating and display rendering. *scoring.Store satisfies it.
type ConfigSource interface {
	ListRules(ctx context.Context) ([]scoring.GradeScoreRule, error)
	ListThresholds(ctx context.Context) ([]scoring.LevelThreshold, error)
}
