package roster

import (
	"context"

	"levelup/internal/domain/scoring"
)

// AutoSelect promotes every employee meeting the policy for the year into
// the roster. Idempotent: re-running on unchanged inputs adds nothing and
// leaves manual curation intact.
func (s *Service) AutoSelect(ctx context.Context, year int, mode Mode) (SelectionResult, error) {
	rows, err := s.store.EligibilityRows(ctx, year)
	if err != nil {
		return SelectionResult{}, err
	}
	thresholds, err := s.config.ListThresholds(ctx)
	if err != nil {
		return SelectionResult{}, err
	}

	result := SelectionResult{}
	for _, row := range rows {
		if !mode.Matches(row.PointMet, row.CreditMet, row.ManualSource) {
			continue
		}
		if th, ok := scoring.ThresholdFor(thresholds, row.Level, year); ok && row.YearsOfService < th.MinTenureYears {
			continue
		}
		result.Total++

		created, err := s.store.UpsertCandidate(ctx, Candidate{
			EmployeeID: row.EmployeeID,
			Year:       year,
			PointMet:   row.PointMet,
			CreditMet:  row.CreditMet,
			Source:     SourceAuto,
		})
		if err != nil {
			return result, err
		}
		if created {
			result.Added++
		}
	}
	return result, nil
}
