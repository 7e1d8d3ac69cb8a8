package roster

import (
	"context"

	"levelup/internal/domain/scoring"
)

type Service struct {
	store       StoreAPI
	config      ConfigSource
	minDataYear int
	maxDataYear int
	windowCap   int
}

func NewService(store StoreAPI, config ConfigSource, minDataYear, maxDataYear, windowCap int) *Service {
	return &Service{
		store:       store,
		config:      config,
		minDataYear: minDataYear,
		maxDataYear: maxDataYear,
		windowCap:   windowCap,
	}
}

// Roster returns one page of the eligibility roster with display-rendered
// year cells. Met flags and cumulatives come from the latest stored score
// rows; nothing is recomputed on read.
func (s *Service) Roster(ctx context.Context, q RosterQuery) ([]RosterRow, RosterMeta, error) {
	rows, total, err := s.store.RosterRows(ctx, q)
	if err != nil {
		return nil, RosterMeta{}, err
	}

	ruleRows, err := s.config.ListRules(ctx)
	if err != nil {
		return nil, RosterMeta{}, err
	}
	rules := scoring.NewRuleSet(ruleRows)

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Employee.ID)
	}
	grades, err := s.store.GradesByEmployee(ctx, ids)
	if err != nil {
		return nil, RosterMeta{}, err
	}

	meta := RosterMeta{Total: total}
	for i := range rows {
		row := &rows[i]
		row.Years = s.displayYears(rules, row.Employee, grades[row.Employee.ID])
		if row.PointMet {
			meta.PointMet++
		}
		if row.CreditMet {
			meta.CreditMet++
		}
		if row.PointMet && row.CreditMet {
			meta.BothMet++
		}
	}
	return rows, meta, nil
}

// displayYears renders the per-year cells, including the cosmetic pre-hire
// auto-fill. The accrual totals shown on the row come from the stored score
// records, not from this rendering.
func (s *Service) displayYears(rules *scoring.RuleSet, emp scoring.Employee, grades map[int]string) []scoring.YearScore {
	window := scoring.AggregateWindow(rules, scoring.WindowInput{
		YearsOfService: emp.YearsOfService,
		HireDate:       emp.HireDate,
		Grades:         grades,
		MinDataYear:    s.minDataYear,
		MaxDataYear:    s.maxDataYear,
		WindowCap:      s.windowCap,
	})
	return window.Years
}

// MarkReviewTarget manually toggles a roster entry, creating it as a manual
// candidate when absent.
func (s *Service) MarkReviewTarget(ctx context.Context, employeeID string, year int, target bool) (Candidate, error) {
	return s.store.MarkReviewTarget(ctx, employeeID, year, target)
}
