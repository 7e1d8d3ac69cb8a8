package scoring

import (
	"context"
	"log/slog"
	"sort"
)

type Service struct {
	store       StoreAPI
	minDataYear int
	maxDataYear int
	windowCap   int
	chunkSize   int
}

func NewService(store StoreAPI, minDataYear, maxDataYear, windowCap, chunkSize int) *Service {
	return &Service{
		store:       store,
		minDataYear: minDataYear,
		maxDataYear: maxDataYear,
		windowCap:   windowCap,
		chunkSize:   chunkSize,
	}
}

func (s *Service) ListRules(ctx context.Context) ([]GradeScoreRule, error) {
	return s.store.ListRules(ctx)
}

func (s *Service) CreateRule(ctx context.Context, rule GradeScoreRule) (string, error) {
	return s.store.CreateRule(ctx, rule)
}

func (s *Service) ListThresholds(ctx context.Context) ([]LevelThreshold, error) {
	return s.store.ListThresholds(ctx)
}

func (s *Service) CreateThreshold(ctx context.Context, threshold LevelThreshold) (string, error) {
	return s.store.CreateThreshold(ctx, threshold)
}

// Recalculate rebuilds every point and credit year row for one employee and
// writes them atomically. Safe to re-run at any time; the result depends only
// on the current grades, adjustments, and configuration.
func (s *Service) Recalculate(ctx context.Context, employeeID string) error {
	employee, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	ruleRows, err := s.store.ListRules(ctx)
	if err != nil {
		return err
	}
	thresholds, err := s.store.ListThresholds(ctx)
	if err != nil {
		return err
	}
	grades, err := s.store.GradesFor(ctx, employeeID)
	if err != nil {
		return err
	}
	merit, penalty, err := s.store.Adjustments(ctx, employeeID)
	if err != nil {
		return err
	}
	storedPoints, err := s.store.YearScores(ctx, employeeID, MetricPoint)
	if err != nil {
		return err
	}
	creditScores, err := s.store.YearScores(ctx, employeeID, MetricCredit)
	if err != nil {
		return err
	}

	rules := NewRuleSet(ruleRows)
	window := AggregateWindow(rules, WindowInput{
		YearsOfService: employee.YearsOfService,
		HireDate:       employee.HireDate,
		Grades:         grades,
		Merit:          merit,
		Penalty:        penalty,
		MinDataYear:    s.minDataYear,
		MaxDataYear:    s.maxDataYear,
		WindowCap:      s.windowCap,
	})

	var threshold *LevelThreshold
	if th, ok := ThresholdFor(thresholds, employee.Level, s.maxDataYear); ok {
		threshold = &th
	}

	points := s.buildPointRecords(employeeID, window, storedPoints, merit, penalty, creditScores, threshold)
	credits := s.buildCreditRecords(employeeID, creditScores, window.Cumulative, threshold)

	return s.store.ReplaceScores(ctx, employeeID, points, credits)
}

func (s *Service) buildPointRecords(employeeID string, window WindowResult, stored map[int]float64, merit, penalty float64, creditScores map[int]float64, threshold *LevelThreshold) []ScoreRecord {
	cumCredits := CumulativeCredits(creditScores, s.minDataYear, s.maxDataYear)

	records := make([]ScoreRecord, 0, len(window.Years))
	running := 0.0
	for _, ys := range window.Years {
		score := 0.0
		switch {
		case ys.InWindow:
			score = ys.Score
			running += score
		case ys.Grade != "":
			score = ys.Score
		default:
			// Seeded historical values outside the window survive
			// recalculation; auto-filled display years are never persisted.
			if v, ok := stored[ys.Year]; ok && !ys.AutoFilled {
				score = v
			}
		}

		rec := ScoreRecord{
			EmployeeID: employeeID,
			Year:       ys.Year,
			Score:      score,
			Cumulative: running,
		}
		if ys.Year == s.maxDataYear {
			rec.Cumulative = running + merit - penalty
			rec.Merit = merit
			rec.Penalty = penalty
			rec.Met, _ = Evaluate(rec.Cumulative, cumCredits, threshold)
		}
		records = append(records, rec)
	}
	return records
}

func (s *Service) buildCreditRecords(employeeID string, creditScores map[int]float64, cumPoints float64, threshold *LevelThreshold) []ScoreRecord {
	records := make([]ScoreRecord, 0, s.maxDataYear-s.minDataYear+1)
	running := 0.0
	for year := s.minDataYear; year <= s.maxDataYear; year++ {
		running += creditScores[year]
		rec := ScoreRecord{
			EmployeeID: employeeID,
			Year:       year,
			Score:      creditScores[year],
			Cumulative: running,
		}
		if year == s.maxDataYear {
			_, rec.Met = Evaluate(cumPoints, running, threshold)
		}
		records = append(records, rec)
	}
	return records
}

// RecalcSummary is the tracked outcome of a bulk recalculation job.
type RecalcSummary struct {
	Employees int `json:"employees"`
	Failed    int `json:"failed"`
}

// RecalculateAll re-aggregates every active employee in chunks. Individual
// failures are logged and skipped; they are picked up by the next trigger
// rather than retried here.
func (s *Service) RecalculateAll(ctx context.Context) (RecalcSummary, error) {
	ids, err := s.store.ActiveEmployeeIDs(ctx)
	if err != nil {
		return RecalcSummary{}, err
	}

	summary := RecalcSummary{}
	for start := 0; start < len(ids); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		for _, id := range ids[start:end] {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if err := s.Recalculate(ctx, id); err != nil {
				slog.Warn("recalculation failed", "employeeId", id, "err", err)
				summary.Failed++
				continue
			}
			summary.Employees++
		}
	}
	return summary, nil
}

// ImportScoreRows persists validated upstream rows. Legacy point/credit
// totals are spread across the already-graded years with the exact-sum
// distribution. Recalculation is the caller's responsibility and runs as a
// background job; met flags may be briefly stale after an import.
func (s *Service) ImportScoreRows(ctx context.Context, rows []ImportRow) (int, error) {
	imported := 0
	for _, row := range rows {
		if err := s.store.UpsertEmployee(ctx, row); err != nil {
			return imported, err
		}
		years := make([]int, 0, len(row.Grades))
		for year, grade := range row.Grades {
			if err := s.store.UpsertGrade(ctx, row.EmployeeID, year, grade); err != nil {
				return imported, err
			}
			years = append(years, year)
		}
		sort.Ints(years)

		if row.Merit != 0 || row.Penalty != 0 {
			if err := s.store.SetAdjustments(ctx, row.EmployeeID, row.Merit, row.Penalty); err != nil {
				return imported, err
			}
		}
		if row.PointScore != nil && len(years) > 0 {
			if err := s.store.SetYearScores(ctx, row.EmployeeID, MetricPoint, Distribute(*row.PointScore, years)); err != nil {
				return imported, err
			}
		}
		if row.CreditScore != nil && len(years) > 0 {
			if err := s.store.SetYearScores(ctx, row.EmployeeID, MetricCredit, Distribute(*row.CreditScore, years)); err != nil {
				return imported, err
			}
		}
		imported++
	}
	return imported, nil
}

// DistributeTotal seeds a legacy total across the given years for one
// employee and immediately re-aggregates so cumulatives stay authoritative.
func (s *Service) DistributeTotal(ctx context.Context, employeeID string, metric Metric, total float64, activeYears []int) (map[int]float64, error) {
	if len(activeYears) == 0 {
		return nil, ErrNoActiveYears
	}
	if metric != MetricPoint && metric != MetricCredit {
		return nil, ErrUnknownMetric
	}
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	years := append([]int(nil), activeYears...)
	sort.Ints(years)

	shares := Distribute(total, years)
	if err := s.store.SetYearScores(ctx, employeeID, metric, shares); err != nil {
		return nil, err
	}
	if err := s.Recalculate(ctx, employeeID); err != nil {
		return nil, err
	}
	return shares, nil
}

func (s *Service) DataYears() (min, max int) {
	return s.minDataYear, s.maxDataYear
}
