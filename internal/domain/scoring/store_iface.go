package scoring

import "context"

type StoreAPI interface {
	ListRules(ctx context.Context) ([]GradeScoreRule, error)
	CreateRule(ctx context.Context, rule GradeScoreRule) (string, error)
	ListThresholds(ctx context.Context) ([]LevelThreshold, error)
	CreateThreshold(ctx context.Context, threshold LevelThreshold) (string, error)
	ActiveEmployeeIDs(ctx context.Context) ([]string, error)
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	GradesFor(ctx context.Context, employeeID string) (map[int]string, error)
	Adjustments(ctx context.Context, employeeID string) (merit, penalty float64, err error)
	YearScores(ctx context.Context, employeeID string, metric Metric) (map[int]float64, error)
	// ReplaceScores writes every affected year row for both metrics in one
	// transaction so partial recalculation is never visible to readers.
	ReplaceScores(ctx context.Context, employeeID string, points, credits []ScoreRecord) error
	SetYearScores(ctx context.Context, employeeID string, metric Metric, scores map[int]float64) error
	UpsertEmployee(ctx context.Context, row ImportRow) error
	UpsertGrade(ctx context.Context, employeeID string, year int, grade string) error
	SetAdjustments(ctx context.Context, employeeID string, merit, penalty float64) error
}
