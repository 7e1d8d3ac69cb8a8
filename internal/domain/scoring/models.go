package scoring

import "time"

// DefaultGradePoints is the baseline awarded when no grade rule matches,
// the grade is blank/unknown, or a window year has no grade on file.
const DefaultGradePoints = 2.0

type Metric string

const (
	MetricPoint  Metric = "point"
	MetricCredit Metric = "credit"
)

// GradeScoreRule maps a performance grade to points for a year span.
// YearFrom == YearTo denotes an exact-year rule, which wins over span rules.
type GradeScoreRule struct {
	ID       string  `json:"id"`
	Grade    string  `json:"grade"`
	YearFrom int     `json:"yearFrom"`
	YearTo   int     `json:"yearTo"`
	Points   float64 `json:"points"`
}

// LevelThreshold is the per-level, per-year eligibility bar. Lookup falls
// back to the most recent configured year when the requested year is absent.
type LevelThreshold struct {
	ID              string  `json:"id"`
	Level           int     `json:"level"`
	Year            int     `json:"year"`
	RequiredPoints  float64 `json:"requiredPoints"`
	RequiredCredits float64 `json:"requiredCredits"`
	MinTenureYears  int     `json:"minTenureYears"`
}

// ScoreRecord is one employee-year row for a metric. Cumulative is the
// authoritative running total as of that year; readers trust the latest row.
type ScoreRecord struct {
	EmployeeID string  `json:"employeeId"`
	Year       int     `json:"year"`
	Score      float64 `json:"score"`
	Cumulative float64 `json:"cumulative"`
	Met        bool    `json:"met"`
	Merit      float64 `json:"merit,omitempty"`
	Penalty    float64 `json:"penalty,omitempty"`
}

// Employee is the read-only slice of the HR record this engine consumes.
type Employee struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	Team           string    `json:"team"`
	Level          int       `json:"level"`
	HireDate       time.Time `json:"hireDate"`
	YearsOfService int       `json:"yearsOfService"`
	Active         bool      `json:"active"`
}

// ImportRow is a validated upstream employee row (spreadsheet ingestion and
// row validation happen outside this engine).
type ImportRow struct {
	EmployeeID     string         `json:"employeeId"`
	Name           string         `json:"name"`
	Department     string         `json:"department"`
	Team           string         `json:"team"`
	Level          int            `json:"level"`
	HireDate       time.Time      `json:"hireDate"`
	YearsOfService int            `json:"yearsOfService"`
	Grades         map[int]string `json:"performanceGrades,omitempty"`
	Merit          float64        `json:"merit,omitempty"`
	Penalty        float64        `json:"penalty,omitempty"`
	PointScore     *float64       `json:"pointScore,omitempty"`
	CreditScore    *float64       `json:"creditScore,omitempty"`
}
