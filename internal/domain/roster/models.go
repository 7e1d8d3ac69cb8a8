package roster

import "levelup/internal/domain/scoring"

const (
	SourceAuto   = "auto"
	SourceManual = "manual"
)

// Candidate is one roster entry, unique per (employeeID, year).
type Candidate struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employeeId"`
	Year           int    `json:"year"`
	PointMet       bool   `json:"pointMet"`
	CreditMet      bool   `json:"creditMet"`
	IsReviewTarget bool   `json:"isReviewTarget"`
	Source         string `json:"source"`
}

// EligibilityRow is the read model the selector and roster queries work
// from: the latest stored met flags plus any existing roster entry.
type EligibilityRow struct {
	EmployeeID       string
	Level            int
	YearsOfService   int
	PointMet         bool
	CreditMet        bool
	PointCumulative  float64
	CreditCumulative float64
	HasCandidate     bool
	ManualSource     bool
	IsReviewTarget   bool
}

type RosterQuery struct {
	Year       int
	Mode       Mode
	Department string
	Limit      int
	Offset     int
}

// RosterRow is one employee on the eligibility roster, with the per-year
// grade map rendered for display (auto-filled placeholders included).
type RosterRow struct {
	Employee         scoring.Employee    `json:"employee"`
	PointCumulative  float64             `json:"pointCumulative"`
	CreditCumulative float64             `json:"creditCumulative"`
	PointMet         bool                `json:"pointMet"`
	CreditMet        bool                `json:"creditMet"`
	IsReviewTarget   bool                `json:"isReviewTarget"`
	Source           string              `json:"source,omitempty"`
	Years            []scoring.YearScore `json:"years"`
}

// RosterMeta carries the dashboard counts alongside a roster page.
type RosterMeta struct {
	Total     int `json:"total"`
	PointMet  int `json:"pointMet"`
	CreditMet int `json:"creditMet"`
	BothMet   int `json:"bothMet"`
}

type SelectionResult struct {
	Added int `json:"added"`
	Total int `json:"total"`
}
