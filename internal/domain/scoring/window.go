package scoring

import "time"

// WindowInput carries everything the tenure-window aggregation needs for one
// employee. Grades is keyed by calendar year.
type WindowInput struct {
	YearsOfService int
	HireDate       time.Time
	Grades         map[int]string
	Merit          float64
	Penalty        float64
	MinDataYear    int
	MaxDataYear    int
	WindowCap      int
}

// YearScore is one rendered data year. Only InWindow years accrue toward the
// cumulative; AutoFilled marks the cosmetic pre-hire placeholder.
type YearScore struct {
	Year       int     `json:"year"`
	Grade      string  `json:"grade,omitempty"`
	Score      float64 `json:"score"`
	InWindow   bool    `json:"inWindow"`
	AutoFilled bool    `json:"autoFilled"`
}

type WindowResult struct {
	Years       []YearScore `json:"years"`
	WindowStart int         `json:"windowStart"`
	Cumulative  float64     `json:"cumulative"`
}

// AggregateWindow computes the tenure-bounded cumulative score. The window
// consumes the most recent W = min(yearsOfService, cap) years ending at
// MaxDataYear; tenure caps how many years are summed, not which calendar
// years they are. Pre-hire years inside the data range are rendered with the
// baseline placeholder for display only and never accrue.
func AggregateWindow(rules *RuleSet, in WindowInput) WindowResult {
	window := in.YearsOfService
	if window < 0 {
		window = 0
	}
	if in.WindowCap > 0 && window > in.WindowCap {
		window = in.WindowCap
	}
	windowStart := in.MaxDataYear - window + 1
	if windowStart < in.MinDataYear {
		windowStart = in.MinDataYear
	}
	if window == 0 {
		windowStart = in.MaxDataYear + 1
	}

	hireYear := in.HireDate.Year()
	result := WindowResult{WindowStart: windowStart}

	sum := 0.0
	for year := in.MinDataYear; year <= in.MaxDataYear; year++ {
		grade, graded := in.Grades[year]
		ys := YearScore{Year: year, Grade: grade}

		switch {
		case year >= windowStart:
			ys.InWindow = true
			ys.Score = rules.Score(grade, year)
			sum += ys.Score
		case graded:
			ys.Score = rules.Score(grade, year)
		case year < hireYear:
			ys.Score = DefaultGradePoints
			ys.AutoFilled = true
		}

		result.Years = append(result.Years, ys)
	}

	result.Cumulative = sum + in.Merit - in.Penalty
	return result
}

// CumulativeCredits recomputes the running credit total from per-year credit
// scores inside the data range. Credits carry no merit/penalty adjustments.
func CumulativeCredits(scores map[int]float64, minYear, maxYear int) float64 {
	sum := 0.0
	for year := minYear; year <= maxYear; year++ {
		sum += scores[year]
	}
	return sum
}
