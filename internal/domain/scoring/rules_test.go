package scoring

import "testing"

func testRules() *RuleSet {
	return NewRuleSet([]GradeScoreRule{
		{Grade: "S", YearFrom: 2021, YearTo: 2025, Points: 6},
		{Grade: "A", YearFrom: 2021, YearTo: 2025, Points: 4},
		{Grade: "A", YearFrom: 2024, YearTo: 2024, Points: 5},
		{Grade: "B", YearFrom: 2021, YearTo: 2025, Points: 3},
	})
}

func TestScoreExactYearBeatsSpan(t *testing.T) {
	rules := testRules()

	if got := rules.Score("A", 2023); got != 4 {
		t.Fatalf("expected span rule 4, got %v", got)
	}
	if got := rules.Score("A", 2024); got != 5 {
		t.Fatalf("expected exact-year rule 5, got %v", got)
	}
}

func TestScoreCaseNormalized(t *testing.T) {
	rules := testRules()

	if got := rules.Score(" s ", 2022); got != 6 {
		t.Fatalf("expected 6 for lowercase s, got %v", got)
	}
}

func TestScoreDefaults(t *testing.T) {
	rules := testRules()

	if got := rules.Score("Z", 2023); got != DefaultGradePoints {
		t.Fatalf("unknown grade should default to %v, got %v", DefaultGradePoints, got)
	}
	if got := rules.Score("", 2023); got != DefaultGradePoints {
		t.Fatalf("blank grade should default to %v, got %v", DefaultGradePoints, got)
	}
	if got := rules.Score("A", 1999); got != DefaultGradePoints {
		t.Fatalf("uncovered year should default to %v, got %v", DefaultGradePoints, got)
	}
	if got := NewRuleSet(nil).Score("A", 2023); got != DefaultGradePoints {
		t.Fatalf("empty rule set should default to %v, got %v", DefaultGradePoints, got)
	}
}
