package scoring

import (
	"testing"
	"time"
)

func TestAggregateWindowThreeYearTenure(t *testing.T) {
	rules := testRules()

	result := AggregateWindow(rules, WindowInput{
		YearsOfService: 3,
		HireDate:       time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Grades:         map[int]string{2023: "A", 2024: "B", 2025: "S"},
		Merit:          1,
		MinDataYear:    2021,
		MaxDataYear:    2025,
		WindowCap:      5,
	})

	// A(2023)=4, B(2024)=3, S(2025)=6, merit 1.
	if result.Cumulative != 14 {
		t.Fatalf("expected cumulative 14, got %v", result.Cumulative)
	}
	if result.WindowStart != 2023 {
		t.Fatalf("expected window start 2023, got %d", result.WindowStart)
	}
}

func TestAggregateWindowCapsAtFiveYears(t *testing.T) {
	rules := testRules()

	result := AggregateWindow(rules, WindowInput{
		YearsOfService: 12,
		HireDate:       time.Date(2013, 4, 1, 0, 0, 0, 0, time.UTC),
		Grades:         map[int]string{2021: "B", 2022: "B", 2023: "B", 2024: "B", 2025: "B"},
		MinDataYear:    2021,
		MaxDataYear:    2025,
		WindowCap:      5,
	})

	if result.WindowStart != 2021 {
		t.Fatalf("expected window start 2021, got %d", result.WindowStart)
	}
	if result.Cumulative != 15 {
		t.Fatalf("expected cumulative 15, got %v", result.Cumulative)
	}
}

func TestAggregateWindowMissingGradeDefaults(t *testing.T) {
	rules := testRules()

	result := AggregateWindow(rules, WindowInput{
		YearsOfService: 2,
		HireDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Grades:         map[int]string{2025: "A"},
		MinDataYear:    2021,
		MaxDataYear:    2025,
		WindowCap:      5,
	})

	// 2024 has no grade inside the window: default 2; 2025 A = 4.
	if result.Cumulative != 6 {
		t.Fatalf("expected cumulative 6, got %v", result.Cumulative)
	}
}

func TestAggregateWindowPreHireBackfillIsDisplayOnly(t *testing.T) {
	rules := testRules()

	result := AggregateWindow(rules, WindowInput{
		YearsOfService: 2,
		HireDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Grades:         map[int]string{2024: "A", 2025: "A"},
		MinDataYear:    2021,
		MaxDataYear:    2025,
		WindowCap:      5,
	})

	if result.Cumulative != 8 {
		t.Fatalf("auto-filled years must not accrue, got %v", result.Cumulative)
	}

	autoFilled := 0
	for _, ys := range result.Years {
		if ys.AutoFilled {
			autoFilled++
			if ys.InWindow {
				t.Fatalf("year %d both auto-filled and in window", ys.Year)
			}
			if ys.Score != DefaultGradePoints {
				t.Fatalf("auto-filled year %d score %v", ys.Year, ys.Score)
			}
		}
	}
	if autoFilled != 3 {
		t.Fatalf("expected 3 auto-filled pre-hire years, got %d", autoFilled)
	}
}

func TestAggregateWindowZeroTenure(t *testing.T) {
	result := AggregateWindow(testRules(), WindowInput{
		YearsOfService: 0,
		HireDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Grades:         map[int]string{2025: "S"},
		MinDataYear:    2021,
		MaxDataYear:    2025,
		WindowCap:      5,
	})

	if result.Cumulative != 0 {
		t.Fatalf("zero tenure should accrue nothing, got %v", result.Cumulative)
	}
}
