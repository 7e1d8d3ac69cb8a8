package scoring

import "testing"

func TestThresholdForFallsBackToLatestConfiguredYear(t *testing.T) {
	thresholds := []LevelThreshold{
		{Level: 3, Year: 2022, RequiredPoints: 10, RequiredCredits: 4},
		{Level: 3, Year: 2024, RequiredPoints: 12, RequiredCredits: 5},
		{Level: 4, Year: 2023, RequiredPoints: 15, RequiredCredits: 6},
	}

	th, ok := ThresholdFor(thresholds, 3, 2025)
	if !ok || th.Year != 2024 {
		t.Fatalf("expected fallback to 2024, got %+v ok=%v", th, ok)
	}

	th, ok = ThresholdFor(thresholds, 3, 2023)
	if !ok || th.Year != 2022 {
		t.Fatalf("expected fallback to 2022, got %+v ok=%v", th, ok)
	}

	if _, ok := ThresholdFor(thresholds, 3, 2021); ok {
		t.Fatal("no threshold configured at or before 2021")
	}
	if _, ok := ThresholdFor(thresholds, 9, 2025); ok {
		t.Fatal("unconfigured level must not resolve")
	}
}

func TestEvaluate(t *testing.T) {
	th := &LevelThreshold{RequiredPoints: 12, RequiredCredits: 5}

	pointMet, creditMet := Evaluate(12, 4.9, th)
	if !pointMet || creditMet {
		t.Fatalf("expected pointMet only, got point=%v credit=%v", pointMet, creditMet)
	}

	pointMet, creditMet = Evaluate(11.9, 5, th)
	if pointMet || !creditMet {
		t.Fatalf("expected creditMet only, got point=%v credit=%v", pointMet, creditMet)
	}

	// Missing configuration never silently evaluates to met.
	pointMet, creditMet = Evaluate(100, 100, nil)
	if pointMet || creditMet {
		t.Fatal("nil threshold must evaluate to not-met")
	}
}
