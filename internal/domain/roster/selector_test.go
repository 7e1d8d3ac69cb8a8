package roster

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelup/internal/domain/scoring"
)

func hireDate(year int) time.Time {
	return time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC)
}

type fakeStore struct {
	eligibility []EligibilityRow
	candidates  map[string]Candidate // keyed employeeID|year
	grades      map[string]map[int]string
	rosterRows  []RosterRow
}

func key(employeeID string, year int) string {
	return fmt.Sprintf("%s|%d", employeeID, year)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates: map[string]Candidate{},
		grades:     map[string]map[int]string{},
	}
}

func (f *fakeStore) EligibilityRows(context.Context, int) ([]EligibilityRow, error) {
	return f.eligibility, nil
}

func (f *fakeStore) UpsertCandidate(_ context.Context, candidate Candidate) (bool, error) {
	k := key(candidate.EmployeeID, candidate.Year)
	existing, ok := f.candidates[k]
	if ok {
		existing.PointMet = candidate.PointMet
		existing.CreditMet = candidate.CreditMet
		f.candidates[k] = existing
		return false, nil
	}
	f.candidates[k] = candidate
	return true, nil
}

func (f *fakeStore) MarkReviewTarget(_ context.Context, employeeID string, year int, target bool) (Candidate, error) {
	k := key(employeeID, year)
	existing, ok := f.candidates[k]
	if !ok {
		existing = Candidate{EmployeeID: employeeID, Year: year}
	}
	existing.IsReviewTarget = target
	existing.Source = SourceManual
	f.candidates[k] = existing
	return existing, nil
}

func (f *fakeStore) RosterRows(context.Context, RosterQuery) ([]RosterRow, int, error) {
	return f.rosterRows, len(f.rosterRows), nil
}

func (f *fakeStore) GradesByEmployee(context.Context, []string) (map[string]map[int]string, error) {
	return f.grades, nil
}

type fakeConfig struct {
	rules      []scoring.GradeScoreRule
	thresholds []scoring.LevelThreshold
}

func (f *fakeConfig) ListRules(context.Context) ([]scoring.GradeScoreRule, error) {
	return f.rules, nil
}

func (f *fakeConfig) ListThresholds(context.Context) ([]scoring.LevelThreshold, error) {
	return f.thresholds, nil
}

func TestAutoSelectIdempotent(t *testing.T) {
	store := newFakeStore()
	store.eligibility = []EligibilityRow{
		{EmployeeID: "e1", Level: 2, YearsOfService: 4, PointMet: true, CreditMet: true},
		{EmployeeID: "e2", Level: 2, YearsOfService: 3, PointMet: true, CreditMet: false},
		{EmployeeID: "e3", Level: 2, YearsOfService: 3, PointMet: false, CreditMet: false},
	}
	svc := NewService(store, &fakeConfig{}, 2021, 2025, 5)

	first, err := svc.AutoSelect(context.Background(), 2025, ModeAny)
	require.NoError(t, err)
	assert.Equal(t, SelectionResult{Added: 2, Total: 2}, first)

	second, err := svc.AutoSelect(context.Background(), 2025, ModeAny)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added, "re-run must not add duplicates")
	assert.Equal(t, 2, second.Total)
	assert.Len(t, store.candidates, 2)
}

func TestAutoSelectPreservesManualCuration(t *testing.T) {
	store := newFakeStore()
	store.eligibility = []EligibilityRow{
		{EmployeeID: "e1", Level: 2, YearsOfService: 4, PointMet: true, CreditMet: true, HasCandidate: true, ManualSource: true, IsReviewTarget: true},
	}
	_, err := store.MarkReviewTarget(context.Background(), "e1", 2025, true)
	require.NoError(t, err)

	svc := NewService(store, &fakeConfig{}, 2021, 2025, 5)
	_, err = svc.AutoSelect(context.Background(), 2025, ModeAny)
	require.NoError(t, err)

	got := store.candidates[key("e1", 2025)]
	assert.Equal(t, SourceManual, got.Source, "manual source must not downgrade to auto")
	assert.True(t, got.IsReviewTarget, "manual review target must survive re-selection")
	assert.True(t, got.PointMet, "met flags still refresh")
}

func TestAutoSelectManualEntryIncludedUnderAny(t *testing.T) {
	store := newFakeStore()
	store.eligibility = []EligibilityRow{
		{EmployeeID: "e1", Level: 2, YearsOfService: 4, PointMet: false, CreditMet: false, HasCandidate: true, ManualSource: true},
	}
	svc := NewService(store, &fakeConfig{}, 2021, 2025, 5)

	anyResult, err := svc.AutoSelect(context.Background(), 2025, ModeAny)
	require.NoError(t, err)
	assert.Equal(t, 1, anyResult.Total)

	bothResult, err := svc.AutoSelect(context.Background(), 2025, ModeBoth)
	require.NoError(t, err)
	assert.Equal(t, 0, bothResult.Total, "manual entries only ride along under any")
}

func TestAutoSelectTenureGate(t *testing.T) {
	store := newFakeStore()
	store.eligibility = []EligibilityRow{
		{EmployeeID: "e1", Level: 3, YearsOfService: 1, PointMet: true, CreditMet: true},
		{EmployeeID: "e2", Level: 3, YearsOfService: 4, PointMet: true, CreditMet: true},
	}
	config := &fakeConfig{thresholds: []scoring.LevelThreshold{
		{Level: 3, Year: 2021, RequiredPoints: 10, RequiredCredits: 3, MinTenureYears: 3},
	}}
	svc := NewService(store, config, 2021, 2025, 5)

	result, err := svc.AutoSelect(context.Background(), 2025, ModeBoth)
	require.NoError(t, err)
	assert.Equal(t, SelectionResult{Added: 1, Total: 1}, result)
	_, selected := store.candidates[key("e2", 2025)]
	assert.True(t, selected)
}

func TestRosterRendersDisplayYears(t *testing.T) {
	store := newFakeStore()
	store.rosterRows = []RosterRow{{
		Employee: scoring.Employee{
			ID: "e1", Name: "Park", Department: "sales",
			Level: 2, YearsOfService: 2, Active: true,
			HireDate: hireDate(2024),
		},
		PointCumulative: 8, PointMet: true,
	}}
	store.grades["e1"] = map[int]string{2024: "A", 2025: "A"}

	svc := NewService(store, &fakeConfig{}, 2021, 2025, 5)
	rows, meta, err := svc.Roster(context.Background(), RosterQuery{Year: 2025, Mode: ModeAny, Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 1, meta.Total)
	assert.Equal(t, 1, meta.PointMet)
	assert.Equal(t, 0, meta.BothMet)

	require.Len(t, rows[0].Years, 5)
	for _, ys := range rows[0].Years {
		if ys.Year < 2024 {
			assert.True(t, ys.AutoFilled, "pre-hire year %d should be auto-filled", ys.Year)
		} else {
			assert.False(t, ys.AutoFilled)
			assert.Equal(t, "A", ys.Grade)
		}
	}
}
