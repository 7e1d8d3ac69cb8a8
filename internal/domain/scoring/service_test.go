package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rules      []GradeScoreRule
	thresholds []LevelThreshold
	employees  map[string]Employee
	grades     map[string]map[int]string
	merit      map[string]float64
	penalty    map[string]float64
	points     map[string][]ScoreRecord
	credits    map[string][]ScoreRecord
	rawScores  map[Metric]map[string]map[int]float64
	replaces   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: map[string]Employee{},
		grades:    map[string]map[int]string{},
		merit:     map[string]float64{},
		penalty:   map[string]float64{},
		points:    map[string][]ScoreRecord{},
		credits:   map[string][]ScoreRecord{},
		rawScores: map[Metric]map[string]map[int]float64{
			MetricPoint:  {},
			MetricCredit: {},
		},
	}
}

func (f *fakeStore) ListRules(context.Context) ([]GradeScoreRule, error) { return f.rules, nil }

func (f *fakeStore) CreateRule(_ context.Context, rule GradeScoreRule) (string, error) {
	f.rules = append(f.rules, rule)
	return "rule", nil
}

func (f *fakeStore) ListThresholds(context.Context) ([]LevelThreshold, error) {
	return f.thresholds, nil
}

func (f *fakeStore) CreateThreshold(_ context.Context, th LevelThreshold) (string, error) {
	f.thresholds = append(f.thresholds, th)
	return "threshold", nil
}

func (f *fakeStore) ActiveEmployeeIDs(context.Context) ([]string, error) {
	var ids []string
	for id := range f.employees {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id string) (Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeStore) GradesFor(_ context.Context, id string) (map[int]string, error) {
	return f.grades[id], nil
}

func (f *fakeStore) Adjustments(_ context.Context, id string) (float64, float64, error) {
	return f.merit[id], f.penalty[id], nil
}

func (f *fakeStore) SetAdjustments(_ context.Context, id string, merit, penalty float64) error {
	f.merit[id] = merit
	f.penalty[id] = penalty
	return nil
}

func (f *fakeStore) YearScores(_ context.Context, id string, metric Metric) (map[int]float64, error) {
	out := map[int]float64{}
	for year, score := range f.rawScores[metric][id] {
		out[year] = score
	}
	return out, nil
}

func (f *fakeStore) ReplaceScores(_ context.Context, id string, points, credits []ScoreRecord) error {
	f.points[id] = points
	f.credits[id] = credits
	f.replaces++
	return nil
}

func (f *fakeStore) SetYearScores(_ context.Context, id string, metric Metric, scores map[int]float64) error {
	byEmployee := f.rawScores[metric]
	if byEmployee[id] == nil {
		byEmployee[id] = map[int]float64{}
	}
	for year, score := range scores {
		byEmployee[id][year] = score
	}
	return nil
}

func (f *fakeStore) UpsertEmployee(_ context.Context, row ImportRow) error {
	f.employees[row.EmployeeID] = Employee{
		ID:             row.EmployeeID,
		Name:           row.Name,
		Department:     row.Department,
		Team:           row.Team,
		Level:          row.Level,
		HireDate:       row.HireDate,
		YearsOfService: row.YearsOfService,
		Active:         true,
	}
	return nil
}

func (f *fakeStore) UpsertGrade(_ context.Context, id string, year int, grade string) error {
	if f.grades[id] == nil {
		f.grades[id] = map[int]string{}
	}
	f.grades[id][year] = grade
	return nil
}

func latest(records []ScoreRecord) ScoreRecord {
	return records[len(records)-1]
}

func testService(store StoreAPI) *Service {
	return NewService(store, 2021, 2025, 5, 2)
}

func TestRecalculateWritesAuthoritativeCumulative(t *testing.T) {
	store := newFakeStore()
	store.rules = []GradeScoreRule{
		{Grade: "S", YearFrom: 2021, YearTo: 2025, Points: 6},
		{Grade: "A", YearFrom: 2021, YearTo: 2025, Points: 4},
		{Grade: "B", YearFrom: 2021, YearTo: 2025, Points: 3},
	}
	store.thresholds = []LevelThreshold{{Level: 3, Year: 2021, RequiredPoints: 12, RequiredCredits: 3}}
	store.employees["e1"] = Employee{
		ID: "e1", Level: 3, YearsOfService: 3,
		HireDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Active:   true,
	}
	store.grades["e1"] = map[int]string{2023: "A", 2024: "B", 2025: "S"}
	store.merit["e1"] = 1
	store.rawScores[MetricCredit]["e1"] = map[int]float64{2023: 1, 2024: 2}

	svc := testService(store)
	require.NoError(t, svc.Recalculate(context.Background(), "e1"))

	point := latest(store.points["e1"])
	assert.Equal(t, 2025, point.Year)
	assert.Equal(t, 14.0, point.Cumulative) // 4+3+6 + merit 1
	assert.True(t, point.Met)
	assert.Equal(t, 1.0, point.Merit)

	credit := latest(store.credits["e1"])
	assert.Equal(t, 3.0, credit.Cumulative)
	assert.True(t, credit.Met)
}

func TestRecalculateIdempotent(t *testing.T) {
	store := newFakeStore()
	store.employees["e1"] = Employee{
		ID: "e1", Level: 2, YearsOfService: 2,
		HireDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Active:   true,
	}
	store.grades["e1"] = map[int]string{2024: "A", 2025: "A"}

	svc := testService(store)
	require.NoError(t, svc.Recalculate(context.Background(), "e1"))
	first := append([]ScoreRecord(nil), store.points["e1"]...)

	require.NoError(t, svc.Recalculate(context.Background(), "e1"))
	assert.Equal(t, first, store.points["e1"])
}

func TestRecalculateMissingEmployee(t *testing.T) {
	svc := testService(newFakeStore())
	assert.ErrorIs(t, svc.Recalculate(context.Background(), "ghost"), ErrEmployeeNotFound)
}

func TestRecalculateAllChunksAndSkipsFailures(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"e1", "e2", "e3"} {
		store.employees[id] = Employee{
			ID: id, Level: 1, YearsOfService: 1,
			HireDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			Active:   true,
		}
	}

	svc := testService(store)
	summary, err := svc.RecalculateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Employees)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 3, store.replaces)
}

func TestDistributeTotalPersistsAndRecalculates(t *testing.T) {
	store := newFakeStore()
	store.employees["e1"] = Employee{
		ID: "e1", Level: 2, YearsOfService: 5,
		HireDate: time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC),
		Active:   true,
	}

	svc := testService(store)
	shares, err := svc.DistributeTotal(context.Background(), "e1", MetricCredit, 10, []int{2023, 2021, 2022})
	require.NoError(t, err)

	// Years are sorted before distribution: the remainder lands on 2023.
	assert.Equal(t, 3.3, shares[2021])
	assert.Equal(t, 3.3, shares[2022])
	assert.Equal(t, 3.4, shares[2023])

	credit := latest(store.credits["e1"])
	assert.InDelta(t, 10.0, credit.Cumulative, 1e-9)
}

func TestDistributeTotalValidation(t *testing.T) {
	svc := testService(newFakeStore())

	_, err := svc.DistributeTotal(context.Background(), "e1", MetricCredit, 10, nil)
	assert.ErrorIs(t, err, ErrNoActiveYears)

	_, err = svc.DistributeTotal(context.Background(), "e1", Metric("bogus"), 10, []int{2021})
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestImportScoreRowsDistributesLegacyTotals(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	credit := 9.0
	imported, err := svc.ImportScoreRows(context.Background(), []ImportRow{{
		EmployeeID:     "e9",
		Name:           "Kim",
		Department:     "sales",
		Level:          2,
		HireDate:       time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		YearsOfService: 4,
		Grades:         map[int]string{2023: "A", 2024: "B"},
		CreditScore:    &credit,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	assert.Equal(t, map[int]string{2023: "A", 2024: "B"}, store.grades["e9"])
	assert.Equal(t, 4.5, store.rawScores[MetricCredit]["e9"][2023])
	assert.Equal(t, 4.5, store.rawScores[MetricCredit]["e9"][2024])
}
