package scoring

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// point_scores and credit_scores are structurally identical; the metric
// picks the table.
func scoreTable(metric Metric) string {
	if metric == MetricCredit {
		return "credit_scores"
	}
	return "point_scores"
}

func (s *Store) ListRules(ctx context.Context) ([]GradeScoreRule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, grade, year_from, year_to, points
    FROM grade_score_rules
    ORDER BY grade, year_from
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []GradeScoreRule
	for rows.Next() {
		var rule GradeScoreRule
		if err := rows.Scan(&rule.ID, &rule.Grade, &rule.YearFrom, &rule.YearTo, &rule.Points); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (s *Store) CreateRule(ctx context.Context, rule GradeScoreRule) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO grade_score_rules (grade, year_from, year_to, points)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, rule.Grade, rule.YearFrom, rule.YearTo, rule.Points).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListThresholds(ctx context.Context) ([]LevelThreshold, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, level, year, required_points, required_credits, min_tenure_years
    FROM level_thresholds
    ORDER BY level, year
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var thresholds []LevelThreshold
	for rows.Next() {
		var th LevelThreshold
		if err := rows.Scan(&th.ID, &th.Level, &th.Year, &th.RequiredPoints, &th.RequiredCredits, &th.MinTenureYears); err != nil {
			return nil, err
		}
		thresholds = append(thresholds, th)
	}
	return thresholds, rows.Err()
}

func (s *Store) CreateThreshold(ctx context.Context, threshold LevelThreshold) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO level_thresholds (level, year, required_points, required_credits, min_tenure_years)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (level, year) DO UPDATE
    SET required_points = EXCLUDED.required_points,
        required_credits = EXCLUDED.required_credits,
        min_tenure_years = EXCLUDED.min_tenure_years
    RETURNING id
  `, threshold.Level, threshold.Year, threshold.RequiredPoints, threshold.RequiredCredits, threshold.MinTenureYears).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ActiveEmployeeIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM employees WHERE active ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, department, team, level, hire_date, years_of_service, active
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&emp.ID, &emp.Name, &emp.Department, &emp.Team, &emp.Level, &emp.HireDate, &emp.YearsOfService, &emp.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) GradesFor(ctx context.Context, employeeID string) (map[int]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT year, grade
    FROM performance_grades
    WHERE employee_id = $1
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grades := map[int]string{}
	for rows.Next() {
		var year int
		var grade string
		if err := rows.Scan(&year, &grade); err != nil {
			return nil, err
		}
		grades[year] = grade
	}
	return grades, rows.Err()
}

func (s *Store) Adjustments(ctx context.Context, employeeID string) (float64, float64, error) {
	var merit, penalty float64
	err := s.DB.QueryRow(ctx, `
    SELECT merit, penalty FROM employees WHERE id = $1
  `, employeeID).Scan(&merit, &penalty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, ErrEmployeeNotFound
	}
	return merit, penalty, err
}

func (s *Store) SetAdjustments(ctx context.Context, employeeID string, merit, penalty float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees SET merit = $1, penalty = $2 WHERE id = $3
  `, merit, penalty, employeeID)
	return err
}

func (s *Store) YearScores(ctx context.Context, employeeID string, metric Metric) (map[int]float64, error) {
	rows, err := s.DB.Query(ctx, "SELECT year, score FROM "+scoreTable(metric)+" WHERE employee_id = $1", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := map[int]float64{}
	for rows.Next() {
		var year int
		var score float64
		if err := rows.Scan(&year, &score); err != nil {
			return nil, err
		}
		scores[year] = score
	}
	return scores, rows.Err()
}

func (s *Store) ReplaceScores(ctx context.Context, employeeID string, points, credits []ScoreRecord) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := replaceScoresTx(ctx, tx, employeeID, MetricPoint, points); err != nil {
		return err
	}
	if err := replaceScoresTx(ctx, tx, employeeID, MetricCredit, credits); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceScoresTx(ctx context.Context, tx pgx.Tx, employeeID string, metric Metric, records []ScoreRecord) error {
	table := scoreTable(metric)
	if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE employee_id = $1", employeeID); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := tx.Exec(ctx, `
      INSERT INTO `+table+` (employee_id, year, score, cumulative, met, merit, penalty)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, employeeID, rec.Year, rec.Score, rec.Cumulative, rec.Met, rec.Merit, rec.Penalty); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SetYearScores(ctx context.Context, employeeID string, metric Metric, scores map[int]float64) error {
	table := scoreTable(metric)
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for year, score := range scores {
		if _, err := tx.Exec(ctx, `
      INSERT INTO `+table+` (employee_id, year, score, cumulative, met)
      VALUES ($1,$2,$3,0,false)
      ON CONFLICT (employee_id, year) DO UPDATE SET score = EXCLUDED.score
    `, employeeID, year, score); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) UpsertEmployee(ctx context.Context, row ImportRow) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, name, department, team, level, hire_date, years_of_service, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,true)
    ON CONFLICT (id) DO UPDATE
    SET name = EXCLUDED.name,
        department = EXCLUDED.department,
        team = EXCLUDED.team,
        level = EXCLUDED.level,
        hire_date = EXCLUDED.hire_date,
        years_of_service = EXCLUDED.years_of_service
  `, row.EmployeeID, row.Name, row.Department, row.Team, row.Level, row.HireDate, row.YearsOfService)
	return err
}

func (s *Store) UpsertGrade(ctx context.Context, employeeID string, year int, grade string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO performance_grades (employee_id, year, grade)
    VALUES ($1,$2,$3)
    ON CONFLICT (employee_id, year) DO UPDATE SET grade = EXCLUDED.grade
  `, employeeID, year, grade)
	return err
}
