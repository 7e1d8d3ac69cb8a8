package roster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) EligibilityRows(ctx context.Context, year int) ([]EligibilityRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.level, e.years_of_service,
           COALESCE(p.met, false), COALESCE(c.met, false),
           COALESCE(p.cumulative, 0), COALESCE(c.cumulative, 0),
           cand.id IS NOT NULL,
           COALESCE(cand.source, '') = 'manual',
           COALESCE(cand.is_review_target, false)
    FROM employees e
    LEFT JOIN LATERAL (
      SELECT met, cumulative FROM point_scores WHERE employee_id = e.id ORDER BY year DESC LIMIT 1
    ) p ON true
    LEFT JOIN LATERAL (
      SELECT met, cumulative FROM credit_scores WHERE employee_id = e.id ORDER BY year DESC LIMIT 1
    ) c ON true
    LEFT JOIN candidates cand ON cand.employee_id = e.id AND cand.year = $1
    WHERE e.active
    ORDER BY e.id
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EligibilityRow
	for rows.Next() {
		var row EligibilityRow
		if err := rows.Scan(&row.EmployeeID, &row.Level, &row.YearsOfService,
			&row.PointMet, &row.CreditMet, &row.PointCumulative, &row.CreditCumulative,
			&row.HasCandidate, &row.ManualSource, &row.IsReviewTarget); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) UpsertCandidate(ctx context.Context, candidate Candidate) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// xmax = 0 distinguishes a fresh insert from a conflict-update. The
	// update path refreshes met flags only: source and is_review_target are
	// manual curation and survive re-selection.
	var id string
	var inserted bool
	if err := tx.QueryRow(ctx, `
    INSERT INTO candidates (employee_id, year, point_met, credit_met, is_review_target, source)
    VALUES ($1,$2,$3,$4,false,$5)
    ON CONFLICT (employee_id, year) DO UPDATE
    SET point_met = EXCLUDED.point_met,
        credit_met = EXCLUDED.credit_met
    RETURNING id, (xmax = 0)
  `, candidate.EmployeeID, candidate.Year, candidate.PointMet, candidate.CreditMet, candidate.Source).Scan(&id, &inserted); err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO reviews (candidate_id) VALUES ($1) ON CONFLICT (candidate_id) DO NOTHING
  `, id); err != nil {
		return false, err
	}

	return inserted, tx.Commit(ctx)
}

func (s *Store) MarkReviewTarget(ctx context.Context, employeeID string, year int, target bool) (Candidate, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Candidate{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var out Candidate
	if err := tx.QueryRow(ctx, `
    INSERT INTO candidates (employee_id, year, point_met, credit_met, is_review_target, source)
    VALUES ($1,$2,false,false,$3,'manual')
    ON CONFLICT (employee_id, year) DO UPDATE
    SET is_review_target = EXCLUDED.is_review_target,
        source = 'manual'
    RETURNING id, employee_id, year, point_met, credit_met, is_review_target, source
  `, employeeID, year, target).Scan(&out.ID, &out.EmployeeID, &out.Year, &out.PointMet, &out.CreditMet, &out.IsReviewTarget, &out.Source); err != nil {
		return Candidate{}, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO reviews (candidate_id) VALUES ($1) ON CONFLICT (candidate_id) DO NOTHING
  `, out.ID); err != nil {
		return Candidate{}, err
	}

	return out, tx.Commit(ctx)
}

func (s *Store) RosterRows(ctx context.Context, q RosterQuery) ([]RosterRow, int, error) {
	where := "WHERE e.active"
	args := []any{q.Year}
	if q.Department != "" {
		where += fmt.Sprintf(" AND e.department = $%d", len(args)+1)
		args = append(args, q.Department)
	}
	switch q.Mode {
	case ModePoint:
		where += " AND COALESCE(p.met, false)"
	case ModeCredit:
		where += " AND COALESCE(c.met, false)"
	case ModeBoth:
		where += " AND COALESCE(p.met, false) AND COALESCE(c.met, false)"
	default:
		where += " AND (COALESCE(p.met, false) OR COALESCE(c.met, false) OR COALESCE(cand.source, '') = 'manual')"
	}

	base := `
    FROM employees e
    LEFT JOIN LATERAL (
      SELECT met, cumulative FROM point_scores WHERE employee_id = e.id ORDER BY year DESC LIMIT 1
    ) p ON true
    LEFT JOIN LATERAL (
      SELECT met, cumulative FROM credit_scores WHERE employee_id = e.id ORDER BY year DESC LIMIT 1
    ) c ON true
    LEFT JOIN candidates cand ON cand.employee_id = e.id AND cand.year = $1
    ` + where

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
    SELECT e.id, e.name, e.department, e.team, e.level, e.hire_date, e.years_of_service, e.active,
           COALESCE(p.cumulative, 0), COALESCE(c.cumulative, 0),
           COALESCE(p.met, false), COALESCE(c.met, false),
           COALESCE(cand.is_review_target, false), COALESCE(cand.source, '')
    ` + base + fmt.Sprintf(" ORDER BY e.department, e.name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	// A non-positive limit means the whole roster (exports).
	var limit any
	if q.Limit > 0 {
		limit = q.Limit
	}
	args = append(args, limit, q.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []RosterRow
	for rows.Next() {
		var row RosterRow
		if err := rows.Scan(&row.Employee.ID, &row.Employee.Name, &row.Employee.Department,
			&row.Employee.Team, &row.Employee.Level, &row.Employee.HireDate,
			&row.Employee.YearsOfService, &row.Employee.Active,
			&row.PointCumulative, &row.CreditCumulative,
			&row.PointMet, &row.CreditMet, &row.IsReviewTarget, &row.Source); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

func (s *Store) GradesByEmployee(ctx context.Context, employeeIDs []string) (map[string]map[int]string, error) {
	grades := map[string]map[int]string{}
	if len(employeeIDs) == 0 {
		return grades, nil
	}

	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, year, grade
    FROM performance_grades
    WHERE employee_id = ANY($1)
  `, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID, grade string
		var year int
		if err := rows.Scan(&employeeID, &year, &grade); err != nil {
			return nil, err
		}
		if grades[employeeID] == nil {
			grades[employeeID] = map[int]string{}
		}
		grades[employeeID][year] = grade
	}
	return grades, rows.Err()
}
