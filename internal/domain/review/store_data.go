package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"levelup/internal/domain/identity"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ReviewContext(ctx context.Context, reviewID string) (ReviewContext, error) {
	var rc ReviewContext
	err := s.pool.QueryRow(ctx, `
		SELECT r.id, r.candidate_id, c.employee_id, e.department, c.year
		FROM reviews r
		JOIN candidates c ON c.id = r.candidate_id
		JOIN employees e ON e.id = c.employee_id
		WHERE r.id = $1`, reviewID).
		Scan(&rc.ReviewID, &rc.CandidateID, &rc.EmployeeID, &rc.Department, &rc.Year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReviewContext{}, ErrReviewNotFound
		}
		return ReviewContext{}, fmt.Errorf("load review context: %w", err)
	}
	return rc, nil
}

func (s *Store) ReviewerIdentity(ctx context.Context, userID string) (identity.UserContext, error) {
	var uc identity.UserContext
	err := s.pool.QueryRow(ctx,
		`SELECT id, role, department FROM users WHERE id = $1`, userID).
		Scan(&uc.UserID, &uc.Role, &uc.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.UserContext{}, ErrReviewerNotFound
		}
		return identity.UserContext{}, fmt.Errorf("load reviewer: %w", err)
	}
	return uc, nil
}

// SaveOpinion runs the opinion upsert and the consensus resolution in one
// transaction. The review row is locked first so that two concurrent savers
// serialize on the precedence check.
func (s *Store) SaveOpinion(ctx context.Context, opinion Opinion) (SaveOutcome, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return SaveOutcome{}, fmt.Errorf("begin save opinion: %w", err)
	}
	defer tx.Rollback(ctx)

	var current Recommendation
	err = tx.QueryRow(ctx,
		`SELECT recommendation FROM reviews WHERE id = $1 FOR UPDATE`,
		opinion.ReviewID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SaveOutcome{}, ErrReviewNotFound
		}
		return SaveOutcome{}, fmt.Errorf("lock review: %w", err)
	}

	// The precedence check must exclude the row being written, otherwise a
	// re-save by an other department head would see its own prior opinion.
	var ownHeadDecided bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM opinions
			WHERE review_id = $1
			  AND reviewer_role = $2
			  AND reviewer_id <> $3
			  AND recommendation <> ''
		)`, opinion.ReviewID, identity.ReviewerOwnDepartmentHead, opinion.ReviewerID).
		Scan(&ownHeadDecided)
	if err != nil {
		return SaveOutcome{}, fmt.Errorf("check own-head precedence: %w", err)
	}
	if opinion.ReviewerRole == identity.ReviewerOwnDepartmentHead {
		ownHeadDecided = false
	}

	var modifiedBy any
	var modifiedAt any
	if opinion.ModifiedBy != "" {
		modifiedBy = opinion.ModifiedBy
		modifiedAt = time.Now().UTC()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO opinions (review_id, reviewer_id, reviewer_role, opinion_text, recommendation, saved_at, modified_by, modified_at)
		VALUES ($1, $2, $3, $4, $5, now(), $6, $7)
		ON CONFLICT (review_id, reviewer_id) DO UPDATE SET
			reviewer_role = EXCLUDED.reviewer_role,
			opinion_text = EXCLUDED.opinion_text,
			recommendation = EXCLUDED.recommendation,
			saved_at = now(),
			modified_by = EXCLUDED.modified_by,
			modified_at = EXCLUDED.modified_at`,
		opinion.ReviewID, opinion.ReviewerID, opinion.ReviewerRole,
		opinion.Text, opinion.Recommendation, modifiedBy, modifiedAt)
	if err != nil {
		return SaveOutcome{}, fmt.Errorf("upsert opinion: %w", err)
	}

	resolved, changed := Resolve(current, opinion.ReviewerRole, opinion.Recommendation, ownHeadDecided)
	if changed {
		if _, err := tx.Exec(ctx,
			`UPDATE reviews SET recommendation = $1 WHERE id = $2`,
			resolved, opinion.ReviewID); err != nil {
			return SaveOutcome{}, fmt.Errorf("update recommendation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return SaveOutcome{}, fmt.Errorf("commit save opinion: %w", err)
	}
	return SaveOutcome{Recommendation: resolved, ReviewUpdated: changed}, nil
}

func (s *Store) ListOpinions(ctx context.Context, reviewID string) ([]Opinion, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, review_id, reviewer_id, reviewer_role, opinion_text, recommendation,
		       saved_at, COALESCE(modified_by, ''), modified_at
		FROM opinions
		WHERE review_id = $1
		ORDER BY saved_at`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list opinions: %w", err)
	}
	defer rows.Close()

	opinions := []Opinion{}
	for rows.Next() {
		var o Opinion
		if err := rows.Scan(&o.ID, &o.ReviewID, &o.ReviewerID, &o.ReviewerRole,
			&o.Text, &o.Recommendation, &o.SavedAt, &o.ModifiedBy, &o.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan opinion: %w", err)
		}
		opinions = append(opinions, o)
	}
	return opinions, rows.Err()
}

func (s *Store) UpdateCompetency(ctx context.Context, reviewID string, score float64, eval string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reviews SET competency_score = $1, competency_eval = $2 WHERE id = $3`,
		score, eval, reviewID)
	if err != nil {
		return fmt.Errorf("update competency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *Store) CreateSubmission(ctx context.Context, department string, year int, submittedBy string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO submissions (department, year, submitted_by, submitted_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (department, year) DO NOTHING`,
		department, year, submittedBy)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *Store) DeleteSubmission(ctx context.Context, department string, year int) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM submissions WHERE department = $1 AND year = $2`,
		department, year)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (s *Store) IsSubmitted(ctx context.Context, department string, year int) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE department = $1 AND year = $2)`,
		department, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check submission: %w", err)
	}
	return exists, nil
}

func (s *Store) ListSubmissions(ctx context.Context, year int) ([]Submission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT department, year, submitted_by, submitted_at
		FROM submissions
		WHERE year = $1
		ORDER BY department`, year)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	submissions := []Submission{}
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.Department, &sub.Year, &sub.SubmittedBy, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}

func (s *Store) CandidateContext(ctx context.Context, candidateID string) (string, int, error) {
	var department string
	var year int
	err := s.pool.QueryRow(ctx, `
		SELECT e.department, c.year
		FROM candidates c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.id = $1`, candidateID).Scan(&department, &year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, ErrCandidateNotFound
		}
		return "", 0, fmt.Errorf("load candidate context: %w", err)
	}
	return department, year, nil
}

func (s *Store) SetConfirmation(ctx context.Context, candidateID string, year int, status ConfirmationStatus) (Confirmation, error) {
	var c Confirmation
	err := s.pool.QueryRow(ctx, `
		INSERT INTO confirmations (candidate_id, year, status, confirmed_at)
		VALUES ($1, $2, $3, CASE WHEN $3 = 'confirmed' THEN now() END)
		ON CONFLICT (candidate_id) DO UPDATE SET
			status = EXCLUDED.status,
			confirmed_at = CASE WHEN EXCLUDED.status = 'confirmed' THEN now() END
		RETURNING candidate_id, year, status, confirmed_at`,
		candidateID, year, status).
		Scan(&c.CandidateID, &c.Year, &c.Status, &c.ConfirmedAt)
	if err != nil {
		return Confirmation{}, fmt.Errorf("set confirmation: %w", err)
	}
	return c, nil
}

func (s *Store) ConfirmationRoster(ctx context.Context, year int, departments []string) ([]ConfirmationRow, error) {
	query := `
		SELECT c.id, c.employee_id, e.name, e.department, e.level,
		       COALESCE(r.recommendation, ''),
		       COALESCE(f.status, 'pending'), f.confirmed_at
		FROM candidates c
		JOIN employees e ON e.id = c.employee_id
		LEFT JOIN reviews r ON r.candidate_id = c.id
		LEFT JOIN confirmations f ON f.candidate_id = c.id
		WHERE c.year = $1`
	args := []any{year}
	if departments != nil {
		query += ` AND e.department = ANY($2)`
		args = append(args, departments)
	}
	query += ` ORDER BY e.department, e.name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("confirmation roster: %w", err)
	}
	defer rows.Close()

	result := []ConfirmationRow{}
	for rows.Next() {
		var row ConfirmationRow
		if err := rows.Scan(&row.CandidateID, &row.EmployeeID, &row.Name, &row.Department,
			&row.Level, &row.Recommendation, &row.Status, &row.ConfirmedAt); err != nil {
			return nil, fmt.Errorf("scan confirmation row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
