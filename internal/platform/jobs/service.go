package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	JobRecalcAll      = "recalc_all"
	JobRecalcEmployee = "recalc_employee"
	JobAutoSelect     = "auto_select"
)

var ErrRunNotFound = errors.New("job run not found")

type Service struct {
	DB    *pgxpool.Pool
	queue chan job
}

type job struct {
	RunID string
	Type  string
	Run   func(context.Context) (any, error)
}

// Run is one row of the job_runs ledger.
type Run struct {
	ID          string          `json:"id"`
	JobType     string          `json:"jobType"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	StartedAt   *string         `json:"startedAt,omitempty"`
	CompletedAt *string         `json:"completedAt,omitempty"`
}

func New(db *pgxpool.Pool) *Service {
	return &Service{
		DB:    db,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Enqueue records a queued run and hands it to the worker. The run id is
// returned immediately so callers can poll status.
func (s *Service) Enqueue(ctx context.Context, jobType string, run func(context.Context) (any, error)) (string, error) {
	var runID string
	err := s.DB.QueryRow(ctx, `
		INSERT INTO job_runs (job_type, status)
		VALUES ($1, 'queued')
		RETURNING id`, jobType).Scan(&runID)
	if err != nil {
		return "", fmt.Errorf("insert job run: %w", err)
	}

	select {
	case s.queue <- job{RunID: runID, Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "runId", runID)
		s.finish(ctx, runID, "failed", map[string]any{"error": "queue full"})
	}
	return runID, nil
}

// RunNow executes the job inline, still recorded in the ledger.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	var runID string
	if err := s.DB.QueryRow(ctx, `
		INSERT INTO job_runs (job_type, status)
		VALUES ($1, 'queued')
		RETURNING id`, jobType).Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}
	return s.runJob(ctx, job{RunID: runID, Type: jobType, Run: run})
}

func (s *Service) Status(ctx context.Context, runID string) (Run, error) {
	var r Run
	err := s.DB.QueryRow(ctx, `
		SELECT id, job_type, status, COALESCE(details_json, '{}'),
		       to_char(started_at, 'YYYY-MM-DD"T"HH24:MI:SSZ'),
		       to_char(completed_at, 'YYYY-MM-DD"T"HH24:MI:SSZ')
		FROM job_runs
		WHERE id = $1`, runID).
		Scan(&r.ID, &r.JobType, &r.Status, &r.Details, &r.StartedAt, &r.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("load job run: %w", err)
	}
	return r, nil
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "runId", j.RunID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	if j.RunID != "" {
		if _, err := s.DB.Exec(ctx, `
			UPDATE job_runs SET status = 'running', started_at = now()
			WHERE id = $1`, j.RunID); err != nil {
			slog.Warn("job run update failed", "err", err)
		}
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
		details = map[string]any{"error": err.Error()}
	}
	s.finish(ctx, j.RunID, status, details)
	return details, err
}

func (s *Service) finish(ctx context.Context, runID, status string, details any) {
	if runID == "" {
		return
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if _, err := s.DB.Exec(ctx, `
		UPDATE job_runs
		SET status = $1, details_json = $2, completed_at = now()
		WHERE id = $3`, status, detailsJSON, runID); err != nil {
		slog.Warn("job run update failed", "err", err)
	}
}
