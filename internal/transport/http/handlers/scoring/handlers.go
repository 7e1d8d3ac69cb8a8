package scoringhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"levelup/internal/domain/audit"
	"levelup/internal/domain/identity"
	"levelup/internal/domain/scoring"
	"levelup/internal/platform/jobs"
	"levelup/internal/platform/metrics"
	"levelup/internal/transport/http/api"
	"levelup/internal/transport/http/middleware"
	"levelup/internal/transport/http/shared"
)

type Handler struct {
	Scoring *scoring.Service
	Jobs    *jobs.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(scoringSvc *scoring.Service, jobsSvc *jobs.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Scoring: scoringSvc, Jobs: jobsSvc, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(identity.PermRosterRead)).Get("/levelup/rules", h.handleListRules)
	r.With(middleware.RequirePermission(identity.PermConfigWrite)).Post("/levelup/rules", h.handleCreateRule)
	r.With(middleware.RequirePermission(identity.PermRosterRead)).Get("/levelup/thresholds", h.handleListThresholds)
	r.With(middleware.RequirePermission(identity.PermConfigWrite)).Post("/levelup/thresholds", h.handleCreateThreshold)
	r.With(middleware.RequirePermission(identity.PermScoresImport)).Post("/levelup/scores/import", h.handleImport)
	r.With(middleware.RequirePermission(identity.PermScoresDistribute)).Post("/levelup/scores/distribute", h.handleDistribute)
	r.With(middleware.RequirePermission(identity.PermRecalculate)).Post("/levelup/recalculate", h.handleRecalculate)
	r.With(middleware.RequirePermission(identity.PermJobsRead)).Get("/levelup/jobs/{jobID}", h.handleJobStatus)
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Scoring.ListRules(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rules_failed", "failed to list grade rules", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rules, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule scoring.GradeScoreRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if rule.Grade == "" || rule.YearFrom == 0 || rule.YearTo < rule.YearFrom {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "grade and a valid year span are required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Scoring.CreateRule(r.Context(), rule)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_create_failed", "failed to create grade rule", middleware.GetRequestID(r.Context()))
		return
	}
	rule.ID = id
	api.Created(w, rule, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListThresholds(w http.ResponseWriter, r *http.Request) {
	thresholds, err := h.Scoring.ListThresholds(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "thresholds_failed", "failed to list thresholds", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, thresholds, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateThreshold(w http.ResponseWriter, r *http.Request) {
	var threshold scoring.LevelThreshold
	if err := json.NewDecoder(r.Body).Decode(&threshold); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if threshold.Level <= 0 || threshold.Year == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "level and year are required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Scoring.CreateThreshold(r.Context(), threshold)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "threshold_create_failed", "failed to create threshold", middleware.GetRequestID(r.Context()))
		return
	}
	threshold.ID = id
	api.Created(w, threshold, middleware.GetRequestID(r.Context()))
}

type importRowPayload struct {
	EmployeeID     string         `json:"employeeId"`
	Name           string         `json:"name"`
	Department     string         `json:"department"`
	Team           string         `json:"team"`
	Level          int            `json:"level"`
	HireDate       string         `json:"hireDate"`
	YearsOfService int            `json:"yearsOfService"`
	Grades         map[int]string `json:"performanceGrades"`
	Merit          float64        `json:"merit"`
	Penalty        float64        `json:"penalty"`
	PointScore     *float64       `json:"pointScore"`
	CreditScore    *float64       `json:"creditScore"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Rows []importRowPayload `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if len(payload.Rows) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "rows are required", middleware.GetRequestID(r.Context()))
		return
	}

	rows := make([]scoring.ImportRow, 0, len(payload.Rows))
	for _, in := range payload.Rows {
		if in.EmployeeID == "" {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee id required on every row", middleware.GetRequestID(r.Context()))
			return
		}
		hireDate, err := shared.ParseDate(in.HireDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid hire date", middleware.GetRequestID(r.Context()))
			return
		}
		rows = append(rows, scoring.ImportRow{
			EmployeeID:     in.EmployeeID,
			Name:           in.Name,
			Department:     in.Department,
			Team:           in.Team,
			Level:          in.Level,
			HireDate:       hireDate,
			YearsOfService: in.YearsOfService,
			Grades:         in.Grades,
			Merit:          in.Merit,
			Penalty:        in.Penalty,
			PointScore:     in.PointScore,
			CreditScore:    in.CreditScore,
		})
	}

	imported, err := h.Scoring.ImportScoreRows(r.Context(), rows)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "import_failed", "score import failed", middleware.GetRequestID(r.Context()))
		return
	}

	// Cumulative totals are rebuilt in the background; reads tolerate the
	// staleness until the job completes.
	jobID, err := h.Jobs.Enqueue(r.Context(), jobs.JobRecalcAll, func(ctx context.Context) (any, error) {
		h.Metrics.RecordRecalc()
		return h.Scoring.RecalculateAll(ctx)
	})
	if err != nil {
		slog.Warn("recalc enqueue failed", "err", err)
	}

	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionScoresImport, "scores", "", middleware.GetRequestID(r.Context()), map[string]any{
		"imported": imported, "jobId": jobID,
	}); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionScoresImport, "err", err)
	}

	api.Success(w, map[string]any{"imported": imported, "jobId": jobID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDistribute(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeID  string  `json:"employeeId"`
		Metric      string  `json:"metric"`
		Total       float64 `json:"total"`
		ActiveYears []int   `json:"activeYears"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	shares, err := h.Scoring.DistributeTotal(r.Context(), payload.EmployeeID, scoring.Metric(payload.Metric), payload.Total, payload.ActiveYears)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrEmployeeNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, scoring.ErrNoActiveYears), errors.Is(err, scoring.ErrUnknownMetric):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "distribute_failed", "distribution failed", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionScoresDistribute, "employee", payload.EmployeeID, middleware.GetRequestID(r.Context()), map[string]any{
		"metric": payload.Metric, "total": payload.Total, "shares": shares,
	}); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionScoresDistribute, "err", err)
	}

	api.Success(w, map[string]any{"shares": shares}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID string `json:"employeeId"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	var jobID string
	var err error
	if payload.EmployeeID != "" {
		employeeID := payload.EmployeeID
		jobID, err = h.Jobs.Enqueue(r.Context(), jobs.JobRecalcEmployee, func(ctx context.Context) (any, error) {
			h.Metrics.RecordRecalc()
			return map[string]any{"employeeId": employeeID}, h.Scoring.Recalculate(ctx, employeeID)
		})
	} else {
		jobID, err = h.Jobs.Enqueue(r.Context(), jobs.JobRecalcAll, func(ctx context.Context) (any, error) {
			h.Metrics.RecordRecalc()
			return h.Scoring.RecalculateAll(ctx)
		})
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "recalc_failed", "failed to queue recalculation", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{"jobId": jobID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	run, err := h.Jobs.Status(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, jobs.ErrRunNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "job run not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "job_status_failed", "failed to load job status", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}
