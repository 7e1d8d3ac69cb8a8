package reviewhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"levelup/internal/domain/audit"
	"levelup/internal/domain/identity"
	"levelup/internal/domain/review"
	"levelup/internal/platform/metrics"
	"levelup/internal/transport/http/api"
	"levelup/internal/transport/http/middleware"
	"levelup/internal/transport/http/shared"
)

type Handler struct {
	Review      *review.Service
	Audit       *audit.Service
	Metrics     *metrics.Collector
	DefaultYear int
}

func NewHandler(reviewSvc *review.Service, auditSvc *audit.Service, collector *metrics.Collector, defaultYear int) *Handler {
	return &Handler{Review: reviewSvc, Audit: auditSvc, Metrics: collector, DefaultYear: defaultYear}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(identity.PermOpinionWrite)).Post("/levelup/reviews/{reviewID}/opinions", h.handleSaveOpinion)
	r.With(middleware.RequirePermission(identity.PermRosterRead)).Get("/levelup/reviews/{reviewID}/opinions", h.handleListOpinions)
	r.With(middleware.RequirePermission(identity.PermOpinionWrite)).Put("/levelup/reviews/{reviewID}/competency", h.handleUpdateCompetency)

	r.With(middleware.RequirePermission(identity.PermSubmit)).Post("/levelup/submissions", h.handleSubmit)
	r.With(middleware.RequirePermission(identity.PermSubmitCancel)).Delete("/levelup/submissions", h.handleCancelSubmission)
	r.With(middleware.RequirePermission(identity.PermRosterRead)).Get("/levelup/submissions", h.handleListSubmissions)

	r.With(middleware.RequirePermission(identity.PermConfirm)).Patch("/levelup/confirmations/{candidateID}", h.handleConfirm)
	r.With(middleware.RequirePermission(identity.PermRosterRead)).Get("/levelup/confirmations", h.handleConfirmationRoster)
}

func (h *Handler) handleSaveOpinion(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "reviewID")

	var payload struct {
		Text                 string `json:"text"`
		Recommendation       *bool  `json:"recommendation"`
		OnBehalfOfReviewerID string `json:"onBehalfOfReviewerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	outcome, err := h.Review.SaveOpinion(r.Context(), user, reviewID, review.OpinionInput{
		Text:                 payload.Text,
		Recommendation:       payload.Recommendation,
		OnBehalfOfReviewerID: payload.OnBehalfOfReviewerID,
	})
	if err != nil {
		h.failReview(w, r, err, "opinion_save_failed", "failed to save opinion")
		return
	}

	h.Metrics.RecordOpinionSave()
	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionOpinionSave, "review", reviewID, middleware.GetRequestID(r.Context()), map[string]any{
		"onBehalfOf":     payload.OnBehalfOfReviewerID,
		"recommendation": outcome.Recommendation,
		"reviewUpdated":  outcome.ReviewUpdated,
	}); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionOpinionSave, "err", err)
	}

	api.Success(w, outcome, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOpinions(w http.ResponseWriter, r *http.Request) {
	opinions, err := h.Review.ListOpinions(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		h.failReview(w, r, err, "opinion_list_failed", "failed to list opinions")
		return
	}
	api.Success(w, opinions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCompetency(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "reviewID")

	var payload struct {
		Score float64 `json:"score"`
		Eval  string  `json:"eval"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Review.UpdateCompetency(r.Context(), user, reviewID, payload.Score, payload.Eval); err != nil {
		h.failReview(w, r, err, "competency_update_failed", "failed to update competency")
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Department string `json:"department"`
		Year       int    `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Department == "" {
		payload.Department = user.Department
	}
	if payload.Year == 0 {
		payload.Year = h.DefaultYear
	}

	if err := h.Review.Submit(r.Context(), user, payload.Department, payload.Year); err != nil {
		h.failReview(w, r, err, "submit_failed", "failed to create submission")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionSubmit, "submission", payload.Department, middleware.GetRequestID(r.Context()), map[string]any{
		"year": payload.Year,
	}); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionSubmit, "err", err)
	}

	api.Created(w, map[string]any{"department": payload.Department, "year": payload.Year}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancelSubmission(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Department string `json:"department"`
		Year       int    `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Department == "" {
		payload.Department = user.Department
	}
	if payload.Year == 0 {
		payload.Year = h.DefaultYear
	}

	if err := h.Review.CancelSubmission(r.Context(), user, payload.Department, payload.Year); err != nil {
		h.failReview(w, r, err, "cancel_failed", "failed to cancel submission")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionSubmitCancel, "submission", payload.Department, middleware.GetRequestID(r.Context()), map[string]any{
		"year": payload.Year,
	}); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionSubmitCancel, "err", err)
	}

	api.Success(w, map[string]any{"cancelled": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.Review.ListSubmissions(r.Context(), shared.ParseYear(r, h.DefaultYear))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "submission_list_failed", "failed to list submissions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, submissions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	candidateID := chi.URLParam(r, "candidateID")

	var payload struct {
		Status   string `json:"status"`
		Override bool   `json:"override"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	status, ok := review.ParseConfirmationStatus(payload.Status)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be pending, confirmed, or deferred", middleware.GetRequestID(r.Context()))
		return
	}

	confirmation, err := h.Review.Confirm(r.Context(), user, candidateID, status, payload.Override)
	if err != nil {
		h.failReview(w, r, err, "confirm_failed", "failed to set confirmation")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionConfirm, "candidate", candidateID, middleware.GetRequestID(r.Context()), map[string]any{
		"status": status, "override": payload.Override,
	}); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionConfirm, "err", err)
	}

	api.Success(w, confirmation, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleConfirmationRoster(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	unfiltered := r.URL.Query().Get("all") == "true"
	if unfiltered && !identity.HasPermission(user.Role, identity.PermRosterReadAll) {
		api.Fail(w, http.StatusForbidden, "forbidden", "unfiltered view requires final approval role", middleware.GetRequestID(r.Context()))
		return
	}

	rows, err := h.Review.ConfirmationRoster(r.Context(), shared.ParseYear(r, h.DefaultYear), unfiltered)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "confirmation_roster_failed", "failed to load confirmation roster", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

// failReview maps domain sentinels onto HTTP statuses.
func (h *Handler) failReview(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, review.ErrCandidateNotFound),
		errors.Is(err, review.ErrReviewerNotFound),
		errors.Is(err, review.ErrSubmissionNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, review.ErrForbidden),
		errors.Is(err, review.ErrNoReviewerStanding):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, review.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", err.Error(), requestID)
	case errors.Is(err, review.ErrSubmissionLocked):
		api.Fail(w, http.StatusConflict, "locked", err.Error(), requestID)
	case errors.Is(err, review.ErrNotSubmitted):
		api.Fail(w, http.StatusConflict, "not_submitted", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
