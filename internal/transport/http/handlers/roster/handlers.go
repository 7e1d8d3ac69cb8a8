package rosterhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"levelup/internal/domain/audit"
	"levelup/internal/domain/identity"
	"levelup/internal/domain/roster"
	"levelup/internal/transport/http/api"
	"levelup/internal/transport/http/middleware"
	"levelup/internal/transport/http/shared"
)

type Handler struct {
	Roster      *roster.Service
	Audit       *audit.Service
	DefaultYear int
}

func NewHandler(rosterSvc *roster.Service, auditSvc *audit.Service, defaultYear int) *Handler {
	return &Handler{Roster: rosterSvc, Audit: auditSvc, DefaultYear: defaultYear}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/levelup/roster", func(r chi.Router) {
		r.With(middleware.RequirePermission(identity.PermRosterRead)).Get("/", h.handleRoster)
		r.With(middleware.RequirePermission(identity.PermRosterSelect)).Post("/auto-select", h.handleAutoSelect)
		r.With(middleware.RequirePermission(identity.PermRosterSelect)).Put("/{employeeID}/review-target", h.handleReviewTarget)
	})
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	mode, ok := roster.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_mode", "unknown eligibility mode", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 500)
	rows, meta, err := h.Roster.Roster(r.Context(), roster.RosterQuery{
		Year:       shared.ParseYear(r, h.DefaultYear),
		Mode:       mode,
		Department: r.URL.Query().Get("department"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "roster_failed", "failed to load roster", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{"rows": rows, "meta": meta}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAutoSelect(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Year int    `json:"year"`
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Year == 0 {
		payload.Year = h.DefaultYear
	}
	mode, ok := roster.ParseMode(payload.Mode)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_mode", "unknown eligibility mode", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Roster.AutoSelect(r.Context(), payload.Year, mode)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "selection_failed", "candidate selection failed", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionCandidateSelect, "roster", "", middleware.GetRequestID(r.Context()), map[string]any{
		"year": payload.Year, "mode": mode, "added": result.Added, "total": result.Total,
	}); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionCandidateSelect, "err", err)
	}

	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReviewTarget(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var payload struct {
		Year   int  `json:"year"`
		Target bool `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Year == 0 {
		payload.Year = h.DefaultYear
	}

	candidate, err := h.Roster.MarkReviewTarget(r.Context(), employeeID, payload.Year, payload.Target)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mark_failed", "failed to update review target", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, candidate, middleware.GetRequestID(r.Context()))
}
