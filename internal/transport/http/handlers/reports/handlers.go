package reportshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"levelup/internal/domain/audit"
	"levelup/internal/domain/identity"
	"levelup/internal/domain/reports"
	"levelup/internal/domain/roster"
	"levelup/internal/transport/http/api"
	"levelup/internal/transport/http/middleware"
	"levelup/internal/transport/http/shared"
)

type Handler struct {
	Reports     *reports.Service
	Audit       *audit.Service
	DefaultYear int
}

func NewHandler(reportsSvc *reports.Service, auditSvc *audit.Service, defaultYear int) *Handler {
	return &Handler{Reports: reportsSvc, Audit: auditSvc, DefaultYear: defaultYear}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(identity.PermReportsExport)).Get("/levelup/reports/roster.pdf", h.handleRosterPDF)
	r.With(middleware.RequirePermission(identity.PermJobsRead)).Get("/levelup/audit", h.handleAuditList)
}

func (h *Handler) handleRosterPDF(w http.ResponseWriter, r *http.Request) {
	mode, ok := roster.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_mode", "unknown eligibility mode", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.pdf"`)
	if err := h.Reports.WriteRosterPDF(r.Context(), w, roster.RosterQuery{
		Year:       shared.ParseYear(r, h.DefaultYear),
		Mode:       mode,
		Department: r.URL.Query().Get("department"),
	}); err != nil {
		// Headers are already out; log and let the truncated body signal failure.
		slog.Warn("roster pdf export failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		return
	}
}

func (h *Handler) handleAuditList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorUser:  r.URL.Query().Get("actor"),
	}

	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to count audit events", middleware.GetRequestID(r.Context()))
		return
	}
	events, err := h.Audit.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{"events": events, "total": total}, middleware.GetRequestID(r.Context()))
}
