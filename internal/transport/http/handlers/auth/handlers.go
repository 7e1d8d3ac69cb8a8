package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"levelup/internal/domain/identity"
	"levelup/internal/transport/http/api"
	"levelup/internal/transport/http/middleware"
)

const tokenTTL = 12 * time.Hour

type Handler struct {
	DB     *pgxpool.Pool
	Secret string
}

func NewHandler(db *pgxpool.Pool, secret string) *Handler {
	return &Handler{DB: db, Secret: secret}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	var id, role, department, hash string
	err := h.DB.QueryRow(r.Context(), `
		SELECT id, role, department, password_hash
		FROM users
		WHERE email = $1 AND active`,
		strings.ToLower(strings.TrimSpace(payload.Email))).
		Scan(&id, &role, &department, &hash)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	if err := identity.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := identity.GenerateToken(h.Secret, identity.Claims{
		UserID:     id,
		Role:       role,
		Department: department,
	}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token":      token,
		"userId":     id,
		"role":       role,
		"department": department,
	}, middleware.GetRequestID(r.Context()))
}
