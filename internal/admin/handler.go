// Package admin exposes the compliance endpoints behind bearer-token auth:
// audit lookup, export, erasure, retention pruning, and aggregate stats.
package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"cookiegate/internal/consentlog"
	"cookiegate/internal/platform/middleware"
	"cookiegate/internal/transport/http/shared"
	"cookiegate/internal/transport/http/shared/json"
	dErrors "cookiegate/pkg/domain-errors"
	"cookiegate/pkg/secrets"
	"cookiegate/pkg/validation"
)

const tokenTTL = time.Hour

// Handler serves the admin API. The publisher supplies the same IP-hash
// pipeline the write path uses, so lookups by raw IP hit the stored rows.
type Handler struct {
	store        consentlog.Store
	publisher    *consentlog.Publisher
	secret       string
	passwordHash string
	logger       *slog.Logger
	now          func() time.Time
}

// New constructs the admin handler. An empty passwordHash disables token
// issuance, which effectively disables the whole admin surface.
func New(store consentlog.Store, publisher *consentlog.Publisher, secret, passwordHash string, logger *slog.Logger) *Handler {
	return &Handler{
		store:        store,
		publisher:    publisher,
		secret:       secret,
		passwordHash: passwordHash,
		logger:       logger,
		now:          time.Now,
	}
}

// Register mounts the admin routes. Everything except token issuance sits
// behind the bearer-JWT middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/token", h.HandleToken)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(h.secret))
		r.Get("/admin/consents", h.HandleLookup)
		r.Get("/admin/consents/export", h.HandleExport)
		r.Delete("/admin/consents", h.HandleErase)
		r.Post("/admin/consents/prune", h.HandlePrune)
		r.Get("/admin/consents/stats", h.HandleStats)
	})
}

// TokenRequest is the body of POST /admin/token.
type TokenRequest struct {
	Password string `json:"password" validate:"required,notblank"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// HandleToken exchanges the admin password for a short-lived bearer JWT.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if h.passwordHash == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin access not configured"))
		return
	}

	var req TokenRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := secrets.Verify(req.Password, h.passwordHash); err != nil {
		h.logger.WarnContext(r.Context(), "admin token request rejected", "remote", middleware.ClientIP(r))
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
		return
	}

	expiresAt := h.now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  h.now().Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(h.secret))
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "sign admin token", err))
		return
	}

	json.WriteJSON(w, http.StatusOK, TokenResponse{Token: signed, ExpiresAt: expiresAt.Unix()})
}

// lookupKey resolves the query selector: a consent id is used as-is, a raw IP
// goes through the same anonymize-then-hash pipeline as the write path.
func (h *Handler) lookup(r *http.Request) ([]consentlog.Entry, error) {
	if consentID := r.URL.Query().Get("consent_id"); consentID != "" {
		return h.store.FindByConsentID(r.Context(), consentID)
	}
	if ip := r.URL.Query().Get("ip"); ip != "" {
		return h.store.FindByIPHash(r.Context(), h.publisher.HashIP(ip))
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, "consent_id or ip query parameter required")
}

// LookupResponse wraps audit lookup results.
type LookupResponse struct {
	Count   int                `json:"count"`
	Entries []consentlog.Entry `json:"entries"`
}

// HandleLookup returns the audit rows for one consent id or one IP.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	entries, err := h.lookup(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, LookupResponse{Count: len(entries), Entries: entries})
}

// HandleExport streams the audit log as CSV or JSON, optionally limited to
// the last N days.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	since := time.Time{}
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		days, err := strconv.Atoi(daysParam)
		if err != nil || days <= 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "days must be a positive integer"))
			return
		}
		since = h.now().AddDate(0, 0, -days)
	}

	entries, err := h.store.ListSince(r.Context(), since, 0)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="consent-log.json"`)
		if err := consentlog.WriteJSON(w, entries); err != nil {
			h.logger.ErrorContext(r.Context(), "export encoding failed", "error", err)
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="consent-log.csv"`)
		if err := consentlog.WriteCSV(w, entries); err != nil {
			h.logger.ErrorContext(r.Context(), "export encoding failed", "error", err)
		}
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "format must be csv or json"))
	}
}

// EraseResponse reports how many rows an erasure or prune removed.
type EraseResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleErase deletes all audit rows for one consent id or one IP. This is
// the GDPR erasure path; it is the only deletion besides retention pruning.
func (h *Handler) HandleErase(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	var err error
	switch {
	case r.URL.Query().Get("consent_id") != "":
		deleted, err = h.store.DeleteByConsentID(r.Context(), r.URL.Query().Get("consent_id"))
	case r.URL.Query().Get("ip") != "":
		deleted, err = h.store.DeleteByIPHash(r.Context(), h.publisher.HashIP(r.URL.Query().Get("ip")))
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "consent_id or ip query parameter required"))
		return
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "audit rows erased", "deleted", deleted)
	json.WriteJSON(w, http.StatusOK, EraseResponse{Deleted: deleted})
}

// PruneRequest is the body of POST /admin/consents/prune.
type PruneRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// HandlePrune deletes audit rows older than the retention window.
func (h *Handler) HandlePrune(w http.ResponseWriter, r *http.Request) {
	var req PruneRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	deleted, err := h.store.DeleteOlderThan(r.Context(), h.now().AddDate(0, 0, -req.Days))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "audit log pruned", "days", req.Days, "deleted", deleted)
	json.WriteJSON(w, http.StatusOK, EraseResponse{Deleted: deleted})
}

// HandleStats returns per-action totals.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountByAction(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	stats := consentlog.Stats{ByAction: counts}
	for _, count := range counts {
		stats.Total += count
	}
	json.WriteJSON(w, http.StatusOK, stats)
}
