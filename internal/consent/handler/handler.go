// Package handler exposes the public consent endpoints: state reads, the
// runtime config, the disclosure table, the client runtime assets, and the
// save/revoke flows.
package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cookiegate/internal/bridge"
	"cookiegate/internal/consent/manager"
	"cookiegate/internal/consent/models"
	"cookiegate/internal/consent/store"
	"cookiegate/internal/consentlog"
	"cookiegate/internal/gating"
	"cookiegate/internal/platform/metrics"
	"cookiegate/internal/platform/middleware"
	"cookiegate/internal/platform/tracer"
	"cookiegate/internal/transport/http/shared"
	"cookiegate/internal/transport/http/shared/json"
	dErrors "cookiegate/pkg/domain-errors"
	"cookiegate/pkg/validation"
)

// Option configures the Handler.
type Option func(*Handler)

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics sets the metrics instance.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = mx
	}
}

// WithTracer sets the tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(h *Handler) {
		h.tracer = t
	}
}

// WithRegistry replaces the default gating registry.
func WithRegistry(registry *gating.Registry) Option {
	return func(h *Handler) {
		h.registry = registry
	}
}

// WithBlocking toggles the script and embed gating passes.
func WithBlocking(scripts, embeds bool) Option {
	return func(h *Handler) {
		h.scriptBlocking = scripts
		h.contentBlocking = embeds
	}
}

// WithConsentMode toggles the Google Consent Mode block in the runtime
// config. When disabled the client runtime never touches gtag.
func WithConsentMode(enabled bool) Option {
	return func(h *Handler) {
		h.consentMode = enabled
	}
}

// Handler serves the public consent API. It holds no per-visitor state; a
// fresh manager is constructed from the cookie on every request.
type Handler struct {
	policy          models.Policy
	secret          string
	publisher       *consentlog.Publisher
	dispatcher      *bridge.Dispatcher
	registry        *gating.Registry
	scriptBlocking  bool
	contentBlocking bool
	consentMode     bool
	logger          *slog.Logger
	metrics         *metrics.Metrics
	tracer          tracer.Tracer
	now             func() time.Time
}

// New constructs the handler. The publisher may be nil when audit logging is
// disabled; the dispatcher may be nil when no subscribers exist.
func New(policy models.Policy, secret string, publisher *consentlog.Publisher, dispatcher *bridge.Dispatcher, opts ...Option) *Handler {
	h := &Handler{
		policy:          policy,
		secret:          secret,
		publisher:       publisher,
		dispatcher:      dispatcher,
		scriptBlocking:  true,
		contentBlocking: true,
		consentMode:     true,
		logger:          slog.Default(),
		tracer:          tracer.Noop(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = gating.NewRegistry()
		h.registry.LoadDeclaredCookies(policy.DeclaredCookies)
	}
	return h
}

// Register mounts the consent routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/consent", h.HandleState)
	r.Get("/consent/config", h.HandleConfig)
	r.Get("/consent/cookies", h.HandleCookies)
	r.Get("/consent/runtime.js", h.HandleRuntimeJS)
	r.Get("/consent/runtime.css", h.HandleRuntimeCSS)
	r.Post("/consent", h.HandleSave)
	r.Post("/consent/revoke", h.HandleRevoke)
	r.Post("/gate", h.HandleGate)
}

func (h *Handler) manager(w http.ResponseWriter, r *http.Request) *manager.Manager {
	opts := []manager.Option{manager.WithLogger(h.logger)}
	if h.publisher != nil {
		opts = append(opts, manager.WithAudit(
			h.publisher.WithRequest(middleware.ClientIP(r), r.UserAgent()),
		))
	}
	if h.metrics != nil {
		opts = append(opts, manager.WithMetrics(h.metrics))
	}
	return manager.New(h.policy, store.New(w, r, h.policy), opts...)
}

func (h *Handler) stateOf(m *manager.Manager) models.StateResponse {
	return models.StateResponse{
		HasConsent:    m.HasConsent(),
		IsValid:       m.IsValid(),
		ConsentID:     m.ConsentID(),
		PolicyVersion: h.policy.Version,
		Categories:    m.AllowedCategories(),
		State:         m.State(),
	}
}

// HandleState returns the current consent state without side effects.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	json.WriteJSON(w, http.StatusOK, h.stateOf(m))
}

// HandleConfig returns what the client runtime needs to boot: the allowed
// map, validity, the save token, and the consent-mode flags to seed the page.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	allowed := m.AllowedCategories()

	var consentMode map[string]string
	if h.consentMode {
		consentMode = bridge.ConsentModeDefaults()
		if m.IsValid() {
			consentMode = bridge.ConsentModeUpdate(allowed)
		}
	}

	json.WriteJSON(w, http.StatusOK, bridge.RuntimeConfig{
		Categories:    allowed,
		IsValid:       m.IsValid(),
		PolicyVersion: h.policy.Version,
		SaveURL:       "/consent",
		Token:         IssueToken(h.secret, h.now()),
		ConsentMode:   consentMode,
	})
}

// CookiesResponse is the public disclosure table.
type CookiesResponse struct {
	Categories []models.CategoryInfo   `json:"categories"`
	Cookies    []models.DeclaredCookie `json:"cookies"`
}

// HandleCookies serves the declared cookies disclosure list.
func (h *Handler) HandleCookies(w http.ResponseWriter, _ *http.Request) {
	cookies := h.policy.DeclaredCookies
	if cookies == nil {
		cookies = []models.DeclaredCookie{}
	}
	json.WriteJSON(w, http.StatusOK, CookiesResponse{
		Categories: h.policy.Categories,
		Cookies:    cookies,
	})
}

// HandleRuntimeJS serves the client runtime that revives gated content.
func (h *Handler) HandleRuntimeJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(gating.UnblockScript()))
}

// HandleRuntimeCSS serves the embed placeholder stylesheet.
func (h *Handler) HandleRuntimeCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(gating.PlaceholderCSS()))
}

// maxGateDocument caps the body size of the gate endpoint.
const maxGateDocument = 10 << 20

// HandleGate applies the current visitor's consent to a rendered HTML
// document: known tracking scripts are neutralized and disallowed embeds are
// replaced with placeholders. The rendering tier posts its output here before
// sending it to the browser.
func (h *Handler) HandleGate(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "gating.process")
	var opErr error
	defer func() { span.End(opErr) }()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxGateDocument))
	if err != nil {
		opErr = dErrors.Wrap(dErrors.CodeBadRequest, "read document body", err)
		shared.WriteError(w, opErr)
		return
	}

	m := h.manager(w, r)
	engine := gating.NewEngine(h.registry, m,
		gating.WithLogger(h.logger),
		gating.WithMetrics(h.metrics),
		gating.WithScriptBlocking(h.scriptBlocking),
		gating.WithContentBlocking(h.contentBlocking),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(engine.ProcessHTML(string(body))))
}

// HandleSave records a consent decision: validates the request and token,
// runs the manager save flow, publishes the bridge event, and reports whether
// the client should reload.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "consent.save")
	var opErr error
	defer func() { span.End(opErr) }()
	started := h.now()

	var req models.SaveConsentRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		opErr = dErrors.New(dErrors.CodeBadRequest, "invalid request body")
		shared.WriteError(w, opErr)
		return
	}
	if err := validation.Validate(&req); err != nil {
		opErr = err
		shared.WriteError(w, err)
		return
	}
	if !VerifyToken(h.secret, req.Token, h.now()) {
		opErr = dErrors.New(dErrors.CodeForbidden, "invalid or expired token")
		shared.WriteError(w, opErr)
		return
	}

	m := h.manager(w, r)
	previous := m.AllowedCategories()
	action := models.ActionType(req.ActionType)

	if err := m.SaveConsent(ctx, req.CategoryMap(), action); err != nil {
		opErr = err
		h.logger.ErrorContext(ctx, "consent save failed", "action", action, "error", err)
		shared.WriteError(w, err)
		return
	}
	next := m.AllowedCategories()

	if h.dispatcher != nil {
		h.dispatcher.Publish(ctx, bridge.Event{Categories: next, ActionType: action})
	}
	if h.metrics != nil {
		h.metrics.ObserveSaveLatency(h.now().Sub(started).Seconds())
	}

	json.WriteJSON(w, http.StatusOK, models.SaveResponse{
		StateResponse: h.stateOf(m),
		Reload:        bridge.ShouldReload(previous, next),
	})
}

// HandleRevoke withdraws consent: deletes the cookie, logs the withdrawal,
// and publishes the downgrade to subscribers.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "consent.revoke")
	var opErr error
	defer func() { span.End(opErr) }()

	var req models.RevokeConsentRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		opErr = dErrors.New(dErrors.CodeBadRequest, "invalid request body")
		shared.WriteError(w, opErr)
		return
	}
	if err := validation.Validate(&req); err != nil {
		opErr = err
		shared.WriteError(w, err)
		return
	}
	if !VerifyToken(h.secret, req.Token, h.now()) {
		opErr = dErrors.New(dErrors.CodeForbidden, "invalid or expired token")
		shared.WriteError(w, opErr)
		return
	}

	m := h.manager(w, r)
	if err := m.Revoke(ctx); err != nil {
		opErr = err
		h.logger.ErrorContext(ctx, "consent revoke failed", "error", err)
		shared.WriteError(w, err)
		return
	}

	if h.dispatcher != nil {
		h.dispatcher.Publish(ctx, bridge.Event{
			Categories: models.OnlyNecessary(),
			ActionType: models.ActionRevoke,
		})
	}

	json.WriteJSON(w, http.StatusOK, h.stateOf(m))
}
