package gating

import (
	"log/slog"
	"strings"

	"cookiegate/internal/consent/models"
	"cookiegate/internal/platform/metrics"
)

// Consent answers category queries for the current visitor. The consent
// manager satisfies this; tests use fakes.
type Consent interface {
	IsCategoryAllowed(category models.Category) bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics instance.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = mx
	}
}

// WithScriptBlocking toggles the script pass.
func WithScriptBlocking(enabled bool) Option {
	return func(e *Engine) {
		e.scripts = enabled
	}
}

// WithContentBlocking toggles the embed pass.
func WithContentBlocking(enabled bool) Option {
	return func(e *Engine) {
		e.embeds = enabled
	}
}

// Engine applies the registry against one consent snapshot. Construct one per
// render; it holds no mutable state.
type Engine struct {
	registry *Registry
	consent  Consent
	scripts  bool
	embeds   bool
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewEngine builds an engine over the given registry and consent snapshot.
// Both passes default to enabled.
func NewEngine(registry *Registry, consent Consent, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		consent:  consent,
		scripts:  true,
		embeds:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScriptDecision reports the governing category for a script URL and whether
// it must be blocked under the current consent.
func (e *Engine) ScriptDecision(src string) (models.Category, bool) {
	if !e.scripts {
		return "", false
	}
	category, matched := e.registry.CategoryForScript(src)
	if !matched {
		return "", false
	}
	if e.consent.IsCategoryAllowed(category) {
		return category, false
	}
	return category, true
}

// EmbedDecision reports the governing category for an embed URL and whether
// it must be blocked under the current consent.
func (e *Engine) EmbedDecision(rawURL string) (models.Category, bool) {
	if !e.embeds {
		return "", false
	}
	category, matched := e.registry.CategoryForEmbed(rawURL)
	if !matched {
		return "", false
	}
	if e.consent.IsCategoryAllowed(category) {
		return category, false
	}
	return category, true
}

// FilterScriptTag returns the tag unchanged when the script may load, or the
// blocked rewrite when it may not.
func (e *Engine) FilterScriptTag(tag, src string) string {
	category, blocked := e.ScriptDecision(src)
	if !blocked {
		return tag
	}
	if e.metrics != nil {
		e.metrics.IncrementBlockedScripts(string(category))
	}
	return RewriteScriptTag(tag, category)
}

// RewriteScriptTag neutralizes a script tag so the browser parses but never
// executes it. The src, inline body, and remaining attributes survive so the
// client runtime can revive the script later.
func RewriteScriptTag(tag string, category models.Category) string {
	tag = strings.Replace(tag, `type="text/javascript"`, `type="text/plain"`, 1)
	tag = strings.Replace(tag, `type='text/javascript'`, `type="text/plain"`, 1)
	if !strings.Contains(tag, "type=") {
		tag = strings.Replace(tag, "<script", `<script type="text/plain"`, 1)
	}
	return strings.Replace(tag, "<script", `<script data-consent-category="`+string(category)+`"`, 1)
}
