// Package gating decides which third-party scripts and embeds may load for a
// given consent state, and rewrites server-rendered HTML accordingly. The
// engine is stateless per render: it consults one consent snapshot and never
// caches decisions across requests.
package gating

import (
	"net/url"
	"strings"

	"github.com/gobwas/glob"

	"cookiegate/internal/consent/models"
)

// Rule maps a script URL pattern to a category. Plain patterns match by
// case-insensitive substring anywhere in the URL. Patterns containing glob
// metacharacters are compiled once and matched against the whole URL.
type Rule struct {
	Pattern  string
	Category models.Category

	matcher glob.Glob
}

// HostRule maps an embed host pattern to a category. Matching strips a
// leading www. from the embed's host, then checks the pattern as a substring
// of the host and, failing that, of the raw URL (so path-qualified patterns
// like "google.com/maps" work).
type HostRule struct {
	Host     string
	Category models.Category
}

// Registry holds the ordered script and embed tables. Order is significant:
// the first matching rule wins, so more specific rules must precede broader
// ones.
type Registry struct {
	scripts []Rule
	embeds  []HostRule
}

// NewRegistry returns a registry preloaded with the built-in tables.
func NewRegistry() *Registry {
	return &Registry{
		scripts: defaultScriptRules(),
		embeds:  defaultEmbedRules(),
	}
}

// AddScriptRule appends a custom script rule after the built-ins. Patterns
// containing *, ?, [ or { are treated as globs.
func (r *Registry) AddScriptRule(pattern string, category models.Category) {
	rule := Rule{Pattern: strings.ToLower(pattern), Category: category}
	if strings.ContainsAny(pattern, "*?[{") {
		if compiled, err := glob.Compile(strings.ToLower(pattern)); err == nil {
			rule.matcher = compiled
		}
	}
	r.scripts = append(r.scripts, rule)
}

// AddEmbedRule appends a custom embed host rule after the built-ins.
func (r *Registry) AddEmbedRule(host string, category models.Category) {
	r.embeds = append(r.embeds, HostRule{Host: strings.ToLower(host), Category: category})
}

// LoadDeclaredCookies extends the embed table with provider hosts from the
// disclosure list. Entries without a provider are skipped.
func (r *Registry) LoadDeclaredCookies(declared []models.DeclaredCookie) {
	for _, cookie := range declared {
		if cookie.Provider == "" || !cookie.Category.IsValid() {
			continue
		}
		r.AddEmbedRule(cookie.Provider, cookie.Category)
	}
}

// CategoryForScript returns the category governing a script URL, or false
// when no rule matches (unmatched scripts always load).
func (r *Registry) CategoryForScript(src string) (models.Category, bool) {
	lowered := strings.ToLower(src)
	for _, rule := range r.scripts {
		if rule.matcher != nil {
			if rule.matcher.Match(lowered) {
				return rule.Category, true
			}
			continue
		}
		if strings.Contains(lowered, rule.Pattern) {
			return rule.Category, true
		}
	}
	return "", false
}

// CategoryForEmbed returns the category governing an embed URL, or false when
// no rule matches. A URL whose host cannot be parsed never matches.
func (r *Registry) CategoryForEmbed(rawURL string) (models.Category, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	lowered := strings.ToLower(rawURL)

	for _, rule := range r.embeds {
		if strings.Contains(host, rule.Host) || strings.Contains(lowered, rule.Host) {
			return rule.Category, true
		}
	}
	return "", false
}

func defaultScriptRules() []Rule {
	return []Rule{
		{Pattern: "google-analytics.com/analytics.js", Category: models.CategoryAnalytics},
		{Pattern: "google-analytics.com/ga.js", Category: models.CategoryAnalytics},
		{Pattern: "googletagmanager.com/gtag/js", Category: models.CategoryAnalytics},
		{Pattern: "googletagmanager.com/gtm.js", Category: models.CategoryAnalytics},
		{Pattern: "connect.facebook.net", Category: models.CategoryMarketing},
		{Pattern: "facebook.com/tr", Category: models.CategoryMarketing},
		{Pattern: "static.hotjar.com", Category: models.CategoryAnalytics},
		{Pattern: "script.hotjar.com", Category: models.CategoryAnalytics},
		{Pattern: "snap.licdn.com", Category: models.CategoryMarketing},
		{Pattern: "platform.linkedin.com", Category: models.CategoryMarketing},
		{Pattern: "static.ads-twitter.com", Category: models.CategoryMarketing},
		{Pattern: "analytics.twitter.com", Category: models.CategoryMarketing},
		{Pattern: "analytics.tiktok.com", Category: models.CategoryMarketing},
		{Pattern: "pintrk", Category: models.CategoryMarketing},
		{Pattern: "s.pinimg.com/ct", Category: models.CategoryMarketing},
		{Pattern: "clarity.ms", Category: models.CategoryAnalytics},
		{Pattern: "js.hs-scripts.com", Category: models.CategoryMarketing},
		{Pattern: "js.hsforms.net", Category: models.CategoryMarketing},
		{Pattern: "widget.intercom.io", Category: models.CategoryFunctional},
		{Pattern: "client.crisp.chat", Category: models.CategoryFunctional},
		{Pattern: "youtube.com/embed", Category: models.CategoryMarketing},
		{Pattern: "youtube-nocookie.com/embed", Category: models.CategoryMarketing},
		{Pattern: "player.vimeo.com", Category: models.CategoryMarketing},
	}
}

func defaultEmbedRules() []HostRule {
	return []HostRule{
		{Host: "youtube.com", Category: models.CategoryMarketing},
		{Host: "youtube-nocookie.com", Category: models.CategoryMarketing},
		{Host: "youtu.be", Category: models.CategoryMarketing},
		{Host: "vimeo.com", Category: models.CategoryMarketing},
		{Host: "player.vimeo.com", Category: models.CategoryMarketing},
		{Host: "dailymotion.com", Category: models.CategoryMarketing},
		{Host: "twitch.tv", Category: models.CategoryMarketing},
		{Host: "tiktok.com", Category: models.CategoryMarketing},
		{Host: "facebook.com", Category: models.CategoryMarketing},
		{Host: "instagram.com", Category: models.CategoryMarketing},
		{Host: "twitter.com", Category: models.CategoryMarketing},
		{Host: "x.com", Category: models.CategoryMarketing},
		{Host: "linkedin.com", Category: models.CategoryMarketing},
		{Host: "pinterest.com", Category: models.CategoryMarketing},
		{Host: "google.com/maps", Category: models.CategoryFunctional},
		{Host: "maps.google.com", Category: models.CategoryFunctional},
		{Host: "openstreetmap.org", Category: models.CategoryFunctional},
		{Host: "soundcloud.com", Category: models.CategoryFunctional},
		{Host: "spotify.com", Category: models.CategoryFunctional},
		{Host: "codepen.io", Category: models.CategoryFunctional},
		{Host: "jsfiddle.net", Category: models.CategoryFunctional},
	}
}
