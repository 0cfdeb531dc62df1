package gating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cookiegate/internal/consent/models"
)

func TestCategoryForScript(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name     string
		src      string
		category models.Category
		matched  bool
	}{
		{"google analytics", "https://www.google-analytics.com/analytics.js", models.CategoryAnalytics, true},
		{"gtm container", "https://www.googletagmanager.com/gtm.js?id=GTM-ABC", models.CategoryAnalytics, true},
		{"facebook pixel", "https://connect.facebook.net/en_US/fbevents.js", models.CategoryMarketing, true},
		{"hotjar", "https://script.hotjar.com/modules.js", models.CategoryAnalytics, true},
		{"linkedin insight", "https://snap.licdn.com/li.lms-analytics/insight.min.js", models.CategoryMarketing, true},
		{"clarity", "https://www.clarity.ms/tag/abcdef", models.CategoryAnalytics, true},
		{"intercom", "https://widget.intercom.io/widget/app", models.CategoryFunctional, true},
		{"crisp", "https://client.crisp.chat/l.js", models.CategoryFunctional, true},
		{"youtube embed loader", "https://www.youtube.com/embed/xyz", models.CategoryMarketing, true},
		{"first party", "https://example.com/js/app.js", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, matched := registry.CategoryForScript(tt.src)
			assert.Equal(t, tt.matched, matched)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestCategoryForEmbed(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name     string
		url      string
		category models.Category
		matched  bool
	}{
		{"youtube", "https://www.youtube.com/embed/abc", models.CategoryMarketing, true},
		{"youtube nocookie", "https://www.youtube-nocookie.com/embed/abc", models.CategoryMarketing, true},
		{"vimeo player", "https://player.vimeo.com/video/1", models.CategoryMarketing, true},
		{"google maps path pattern", "https://www.google.com/maps/embed?pb=!1m18", models.CategoryFunctional, true},
		{"maps subdomain", "https://maps.google.com/maps?q=berlin", models.CategoryFunctional, true},
		{"spotify", "https://open.spotify.com/embed/track/1", models.CategoryFunctional, true},
		{"twitch", "https://player.twitch.tv/?channel=x", models.CategoryMarketing, true},
		{"unlisted host", "https://example.org/embed", "", false},
		{"relative url", "/local/embed", "", false},
		{"garbage", "::::", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, matched := registry.CategoryForEmbed(tt.url)
			assert.Equal(t, tt.matched, matched)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestRegistryOrderFirstMatchWins(t *testing.T) {
	registry := NewRegistry()
	// Duplicate an existing host under a different category; the built-in
	// entry comes first and must keep winning.
	registry.AddEmbedRule("youtube.com", models.CategoryFunctional)

	category, matched := registry.CategoryForEmbed("https://www.youtube.com/embed/abc")
	assert.True(t, matched)
	assert.Equal(t, models.CategoryMarketing, category)
}

func TestCustomGlobScriptRule(t *testing.T) {
	registry := NewRegistry()
	registry.AddScriptRule("https://cdn.tracker.example/*/pixel.js", models.CategoryMarketing)

	category, matched := registry.CategoryForScript("https://cdn.tracker.example/v2/pixel.js")
	assert.True(t, matched)
	assert.Equal(t, models.CategoryMarketing, category)

	_, matched = registry.CategoryForScript("https://cdn.tracker.example/v2/other.js")
	assert.False(t, matched)
}

func TestDeclaredCookiesExtendEmbedTable(t *testing.T) {
	registry := NewRegistry()
	registry.LoadDeclaredCookies([]models.DeclaredCookie{
		{Name: "_widget", Provider: "widgets.example.net", Category: models.CategoryFunctional},
		{Name: "bogus", Provider: "", Category: models.CategoryMarketing},
		{Name: "bad-cat", Provider: "x.example", Category: "nope"},
	})

	category, matched := registry.CategoryForEmbed("https://widgets.example.net/frame")
	assert.True(t, matched)
	assert.Equal(t, models.CategoryFunctional, category)

	_, matched = registry.CategoryForEmbed("https://x.example/frame")
	assert.False(t, matched, "invalid category entries are skipped")
}
