package bridge

import (
	"cookiegate/internal/consent/models"
)

const (
	// SignalGranted and SignalDenied are the Google Consent Mode v2 values.
	SignalGranted = "granted"
	SignalDenied  = "denied"

	// PixelGrant and PixelRevoke are the Meta Pixel consent commands.
	PixelGrant  = "grant"
	PixelRevoke = "revoke"
)

// ConsentModeUpdate maps a category decision onto the four Google Consent
// Mode v2 flags. Analytics drives analytics_storage; marketing drives the
// three advertising flags together.
func ConsentModeUpdate(categories map[models.Category]bool) map[string]string {
	signal := func(granted bool) string {
		if granted {
			return SignalGranted
		}
		return SignalDenied
	}
	return map[string]string{
		"analytics_storage":  signal(categories[models.CategoryAnalytics]),
		"ad_storage":         signal(categories[models.CategoryMarketing]),
		"ad_user_data":       signal(categories[models.CategoryMarketing]),
		"ad_personalization": signal(categories[models.CategoryMarketing]),
	}
}

// ConsentModeDefaults returns the page-load defaults: everything denied until
// a decision grants it. Served before any vendor script runs.
func ConsentModeDefaults() map[string]string {
	return ConsentModeUpdate(nil)
}

// PixelCommand maps the marketing decision to the Meta Pixel consent API.
func PixelCommand(categories map[models.Category]bool) string {
	if categories[models.CategoryMarketing] {
		return PixelGrant
	}
	return PixelRevoke
}

// DataLayerEvent is the object pushed to the GTM data layer on every consent
// change. Necessary is always reported true; absent keys report false.
func DataLayerEvent(categories map[models.Category]bool, action models.ActionType) map[string]any {
	return map[string]any{
		"event": "cookie_consent_update",
		"cookie_consent": map[string]bool{
			"necessary":  true,
			"functional": categories[models.CategoryFunctional],
			"analytics":  categories[models.CategoryAnalytics],
			"marketing":  categories[models.CategoryMarketing],
		},
		"cookie_action": string(action),
	}
}

// ShouldReload reports whether the page must reload to let previously gated
// scripts execute. Only a newly enabled analytics or marketing grant needs a
// reload; disabling categories takes effect without one because blocked
// content is already absent.
func ShouldReload(previous, next map[models.Category]bool) bool {
	newlyEnabled := func(category models.Category) bool {
		return next[category] && !previous[category]
	}
	return newlyEnabled(models.CategoryAnalytics) || newlyEnabled(models.CategoryMarketing)
}

// RuntimeConfig seeds the page for the client runtime.
type RuntimeConfig struct {
	Categories    map[models.Category]bool `json:"categories"`
	IsValid       bool                     `json:"is_valid"`
	PolicyVersion string                   `json:"policy_version"`
	SaveURL       string                   `json:"save_url"`
	Token         string                   `json:"token"`
	ConsentMode   map[string]string        `json:"consent_mode,omitempty"`
}
