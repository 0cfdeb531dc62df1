package bridge

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookiegate/internal/consent/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherDeliversToAllSubscribers(t *testing.T) {
	dispatcher := NewDispatcher(discardLogger())

	var got []Event
	dispatcher.Subscribe(func(_ context.Context, e Event) { got = append(got, e) })
	dispatcher.Subscribe(func(_ context.Context, e Event) { got = append(got, e) })

	dispatcher.Publish(context.Background(), Event{
		Categories: models.AllGranted(),
		ActionType: models.ActionAcceptAll,
	})

	require.Len(t, got, 2)
	assert.Equal(t, models.ActionAcceptAll, got[0].ActionType)
	assert.True(t, got[1].Categories[models.CategoryMarketing])
}

func TestDispatcherIsolatesPanickingSubscriber(t *testing.T) {
	dispatcher := NewDispatcher(discardLogger())

	delivered := false
	dispatcher.Subscribe(func(context.Context, Event) { panic("boom") })
	dispatcher.Subscribe(func(context.Context, Event) { delivered = true })

	dispatcher.Publish(context.Background(), Event{ActionType: models.ActionRejectAll})
	assert.True(t, delivered, "later subscribers still run after a panic")
}

func TestConsentModeUpdateMapping(t *testing.T) {
	tests := []struct {
		name       string
		categories map[models.Category]bool
		analytics  string
		ads        string
	}{
		{"all granted", models.AllGranted(), SignalGranted, SignalGranted},
		{"only necessary", models.OnlyNecessary(), SignalDenied, SignalDenied},
		{"analytics only", map[models.Category]bool{models.CategoryAnalytics: true}, SignalGranted, SignalDenied},
		{"marketing only", map[models.Category]bool{models.CategoryMarketing: true}, SignalDenied, SignalGranted},
		{"nil map", nil, SignalDenied, SignalDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := ConsentModeUpdate(tt.categories)
			assert.Equal(t, tt.analytics, flags["analytics_storage"])
			assert.Equal(t, tt.ads, flags["ad_storage"])
			assert.Equal(t, tt.ads, flags["ad_user_data"])
			assert.Equal(t, tt.ads, flags["ad_personalization"])
		})
	}
}

func TestConsentModeDefaultsDenyEverything(t *testing.T) {
	for flag, value := range ConsentModeDefaults() {
		assert.Equal(t, SignalDenied, value, "flag %s must default to denied", flag)
	}
}

func TestPixelCommand(t *testing.T) {
	assert.Equal(t, PixelGrant, PixelCommand(models.AllGranted()))
	assert.Equal(t, PixelRevoke, PixelCommand(models.OnlyNecessary()))
	assert.Equal(t, PixelRevoke, PixelCommand(nil))
}

func TestDataLayerEventDefaultsAbsentKeysFalse(t *testing.T) {
	event := DataLayerEvent(map[models.Category]bool{models.CategoryAnalytics: true}, models.ActionCustomize)

	payload, ok := event["cookie_consent"].(map[string]bool)
	require.True(t, ok)
	assert.True(t, payload["necessary"])
	assert.True(t, payload["analytics"])
	assert.False(t, payload["marketing"])
	assert.False(t, payload["functional"])
	assert.Equal(t, "customize", event["cookie_action"])
}

func TestShouldReload(t *testing.T) {
	tests := []struct {
		name     string
		previous map[models.Category]bool
		next     map[models.Category]bool
		want     bool
	}{
		{"fresh accept all", nil, models.AllGranted(), true},
		{"fresh reject all", nil, models.OnlyNecessary(), false},
		{"analytics newly enabled", models.OnlyNecessary(), map[models.Category]bool{models.CategoryAnalytics: true}, true},
		{"marketing newly enabled", models.OnlyNecessary(), map[models.Category]bool{models.CategoryMarketing: true}, true},
		{"functional newly enabled", models.OnlyNecessary(), map[models.Category]bool{models.CategoryFunctional: true}, false},
		{"already granted stays granted", models.AllGranted(), models.AllGranted(), false},
		{"downgrade", models.AllGranted(), models.OnlyNecessary(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldReload(tt.previous, tt.next))
		})
	}
}
