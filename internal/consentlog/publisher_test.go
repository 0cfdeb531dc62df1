package consentlog

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cookiegate/internal/consent/models"
	"cookiegate/internal/platform/privacy"
)

type PublisherSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *PublisherSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) record() *models.Record {
	return &models.Record{
		ID:            "11111111-2222-3333-4444-555555555555",
		PolicyVersion: "2.0",
		Timestamp:     time.Now().Unix(),
		Categories:    models.AllGranted(),
	}
}

func (s *PublisherSuite) TestSyncLogWritesAnonymizedRow() {
	publisher := NewPublisher(s.store, "server-secret")
	logger := publisher.WithRequest("203.0.113.77", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	s.Require().NoError(logger.Log(context.Background(), s.record(), models.ActionAcceptAll))

	entries := s.store.All()
	s.Require().Len(entries, 1)
	entry := entries[0]

	s.Equal("11111111-2222-3333-4444-555555555555", entry.ConsentID)
	s.Equal("accept_all", entry.ActionType)
	s.Equal("2.0", entry.PolicyVersion)
	s.NotContains(entry.IPHash, "203.0.113", "raw ip must never reach the row")
	s.Equal(privacy.HashIP("203.0.113.77", "server-secret"), entry.IPHash)
	s.False(entry.CreatedAt.IsZero())

	categories := map[string]bool{}
	s.Require().NoError(json.Unmarshal(entry.Categories, &categories))
	s.True(categories["analytics"])
}

func (s *PublisherSuite) TestSameMaskedSubnetHashesIdentically() {
	publisher := NewPublisher(s.store, "server-secret")

	// Last octet is zeroed before hashing, so hosts in the same /24 collide.
	s.Equal(publisher.HashIP("203.0.113.5"), publisher.HashIP("203.0.113.99"))
	s.NotEqual(publisher.HashIP("203.0.113.5"), publisher.HashIP("203.0.114.5"))
}

func (s *PublisherSuite) TestUserAgentTruncatedAndSummarized() {
	publisher := NewPublisher(s.store, "server-secret")
	longUA := strings.Repeat("x", 400)
	logger := publisher.WithRequest("198.51.100.1", longUA)

	s.Require().NoError(logger.Log(context.Background(), s.record(), models.ActionCustomize))

	entries := s.store.All()
	s.Require().Len(entries, 1)
	s.Len(entries[0].UserAgent, 255)
}

func (s *PublisherSuite) TestAsyncDrainsOnClose() {
	publisher := NewPublisher(s.store, "server-secret", WithAsyncBuffer(16))
	logger := publisher.WithRequest("198.51.100.1", "curl/8.0")

	for i := 0; i < 5; i++ {
		s.Require().NoError(logger.Log(context.Background(), s.record(), models.ActionRejectAll))
	}
	publisher.Close()

	s.Len(s.store.All(), 5, "Close drains the queue before returning")
}

func (s *PublisherSuite) TestCloseIsIdempotent() {
	publisher := NewPublisher(s.store, "server-secret", WithAsyncBuffer(4))
	publisher.Close()
	publisher.Close()
}

func (s *PublisherSuite) TestEmptyUserAgentSummarizedAsUnknown() {
	s.Equal("unknown", DeviceSummary(""))
	s.Equal("unknown", DeviceSummary("   "))
}
