package store

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cookiegate/internal/consent/codec"
	"cookiegate/internal/consent/models"
)

type CookieStoreSuite struct {
	suite.Suite
	policy models.Policy
}

func (s *CookieStoreSuite) SetupTest() {
	s.policy = models.Policy{
		Version:      "1.0",
		DurationDays: 180,
		CookieName:   "cookie_consent",
		CookiePath:   "/",
	}
}

func TestCookieStoreSuite(t *testing.T) {
	suite.Run(t, new(CookieStoreSuite))
}

func (s *CookieStoreSuite) record() *models.Record {
	return &models.Record{
		ID:            "11111111-2222-4333-8444-555555555555",
		PolicyVersion: "1.0",
		Timestamp:     1735689600,
		Categories:    models.AllGranted(),
	}
}

func (s *CookieStoreSuite) TestSaveSetsCookieAttributes() {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	cs := New(w, r, s.policy)
	s.Require().NoError(cs.Save(s.record(), s.policy.DurationDays))

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	c := cookies[0]
	s.Equal("cookie_consent", c.Name)
	s.Equal("/", c.Path)
	s.Equal(180*24*60*60, c.MaxAge)
	s.False(c.HttpOnly, "cookie must stay readable by client script")
	s.False(c.Secure, "plain http request must not set Secure")
	s.Equal(http.SameSiteLaxMode, c.SameSite)

	decoded := codec.Decode(c.Value)
	s.Require().NotNil(decoded)
	s.Equal("11111111-2222-4333-8444-555555555555", decoded.ID)
}

func (s *CookieStoreSuite) TestSaveSecureOverTLS() {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	// httptest sets r.TLS for https target URLs
	s.Require().NotNil(r.TLS)

	cs := New(w, r, s.policy)
	s.Require().NoError(cs.Save(s.record(), 30))

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.True(cookies[0].Secure)
}

func (s *CookieStoreSuite) TestLoadMissingCookie() {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	cs := New(w, r, s.policy)
	s.Nil(cs.Load())
}

func (s *CookieStoreSuite) TestLoadRoundTrip() {
	record := s.record()
	value, err := codec.Encode(record)
	s.Require().NoError(err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "cookie_consent", Value: value})

	cs := New(w, r, s.policy)
	loaded := cs.Load()
	s.Require().NotNil(loaded)
	s.Equal(record.ID, loaded.ID)
	s.Equal(record.Categories, loaded.Categories)
}

func (s *CookieStoreSuite) TestLoadCorruptCookie() {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "cookie_consent", Value: "garbage"})

	cs := New(w, r, s.policy)
	s.Nil(cs.Load(), "corrupt cookie must read as no consent")
}

func (s *CookieStoreSuite) TestDeleteExpiresCookie() {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	cs := New(w, r, s.policy)
	s.Require().NoError(cs.Delete())

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	c := cookies[0]
	s.Empty(c.Value)
	s.Negative(c.MaxAge)
	s.True(c.Expires.Before(time.Now()), "expiry must be in the past")
}
