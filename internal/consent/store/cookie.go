// Package store owns the consent cookie transport. It is the only component
// allowed to touch the raw cookie; everything else goes through the manager.
package store

import (
	"net/http"
	"time"

	"cookiegate/internal/consent/codec"
	"cookiegate/internal/consent/models"
	dErrors "cookiegate/pkg/domain-errors"
)

// DefaultCookieName matches the name the client runtime reads and writes.
const DefaultCookieName = "cookie_consent"

// CookieStore reads and writes the persisted consent record for one request.
// It is bound to a single response writer and request at construction; the
// manager lives for one request, so its store does too.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	name   string
	path   string
	domain string
}

// New constructs a cookie store bound to the given request/response pair,
// taking cookie attributes from the policy snapshot.
func New(w http.ResponseWriter, r *http.Request, policy models.Policy) *CookieStore {
	name := policy.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	path := policy.CookiePath
	if path == "" {
		path = "/"
	}
	return &CookieStore{
		w:      w,
		r:      r,
		name:   name,
		path:   path,
		domain: policy.CookieDomain,
	}
}

// Save encodes the record and sets the consent cookie. Expiry is absolute:
// now + durationDays. The cookie must stay readable by client script, so
// HttpOnly is deliberately false; Secure follows the connection.
func (s *CookieStore) Save(record *models.Record, durationDays int) error {
	value, err := codec.Encode(record)
	if err != nil {
		return err
	}
	if durationDays <= 0 {
		durationDays = 365
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     s.path,
		Domain:   s.domain,
		Expires:  time.Now().Add(time.Duration(durationDays) * 24 * time.Hour),
		MaxAge:   durationDays * 24 * 60 * 60,
		Secure:   s.r.TLS != nil,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Load reads the consent cookie and decodes it. A missing cookie or an
// undecodable value yields nil, never an error.
func (s *CookieStore) Load() *models.Record {
	cookie, err := s.r.Cookie(s.name)
	if err != nil {
		return nil
	}
	return codec.Decode(cookie.Value)
}

// Delete overwrites the cookie with an expiry in the past.
func (s *CookieStore) Delete() error {
	if s.w == nil {
		return dErrors.New(dErrors.CodeStorageFailure, "no response writer bound")
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     s.path,
		Domain:   s.domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.r.TLS != nil,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
