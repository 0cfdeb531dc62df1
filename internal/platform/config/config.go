// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is loaded when present; real environment variables
// win over file values.
package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"cookiegate/internal/consent/models"
	dErrors "cookiegate/pkg/domain-errors"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string
	DatabaseURL string

	// Secret salts IP hashes and signs CSRF and admin tokens. It must stay
	// stable across restarts or erasure lookups and issued tokens break.
	Secret            string
	AdminPasswordHash string

	PolicyVersion   string
	ConsentDuration int
	CookieName      string
	CookiePath      string
	CookieDomain    string

	ScriptBlocking  bool
	ContentBlocking bool
	GCMEnabled      bool

	AuditBuffer   int
	RetentionDays int

	DeclaredCookiesPath string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return Server{
		Addr:                getString("COOKIEGATE_ADDR", ":8080"),
		Environment:         getString("COOKIEGATE_ENV", "development"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Secret:              getString("COOKIEGATE_SECRET", "dev-secret-change-in-production"),
		AdminPasswordHash:   os.Getenv("ADMIN_PASSWORD_HASH"),
		PolicyVersion:       getString("POLICY_VERSION", "1.0"),
		ConsentDuration:     getInt("CONSENT_DURATION_DAYS", 365),
		CookieName:          getString("CONSENT_COOKIE_NAME", "cookie_consent"),
		CookiePath:          getString("CONSENT_COOKIE_PATH", "/"),
		CookieDomain:        os.Getenv("CONSENT_COOKIE_DOMAIN"),
		ScriptBlocking:      getBool("SCRIPT_BLOCKING", true),
		ContentBlocking:     getBool("CONTENT_BLOCKING", true),
		GCMEnabled:          getBool("GOOGLE_CONSENT_MODE", true),
		AuditBuffer:         getInt("AUDIT_BUFFER", 256),
		RetentionDays:       getInt("RETENTION_DAYS", 0),
		DeclaredCookiesPath: os.Getenv("DECLARED_COOKIES_FILE"),
	}
}

// Policy materializes the immutable consent policy snapshot handed to every
// request. Declared cookies come from an optional JSON file.
func (s Server) Policy() (models.Policy, error) {
	policy := models.Policy{
		Version:      s.PolicyVersion,
		DurationDays: s.ConsentDuration,
		CookieName:   s.CookieName,
		CookiePath:   s.CookiePath,
		CookieDomain: s.CookieDomain,
		Categories:   models.DefaultCategories(),
	}

	if s.DeclaredCookiesPath != "" {
		declared, err := loadDeclaredCookies(s.DeclaredCookiesPath)
		if err != nil {
			return models.Policy{}, err
		}
		policy.DeclaredCookies = declared
	}
	return policy, nil
}

func loadDeclaredCookies(path string) ([]models.DeclaredCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "read declared cookies file", err)
	}
	var declared []models.DeclaredCookie
	if err := json.Unmarshal(data, &declared); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "parse declared cookies file", err)
	}
	out := declared[:0]
	for _, cookie := range declared {
		if cookie.Category.IsValid() {
			out = append(out, cookie)
		}
	}
	return out, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
