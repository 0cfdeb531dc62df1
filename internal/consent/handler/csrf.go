package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Save requests must carry a token issued by the config endpoint. Tokens are
// an HMAC over a coarse time window: stateless to verify, and a token from
// the previous window still validates so a banner left open across the
// boundary does not fail.
const tokenWindow = 12 * time.Hour

// IssueToken returns the save token for the current window.
func IssueToken(secret string, now time.Time) string {
	return tokenFor(secret, now.Unix()/int64(tokenWindow.Seconds()))
}

// VerifyToken accepts tokens from the current and the previous window.
func VerifyToken(secret, token string, now time.Time) bool {
	window := now.Unix() / int64(tokenWindow.Seconds())
	return hmac.Equal([]byte(token), []byte(tokenFor(secret, window))) ||
		hmac.Equal([]byte(token), []byte(tokenFor(secret, window-1)))
}

func tokenFor(secret string, window int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "consent-token:%d", window)
	return hex.EncodeToString(mac.Sum(nil))
}
