package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/ndewijer/folio/internal/api/response"
)

// tokenWindow is how long a time token stays valid. The previous window is also
// accepted so a token minted just before a boundary still works.
const tokenWindow = 5 * time.Minute

// APIKey returns a middleware that requires the X-API-Key header to equal key and an
// X-Time-Token header produced by GenerateTimeToken for the current window.
// An empty key rejects every request with 500.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				response.RespondError(w, http.StatusInternalServerError, "Unauthorized", "Authentication not loaded")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing API key")
				return
			}
			if !hmac.Equal([]byte(provided), []byte(key)) {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Invalid API key")
				return
			}

			token := r.Header.Get("X-Time-Token")
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing Time token")
				return
			}
			if !validTimeToken(key, token, time.Now()) {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateTimeToken returns the token for the current window, keyed by key.
func GenerateTimeToken(key string) string {
	return timeToken(key, time.Now())
}

func timeToken(key string, at time.Time) string {
	window := at.Unix() / int64(tokenWindow/time.Second)
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(strconv.FormatInt(window, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func validTimeToken(key, token string, now time.Time) bool {
	for _, at := range []time.Time{now, now.Add(-tokenWindow)} {
		if hmac.Equal([]byte(token), []byte(timeToken(key, at))) {
			return true
		}
	}
	return false
}
