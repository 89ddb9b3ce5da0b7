package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/handlers"
)

// APIKeyHeader is the header clients use to present the pre-shared key.
const APIKeyHeader = "X-Api-Key"

// PSKAuth gates requests on a pre-shared key presented via the X-Api-Key
// header or as an Authorization bearer token. An empty psk disables the
// check entirely (dev mode). Comparison is constant-time so response
// latency leaks nothing about the expected key.
func PSKAuth(psk string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if psk == "" {
				next.ServeHTTP(w, r)
				return
			}

			if provided := r.Header.Get(APIKeyHeader); provided != "" {
				if constantTimeEqual(provided, psk) {
					next.ServeHTTP(w, r)
					return
				}
				handlers.WriteError(w, apperr.Unauthorized("invalid API key"), 0)
				return
			}

			if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				if constantTimeEqual(bearer, psk) {
					next.ServeHTTP(w, r)
					return
				}
			}
			handlers.WriteError(w, apperr.Unauthorized("missing or invalid API key"), 0)
		})
	}
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// CORS adds CORS headers to allow cross-origin requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+APIKeyHeader)
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
