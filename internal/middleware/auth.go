package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"storefront-state-api/pkg/apierror"
	"storefront-state-api/pkg/response"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// APIKeys accepted in X-API-Key or Authorization: Bearer. Empty disables auth.
	APIKeys []string
	// PublicPaths bypass auth. Defaults to the health probes.
	PublicPaths []string
}

var defaultPublicPaths = []string{"/api/status", "/api/v1/health", "/api/v1/ready"}

// NewAuthMiddleware creates an API key middleware. Keys are captured in the closure,
// there is no global state.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	public := cfg.PublicPaths
	if public == nil {
		public = defaultPublicPaths
	}

	return func(next http.Handler) http.Handler {
		if len(cfg.APIKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path, public) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					apiKey = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if apiKey == "" {
				response.Error(w, apierror.Unauthorized("Authentication required. Use X-API-Key header."))
				return
			}

			if !isValidKey(apiKey, cfg.APIKeys) {
				response.Error(w, apierror.Unauthorized("Invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if path == p {
			return true
		}
	}
	return false
}

// isValidKey compares in constant time against every configured key.
func isValidKey(key string, validKeys []string) bool {
	ok := false
	for _, valid := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
			ok = true
		}
	}
	return ok
}
