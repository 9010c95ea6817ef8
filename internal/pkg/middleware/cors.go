package middleware

import (
	"net/http"
	"strings"

	"github.com/gamma-omg/lexi-explore/internal/pkg/router"
)

// DefaultAllowedHeaders are the request headers browser clients of the managed backend send.
var DefaultAllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

type CORSConfig struct {
	AllowOrigin    string
	AllowHeaders   []string
	AllowMethods   []string
	ExposedHeaders []string
}

// CORS sets the CORS headers on every response and answers preflight OPTIONS
// requests with 204 before the request reaches any handler.
func CORS(cfg CORSConfig) router.Middleware {
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = "*"
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = DefaultAllowedHeaders
	}

	headers := strings.Join(cfg.AllowHeaders, ", ")
	methods := strings.Join(cfg.AllowMethods, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowOrigin)
			h.Set("Access-Control-Allow-Headers", headers)
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
