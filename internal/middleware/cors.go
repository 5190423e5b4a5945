package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps h so that browsers on any origin can call the API with
// credentials. The request origin is echoed back since "*" is not allowed
// together with cookies. Preflight header names are matched in lowercase, as
// browsers send them; a mixed-case Access-Control-Request-Headers is refused.
func CORS(h http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc:  func(string) bool { return true },
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler(h)
}
