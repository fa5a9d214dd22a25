package middleware

import (
	"net/http"
	"strings"
)

var (
	corsAllowHeaders  = strings.Join([]string{"Authorization", "Content-Type", headerRequestID}, ", ")
	corsAllowMethods  = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}, ",")
	corsExposeHeaders = strings.Join([]string{"Content-Disposition", headerRequestID}, ", ")
)

type corsPolicy struct {
	origins  map[string]bool
	wildcard bool
}

// allow returns the Access-Control-Allow-Origin value for origin and whether
// credentials may be sent. Listed origins get credentials; "*" does not.
func (p corsPolicy) allow(origin string) (string, bool) {
	switch {
	case origin == "":
		return "", false
	case p.origins[origin]:
		return origin, true
	case p.wildcard:
		return "*", false
	}
	return "", false
}

// CORS answers preflights and decorates responses for the allowed origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	p := corsPolicy{origins: make(map[string]bool, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		if o == "*" {
			p.wildcard = true
			continue
		}
		p.origins[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if value, creds := p.allow(r.Header.Get("Origin")); value != "" {
				h := w.Header()
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Origin", value)
				if creds {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
