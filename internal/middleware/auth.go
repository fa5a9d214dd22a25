package middleware

import (
	"context"
	"net/http"
	"strings"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/session"
)

type sessionKey struct{}

type sessionValue struct {
	token string
	state session.State
}

// SessionResolver resolves a bearer token; *session.Resolver satisfies it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) session.State
}

// Session resolves the bearer token on every request and stores the result
// in the context. It never rejects a request; use RequireRole for that.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			state := session.Unauthenticated()
			if token != "" {
				state = resolver.Resolve(r.Context(), token)
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, sessionValue{token: token, state: state})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects unauthenticated callers with 401 and callers without
// one of roles with 403. Admins pass shop-only routes.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := SessionFromContext(r.Context())
			if !state.Authenticated() {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			if !roleAllowed(state.Role, roles) {
				WriteError(w, http.StatusForbidden, "forbidden", domain.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleAllowed(role domain.Role, roles []domain.Role) bool {
	if len(roles) == 0 || role == domain.RoleAdmin {
		return true
	}
	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}
	return false
}

// BearerToken returns the token of an "Authorization: Bearer" header. A
// WebSocket client may pass it as the access_token query parameter instead.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return strings.TrimSpace(r.URL.Query().Get("access_token"))
	}
	return ""
}

// SessionFromContext returns Unauthenticated when no session was resolved.
func SessionFromContext(ctx context.Context) session.State {
	if v, ok := ctx.Value(sessionKey{}).(sessionValue); ok {
		return v.state
	}
	return session.Unauthenticated()
}

func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey{}).(sessionValue); ok {
		return v.token
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	return SessionFromContext(ctx).UserID()
}

// ContextWithSession is used by tests and by callers that resolve sessions
// outside HTTP.
func ContextWithSession(ctx context.Context, token string, state session.State) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionValue{token: token, state: state})
}
