package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/infra"
)

// Claims is the subset of a Supabase access token the resolver reads.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RoleLookup reads a profile role; domain.ProfileRepository satisfies it.
type RoleLookup interface {
	RoleByID(ctx context.Context, id string) (domain.Role, error)
}

type cachedRole struct {
	role    domain.Role
	expires time.Time
}

// Resolver verifies HS256 access tokens and resolves the caller's role.
// Roles are cached per token until the token expires or is evicted.
type Resolver struct {
	secret  []byte
	roles   RoleLookup
	logger  zerolog.Logger
	metrics *infra.Metrics
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cachedRole
}

func NewResolver(secret string, roles RoleLookup, logger zerolog.Logger, metrics *infra.Metrics) *Resolver {
	return &Resolver{
		secret:  []byte(secret),
		roles:   roles,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		cache:   make(map[string]cachedRole),
	}
}

// Identify verifies token and returns the identity it carries.
func (r *Resolver) Identify(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing token", domain.ErrAuth)
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(r.now))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrAuth, jwt.ErrTokenInvalidClaims)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrAuth)
	}
	return domain.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Resolve never fails: a bad token is Unauthenticated and a failed role
// lookup yields the shop role.
func (r *Resolver) Resolve(ctx context.Context, token string) State {
	if strings.TrimSpace(token) == "" {
		return Unauthenticated()
	}
	identity, err := r.Identify(token)
	if err != nil {
		r.logger.Debug().Err(err).Msg("session: token rejected")
		return Unauthenticated()
	}
	return Authenticated(identity, r.role(ctx, token, identity))
}

func (r *Resolver) role(ctx context.Context, token string, identity domain.Identity) domain.Role {
	now := r.now()
	r.mu.Lock()
	if c, ok := r.cache[token]; ok && now.Before(c.expires) {
		r.mu.Unlock()
		return c.role
	}
	r.mu.Unlock()

	role, err := r.lookup(ctx, identity.UserID)
	if err != nil {
		r.metrics.RoleFallback()
		r.logger.Warn().Err(err).Str("user_id", identity.UserID).Msg("session: role lookup failed, using shop")
		return domain.RoleShop
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, c := range r.cache {
		if !now.Before(c.expires) {
			delete(r.cache, k)
		}
	}
	r.cache[token] = cachedRole{role: role, expires: identity.ExpiresAt}
	return role
}

func (r *Resolver) lookup(ctx context.Context, userID string) (domain.Role, error) {
	if r.roles == nil {
		return "", fmt.Errorf("%w: no profile source", domain.ErrProfileLookup)
	}
	role, err := r.roles.RoleByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProfileLookup, err)
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrProfileLookup, role)
	}
	return role, nil
}

// Evict drops the cached role for token.
func (r *Resolver) Evict(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, token)
}
