package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"tailorpreview/internal/domain"
)

// Portal is the surface a user signs in to.
type Portal string

const (
	PortalShop  Portal = "shop"
	PortalAdmin Portal = "admin"
)

func ParsePortal(v string) (Portal, error) {
	switch Portal(v) {
	case "", PortalShop:
		return PortalShop, nil
	case PortalAdmin:
		return PortalAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown portal %q", domain.ErrValidation, v)
}

// AuthBackend is the password auth provider; *supabase.AuthClient satisfies it.
type AuthBackend interface {
	SignInWithPassword(ctx context.Context, email, password string) (domain.Session, error)
	SignOut(ctx context.Context, token string) error
}

// Authenticator signs users in to a portal and out again.
type Authenticator struct {
	backend  AuthBackend
	resolver *Resolver
	logger   zerolog.Logger
}

func NewAuthenticator(backend AuthBackend, resolver *Resolver, logger zerolog.Logger) *Authenticator {
	return &Authenticator{backend: backend, resolver: resolver, logger: logger}
}

// Login authenticates and checks the resolved role against portal. A
// non-admin on the admin portal is signed out again and gets ErrForbidden.
func (a *Authenticator) Login(ctx context.Context, email, password string, portal Portal) (domain.Session, State, error) {
	if email == "" || password == "" {
		return domain.Session{}, Unauthenticated(), fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	sess, err := a.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return domain.Session{}, Unauthenticated(), fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	state := a.resolver.Resolve(ctx, sess.Token)
	if !state.Authenticated() {
		return domain.Session{}, state, fmt.Errorf("%w: issued token could not be verified", domain.ErrAuth)
	}
	if portal == PortalAdmin && state.Role != domain.RoleAdmin {
		if err := a.Logout(ctx, sess.Token); err != nil {
			a.logger.Warn().Err(err).Str("user_id", state.UserID()).Msg("session: sign-out after portal denial failed")
		}
		return domain.Session{}, Unauthenticated(), fmt.Errorf("%w: admin privileges required", domain.ErrForbidden)
	}
	if state.Identity != nil {
		sess.Identity = *state.Identity
	}
	a.logger.Info().Str("user_id", state.UserID()).Str("role", string(state.Role)).Str("portal", string(portal)).Msg("session: signed in")
	return sess, state, nil
}

// Logout revokes token and evicts its cached role even if revocation fails.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	a.resolver.Evict(token)
	if err := a.backend.SignOut(ctx, token); err != nil {
		return fmt.Errorf("%w: sign out: %v", domain.ErrAuth, err)
	}
	return nil
}
