package auth

import (
	"context"
	"reflect"
)

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (Identity, string, error)
	IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error)
}

type Auther struct {
	provider     IdentityProvider
	roleProvider RoleProvider
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		roleProvider: identityRoleProvider{},
		tokenService: tokenService,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithRoleProvider sets a custom RoleProvider for the Auther.
func (s *Auther) WithRoleProvider(provider RoleProvider) *Auther {
	if provider != nil {
		s.roleProvider = provider
	}
	return s
}

// WithTokenService sets a custom token issuer, e.g. a deterministic
// double in tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and, on success, returns the resolved
// identity together with a freshly signed session token. No token is
// ever issued without a resolved identity.
func (s *Auther) Login(ctx context.Context, identifier, password string) (Identity, string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return nil, "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
			"error":      ErrIdentityNotFound.Error(),
		})
		return nil, "", ErrIdentityNotFound
	}

	roles, err := s.roleProvider.FindRoles(ctx, identity)
	if err != nil {
		s.logger.Error("Login failed to fetch roles", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identity.ID(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return nil, "", err
	}

	token, err := s.tokenService.Generate(identity, roles)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identity.ID(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return nil, "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, identity.ID(), map[string]any{
		"identifier": identifier,
	})

	return identity, token, nil
}

// IdentityFromClaims resolves the stored identity behind validated claims.
func (s *Auther) IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.Subject())
	if err != nil {
		s.logger.Error("IdentityFromClaims find identity error", "error", err)
		return nil, err
	}

	return identity, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	recordActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	})
}

// identityRoleProvider derives the role claims from the identity itself.
type identityRoleProvider struct{}

func (identityRoleProvider) FindRoles(_ context.Context, identity Identity) ([]string, error) {
	if identity == nil || identity.Role() == "" {
		return nil, nil
	}
	return []string{identity.Role()}, nil
}
