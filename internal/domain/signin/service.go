// Package signin bridges Firebase Authentication and the users collection:
// it accepts the ID token a browser got from Google sign-in, records the
// login on the user's profile, and revokes sessions on sign-out.
package signin

import (
	"context"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/authctx"
	"taobao-orders/backend/internal/domain/user"
)

// TokenAuth is the part of *auth.Client the bridge uses.
type TokenAuth interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// ProfileStore is the part of *user.Repo the bridge uses.
type ProfileStore interface {
	UpsertOnLogin(ctx context.Context, u user.LoginUser) (bool, error)
	Get(ctx context.Context, uid string) (*user.Profile, error)
}

type Service struct {
	auth      TokenAuth
	profiles  ProfileStore
	providers map[string]bool
}

func NewService(a TokenAuth, profiles ProfileStore, providers []string) *Service {
	allowed := map[string]bool{}
	for _, p := range providers {
		if p = strings.TrimSpace(p); p != "" {
			allowed[p] = true
		}
	}
	return &Service{auth: a, profiles: profiles, providers: allowed}
}

type Result struct {
	User    *authctx.User `json:"user"`
	Profile *user.Profile `json:"profile,omitempty"`
	Created bool          `json:"created"`
}

// SignInWithGoogle verifies idToken, requires it to come from an allowed
// provider and records the login on the user's profile.
func (s *Service) SignInWithGoogle(ctx context.Context, idToken string) (*Result, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: idToken is required", ErrBadRequest)
	}

	tok, err := s.auth.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		log.Warn().Err(err).Bool("revoked", auth.IsIDTokenRevoked(err)).Msg("google sign-in rejected")
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	provider := tok.Firebase.SignInProvider
	if !s.providers[provider] {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotAllowed, provider)
	}

	rec, err := s.auth.GetUser(ctx, tok.UID)
	if err != nil {
		log.Error().Err(err).Str("uid", tok.UID).Msg("google sign-in: load user record")
		return nil, fmt.Errorf("load user %s: %w", tok.UID, err)
	}

	login := loginUser(tok.UID, rec)
	created, err := s.profiles.UpsertOnLogin(ctx, login)
	if err != nil {
		log.Error().Err(err).Str("uid", tok.UID).Msg("error saving user info")
		return nil, err
	}

	res := &Result{User: TokenUser(tok), Created: created}
	if p, err := s.profiles.Get(ctx, tok.UID); err == nil {
		res.Profile = p
	} else {
		log.Warn().Err(err).Str("uid", tok.UID).Msg("profile not readable after sign-in")
	}

	log.Info().Str("uid", tok.UID).Bool("created", created).Msg("google sign-in")
	return res, nil
}

// SignOut revokes every refresh token of uid. ID tokens issued before the
// revocation stop verifying because tokens are checked for revocation.
func (s *Service) SignOut(ctx context.Context, uid string) error {
	if strings.TrimSpace(uid) == "" {
		return ErrUnauthorized
	}
	if err := s.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("sign-out error")
		return fmt.Errorf("revoke tokens: %w", err)
	}
	log.Info().Str("uid", uid).Msg("signed out")
	return nil
}

// Current returns the signed-in user on ctx with their profile, if stored.
func (s *Service) Current(ctx context.Context) (*Result, error) {
	u, ok := authctx.UserFrom(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	res := &Result{User: u}
	p, err := s.profiles.Get(ctx, u.UID)
	switch {
	case err == nil:
		res.Profile = p
	case user.IsErrNotFound(err):
	default:
		return nil, err
	}
	return res, nil
}

// TokenUser converts a verified token to the request user.
func TokenUser(tok *auth.Token) *authctx.User {
	u := &authctx.User{
		UID:      tok.UID,
		Provider: tok.Firebase.SignInProvider,
		Claims:   tok.Claims,
	}
	if v, ok := tok.Claims["email"].(string); ok {
		u.Email = v
	}
	return u
}

func loginUser(uid string, rec *auth.UserRecord) user.LoginUser {
	u := user.LoginUser{UID: uid}
	if rec == nil || rec.UserInfo == nil {
		return u
	}
	u.Email = optional(rec.Email)
	u.DisplayName = optional(rec.DisplayName)
	u.PhotoURL = optional(rec.PhotoURL)
	return u
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
