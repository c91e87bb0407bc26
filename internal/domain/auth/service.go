// Package auth implements the signin flow and profile operations on top of
// the login API, persisting credentials through the session store.
package auth

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/internal/platform/session"
)

type Service struct {
	client  *gateway.Client
	session *session.Session
	log     zerolog.Logger
}

func NewService(client *gateway.Client, sess *session.Session, log zerolog.Logger) *Service {
	return &Service{client: client, session: sess, log: log}
}

// Login posts credentials and on success persists the token pair and the
// user profile. On any failure nothing is written to the session.
func (s *Service) Login(ctx context.Context, creds Credentials) (User, error) {
	if err := creds.Validate(); err != nil {
		return User{}, err
	}
	env, err := gateway.PostLoginNoAuth[gateway.Envelope[LoginData]](ctx, s.client, gateway.EndpointLogin, creds)
	if err != nil {
		return User{}, err
	}
	data, err := env.Unwrap(gateway.EndpointLogin, "login failed")
	if err != nil {
		return User{}, err
	}
	if err := s.session.SetAuth(data.AccessToken, data.RefreshToken, data.User); err != nil {
		return User{}, err
	}
	s.log.Info().Str("user", data.User.Email).Msg("signed in")
	return data.User, nil
}

// Logout clears local state only; the session must die even when the
// network is down.
func (s *Service) Logout() error {
	return s.session.Clear()
}

func (s *Service) IsAuthenticated() bool {
	return s.session.IsAuthenticated()
}

// CurrentUser reads the cached profile without a network call.
func (s *Service) CurrentUser() (User, error) {
	var user User
	if err := s.session.CurrentUser(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ForgotPassword requests a reset code for the given address.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := gateway.PostLoginNoAuth[gateway.Envelope[string]](ctx, s.client, gateway.EndpointForgotPassword,
		map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return env.Unwrap(gateway.EndpointForgotPassword, "password reset request failed")
}

// ResetPassword redeems a reset code for a new password.
func (s *Service) ResetPassword(ctx context.Context, reset PasswordReset) error {
	if err := reset.Validate(); err != nil {
		return err
	}
	env, err := gateway.PostLoginNoAuth[gateway.Envelope[any]](ctx, s.client, gateway.EndpointResetPassword, reset)
	if err != nil {
		return err
	}
	_, err = env.Unwrap(gateway.EndpointResetPassword, "password reset failed")
	return err
}

// Profile fetches the fresh profile from the backend and refreshes the
// cached copy alongside the existing tokens.
func (s *Service) Profile(ctx context.Context) (User, error) {
	env, err := gateway.GetLogin[gateway.Envelope[User]](ctx, s.client, gateway.EndpointUserProfile)
	if err != nil {
		return User{}, err
	}
	user, err := env.Unwrap(gateway.EndpointUserProfile, "profile load failed")
	if err != nil {
		return User{}, err
	}
	if s.session.IsAuthenticated() {
		_ = s.session.SetAuth(s.session.Token(), s.session.RefreshToken(), user)
	}
	return user, nil
}

// UpdateProfile saves edits to the signed-in user's own profile.
func (s *Service) UpdateProfile(ctx context.Context, user User) (User, error) {
	env, err := gateway.PostLogin[gateway.Envelope[User]](ctx, s.client, gateway.EndpointUpdateUserProfile, user)
	if err != nil {
		return User{}, err
	}
	updated, err := env.Unwrap(gateway.EndpointUpdateUserProfile, "profile update failed")
	if err != nil {
		return User{}, err
	}
	_ = s.session.SetAuth(s.session.Token(), s.session.RefreshToken(), updated)
	return updated, nil
}
