package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"cofre/internal/domain/user"
)

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the POST /users body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordReset is the POST /auth/reset-password body. Code is the six
// character code mailed by forgot-password.
type PasswordReset struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// TokenResponse is returned by login and reset-password.
type TokenResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r TokenResponse) User(fallbackEmail string) *user.User {
	u := &user.User{ID: r.ID, Name: r.Name, Email: r.Email}
	if u.Email == "" {
		u.Email = fallbackEmail
	}
	return u
}

// API defines the unauthenticated REST calls.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type API interface {
	Login(ctx context.Context, in Credentials) (TokenResponse, error)
	Register(ctx context.Context, in Registration) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in PasswordReset) (TokenResponse, error)
}

// Sessions starts a session from an issued token. *session.Gate implements it.
type Sessions interface {
	Start(ctx context.Context, token string, u *user.User) error
}

type Service struct {
	api      API
	sessions Sessions
	log      zerolog.Logger
}

func NewService(api API, sessions Sessions, log zerolog.Logger) *Service {
	return &Service{api: api, sessions: sessions, log: log.With().Str("component", "auth").Logger()}
}

// Login authenticates and starts the session. A 401 is returned unchanged
// so forms can map it onto the password field.
func (s *Service) Login(ctx context.Context, in Credentials) error {
	resp, err := s.api.Login(ctx, in)
	if err != nil {
		return err
	}
	return s.start(ctx, resp, in.Email)
}

// Register creates the user, then logs in with the same credentials.
func (s *Service) Register(ctx context.Context, in Registration) error {
	if err := s.api.Register(ctx, in); err != nil {
		return err
	}
	s.log.Info().Msg("user registered")
	return s.Login(ctx, Credentials{Email: in.Email, Password: in.Password})
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.api.ForgotPassword(ctx, email)
}

// ResetPassword sets the new password and starts the session with the
// token the server returns.
func (s *Service) ResetPassword(ctx context.Context, in PasswordReset) error {
	resp, err := s.api.ResetPassword(ctx, in)
	if err != nil {
		return err
	}
	return s.start(ctx, resp, in.Email)
}

func (s *Service) start(ctx context.Context, resp TokenResponse, email string) error {
	if err := s.sessions.Start(ctx, resp.Token, resp.User(email)); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}
