package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"cofre/internal/domain/user"
	"cofre/internal/shared/apperr"
)

// MockAPI is a mock implementation of API interface
type MockAPI struct {
	LoginFunc          func(ctx context.Context, in Credentials) (TokenResponse, error)
	RegisterFunc       func(ctx context.Context, in Registration) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, in PasswordReset) (TokenResponse, error)
}

func (m *MockAPI) Login(ctx context.Context, in Credentials) (TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, in)
	}
	return TokenResponse{}, nil
}

func (m *MockAPI) Register(ctx context.Context, in Registration) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil
}

func (m *MockAPI) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAPI) ResetPassword(ctx context.Context, in PasswordReset) (TokenResponse, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, in)
	}
	return TokenResponse{}, nil
}

type sessionsStub struct {
	token string
	user  *user.User
}

func (s *sessionsStub) Start(ctx context.Context, token string, u *user.User) error {
	s.token, s.user = token, u
	return nil
}

func TestService_RegisterThenLogin(t *testing.T) {
	var order []string
	api := &MockAPI{
		RegisterFunc: func(ctx context.Context, in Registration) error {
			order = append(order, "register")
			return nil
		},
		LoginFunc: func(ctx context.Context, in Credentials) (TokenResponse, error) {
			order = append(order, "login")
			if in.Email != "ana@example.com" || in.Password != "secret1" {
				t.Errorf("login with %+v", in)
			}
			return TokenResponse{Token: "tok", Name: "Ana"}, nil
		},
	}
	sessions := &sessionsStub{}
	svc := NewService(api, sessions, zerolog.Nop())

	if err := svc.Register(context.Background(), Registration{Name: "Ana", Email: "ana@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(order) != 2 || order[0] != "register" || order[1] != "login" {
		t.Errorf("calls = %v", order)
	}
	if sessions.token != "tok" || sessions.user.Email != "ana@example.com" || sessions.user.Name != "Ana" {
		t.Errorf("session started with %q %+v", sessions.token, sessions.user)
	}
}

func TestService_LoginFailureStartsNothing(t *testing.T) {
	api := &MockAPI{LoginFunc: func(ctx context.Context, in Credentials) (TokenResponse, error) {
		return TokenResponse{}, apperr.FromResponse("POST /auth/login", 401, nil)
	}}
	sessions := &sessionsStub{}
	svc := NewService(api, sessions, zerolog.Nop())

	err := svc.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "x"})
	if !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("Login() error = %v, want auth error", err)
	}
	if sessions.token != "" {
		t.Error("session started after failed login")
	}
}

func TestService_ResetPasswordStartsSession(t *testing.T) {
	api := &MockAPI{ResetPasswordFunc: func(ctx context.Context, in PasswordReset) (TokenResponse, error) {
		if in.Code != "123456" {
			t.Errorf("code = %q", in.Code)
		}
		return TokenResponse{Token: "tok2", ID: "u1", Name: "Ana", Email: "ana@example.com"}, nil
	}}
	sessions := &sessionsStub{}
	svc := NewService(api, sessions, zerolog.Nop())

	if err := svc.ResetPassword(context.Background(), PasswordReset{Email: "ana@example.com", Code: "123456", NewPassword: "12345678"}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if sessions.token != "tok2" || sessions.user.ID != "u1" {
		t.Errorf("session = %q %+v", sessions.token, sessions.user)
	}
}
