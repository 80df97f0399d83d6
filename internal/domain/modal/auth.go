package modal

import (
	"context"

	"cofre/internal/domain/auth"
	"cofre/internal/domain/form"
)

// Auth runs the unauthenticated forms.
type Auth struct {
	Login    *form.State
	Register *form.State
	Forgot   *form.State
	Reset    *form.State

	svc    *auth.Service
	notify Notifier
}

func NewAuth(svc *auth.Service, notify Notifier) *Auth {
	return &Auth{
		Login:    form.New(form.Login),
		Register: form.New(form.Register),
		Forgot:   form.New(form.ForgotPassword),
		Reset:    form.New(form.ResetPassword),
		svc:      svc,
		notify:   notify,
	}
}

// SubmitLogin logs in. Wrong credentials land on the password field.
func (a *Auth) SubmitLogin(ctx context.Context) error {
	return submit(ctx, a.Login, a.notify, "", "Credenciais inválidas.", nil, func(ctx context.Context, v form.Values) error {
		return a.svc.Login(ctx, auth.Credentials{Email: v["email"], Password: v["password"]})
	})
}

func (a *Auth) SubmitRegister(ctx context.Context) error {
	return submit(ctx, a.Register, a.notify, "", "Erro ao criar conta.", nil, func(ctx context.Context, v form.Values) error {
		return a.svc.Register(ctx, auth.Registration{Name: v["name"], Email: v["email"], Password: v["password"]})
	})
}

func (a *Auth) SubmitForgot(ctx context.Context) error {
	return submit(ctx, a.Forgot, a.notify, "Enviamos um código para o seu e-mail.", "Erro ao solicitar recuperação de senha.", nil, func(ctx context.Context, v form.Values) error {
		return a.svc.ForgotPassword(ctx, v["email"])
	})
}

func (a *Auth) SubmitReset(ctx context.Context) error {
	return submit(ctx, a.Reset, a.notify, "Senha redefinida com sucesso!", "Erro ao redefinir senha.", nil, func(ctx context.Context, v form.Values) error {
		return a.svc.ResetPassword(ctx, auth.PasswordReset{Email: v["email"], Code: v["code"], NewPassword: v["newPassword"]})
	})
}
