package modal

import (
	"context"
	"strings"

	"cofre/internal/domain/form"
	"cofre/internal/domain/mutation"
	"cofre/internal/domain/uistate"
	"cofre/internal/domain/user"
)

// ProfileForm edits the current user's name and optionally the password.
type ProfileForm struct {
	Form *form.State

	exec   Executor
	ui     *uistate.State
	notify Notifier
}

func NewProfileForm(exec Executor, ui *uistate.State, notify Notifier) *ProfileForm {
	return &ProfileForm{Form: form.New(form.Profile), exec: exec, ui: ui, notify: notify}
}

// Open fills the form from the session's profile.
func (c *ProfileForm) Open(u *user.User) {
	c.ui.SetEditProfileOpen(true)
	c.Form.Reset()
	if u != nil {
		c.Form.Fill(form.Values{"name": u.Name})
	}
}

func (c *ProfileForm) Close() {
	c.ui.SetEditProfileOpen(false)
	c.Form.Reset()
}

func (c *ProfileForm) Submit(ctx context.Context) error {
	return submit(ctx, c.Form, c.notify, "Perfil atualizado com sucesso!", "Erro ao atualizar perfil. Tente novamente.", c.Close, func(ctx context.Context, v form.Values) error {
		in := user.ProfileInput{Name: strings.TrimSpace(v["name"])}
		if strings.TrimSpace(v["newPassword"]) != "" {
			in.CurrentPassword = v["currentPassword"]
			in.NewPassword = v["newPassword"]
		}
		return c.exec.Execute(ctx, mutation.UpdateProfile, in)
	})
}
