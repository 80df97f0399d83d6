package modal

import (
	"context"
	"strings"

	"cofre/internal/domain/account"
	"cofre/internal/domain/form"
	"cofre/internal/domain/mutation"
	"cofre/internal/domain/uistate"
)

// AccountForm creates an account, or edits one after Edit.
type AccountForm struct {
	Form *form.State

	editID string
	exec   Executor
	ui     *uistate.State
	notify Notifier
}

func NewAccountForm(exec Executor, ui *uistate.State, notify Notifier) *AccountForm {
	return &AccountForm{Form: form.New(form.Account), exec: exec, ui: ui, notify: notify}
}

// Edit loads a into the form.
func (c *AccountForm) Edit(a account.Account) {
	c.Form.Reset()
	c.editID = a.ID
	c.Form.Fill(form.Values{
		"name":           a.Name,
		"initialBalance": a.Balance.String(),
		"type":           a.Type.WireValue(),
		"color":          a.Color,
	})
}

func (c *AccountForm) Close() {
	c.editID = ""
	c.Form.Reset()
	c.ui.SetNewAccountOpen(false)
}

func (c *AccountForm) Submit(ctx context.Context) error {
	success, fallback := "Conta criada com sucesso!", "Erro ao criar conta. Tente novamente."
	if c.editID != "" {
		success, fallback = "Conta atualizada com sucesso!", "Erro ao atualizar conta. Tente novamente."
	}
	return submit(ctx, c.Form, c.notify, success, fallback, c.Close, func(ctx context.Context, v form.Values) error {
		balance, err := amount(v, "initialBalance")
		if err != nil {
			return err
		}
		in := account.Input{
			Name:           strings.TrimSpace(v["name"]),
			InitialBalance: balance,
			Type:           account.ParseType(v["type"]),
			Color:          v["color"],
		}
		if c.editID != "" {
			return c.exec.Execute(ctx, mutation.UpdateAccount, mutation.AccountUpdate{ID: c.editID, Input: in})
		}
		return c.exec.Execute(ctx, mutation.CreateAccount, in)
	})
}
