package modal

import (
	"context"
	"errors"

	"cofre/internal/domain/mutation"
	"cofre/internal/domain/uistate"
	"cofre/internal/shared/apperr"
)

var ErrNothingToDelete = errors.New("no delete target selected")

type deleteAction struct {
	op       mutation.Operation
	success  string
	fallback string
}

var deleteActions = map[uistate.DeleteTarget]deleteAction{
	uistate.DeleteAccount:     {mutation.DeleteAccount, "Conta deletada com sucesso!", "Erro ao deletar conta."},
	uistate.DeleteGoal:        {mutation.DeleteGoal, "Meta deletada com sucesso!", "Erro ao deletar meta."},
	uistate.DeleteTransaction: {mutation.DeleteTransaction, "Transação deletada com sucesso!", "Erro ao deletar transação."},
}

// ConfirmDelete runs the delete the confirm modal was opened for.
type ConfirmDelete struct {
	exec   Executor
	ui     *uistate.State
	notify Notifier
}

func NewConfirmDelete(exec Executor, ui *uistate.State, notify Notifier) *ConfirmDelete {
	return &ConfirmDelete{exec: exec, ui: ui, notify: notify}
}

func (c *ConfirmDelete) Open(target uistate.DeleteTarget, id string) {
	c.ui.OpenConfirmDelete(target, id)
}

// Confirm deletes the selected entity. The modal closes only on success so
// the user can retry.
func (c *ConfirmDelete) Confirm(ctx context.Context) error {
	m := c.ui.Modals()
	action, ok := deleteActions[m.ConfirmDeleteTarget]
	if !ok || m.ConfirmDeleteID == "" {
		return ErrNothingToDelete
	}

	if err := c.exec.Execute(ctx, action.op, mutation.Target{ID: m.ConfirmDeleteID}); err != nil {
		c.notify.Error(apperr.Message(err, action.fallback))
		return err
	}
	c.notify.Success(action.success)
	c.ui.CloseConfirmDelete()
	return nil
}

func (c *ConfirmDelete) Cancel() {
	c.ui.CloseConfirmDelete()
}
