package modal

import (
	"context"
	"strings"
	"time"

	"cofre/internal/domain/form"
	"cofre/internal/domain/mutation"
	"cofre/internal/domain/transaction"
	"cofre/internal/domain/uistate"
)

// AccountChecker answers whether any account exists.
type AccountChecker interface {
	HasAccounts() bool
}

// TransactionForm backs the new and edit transaction modals.
type TransactionForm struct {
	Form *form.State

	editID   string
	exec     Executor
	ui       *uistate.State
	accounts AccountChecker
	notify   Notifier
	now      func() time.Time
}

func NewTransactionForm(exec Executor, ui *uistate.State, accounts AccountChecker, notify Notifier) *TransactionForm {
	return &TransactionForm{
		Form:     form.New(form.Transaction),
		exec:     exec,
		ui:       ui,
		accounts: accounts,
		notify:   notify,
		now:      time.Now,
	}
}

// Open starts a new transaction of kind dated today. Without accounts the
// modal stays closed and the user is told to create one.
func (c *TransactionForm) Open(kind transaction.Kind) error {
	if err := c.ui.OpenNewTransaction(kind, c.accounts.HasAccounts()); err != nil {
		c.notify.Error(err.Error())
		return err
	}
	c.editID = ""
	c.Form.Reset()
	c.Form.Fill(form.Values{
		"type": string(kind),
		"date": c.now().Format(time.DateOnly),
	})
	return nil
}

// Edit loads tx into the form.
func (c *TransactionForm) Edit(tx transaction.Transaction) {
	c.ui.OpenEditTransaction(tx.ID)
	c.editID = tx.ID
	c.Form.Reset()
	c.Form.Fill(form.Values{
		"amount":        tx.Amount.String(),
		"name":          tx.Name,
		"categoryId":    tx.CategoryID,
		"bankAccountId": tx.BankAccountID,
		"date":          tx.Date.String(),
		"type":          string(tx.Type),
	})
}

func (c *TransactionForm) Close() {
	if c.editID != "" {
		c.ui.CloseEditTransaction()
	} else {
		c.ui.CloseNewTransaction()
	}
	c.editID = ""
	c.Form.Reset()
}

func (c *TransactionForm) Submit(ctx context.Context) error {
	success, fallback := "Transação salva com sucesso!", "Erro ao salvar transação."
	if c.editID != "" {
		success, fallback = "Transação atualizada!", "Erro ao atualizar transação."
	}
	return submit(ctx, c.Form, c.notify, success, fallback, c.Close, func(ctx context.Context, v form.Values) error {
		in, err := transactionInput(v)
		if err != nil {
			return err
		}
		if c.editID != "" {
			return c.exec.Execute(ctx, mutation.UpdateTransaction, mutation.TransactionUpdate{ID: c.editID, Input: in})
		}
		return c.exec.Execute(ctx, mutation.CreateTransaction, in)
	})
}

func transactionInput(v form.Values) (transaction.Input, error) {
	amt, err := amount(v, "amount")
	if err != nil {
		return transaction.Input{}, err
	}
	date, err := transaction.ParseDate(strings.TrimSpace(v["date"]))
	if err != nil {
		return transaction.Input{}, fieldError("date", "Data inválida", err)
	}
	kind, err := transaction.ParseKind(v["type"])
	if err != nil {
		return transaction.Input{}, fieldError("type", "Tipo da transação é obrigatório", err)
	}
	return transaction.Input{
		Name:          strings.TrimSpace(v["name"]),
		Amount:        amt,
		Date:          date,
		Type:          kind,
		BankAccountID: v["bankAccountId"],
		CategoryID:    v["categoryId"],
	}, nil
}
