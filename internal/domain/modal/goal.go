package modal

import (
	"context"
	"errors"
	"strings"

	"cofre/internal/domain/form"
	"cofre/internal/domain/goal"
	"cofre/internal/domain/mutation"
	"cofre/internal/domain/uistate"
)

// GoalForm backs the new and edit goal modals.
type GoalForm struct {
	Form *form.State

	editID string
	exec   Executor
	ui     *uistate.State
	notify Notifier
}

func NewGoalForm(exec Executor, ui *uistate.State, notify Notifier) *GoalForm {
	return &GoalForm{Form: form.New(form.Goal), exec: exec, ui: ui, notify: notify}
}

func (c *GoalForm) Edit(g goal.Goal) {
	c.ui.OpenEditGoal(g.ID)
	c.editID = g.ID
	c.Form.Reset()
	c.Form.Fill(form.Values{
		"name":         g.Name,
		"targetAmount": g.TargetAmount.String(),
		"color":        g.Color,
	})
}

func (c *GoalForm) Close() {
	if c.editID != "" {
		c.ui.CloseEditGoal()
	} else {
		c.ui.SetNewGoalOpen(false)
	}
	c.editID = ""
	c.Form.Reset()
}

func (c *GoalForm) Submit(ctx context.Context) error {
	success, fallback := "Meta criada com sucesso!", "Erro ao criar meta. Tente novamente."
	if c.editID != "" {
		success, fallback = "Meta atualizada com sucesso!", "Erro ao atualizar meta. Tente novamente."
	}
	return submit(ctx, c.Form, c.notify, success, fallback, c.Close, func(ctx context.Context, v form.Values) error {
		target, err := amount(v, "targetAmount")
		if err != nil {
			return err
		}
		in := goal.Input{Name: strings.TrimSpace(v["name"]), TargetAmount: target, Color: v["color"]}
		if c.editID != "" {
			return c.exec.Execute(ctx, mutation.UpdateGoal, mutation.GoalUpdate{ID: c.editID, Input: in})
		}
		return c.exec.Execute(ctx, mutation.CreateGoal, in)
	})
}

// GoalLookup finds a goal in the cached list. *goal.Service implements it.
type GoalLookup interface {
	Get(ctx context.Context, id string) (goal.Goal, error)
}

const (
	MsgExceedsRemaining  = "Valor não pode ultrapassar o que falta para a meta"
	MsgExceedsBalance    = "Valor não pode ser maior que o saldo da meta"
	MsgSelectGoal        = "Selecione uma meta"
	MsgGoalCompleted     = "Esta meta já foi concluída"
	MsgNothingToWithdraw = "Esta meta não tem saldo para resgatar"
)

// GoalInteraction contributes to or withdraws from a goal. The goal rules
// are checked against the cached goal before any request is sent.
type GoalInteraction struct {
	Form *form.State

	mode   uistate.Interaction
	exec   Executor
	goals  GoalLookup
	ui     *uistate.State
	notify Notifier
}

func NewGoalInteraction(exec Executor, goals GoalLookup, ui *uistate.State, notify Notifier) *GoalInteraction {
	return &GoalInteraction{
		Form:   form.New(form.GoalInteraction),
		mode:   uistate.InteractionDeposit,
		exec:   exec,
		goals:  goals,
		ui:     ui,
		notify: notify,
	}
}

// Open starts an interaction. goalID may be empty to let the user pick.
func (c *GoalInteraction) Open(goalID string, mode uistate.Interaction) {
	c.ui.OpenGoalValue(goalID, mode)
	c.mode = mode
	c.Form.Reset()
	c.Form.Fill(form.Values{"goalId": goalID})
}

func (c *GoalInteraction) Mode() uistate.Interaction {
	return c.mode
}

func (c *GoalInteraction) Close() {
	c.ui.CloseGoalValue()
	c.Form.Reset()
}

// Available reports whether the current mode applies to the goal at all:
// completed goals take no contributions and empty ones allow no withdrawal.
func (c *GoalInteraction) Available(g goal.Goal) bool {
	if c.mode == uistate.InteractionWithdraw {
		return goal.CanWithdraw(g)
	}
	return goal.CanContribute(g)
}

func (c *GoalInteraction) Submit(ctx context.Context) error {
	var success string
	return submit(ctx, c.Form, c.notify, "", "Erro na operação. Tente novamente.", func() {
		c.notify.Success(success)
		c.Close()
	}, func(ctx context.Context, v form.Values) error {
		g, err := c.lookup(ctx, v["goalId"])
		if err != nil {
			return err
		}
		if !c.Available(g) {
			if c.mode == uistate.InteractionWithdraw {
				return fieldError("amount", MsgNothingToWithdraw, goal.ErrNothingToWithdraw)
			}
			return fieldError("amount", MsgGoalCompleted, goal.ErrGoalCompleted)
		}

		amt, err := amount(v, "amount")
		if err != nil {
			return err
		}
		in := goal.AmountInput{Amount: amt, BankAccountID: v["bankAccountId"]}

		if c.mode == uistate.InteractionWithdraw {
			if err := goal.ValidateWithdrawal(g, amt); err != nil {
				return fieldError("amount", ruleMessage(err, MsgExceedsBalance), err)
			}
			success = "Resgate realizado!"
			return c.exec.Execute(ctx, mutation.WithdrawGoal, mutation.GoalAmount{GoalID: g.ID, Input: in})
		}

		if err := goal.ValidateContribution(g, amt); err != nil {
			return fieldError("amount", ruleMessage(err, MsgExceedsRemaining), err)
		}
		success = "Aporte realizado!"
		if goal.WouldComplete(g, amt) {
			success = "Parabéns! Meta concluída 🎉"
		}
		return c.exec.Execute(ctx, mutation.ContributeGoal, mutation.GoalAmount{GoalID: g.ID, Input: in})
	})
}

// lookup resolves the selected goal. A missing or unknown goal fails on the
// goalId field; any other failure is left for the notifier.
func (c *GoalInteraction) lookup(ctx context.Context, id string) (goal.Goal, error) {
	if id == "" {
		return goal.Goal{}, fieldError("goalId", MsgSelectGoal, goal.ErrGoalNotFound)
	}
	g, err := c.goals.Get(ctx, id)
	if errors.Is(err, goal.ErrGoalNotFound) {
		return goal.Goal{}, fieldError("goalId", MsgSelectGoal, err)
	}
	if err != nil {
		return goal.Goal{}, err
	}
	return g, nil
}

func ruleMessage(err error, exceeded string) string {
	if errors.Is(err, goal.ErrNonPositiveAmount) {
		return "Valor deve ser maior que zero"
	}
	return exceeded
}
