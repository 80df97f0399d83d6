package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cofre/internal/domain/dashboard"
	"cofre/internal/domain/form"
	"cofre/internal/domain/session"
	"cofre/internal/domain/transaction"
	"cofre/internal/domain/uistate"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cofre %s [options]\n\nOptions:\n", name)
		fs.PrintDefaults()
	}
	return fs
}

// password reads a flag value, falling back to COFRE_PASSWORD so secrets
// need not appear in the shell history.
func password(value string) string {
	if value != "" {
		return value
	}
	return os.Getenv("COFRE_PASSWORD")
}

// submitForm fills f, runs submit and prints whatever the form reports.
func submitForm(ctx context.Context, out *console, f *form.State, values form.Values, submit func(ctx context.Context) error) error {
	f.Fill(values)
	if err := submit(ctx); err != nil {
		out.fieldErrors(f)
		return errReported
	}
	return nil
}

func runLogin(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "E-mail")
	pass := fs.String("password", "", "Password (default $COFRE_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := d.AuthForms.Login
	err := submitForm(ctx, out, f, form.Values{"email": *email, "password": password(*pass)}, d.AuthForms.SubmitLogin)
	if err != nil {
		return err
	}
	out.printf("Bem-vindo, %s!\n", sessionName(d))
	return nil
}

func runRegister(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("register")
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "E-mail")
	pass := fs.String("password", "", "Password (default $COFRE_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	values := form.Values{"name": *name, "email": *email, "password": password(*pass)}
	return submitForm(ctx, out, d.AuthForms.Register, values, d.AuthForms.SubmitRegister)
}

func runForgotPassword(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("forgot-password")
	email := fs.String("email", "", "E-mail")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return submitForm(ctx, out, d.AuthForms.Forgot, form.Values{"email": *email}, d.AuthForms.SubmitForgot)
}

func runResetPassword(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("reset-password")
	email := fs.String("email", "", "E-mail")
	code := fs.String("code", "", "Code received by e-mail")
	pass := fs.String("password", "", "New password (default $COFRE_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	values := form.Values{"email": *email, "code": *code, "newPassword": password(*pass)}
	return submitForm(ctx, out, d.AuthForms.Reset, values, d.AuthForms.SubmitReset)
}

func runLogout(ctx context.Context, d *Dependencies, out *console, args []string) error {
	if err := d.Session.Logout(ctx, session.ReasonUser); err != nil {
		return err
	}
	out.Success("Sessão encerrada.")
	return nil
}

func runWhoami(ctx context.Context, d *Dependencies, out *console, args []string) error {
	u, err := d.Users.Me(ctx)
	if err != nil {
		return err
	}
	out.printf("%s <%s>\nSessão válida até %s\n", u.Name, u.Email, d.Session.ExpiresAt().Local().Format("02/01/2006 15:04"))
	return nil
}

func runProfile(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("profile")
	name := fs.String("name", "", "New name (default: keep current)")
	current := fs.String("current-password", "", "Current password, required to change it")
	next := fs.String("new-password", "", "New password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := d.Users.Me(ctx)
	if err != nil {
		return err
	}
	d.ProfileForm.Open(&u)

	values := form.Values{"currentPassword": *current, "newPassword": *next, "confirmPassword": *next}
	if *name != "" {
		values["name"] = *name
	}
	return submitForm(ctx, out, d.ProfileForm.Form, values, d.ProfileForm.Submit)
}

func runDashboard(ctx context.Context, d *Dependencies, out *console, args []string) error {
	agg, err := d.Dashboard.Get(ctx)
	if err != nil {
		return err
	}
	printDashboard(out, agg)

	now := time.Now()
	insight, err := d.Dashboard.Insight(ctx, now.Year(), int(now.Month()))
	if err != nil {
		d.Log.Debug().Err(err).Msg("monthly insight unavailable")
		return nil
	}
	if insight != nil {
		out.printf("\n%s concentra %d%% dos seus gastos este mês (%s).\n",
			insight.CategoryName, insight.Percentage, out.money(insight.TotalAmount))
	}
	return nil
}

func printDashboard(out *console, agg dashboard.Aggregate) {
	out.table([]string{"Saldo total", "Receitas do mês", "Despesas do mês", "Balanço do mês"}, [][]string{{
		out.money(agg.TotalBalance),
		out.money(agg.TotalIncomeMonth),
		out.money(agg.TotalExpenseMonth),
		out.money(agg.MonthBalance()),
	}})
}

func runAccounts(ctx context.Context, d *Dependencies, out *console, args []string) error {
	res, err := d.Accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(res.Data) == 0 {
		out.printf("Nenhuma conta cadastrada.\n")
		return nil
	}

	rows := make([][]string, 0, len(res.Data))
	for _, a := range res.Data {
		rows = append(rows, []string{a.ID, a.Name, string(a.Type), out.money(a.Balance)})
	}
	rows = append(rows, []string{"", "Total", "", out.money(res.Data.TotalBalance())})
	out.table([]string{"ID", "Conta", "Tipo", "Saldo"}, rows)
	return nil
}

func runGoals(ctx context.Context, d *Dependencies, out *console, args []string) error {
	goals, err := d.Goals.Sorted(ctx)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		out.printf("Nenhuma meta cadastrada.\n")
		return nil
	}

	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		status := "em andamento"
		if g.Done() {
			status = "concluída"
		}
		rows = append(rows, []string{
			g.ID, g.Name, out.money(g.CurrentAmount), out.money(g.TargetAmount), out.percent(g.Progress()), status,
		})
	}
	out.table([]string{"ID", "Meta", "Guardado", "Objetivo", "Progresso", "Status"}, rows)
	return nil
}

func runTransactions(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("transactions")
	year := fs.Int("year", 0, "Year")
	month := fs.Int("month", 0, "Month (1-12)")
	accountID := fs.String("account", "", "Bank account ID")
	kind := fs.String("type", "", "INCOME or EXPENSE")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := &transaction.Filter{Year: *year, Month: *month, BankAccountID: *accountID}
	if *kind != "" {
		k, err := transaction.ParseKind(*kind)
		if err != nil {
			return err
		}
		filter.Type = k
	}
	d.UI.SetFilter(filter)

	rows, err := d.Transactions.Rows(ctx, d.UI.Filter())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		out.printf("Nenhuma transação encontrada.\n")
		return nil
	}

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		amount := r.Amount
		if r.Type == transaction.KindExpense {
			amount = amount.Neg()
		}
		table = append(table, []string{
			r.ID, r.Date.Format("02/01/2006"), r.Name, r.CategoryName, r.AccountName, out.money(amount),
		})
	}
	out.table([]string{"ID", "Data", "Descrição", "Categoria", "Conta", "Valor"}, table)
	return nil
}

func runSummary(ctx context.Context, d *Dependencies, out *console, args []string) error {
	now := time.Now()
	fs := newFlagSet("summary")
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *month < 1 || *month > 12 {
		return fmt.Errorf("mês inválido: %d", *month)
	}

	d.UI.SetMonthlySummaryOpen(true)
	defer d.UI.SetMonthlySummaryOpen(false)

	sum, err := d.Dashboard.Summary(ctx, dashboard.SummaryModalEntity, *year, *month)
	if err != nil {
		return err
	}

	out.printf("Gastos de %02d/%d: %s\n\n", *month, *year, out.money(sum.TotalExpense))
	if len(sum.ByCategory) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(sum.ByCategory))
	for _, c := range sum.ByCategory {
		rows = append(rows, []string{c.CategoryName, out.money(c.TotalAmount), out.percent(sum.Share(c))})
	}
	out.table([]string{"Categoria", "Total", "Participação"}, rows)
	return nil
}

// runWatch keeps the dashboard entities observed so that stale data is
// refetched in the background, reprinting totals on every interval.
func runWatch(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("watch")
	every := fs.Duration("every", 30*time.Second, "How often to print the dashboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stops := []func(){
		d.Dashboard.Query().Observe(),
		d.Accounts.Query().Observe(),
		d.Goals.Query().Observe(),
	}
	defer func() {
		for _, stop := range stops {
			stop()
		}
	}()

	d.Pool.Start()
	defer d.Pool.Shutdown(5 * time.Second)
	go d.Revalidator.Run(ctx)

	ticker := time.NewTicker(*every)
	defer ticker.Stop()

	for {
		if !d.Session.Present() {
			return errReported
		}
		res := d.Dashboard.Query().Peek()
		if res.Ready() {
			out.printf("\n%s\n", time.Now().Format("15:04:05"))
			printDashboard(out, res.Data)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func runAddAccount(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("add-account")
	name := fs.String("name", "", "Account name")
	balance := fs.String("balance", "0", "Initial balance")
	kind := fs.String("type", "CHECKING", "CHECKING, INVESTMENT or CASH")
	color := fs.String("color", "", "Display color")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d.UI.SetNewAccountOpen(true)
	values := form.Values{"name": *name, "initialBalance": *balance, "type": strings.ToUpper(*kind), "color": *color}
	return submitForm(ctx, out, d.AccountForm.Form, values, d.AccountForm.Submit)
}

func runAddGoal(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("add-goal")
	name := fs.String("name", "", "Goal name")
	target := fs.String("target", "", "Target amount")
	color := fs.String("color", "", "Display color")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d.UI.SetNewGoalOpen(true)
	values := form.Values{"name": *name, "targetAmount": *target, "color": *color}
	return submitForm(ctx, out, d.GoalForm.Form, values, d.GoalForm.Submit)
}

func runAddTransaction(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("add-transaction")
	kind := fs.String("type", "EXPENSE", "INCOME or EXPENSE")
	name := fs.String("name", "", "Description")
	amount := fs.String("amount", "", "Amount, e.g. 150,00")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default today)")
	accountID := fs.String("account", "", "Bank account ID")
	categoryID := fs.String("category", "", "Category ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	k, err := transaction.ParseKind(*kind)
	if err != nil {
		return err
	}
	// the modal only opens once the account list is known
	if _, err := d.Accounts.List(ctx); err != nil {
		return err
	}
	if err := d.TransactionForm.Open(k); err != nil {
		return errReported
	}

	values := form.Values{"name": *name, "amount": *amount, "bankAccountId": *accountID, "categoryId": *categoryID}
	if *date != "" {
		values["date"] = *date
	}
	return submitForm(ctx, out, d.TransactionForm.Form, values, d.TransactionForm.Submit)
}

func runContribute(ctx context.Context, d *Dependencies, out *console, args []string) error {
	return runGoalInteraction(ctx, d, out, "contribute", uistate.InteractionDeposit, args)
}

func runWithdraw(ctx context.Context, d *Dependencies, out *console, args []string) error {
	return runGoalInteraction(ctx, d, out, "withdraw", uistate.InteractionWithdraw, args)
}

func runGoalInteraction(ctx context.Context, d *Dependencies, out *console, name string, mode uistate.Interaction, args []string) error {
	fs := newFlagSet(name)
	goalID := fs.String("goal", "", "Goal ID")
	amount := fs.String("amount", "", "Amount")
	accountID := fs.String("account", "", "Bank account ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := d.GoalInteraction
	c.Open(*goalID, mode)

	values := form.Values{"goalId": *goalID, "amount": *amount, "bankAccountId": *accountID}
	return submitForm(ctx, out, c.Form, values, c.Submit)
}

func runDelete(ctx context.Context, d *Dependencies, out *console, args []string) error {
	fs := newFlagSet("delete")
	kind := fs.String("kind", "", "account, goal or transaction")
	id := fs.String("id", "", "ID of the entity to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target := uistate.DeleteTarget(strings.ToUpper(*kind))
	if *id == "" || (target != uistate.DeleteAccount && target != uistate.DeleteGoal && target != uistate.DeleteTransaction) {
		fs.Usage()
		return errReported
	}

	d.ConfirmDelete.Open(target, *id)
	if err := d.ConfirmDelete.Confirm(ctx); err != nil {
		return errReported
	}
	return nil
}
