package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cofre/internal/domain/session"
	"cofre/internal/shared/config"
)

const usage = `Cofre - personal finance from the terminal

Usage:
  cofre <command> [options]

Session:
  login             Sign in (--email, --password or COFRE_PASSWORD)
  register          Create an account and sign in
  forgot-password   Mail a reset code (--email)
  reset-password    Set a new password with the mailed code
  logout            End the session and drop every cached entity
  whoami            Show the signed-in user
  profile           Update name or password

Reading:
  dashboard         Balance, month income and expense, top category
  accounts          List bank accounts
  goals             List savings goals
  transactions      List transactions (--year, --month, --account, --type)
  summary           Monthly expense by category (--year, --month)
  watch             Keep the dashboard live, refetching stale data

Writing:
  add-account       Create a bank account
  add-goal          Create a savings goal
  add-transaction   Record an income or expense
  contribute        Move money from an account into a goal
  withdraw          Move money from a goal back to an account
  delete            Delete an account, goal or transaction (--kind, --id)

Configuration comes from the environment: COFRE_API_BASE_URL and
ENCRYPTION_KEY are required.
`

// errReported marks failures already shown to the user.
var errReported = errors.New("failure already reported")

var errNotLoggedIn = errors.New("não autenticado: execute `cofre login`")

type command struct {
	// path is the screen the command stands for. Public paths refuse to
	// run inside a session; every other path requires one.
	path string
	run  func(ctx context.Context, d *Dependencies, out *console, args []string) error
}

var commands = map[string]command{
	"login":           {session.LoginPath, runLogin},
	"register":        {"/register", runRegister},
	"forgot-password": {"/forgot-password", runForgotPassword},
	"reset-password":  {"/reset-password", runResetPassword},
	"logout":          {session.DashboardPath, runLogout},
	"whoami":          {"/profile", runWhoami},
	"profile":         {"/profile", runProfile},
	"dashboard":       {session.DashboardPath, runDashboard},
	"accounts":        {"/accounts", runAccounts},
	"goals":           {"/goals", runGoals},
	"transactions":    {"/transactions", runTransactions},
	"summary":         {session.DashboardPath, runSummary},
	"watch":           {session.DashboardPath, runWatch},
	"add-account":     {"/accounts", runAddAccount},
	"add-goal":        {"/goals", runAddGoal},
	"add-transaction": {"/transactions", runAddTransaction},
	"contribute":      {"/goals", runContribute},
	"withdraw":        {"/goals", runWithdraw},
	"delete":          {session.DashboardPath, runDelete},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		fmt.Print(usage)
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err := run(cmd, os.Args[2:]); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cmd command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := newConsole(os.Stdout, os.Stderr)
	d, err := NewDependencies(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Session.Restore(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
		case errors.Is(err, session.ErrTokenExpired):
			out.Error("Sessão expirada. Faça login novamente.")
		default:
			return err
		}
	}

	if redirect := d.Session.Guard(cmd.path); redirect != "" {
		if redirect == session.LoginPath {
			return errNotLoggedIn
		}
		return fmt.Errorf("já autenticado como %s: execute `cofre logout` primeiro", sessionName(d))
	}

	return cmd.run(ctx, d, out, args)
}

func sessionName(d *Dependencies) string {
	if u := d.Session.User(); u != nil && u.Email != "" {
		return u.Email
	}
	return "usuário atual"
}
