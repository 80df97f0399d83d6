package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cofre/internal/domain/form"
	"cofre/internal/domain/session"
)

// console is the terminal surface: it prints results, shows notifications
// and stands in for navigation.
type console struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	printer *message.Printer
}

func newConsole(out, errOut io.Writer) *console {
	return &console{
		out:     out,
		err:     errOut,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

func (c *console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.err, "✓ %s\n", msg)
}

func (c *console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.err, "✗ %s\n", msg)
}

// Redirect is called by the session when it ends. The CLI has no screens,
// so only the move to the login page is worth telling the user about.
func (c *console) Redirect(path string) {
	if path != session.LoginPath {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.err, "Sessão encerrada. Faça login novamente.")
}

// money formats d as Brazilian reais, e.g. "R$ 1.234,56".
func (c *console) money(d decimal.Decimal) string {
	return c.printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

func (c *console) percent(d decimal.Decimal) string {
	return c.printer.Sprintf("%.0f%%", d.Round(0).InexactFloat64())
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) table(header []string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// fieldErrors prints the errors a form is showing, in field order.
func (c *console) fieldErrors(f *form.State) {
	errs := f.Errors()
	if len(errs) == 0 {
		return
	}

	order := make(map[string]int, len(f.Schema().Fields))
	for i, field := range f.Schema().Fields {
		order[field.Name] = i
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return order[names[i]] < order[names[j]] })

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		fmt.Fprintf(c.err, "  %s: %s\n", name, errs[name])
	}
}
