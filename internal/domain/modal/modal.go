// Package modal holds the controllers behind the dialogs. Each one binds a
// form.State to a write and reports failures either inline as field errors
// or through the Notifier.
package modal

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"cofre/internal/domain/form"
	"cofre/internal/domain/mutation"
	"cofre/internal/shared/apperr"
)

// Notifier shows transient success and failure messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Executor runs mutations. *mutation.Orchestrator implements it.
type Executor interface {
	Execute(ctx context.Context, op mutation.Operation, payload any) error
}

// submit runs f through HandleSubmit. Failures that land on fields stay
// inline; anything else is notified with fallback as the default text.
// On success the form is reset and done, when set, is called.
func submit(ctx context.Context, f *form.State, n Notifier, success, fallback string, done func(), fn func(ctx context.Context, v form.Values) error) error {
	err := f.HandleSubmit(ctx, fn)
	switch {
	case err == nil:
		if success != "" {
			n.Success(success)
		}
		f.Reset()
		if done != nil {
			done()
		}
	case errors.Is(err, form.ErrSubmitting):
	case errors.Is(err, apperr.ErrValidation), len(f.Schema().ServerFields(err)) > 0:
	default:
		n.Error(apperr.Message(err, fallback))
	}
	return err
}

// fieldError fails a submission on one field without reaching the server.
func fieldError(field, msg string, cause error) error {
	return &apperr.Error{Kind: apperr.KindValidation, Fields: map[string]string{field: msg}, Err: cause}
}

// amount parses a form amount already checked by the schema.
func amount(v form.Values, field string) (decimal.Decimal, error) {
	d, err := form.ParseAmount(v[field])
	if err != nil {
		return decimal.Zero, fieldError(field, "Valor inválido", err)
	}
	return d, nil
}
