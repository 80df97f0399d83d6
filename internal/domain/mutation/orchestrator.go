package mutation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"cofre/internal/domain/account"
	"cofre/internal/domain/goal"
	"cofre/internal/domain/transaction"
	"cofre/internal/domain/user"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrInvalidPayload   = errors.New("invalid payload")
)

// API is the write side of the REST collaborator.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type API interface {
	CreateTransaction(ctx context.Context, in transaction.Input) error
	UpdateTransaction(ctx context.Context, id string, in transaction.Input) error
	DeleteTransaction(ctx context.Context, id string) error
	CreateAccount(ctx context.Context, in account.Input) error
	UpdateAccount(ctx context.Context, id string, in account.Input) error
	DeleteAccount(ctx context.Context, id string) error
	CreateGoal(ctx context.Context, in goal.Input) error
	UpdateGoal(ctx context.Context, id string, in goal.Input) error
	DeleteGoal(ctx context.Context, id string) error
	ContributeGoal(ctx context.Context, id string, in goal.AmountInput) error
	WithdrawGoal(ctx context.Context, id string, in goal.AmountInput) error
	UpdateMe(ctx context.Context, in user.ProfileInput) (user.User, error)
}

// Invalidator marks cached entities stale. *cache.Store implements it.
type Invalidator interface {
	InvalidatePrefix(entity string)
}

// FilterEditor holds the transaction filter local edits apply to.
type FilterEditor interface {
	RetractAccount(id string) bool
}

// Payloads. Create operations take the bare input.
type (
	TransactionUpdate struct {
		ID    string
		Input transaction.Input
	}
	AccountUpdate struct {
		ID    string
		Input account.Input
	}
	GoalUpdate struct {
		ID    string
		Input goal.Input
	}
	GoalAmount struct {
		GoalID string
		Input  goal.AmountInput
	}
	// Target names the entity a delete acts on.
	Target struct {
		ID string
	}
)

// Orchestrator is the only writer of entity data. Each execution performs
// the write, then applies the operation's plan. A failed write leaves the
// cache untouched and is never retried.
type Orchestrator struct {
	api     API
	cache   Invalidator
	filters FilterEditor
	users   user.Sink
	log     zerolog.Logger
}

func NewOrchestrator(api API, cache Invalidator, filters FilterEditor, users user.Sink, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:     api,
		cache:   cache,
		filters: filters,
		users:   users,
		log:     log.With().Str("component", "mutation").Logger(),
	}
}

// Execute runs op with payload. Invalidations are issued in plan order once
// the write succeeds; their refetches may complete in any order.
func (o *Orchestrator) Execute(ctx context.Context, op Operation, payload any) error {
	plan, ok := Plans[op]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	ctx, span := mutationTracer.Start(ctx, "mutation.execute", trace.WithAttributes(
		attribute.String("mutation.operation", string(op)),
	))
	defer span.End()

	start := time.Now()
	err := o.write(ctx, op, payload)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("mutation.operation", string(op)),
		attribute.String("status", status),
	)
	mutationTotal.Add(ctx, 1, attrs)
	mutationDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Warn().Err(err).Str("operation", string(op)).Dur("duration", duration).Msg("mutation failed")
		return err
	}

	o.apply(op, plan, payload)
	span.SetStatus(codes.Ok, "")
	o.log.Info().Str("operation", string(op)).Dur("duration", duration).Strs("invalidated", plan.Invalidate).Msg("mutation applied")
	return nil
}

func (o *Orchestrator) apply(op Operation, plan Plan, payload any) {
	if plan.RetractFilterAccount && o.filters != nil {
		if t, ok := payload.(Target); ok && o.filters.RetractAccount(t.ID) {
			o.log.Debug().Str("operation", string(op)).Str("account_id", t.ID).Msg("account retracted from transaction filter")
		}
	}
	for _, entity := range plan.Invalidate {
		o.cache.InvalidatePrefix(entity)
	}
}

func (o *Orchestrator) write(ctx context.Context, op Operation, payload any) error {
	switch op {
	case CreateTransaction:
		in, ok := payload.(transaction.Input)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.CreateTransaction(ctx, in)
	case UpdateTransaction:
		p, ok := payload.(TransactionUpdate)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.UpdateTransaction(ctx, p.ID, p.Input)
	case DeleteTransaction:
		t, ok := payload.(Target)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.DeleteTransaction(ctx, t.ID)
	case CreateAccount:
		in, ok := payload.(account.Input)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.CreateAccount(ctx, in)
	case UpdateAccount:
		p, ok := payload.(AccountUpdate)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.UpdateAccount(ctx, p.ID, p.Input)
	case DeleteAccount:
		t, ok := payload.(Target)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.DeleteAccount(ctx, t.ID)
	case CreateGoal:
		in, ok := payload.(goal.Input)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.CreateGoal(ctx, in)
	case UpdateGoal:
		p, ok := payload.(GoalUpdate)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.UpdateGoal(ctx, p.ID, p.Input)
	case DeleteGoal:
		t, ok := payload.(Target)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.DeleteGoal(ctx, t.ID)
	case ContributeGoal:
		p, ok := payload.(GoalAmount)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.ContributeGoal(ctx, p.GoalID, p.Input)
	case WithdrawGoal:
		p, ok := payload.(GoalAmount)
		if !ok {
			return invalidPayload(op, payload)
		}
		return o.api.WithdrawGoal(ctx, p.GoalID, p.Input)
	case UpdateProfile:
		in, ok := payload.(user.ProfileInput)
		if !ok {
			return invalidPayload(op, payload)
		}
		u, err := o.api.UpdateMe(ctx, in)
		if err != nil {
			return err
		}
		if o.users != nil && u.ID != "" {
			o.users.SetUser(u)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownOperation, op)
}

func invalidPayload(op Operation, payload any) error {
	return fmt.Errorf("%w: %s does not take %T", ErrInvalidPayload, op, payload)
}
