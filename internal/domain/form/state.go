package form

import (
	"context"
	"errors"
	"sync"

	"cofre/internal/shared/apperr"
)

// ErrSubmitting is returned by HandleSubmit while a submission is running.
var ErrSubmitting = errors.New("submission in progress")

// State is the validation state machine shared by every form. Errors are
// computed eagerly but only shown once the field was touched or the form
// submitted.
type State struct {
	mu            sync.Mutex
	schema        Schema
	values        Values
	touched       map[string]bool
	submittedOnce bool
	errors        map[string]string
	submitting    bool
}

func New(schema Schema) *State {
	return &State{
		schema:  schema,
		values:  make(Values),
		touched: make(map[string]bool),
		errors:  make(map[string]string),
	}
}

func (s *State) Schema() Schema {
	return s.schema
}

// Set updates a value. Once the field is visible (touched or submitted) its
// error is recomputed right away.
func (s *State) Set(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[field] = value
	if s.touched[field] || s.submittedOnce {
		s.validateLocked(field)
	}
}

// Fill sets several values without touching them.
func (s *State) Fill(values Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
}

func (s *State) Value(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[field]
}

// Values returns a copy of all values.
func (s *State) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Values, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// MarkTouched flags field as touched and validates it.
func (s *State) MarkTouched(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[field] = true
	s.validateLocked(field)
}

func (s *State) validateLocked(field string) {
	if msg := s.schema.ValidateField(field, s.values); msg != "" {
		s.errors[field] = msg
	} else {
		delete(s.errors, field)
	}
}

// ShouldShowError reports whether field has an error the user may see.
func (s *State) ShouldShowError(field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.touched[field] || s.submittedOnce) && s.errors[field] != ""
}

// Error returns the error of field, shown or not.
func (s *State) Error(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[field]
}

func (s *State) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// SetError records an error found outside the schema, such as a business
// rule checked against cached data.
func (s *State) SetError(field, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[field] = msg
}

func (s *State) SubmittedOnce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submittedOnce
}

func (s *State) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// HandleSubmit validates the whole form and, when valid, calls submit with
// a copy of the values. Schema failures return an apperr validation error
// and submit is not called. Submit failures are mapped onto fields through
// the schema's server mapper and returned. The form can be submitted again
// in every case.
func (s *State) HandleSubmit(ctx context.Context, submit func(ctx context.Context, values Values) error) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	s.submittedOnce = true
	s.errors = s.schema.Validate(s.values)
	if len(s.errors) > 0 {
		fields := make(map[string]string, len(s.errors))
		for k, v := range s.errors {
			fields[k] = v
		}
		s.mu.Unlock()
		return apperr.Validation(fields)
	}
	values := make(Values, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	s.submitting = true
	s.mu.Unlock()

	err := submit(ctx, values)

	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()

	if err != nil {
		s.ApplyServerError(err)
	}
	return err
}

// ApplyServerError maps a failed submission onto field errors. It reports
// whether any field was set.
func (s *State) ApplyServerError(err error) bool {
	fields := s.schema.ServerFields(err)
	if len(fields) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range fields {
		s.errors[k] = v
	}
	return true
}

// Reset clears values, errors, touched flags and the submitted flag.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(Values)
	s.touched = make(map[string]bool)
	s.errors = make(map[string]string)
	s.submittedOnce = false
}
