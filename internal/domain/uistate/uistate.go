package uistate

import (
	"errors"
	"sync"

	"cofre/internal/domain/transaction"
)

// ErrNoAccounts blocks opening the new transaction modal before any
// account exists.
var ErrNoAccounts = errors.New("Você precisa cadastrar uma conta primeiro!")

// Interaction is the direction of a goal value change.
type Interaction string

const (
	InteractionDeposit  Interaction = "DEPOSIT"
	InteractionWithdraw Interaction = "WITHDRAW"
)

// DeleteTarget is the kind of entity the confirm-delete modal acts on.
type DeleteTarget string

const (
	DeleteAccount     DeleteTarget = "ACCOUNT"
	DeleteGoal        DeleteTarget = "GOAL"
	DeleteTransaction DeleteTarget = "TRANSACTION"
)

// Modals is the catalogue of transient modal state. Its zero value, with
// GoalInteraction set to InteractionDeposit, is the reset state.
type Modals struct {
	NewTransactionOpen bool
	NewTransactionKind transaction.Kind

	EditTransactionOpen bool
	EditTransactionID   string

	NewAccountOpen bool

	NewGoalOpen bool

	GoalValueOpen   bool
	GoalInteraction Interaction
	GoalForValueID  string

	EditGoalOpen bool
	EditGoalID   string

	ConfirmDeleteOpen   bool
	ConfirmDeleteTarget DeleteTarget
	ConfirmDeleteID     string

	MonthlySummaryOpen bool
	EditProfileOpen    bool
}

func defaultModals() Modals {
	return Modals{GoalInteraction: InteractionDeposit}
}

// State holds the transaction filter and modal flags shared across screens.
// It is safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	filter *transaction.Filter
	modals Modals
}

func New() *State {
	return &State{modals: defaultModals()}
}

// Filter returns a copy of the active filter, nil when none is set.
func (s *State) Filter() *transaction.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filter == nil {
		return nil
	}
	f := *s.filter
	return &f
}

// SetFilter replaces the active filter. An empty filter clears it.
func (s *State) SetFilter(f *transaction.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f == nil || f.IsEmpty() {
		s.filter = nil
		return
	}
	cp := *f
	s.filter = &cp
}

// RetractAccount drops the account from the filter when it is the one
// selected. It reports whether the filter changed.
func (s *State) RetractAccount(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter == nil || id == "" || s.filter.BankAccountID != id {
		return false
	}
	s.filter.BankAccountID = ""
	if s.filter.IsEmpty() {
		s.filter = nil
	}
	return true
}

// Modals returns a snapshot of the modal catalogue.
func (s *State) Modals() Modals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modals
}

func (s *State) update(fn func(m *Modals)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.modals)
}

// OpenNewTransaction opens the new transaction modal for kind. It fails
// with ErrNoAccounts when no account exists yet.
func (s *State) OpenNewTransaction(kind transaction.Kind, hasAccounts bool) error {
	if !hasAccounts {
		return ErrNoAccounts
	}
	s.update(func(m *Modals) {
		m.NewTransactionOpen = true
		m.NewTransactionKind = kind
	})
	return nil
}

func (s *State) CloseNewTransaction() {
	s.update(func(m *Modals) {
		m.NewTransactionOpen = false
		m.NewTransactionKind = ""
	})
}

func (s *State) OpenEditTransaction(id string) {
	s.update(func(m *Modals) {
		m.EditTransactionOpen = true
		m.EditTransactionID = id
	})
}

func (s *State) CloseEditTransaction() {
	s.update(func(m *Modals) {
		m.EditTransactionOpen = false
		m.EditTransactionID = ""
	})
}

func (s *State) SetNewAccountOpen(open bool) {
	s.update(func(m *Modals) { m.NewAccountOpen = open })
}

func (s *State) SetNewGoalOpen(open bool) {
	s.update(func(m *Modals) { m.NewGoalOpen = open })
}

// OpenGoalValue opens the goal value modal. goalID may be empty to let the
// user pick the goal.
func (s *State) OpenGoalValue(goalID string, interaction Interaction) {
	s.update(func(m *Modals) {
		m.GoalValueOpen = true
		m.GoalForValueID = goalID
		m.GoalInteraction = interaction
	})
}

func (s *State) CloseGoalValue() {
	s.update(func(m *Modals) {
		m.GoalValueOpen = false
		m.GoalForValueID = ""
	})
}

func (s *State) OpenEditGoal(id string) {
	s.update(func(m *Modals) {
		m.EditGoalOpen = true
		m.EditGoalID = id
	})
}

func (s *State) CloseEditGoal() {
	s.update(func(m *Modals) {
		m.EditGoalOpen = false
		m.EditGoalID = ""
	})
}

func (s *State) OpenConfirmDelete(target DeleteTarget, id string) {
	s.update(func(m *Modals) {
		m.ConfirmDeleteOpen = true
		m.ConfirmDeleteTarget = target
		m.ConfirmDeleteID = id
	})
}

func (s *State) CloseConfirmDelete() {
	s.update(func(m *Modals) {
		m.ConfirmDeleteOpen = false
		m.ConfirmDeleteTarget = ""
		m.ConfirmDeleteID = ""
	})
}

func (s *State) SetMonthlySummaryOpen(open bool) {
	s.update(func(m *Modals) { m.MonthlySummaryOpen = open })
}

func (s *State) SetEditProfileOpen(open bool) {
	s.update(func(m *Modals) { m.EditProfileOpen = open })
}

// Reset restores the filter and every modal to defaults. Called by the
// session gate on logout.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = nil
	s.modals = defaultModals()
}
