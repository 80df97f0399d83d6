package mutation

import (
	"cofre/internal/domain/account"
	"cofre/internal/domain/dashboard"
	"cofre/internal/domain/goal"
	"cofre/internal/domain/transaction"
	"cofre/internal/domain/user"
)

type Operation string

const (
	CreateTransaction Operation = "create_transaction"
	UpdateTransaction Operation = "update_transaction"
	DeleteTransaction Operation = "delete_transaction"
	CreateAccount     Operation = "create_account"
	UpdateAccount     Operation = "update_account"
	DeleteAccount     Operation = "delete_account"
	CreateGoal        Operation = "create_goal"
	UpdateGoal        Operation = "update_goal"
	DeleteGoal        Operation = "delete_goal"
	ContributeGoal    Operation = "contribute_goal"
	WithdrawGoal      Operation = "withdraw_goal"
	UpdateProfile     Operation = "update_profile"
)

// Plan is what a successful write of an operation invalidates. Local edits
// run first, then every entity in Invalidate is invalidated in order, each
// across all of its parameter variants.
type Plan struct {
	RetractFilterAccount bool
	Invalidate           []string
}

var transactionWrite = Plan{
	Invalidate: []string{
		transaction.Entity,
		account.Entity,
		dashboard.Entity,
		dashboard.SummaryEntity,
		dashboard.SummaryModalEntity,
	},
}

// Plans maps every operation to its invalidation plan.
var Plans = map[Operation]Plan{
	CreateTransaction: transactionWrite,
	UpdateTransaction: transactionWrite,
	DeleteTransaction: transactionWrite,

	CreateAccount: {Invalidate: []string{account.Entity}},
	UpdateAccount: {Invalidate: []string{account.Entity}},
	DeleteAccount: {
		RetractFilterAccount: true,
		Invalidate: []string{
			account.Entity,
			dashboard.Entity,
			transaction.Entity,
			dashboard.SummaryEntity,
			dashboard.SummaryModalEntity,
		},
	},

	CreateGoal: {Invalidate: []string{goal.Entity}},
	UpdateGoal: {Invalidate: []string{goal.Entity}},
	// deleting a goal refunds its balance through ledger entries
	DeleteGoal: {
		Invalidate: []string{
			goal.Entity,
			dashboard.Entity,
			transaction.Entity,
			dashboard.SummaryEntity,
		},
	},
	ContributeGoal: goalMovement,
	WithdrawGoal:   goalMovement,

	UpdateProfile: {Invalidate: []string{user.Entity}},
}

var goalMovement = Plan{
	Invalidate: []string{
		goal.Entity,
		account.Entity,
		dashboard.Entity,
		transaction.Entity,
		dashboard.SummaryEntity,
	},
}
