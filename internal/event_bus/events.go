package event_bus

import "github.com/shopspring/decimal"

const (
	BudgetInjectionChanged  EventType = "budget_injection.changed"
	RecurringBudgetChanged  EventType = "recurring_budget.changed"
	DepartmentSplitsChanged EventType = "department_split.changed"
	UserRateChanged         EventType = "user.rate_changed"
)

type Action string

const (
	Created     Action = "created"
	Updated     Action = "updated"
	Deleted     Action = "deleted"
	Deactivated Action = "deactivated"
	Replaced    Action = "replaced"
)

// LedgerChanged describes a committed change to a project's budget records.
type LedgerChanged struct {
	ProjectId int
	EntityId  int
	Action    Action
	// Amount is the amount after the change, zero for deletions.
	Amount decimal.Decimal
}

type RateChanged struct {
	UserId int
	Rate   decimal.Decimal
}
