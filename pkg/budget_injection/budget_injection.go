package budget_injection

import (
	"errors"
	"time"

	"github.com/billable/billable/internal/utils"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero with at most two decimal places")
var ErrInvalidDate = errors.New("date is required")

// BudgetInjection is a one-off amount of money added to a project's lifetime budget.
type BudgetInjection struct {
	Id          int
	ProjectId   int
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

func (b BudgetInjection) Validate() error {
	if !utils.IsMoneyAmount(b.Amount, 12) {
		return ErrInvalidAmount
	}
	if b.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func Total(injections []BudgetInjection) decimal.Decimal {
	total := decimal.Zero
	for _, i := range injections {
		total = total.Add(i.Amount)
	}
	return total
}
