package recurring_budget

import (
	"errors"
	"time"

	"github.com/billable/billable/internal/utils"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero with at most two decimal places")
var ErrInvalidFrequency = errors.New("frequency must be one of monthly, quarterly, yearly")
var ErrInvalidStartDate = errors.New("start date is required")
var ErrInvalidWindow = errors.New("end date must not be before start date")

type Frequency string

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// months is the number of calendar months one payment of the frequency covers.
func (f Frequency) months() int64 {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Yearly:
		return 12
	}
	return 0
}

func (f Frequency) Valid() bool {
	return f.months() > 0
}

type RecurringBudget struct {
	Id        int
	ProjectId int
	Amount    decimal.Decimal
	Frequency Frequency
	StartDate time.Time
	// EndDate is the last day of the window, nil for open-ended definitions.
	EndDate  *time.Time
	IsActive bool
	// DeactivatedOn is the day IsActive was switched off.
	DeactivatedOn *time.Time
}

func (r RecurringBudget) Validate() error {
	if !utils.IsMoneyAmount(r.Amount, 12) {
		return ErrInvalidAmount
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if r.StartDate.IsZero() {
		return ErrInvalidStartDate
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ErrInvalidWindow
	}
	return nil
}

// MonthBounds returns the first day of the month and the first day of the following month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// CoversMonth reports whether the definition projects into the given month. The window is compared
// against the month bounds inclusively on both ends, so a window that touches the month on any day
// covers the whole month, and so does one starting on the first day of the following month.
// A deactivated definition stops covering the month it was deactivated in and every later month;
// earlier months stay as they were.
func (r RecurringBudget) CoversMonth(year int, month time.Month) bool {
	monthStart, monthEnd := MonthBounds(year, month)
	if r.StartDate.After(monthEnd) {
		return false
	}
	if r.EndDate != nil && r.EndDate.Before(monthStart) {
		return false
	}
	if !r.IsActive {
		if r.DeactivatedOn == nil {
			return false
		}
		deactivationMonth, _ := MonthBounds(r.DeactivatedOn.Year(), r.DeactivatedOn.Month())
		if !monthStart.Before(deactivationMonth) {
			return false
		}
	}
	return true
}

// MonthlyShare returns the retainer fee the definition contributes to the month, unrounded.
func (r RecurringBudget) MonthlyShare(year int, month time.Month) decimal.Decimal {
	if !r.Frequency.Valid() || !r.CoversMonth(year, month) {
		return decimal.Zero
	}
	return r.Amount.Div(decimal.NewFromInt(r.Frequency.months()))
}

// ProjectMonth returns the retainer fee of a project for the month. At most one definition drives a
// month: of those covering it, the one with the latest start date wins, an active one on equal start
// dates, then the one stored last.
func ProjectMonth(definitions []RecurringBudget, year int, month time.Month) decimal.Decimal {
	driving, ok := DrivingDefinition(definitions, year, month)
	if !ok {
		return decimal.Zero
	}
	return driving.MonthlyShare(year, month)
}

// DrivingDefinition picks the definition whose share makes up the month's retainer fee.
func DrivingDefinition(definitions []RecurringBudget, year int, month time.Month) (RecurringBudget, bool) {
	var driving RecurringBudget
	found := false
	for _, d := range definitions {
		if !d.Frequency.Valid() || !d.CoversMonth(year, month) {
			continue
		}
		if !found || supersedes(d, driving) {
			driving = d
			found = true
		}
	}
	return driving, found
}

func supersedes(candidate RecurringBudget, current RecurringBudget) bool {
	if !candidate.StartDate.Equal(current.StartDate) {
		return candidate.StartDate.After(current.StartDate)
	}
	if candidate.IsActive != current.IsActive {
		return candidate.IsActive
	}
	return candidate.Id > current.Id
}
