package time_entry

import (
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

type TimeEntry struct {
	Id        int
	UserId    int
	ProjectId int
	// Date is the calendar day the work was done on, stored at UTC midnight.
	Date            time.Time
	DurationSeconds int
	Description     string
	// RatePerHour is the user's rate frozen when the entry was created.
	RatePerHour decimal.Decimal
	CreatedAt   time.Time
}

// Hours returns the duration in hours without rounding.
func (e TimeEntry) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(e.DurationSeconds)).Div(secondsPerHour)
}

// Cost returns RatePerHour × DurationSeconds / 3600 without rounding. The multiplication happens
// before the division so whole-second durations at cent rates stay exact whenever possible.
func (e TimeEntry) Cost() decimal.Decimal {
	return e.RatePerHour.Mul(decimal.NewFromInt(int64(e.DurationSeconds))).Div(secondsPerHour)
}
