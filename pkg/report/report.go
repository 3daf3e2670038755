package report

import (
	"time"

	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/time_entry"
	"github.com/billable/billable/pkg/user"
	"github.com/shopspring/decimal"
)

// WeeksPerMonth is the number of fixed day-of-month buckets a month is split into.
const WeeksPerMonth = 5

// NoDepartmentId groups users that are not assigned to any department.
const NoDepartmentId = 0

const noDepartmentName = "No department"

// WeekBucket maps a date to its week of the month: days 1-7 are week 1, 8-14 week 2, 15-21 week 3,
// 22-28 week 4 and 29-31 week 5, whatever weekday the month starts on.
func WeekBucket(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// Summary compares a budget with what was spent against it.
type Summary struct {
	RetainerFee         decimal.Decimal
	TotalSpend          decimal.Decimal
	Leftover            decimal.Decimal
	UsedPercentage      int64
	RemainingPercentage int64
}

func NewSummary(fee decimal.Decimal, spend decimal.Decimal) Summary {
	used, remaining := Percentages(fee, spend)
	return Summary{
		RetainerFee:         fee,
		TotalSpend:          spend,
		Leftover:            fee.Sub(spend),
		UsedPercentage:      used,
		RemainingPercentage: remaining,
	}
}

// Percentages returns the used and remaining share of fee as whole percents, rounded half away from
// zero. Both are 0 when fee is 0. Overspending gives used above 100 and a negative remaining.
func Percentages(fee decimal.Decimal, spend decimal.Decimal) (int64, int64) {
	if fee.IsZero() {
		return 0, 0
	}
	hundred := decimal.NewFromInt(100)
	used := spend.Mul(hundred).Div(fee).Round(0).IntPart()
	remaining := fee.Sub(spend).Mul(hundred).Div(fee).Round(0).IntPart()
	return used, remaining
}

type EntryView struct {
	Id              int
	Description     string
	Date            time.Time
	DurationSeconds int
	Hours           decimal.Decimal
	RatePerHour     decimal.Decimal
	Cost            decimal.Decimal
	WeekNumber      int
}

type UserBreakdown struct {
	Id   int
	Name string
	// RatePerHour is the user's current rate, shown for reference only. Costs use the entry rates.
	RatePerHour decimal.NullDecimal
	TotalHours  decimal.Decimal
	TotalSpend  decimal.Decimal
	WeeklyHours [WeeksPerMonth]decimal.Decimal
	Entries     []EntryView
}

type DepartmentBreakdown struct {
	Id         int
	Name       string
	Color      string
	TotalHours decimal.Decimal
	TotalSpend decimal.Decimal
	// Budget is set when the project has a split for the department.
	Budget *Summary
	Users  []UserBreakdown
}

type MonthlyBreakdown struct {
	Project     project.Project
	Year        int
	Month       time.Month
	Summary     Summary
	TotalHours  decimal.Decimal
	Departments []DepartmentBreakdown
}

// ActiveOnly drops users and departments without logged hours. Departments with a budget split are
// kept so their budget stays visible. Totals are left as computed over the full data set.
func (m MonthlyBreakdown) ActiveOnly() MonthlyBreakdown {
	departments := make([]DepartmentBreakdown, 0, len(m.Departments))
	for _, d := range m.Departments {
		users := make([]UserBreakdown, 0, len(d.Users))
		for _, u := range d.Users {
			if u.TotalHours.IsPositive() {
				users = append(users, u)
			}
		}
		if len(users) == 0 && d.Budget == nil {
			continue
		}
		d.Users = users
		departments = append(departments, d)
	}
	m.Departments = departments
	return m
}

type Lifetime struct {
	Project     project.Project
	TotalBudget decimal.Decimal
	TotalSpend  decimal.Decimal
	Leftover    decimal.Decimal
	// TotalHours is the sum of all logged time on the project.
	TotalHours          decimal.Decimal
	UsedPercentage      int64
	RemainingPercentage int64
}

func NewLifetime(p project.Project, budget decimal.Decimal, spend decimal.Decimal, hours decimal.Decimal) Lifetime {
	used, remaining := Percentages(budget, spend)
	return Lifetime{
		Project:             p,
		TotalBudget:         budget,
		TotalSpend:          spend,
		Leftover:            budget.Sub(spend),
		TotalHours:          hours,
		UsedPercentage:      used,
		RemainingPercentage: remaining,
	}
}

// EntryRow is a time entry joined with its owner and the owner's department.
type EntryRow struct {
	Entry      time_entry.TimeEntry
	User       user.User
	Department *department.Department
}
