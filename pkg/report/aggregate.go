package report

import (
	"sort"
	"time"

	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/department_split"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/recurring_budget"
	"github.com/shopspring/decimal"
)

// MonthInput is everything read from one snapshot that the monthly breakdown is built from.
type MonthInput struct {
	Project   project.Project
	Year      int
	Month     time.Month
	Entries   []EntryRow
	Recurring []recurring_budget.RecurringBudget
	Splits    []department_split.DepartmentSplit
	// Departments are listed with zero totals when no entry or split refers to them.
	Departments []department.Department
}

type departmentAcc struct {
	breakdown DepartmentBreakdown
	users     map[int]*UserBreakdown
}

// Aggregate groups the month's entries by department and user and attaches the projected retainer
// fee and the department splits.
func Aggregate(input MonthInput) MonthlyBreakdown {
	departments := make(map[int]*departmentAcc)
	departmentFor := func(id int, name string, color string) *departmentAcc {
		acc, ok := departments[id]
		if !ok {
			acc = &departmentAcc{
				breakdown: DepartmentBreakdown{
					Id:         id,
					Name:       name,
					Color:      color,
					TotalHours: decimal.Zero,
					TotalSpend: decimal.Zero,
				},
				users: make(map[int]*UserBreakdown),
			}
			departments[id] = acc
		}
		return acc
	}

	totalHours := decimal.Zero
	totalSpend := decimal.Zero
	for _, row := range input.Entries {
		var dept *departmentAcc
		if row.Department != nil {
			dept = departmentFor(row.Department.Id, row.Department.Name, row.Department.Color)
		} else {
			dept = departmentFor(NoDepartmentId, noDepartmentName, "")
		}

		u, ok := dept.users[row.User.Id]
		if !ok {
			u = &UserBreakdown{
				Id:          row.User.Id,
				Name:        displayName(row),
				RatePerHour: row.User.RatePerHour,
				TotalHours:  decimal.Zero,
				TotalSpend:  decimal.Zero,
			}
			for i := range u.WeeklyHours {
				u.WeeklyHours[i] = decimal.Zero
			}
			dept.users[row.User.Id] = u
		}

		entry := row.Entry
		hours := entry.Hours()
		cost := entry.Cost()
		week := WeekBucket(entry.Date)

		u.Entries = append(u.Entries, EntryView{
			Id:              entry.Id,
			Description:     entry.Description,
			Date:            entry.Date,
			DurationSeconds: entry.DurationSeconds,
			Hours:           hours,
			RatePerHour:     entry.RatePerHour,
			Cost:            cost,
			WeekNumber:      week,
		})
		u.WeeklyHours[week-1] = u.WeeklyHours[week-1].Add(hours)
		u.TotalHours = u.TotalHours.Add(hours)
		u.TotalSpend = u.TotalSpend.Add(cost)
		dept.breakdown.TotalHours = dept.breakdown.TotalHours.Add(hours)
		dept.breakdown.TotalSpend = dept.breakdown.TotalSpend.Add(cost)
		totalHours = totalHours.Add(hours)
		totalSpend = totalSpend.Add(cost)
	}

	known := make(map[int]department.Department, len(input.Departments))
	for _, d := range input.Departments {
		known[d.Id] = d
		departmentFor(d.Id, d.Name, d.Color)
	}
	for _, split := range input.Splits {
		d, ok := known[split.DepartmentId]
		if !ok {
			d = department.Department{Id: split.DepartmentId}
		}
		acc := departmentFor(split.DepartmentId, d.Name, d.Color)
		budget := NewSummary(split.BudgetAmount, acc.breakdown.TotalSpend)
		acc.breakdown.Budget = &budget
	}

	result := MonthlyBreakdown{
		Project:     input.Project,
		Year:        input.Year,
		Month:       input.Month,
		Summary:     NewSummary(recurring_budget.ProjectMonth(input.Recurring, input.Year, input.Month), totalSpend),
		TotalHours:  totalHours,
		Departments: make([]DepartmentBreakdown, 0, len(departments)),
	}
	for _, acc := range departments {
		users := make([]UserBreakdown, 0, len(acc.users))
		for _, u := range acc.users {
			users = append(users, *u)
		}
		sort.Slice(users, func(i, j int) bool {
			if users[i].Name == users[j].Name {
				return users[i].Id < users[j].Id
			}
			return users[i].Name < users[j].Name
		})
		acc.breakdown.Users = users
		result.Departments = append(result.Departments, acc.breakdown)
	}
	sort.Slice(result.Departments, func(i, j int) bool {
		a, b := result.Departments[i], result.Departments[j]
		if (a.Id == NoDepartmentId) != (b.Id == NoDepartmentId) {
			return b.Id == NoDepartmentId
		}
		if a.Name == b.Name {
			return a.Id < b.Id
		}
		return a.Name < b.Name
	})
	return result
}

func displayName(row EntryRow) string {
	if row.User.DisplayName != "" {
		return row.User.DisplayName
	}
	return row.User.Username
}
