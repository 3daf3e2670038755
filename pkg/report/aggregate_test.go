package report

import (
	"testing"
	"time"

	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/department_split"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/recurring_budget"
	"github.com/billable/billable/pkg/time_entry"
	"github.com/billable/billable/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProject = project.Project{Id: 1, Name: "Website relaunch"}

var design = department.Department{Id: 10, Name: "Design", Color: "#ff0000"}
var engineering = department.Department{Id: 20, Name: "Engineering", Color: "#00ff00"}

func intPtr(i int) *int { return &i }

func member(id int, name string, dept *department.Department) user.User {
	u := user.User{
		Id:          id,
		Username:    name,
		DisplayName: name,
		RatePerHour: decimal.NewNullDecimal(decimal.NewFromInt(99)),
	}
	if dept != nil {
		u.DepartmentId = intPtr(dept.Id)
	}
	return u
}

var entrySeq = 0

func row(u user.User, dept *department.Department, day int, seconds int, rate string) EntryRow {
	entrySeq++
	return EntryRow{
		Entry: time_entry.TimeEntry{
			Id:              entrySeq,
			UserId:          u.Id,
			ProjectId:       testProject.Id,
			Date:            time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC),
			DurationSeconds: seconds,
			Description:     "work",
			RatePerHour:     decimal.RequireFromString(rate),
		},
		User:       u,
		Department: dept,
	}
}

func monthlyRetainer(amount int64) recurring_budget.RecurringBudget {
	return recurring_budget.RecurringBudget{
		Id:        1,
		ProjectId: testProject.Id,
		Amount:    decimal.NewFromInt(amount),
		Frequency: recurring_budget.Monthly,
		StartDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func marchInput(entries ...EntryRow) MonthInput {
	return MonthInput{
		Project: testProject,
		Year:    2025,
		Month:   time.March,
		Entries: entries,
	}
}

func findDepartment(t *testing.T, m MonthlyBreakdown, id int) DepartmentBreakdown {
	t.Helper()
	for _, d := range m.Departments {
		if d.Id == id {
			return d
		}
	}
	require.Failf(t, "department missing", "department %d not in breakdown", id)
	return DepartmentBreakdown{}
}

func TestAggregate(t *testing.T) {
	anna := member(1, "Anna", &design)
	bob := member(2, "Bob", &design)
	carl := member(3, "Carl", &engineering)
	dora := member(4, "Dora", nil)

	t.Run("should cost entries with their own rate", func(t *testing.T) {
		input := marchInput(
			row(anna, &design, 3, 3600, "25.00"),
			row(anna, &design, 4, 5400, "20.00"),
		)

		result := Aggregate(input)

		dept := findDepartment(t, result, design.Id)
		require.Len(t, dept.Users, 1)
		assert.Equal(t, "25.00", dept.Users[0].Entries[0].Cost.StringFixed(2))
		assert.Equal(t, "30.00", dept.Users[0].Entries[1].Cost.StringFixed(2))
		assert.Equal(t, "55.00", result.Summary.TotalSpend.StringFixed(2))
	})

	t.Run("should group by department and user with consistent totals", func(t *testing.T) {
		input := marchInput(
			row(anna, &design, 1, 3600, "40"),
			row(anna, &design, 9, 1800, "40"),
			row(bob, &design, 16, 7200, "30"),
			row(carl, &engineering, 23, 1000, "50"),
			row(carl, &engineering, 30, 2600, "50"),
			row(dora, nil, 31, 900, "10"),
		)
		input.Recurring = []recurring_budget.RecurringBudget{monthlyRetainer(1000)}

		result := Aggregate(input)

		require.Len(t, result.Departments, 3)
		assert.Equal(t, "Design", result.Departments[0].Name)
		assert.Equal(t, "Engineering", result.Departments[1].Name)
		assert.Equal(t, NoDepartmentId, result.Departments[2].Id)
		assert.Equal(t, "No department", result.Departments[2].Name)

		projectHours := decimal.Zero
		projectSpend := decimal.Zero
		for _, d := range result.Departments {
			deptHours := decimal.Zero
			deptSpend := decimal.Zero
			for _, u := range d.Users {
				weekly := decimal.Zero
				for _, h := range u.WeeklyHours {
					weekly = weekly.Add(h)
				}
				assert.True(t, weekly.Equal(u.TotalHours), "weekly hours of %s", u.Name)
				deptHours = deptHours.Add(u.TotalHours)
				deptSpend = deptSpend.Add(u.TotalSpend)
			}
			assert.True(t, deptHours.Equal(d.TotalHours), "hours of %s", d.Name)
			assert.True(t, deptSpend.Equal(d.TotalSpend), "spend of %s", d.Name)
			projectHours = projectHours.Add(d.TotalHours)
			projectSpend = projectSpend.Add(d.TotalSpend)
		}
		assert.True(t, projectHours.Equal(result.TotalHours))
		assert.True(t, projectSpend.Equal(result.Summary.TotalSpend))
		assert.True(t, result.Summary.Leftover.Equal(result.Summary.RetainerFee.Sub(result.Summary.TotalSpend)))

		carlRow := findDepartment(t, result, engineering.Id).Users[0]
		assert.True(t, carlRow.WeeklyHours[3].Equal(decimal.NewFromInt(1000).Div(decimal.NewFromInt(3600))))
		assert.True(t, carlRow.WeeklyHours[4].Equal(decimal.NewFromInt(2600).Div(decimal.NewFromInt(3600))))
		assert.Equal(t, 4, carlRow.Entries[0].WeekNumber)
		assert.Equal(t, 5, carlRow.Entries[1].WeekNumber)
	})

	t.Run("should report overspend against retainer", func(t *testing.T) {
		input := marchInput(row(anna, &design, 5, 12*3600, "100"))
		input.Recurring = []recurring_budget.RecurringBudget{monthlyRetainer(1000)}

		result := Aggregate(input)

		assert.Equal(t, "1000.00", result.Summary.RetainerFee.StringFixed(2))
		assert.Equal(t, "1200.00", result.Summary.TotalSpend.StringFixed(2))
		assert.Equal(t, "-200.00", result.Summary.Leftover.StringFixed(2))
		assert.Equal(t, int64(120), result.Summary.UsedPercentage)
		assert.Equal(t, int64(-20), result.Summary.RemainingPercentage)
	})

	t.Run("should guard percentages when there is no retainer", func(t *testing.T) {
		result := Aggregate(marchInput(row(anna, &design, 5, 3600, "100")))

		assert.True(t, result.Summary.RetainerFee.IsZero())
		assert.Zero(t, result.Summary.UsedPercentage)
		assert.Zero(t, result.Summary.RemainingPercentage)
		assert.Equal(t, "-100.00", result.Summary.Leftover.StringFixed(2))
	})

	t.Run("should project quarterly retainer share", func(t *testing.T) {
		input := marchInput()
		retainer := monthlyRetainer(300)
		retainer.Frequency = recurring_budget.Quarterly
		input.Recurring = []recurring_budget.RecurringBudget{retainer}

		result := Aggregate(input)

		assert.Equal(t, "100.00", result.Summary.RetainerFee.StringFixed(2))
		assert.Empty(t, result.Departments)
	})

	t.Run("should compute department budget from split", func(t *testing.T) {
		input := marchInput(
			row(anna, &design, 2, 3*3600, "50"),
			row(carl, &engineering, 2, 3600, "50"),
		)
		input.Splits = []department_split.DepartmentSplit{
			{Id: 1, ProjectId: testProject.Id, DepartmentId: design.Id, BudgetAmount: decimal.NewFromInt(600)},
		}
		input.Departments = []department.Department{design}

		result := Aggregate(input)

		designRow := findDepartment(t, result, design.Id)
		require.NotNil(t, designRow.Budget)
		assert.Equal(t, "600.00", designRow.Budget.RetainerFee.StringFixed(2))
		assert.Equal(t, "150.00", designRow.Budget.TotalSpend.StringFixed(2))
		assert.Equal(t, "450.00", designRow.Budget.Leftover.StringFixed(2))
		assert.Equal(t, int64(25), designRow.Budget.UsedPercentage)
		assert.Nil(t, findDepartment(t, result, engineering.Id).Budget)
	})

	t.Run("should list split-only department with zero totals", func(t *testing.T) {
		input := marchInput(row(anna, &design, 2, 3600, "50"))
		input.Splits = []department_split.DepartmentSplit{
			{Id: 1, ProjectId: testProject.Id, DepartmentId: engineering.Id, BudgetAmount: decimal.NewFromInt(400)},
		}
		input.Departments = []department.Department{engineering}

		result := Aggregate(input).ActiveOnly()

		engineeringRow := findDepartment(t, result, engineering.Id)
		assert.Equal(t, "Engineering", engineeringRow.Name)
		assert.True(t, engineeringRow.TotalHours.IsZero())
		assert.Empty(t, engineeringRow.Users)
		require.NotNil(t, engineeringRow.Budget)
		assert.Equal(t, int64(100), engineeringRow.Budget.RemainingPercentage)
	})
}

func TestMonthlyBreakdown_ActiveOnly(t *testing.T) {
	anna := member(1, "Anna", &design)
	input := marchInput(row(anna, &design, 2, 3600, "50"))
	input.Departments = []department.Department{design, engineering}
	full := Aggregate(input)
	require.Len(t, full.Departments, 2)

	active := full.ActiveOnly()

	require.Len(t, active.Departments, 1)
	assert.Equal(t, design.Id, active.Departments[0].Id)
	assert.True(t, active.TotalHours.Equal(full.TotalHours))
	assert.True(t, active.Summary.TotalSpend.Equal(full.Summary.TotalSpend))
	assert.Len(t, full.Departments, 2, "filtering must not modify the original breakdown")
}
