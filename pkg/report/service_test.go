package report

import (
	"context"
	"testing"
	"time"

	"github.com/billable/billable/internal/config"
	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/recurring_budget"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService() (*ServiceImpl, *RepositoryStub) {
	repo := NewRepositoryStub()
	return NewService(repo, config.Defaults().Report), repo
}

func boolPtr(b bool) *bool { return &b }

func TestServiceImpl_MonthlyBreakdown(t *testing.T) {
	ctx := context.Background()
	anna := member(1, "Anna", &design)

	t.Run("should reject periods outside the configured range", func(t *testing.T) {
		service, repo := setupService()
		repo.PutMonth(marchInput())

		for _, period := range [][2]int{{2025, 0}, {2025, 13}, {2019, 5}, {2031, 1}} {
			_, err := service.MonthlyBreakdown(ctx, testProject.Id, period[0], period[1], nil)
			assert.ErrorIs(t, err, ErrInvalidPeriod, "period %v", period)
		}
	})

	t.Run("should return not found for unknown project", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.MonthlyBreakdown(ctx, 42, 2025, 3, nil)

		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})

	t.Run("should only aggregate entries of the requested month", func(t *testing.T) {
		service, repo := setupService()
		february := row(anna, &design, 10, 3600, "20")
		february.Entry.Date = time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
		input := marchInput(row(anna, &design, 10, 7200, "20"), february)
		input.Recurring = []recurring_budget.RecurringBudget{monthlyRetainer(1000)}
		repo.PutMonth(input)

		result, err := service.MonthlyBreakdown(ctx, testProject.Id, 2025, 3, nil)

		require.NoError(t, err)
		assert.Equal(t, time.March, result.Month)
		assert.Equal(t, "40.00", result.Summary.TotalSpend.StringFixed(2))
		assert.Equal(t, "2.00", result.TotalHours.StringFixed(2))
	})

	t.Run("should keep historical cost after rate change", func(t *testing.T) {
		service, repo := setupService()
		logged := row(anna, &design, 10, 3600, "20")
		// the user's rate was raised after the entry was logged
		logged.User.RatePerHour = decimal.NewNullDecimal(decimal.NewFromInt(30))
		repo.PutMonth(marchInput(logged))

		result, err := service.MonthlyBreakdown(ctx, testProject.Id, 2025, 3, nil)

		require.NoError(t, err)
		u := findDepartment(t, result, design.Id).Users[0]
		assert.Equal(t, "20.00", u.TotalSpend.StringFixed(2))
		assert.Equal(t, "20.00", u.Entries[0].Cost.StringFixed(2))
		assert.Equal(t, "30.00", u.RatePerHour.Decimal.StringFixed(2))
	})

	t.Run("should include idle departments on request", func(t *testing.T) {
		service, repo := setupService()
		input := marchInput(row(anna, &design, 10, 3600, "20"))
		input.Departments = []department.Department{design, engineering}
		repo.PutMonth(input)

		active, err := service.MonthlyBreakdown(ctx, testProject.Id, 2025, 3, nil)
		require.NoError(t, err)
		assert.False(t, repo.LastWithAllDepartments)
		assert.Len(t, active.Departments, 1)

		all, err := service.MonthlyBreakdown(ctx, testProject.Id, 2025, 3, boolPtr(true))
		require.NoError(t, err)
		assert.True(t, repo.LastWithAllDepartments)
		assert.Len(t, all.Departments, 2)
	})
}

func TestServiceImpl_Lifetime(t *testing.T) {
	ctx := context.Background()
	service, repo := setupService()
	repo.PutLifetime(LifetimeInput{
		Project:      testProject,
		TotalBudget:  decimal.NewFromInt(10000),
		TotalSpend:   decimal.RequireFromString("2500.40"),
		TotalSeconds: 90 * 3600,
	})

	lifetime, err := service.Lifetime(ctx, testProject.Id)

	require.NoError(t, err)
	assert.Equal(t, "7499.60", lifetime.Leftover.StringFixed(2))
	assert.Equal(t, "90.00", lifetime.TotalHours.StringFixed(2))
	assert.Equal(t, int64(25), lifetime.UsedPercentage)
	assert.Equal(t, int64(75), lifetime.RemainingPercentage)

	_, err = service.Lifetime(ctx, 42)
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}
