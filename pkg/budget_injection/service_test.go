package budget_injection

import (
	"context"
	"testing"
	"time"

	"github.com/billable/billable/internal/event_bus"
	"github.com/billable/billable/pkg/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService() (*ServiceImpl, *RepositoryStub) {
	repo := NewRepositoryStub()
	projects := project.NewRepositoryStub(project.Project{Id: 1, Name: "Fixed price"}, project.Project{Id: 2, Name: "Other"})
	return NewService(repo, projects, event_bus.NewEventBus()), repo
}

func injection(projectId int, amount string, day int) BudgetInjection {
	return BudgetInjection{
		ProjectId:   projectId,
		Date:        time.Date(2025, 2, day, 14, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString(amount),
		Description: "Purchase order",
	}
}

func TestServiceImpl_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("should store injection on its calendar day", func(t *testing.T) {
		service, _ := setupService()

		created, err := service.Create(ctx, injection(1, "5000", 3))

		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), created.Date)
	})

	t.Run("should reject non-positive amount", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.Create(ctx, injection(1, "0", 3))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = service.Create(ctx, injection(1, "-10", 3))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should reject amounts finer than cents before storing", func(t *testing.T) {
		service, repo := setupService()

		_, err := service.Create(ctx, injection(1, "0.001", 3))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = service.Create(ctx, injection(1, "100.005", 3))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		injections, err := repo.ListForProject(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, injections)
	})

	t.Run("should reject missing date", func(t *testing.T) {
		service, _ := setupService()
		i := injection(1, "100", 3)
		i.Date = time.Time{}

		_, err := service.Create(ctx, i)

		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("should fail for unknown project", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.Create(ctx, injection(9, "100", 3))

		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})
}

func TestServiceImpl_TotalForProject(t *testing.T) {
	ctx := context.Background()
	service, _ := setupService()
	for _, i := range []BudgetInjection{injection(1, "5000", 1), injection(1, "2500.50", 10), injection(2, "999", 1)} {
		_, err := service.Create(ctx, i)
		require.NoError(t, err)
	}

	total, err := service.TotalForProject(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "7500.50", total.StringFixed(2))
}

func TestServiceImpl_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	service, _ := setupService()
	created, err := service.Create(ctx, injection(1, "5000", 1))
	require.NoError(t, err)

	changed := injection(2, "6000", 5)
	changed.Id = created.Id
	updated, err := service.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ProjectId)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(6000)))

	require.NoError(t, service.Delete(ctx, created.Id))
	assert.ErrorIs(t, service.Delete(ctx, created.Id), ErrBudgetInjectionNotFound)

	_, err = service.Get(ctx, created.Id)
	assert.ErrorIs(t, err, ErrBudgetInjectionNotFound)
}

func TestServiceImpl_PublishesLedgerChanges(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryStub()
	projects := project.NewRepositoryStub(project.Project{Id: 1, Name: "Fixed price"})
	bus := event_bus.NewEventBus()
	var received []event_bus.LedgerChanged
	event_bus.SubscribeTyped(bus, event_bus.BudgetInjectionChanged, func(e event_bus.EventT[event_bus.LedgerChanged]) error {
		received = append(received, e.Data)
		return nil
	})
	service := NewService(repo, projects, bus)

	created, err := service.Create(ctx, injection(1, "5000", 1))
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, created.Id))

	require.Len(t, received, 2)
	assert.Equal(t, event_bus.Created, received[0].Action)
	assert.Equal(t, 1, received[0].ProjectId)
	assert.True(t, received[0].Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, event_bus.Deleted, received[1].Action)
	assert.True(t, received[1].Amount.IsZero())

	t.Run("should not fail when a subscriber fails", func(t *testing.T) {
		bus.Subscribe(event_bus.BudgetInjectionChanged, func(event_bus.Event) error {
			return assert.AnError
		})

		_, err := service.Create(ctx, injection(1, "100", 2))

		assert.NoError(t, err)
	})

	t.Run("should not publish rejected changes", func(t *testing.T) {
		before := len(received)

		_, err := service.Create(ctx, injection(1, "0", 2))

		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Len(t, received, before)
	})
}
