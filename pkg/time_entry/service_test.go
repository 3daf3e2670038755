package time_entry

import (
	"context"
	"testing"
	"time"

	"github.com/billable/billable/internal/utils"
	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loggingDay = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

type fixture struct {
	service *ServiceImpl
	repo    *RepositoryStub
	users   *user.StubUserRepository
	clock   *utils.MockClock
	worker  user.User
	admin   user.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	clock := &utils.MockClock{FixedNow: loggingDay}
	repo := NewRepositoryStub(clock.Now)
	users := user.NewStubUserRepository()
	worker := user.User{
		Id:           1,
		Username:     "worker",
		RatePerHour:  decimal.NewNullDecimal(decimal.NewFromInt(20)),
		DepartmentId: intPtr(7),
	}
	admin := user.User{Id: 2, Username: "admin", IsAdmin: true, RatePerHour: decimal.NewNullDecimal(decimal.NewFromInt(50))}
	users.Put(worker)
	users.Put(admin)
	projects := project.NewRepositoryStub(project.Project{Id: 100, Name: "Website"})
	departments := department.NewRepositoryStub(department.Department{Id: 7, Name: "Design", MaxSessionMinutes: 480})
	service := NewService(repo, users, projects, departments, clock, true)
	return fixture{service: service, repo: repo, users: users, clock: clock, worker: worker, admin: admin}
}

func newEntry(seconds int) TimeEntry {
	return TimeEntry{ProjectId: 100, Date: loggingDay, DurationSeconds: seconds, Description: "Wireframes"}
}

func TestServiceImpl_CreateEntry(t *testing.T) {
	t.Run("should freeze the user's current rate on the entry", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), f.worker)

		created, err := f.service.CreateEntry(ctx, newEntry(3600))

		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, f.worker.Id, created.UserId)
		assert.True(t, created.RatePerHour.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), created.Date)
	})

	t.Run("should read the rate from the store rather than the request context", func(t *testing.T) {
		f := setup(t)
		stale := f.worker
		stale.RatePerHour = decimal.NewNullDecimal(decimal.NewFromInt(5))
		ctx := user.WithUser(context.Background(), stale)

		created, err := f.service.CreateEntry(ctx, newEntry(3600))

		require.NoError(t, err)
		assert.True(t, created.RatePerHour.Equal(decimal.NewFromInt(20)))
	})

	t.Run("should reject user without rate", func(t *testing.T) {
		f := setup(t)
		noRate := user.User{Id: 3, Username: "intern"}
		f.users.Put(noRate)
		ctx := user.WithUser(context.Background(), noRate)

		_, err := f.service.CreateEntry(ctx, newEntry(3600))

		assert.ErrorIs(t, err, ErrMissingRate)
	})

	t.Run("should reject unknown user", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), user.User{Id: 42})

		_, err := f.service.CreateEntry(ctx, newEntry(3600))

		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("should reject non-positive duration", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), f.worker)

		_, err := f.service.CreateEntry(ctx, newEntry(0))

		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("should reject unknown project", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), f.worker)
		entry := newEntry(3600)
		entry.ProjectId = 999

		_, err := f.service.CreateEntry(ctx, entry)

		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})

	t.Run("should reject session longer than department maximum", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), f.worker)

		_, err := f.service.CreateEntry(ctx, newEntry(481*60))

		assert.ErrorIs(t, err, ErrSessionTooLong)
	})
}

func TestServiceImpl_RateChangeDoesNotAffectExistingEntries(t *testing.T) {
	f := setup(t)
	ctx := user.WithUser(context.Background(), f.worker)
	before, err := f.service.CreateEntry(ctx, newEntry(3600))
	require.NoError(t, err)

	require.NoError(t, f.users.UpdateRate(ctx, f.worker.Id, decimal.NewFromInt(30)))
	after, err := f.service.CreateEntry(ctx, newEntry(3600))
	require.NoError(t, err)

	stored, err := f.service.GetEntry(ctx, before.Id)
	require.NoError(t, err)
	assert.Equal(t, "20.00", stored.Cost().StringFixed(2))
	assert.Equal(t, "30.00", after.Cost().StringFixed(2))
}

func TestServiceImpl_UpdateEntry(t *testing.T) {
	t.Run("owner edits on the same day and keeps the rate", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), f.worker)
		created, err := f.service.CreateEntry(ctx, newEntry(3600))
		require.NoError(t, err)
		require.NoError(t, f.users.UpdateRate(ctx, f.worker.Id, decimal.NewFromInt(99)))
		f.clock.SetNow(loggingDay.Add(6 * time.Hour))

		edit := newEntry(7200)
		edit.Id = created.Id
		updated, err := f.service.UpdateEntry(ctx, edit)

		require.NoError(t, err)
		assert.Equal(t, 7200, updated.DurationSeconds)
		assert.True(t, updated.RatePerHour.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, "40.00", updated.Cost().StringFixed(2))
	})

	t.Run("owner cannot edit on a later day", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), f.worker)
		created, err := f.service.CreateEntry(ctx, newEntry(3600))
		require.NoError(t, err)
		f.clock.SetNow(loggingDay.AddDate(0, 0, 1))

		edit := newEntry(7200)
		edit.Id = created.Id
		_, err = f.service.UpdateEntry(ctx, edit)

		assert.ErrorIs(t, err, ErrEditNotAllowed)
	})

	t.Run("admin can edit on a later day", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.CreateEntry(user.WithUser(context.Background(), f.worker), newEntry(3600))
		require.NoError(t, err)
		f.clock.SetNow(loggingDay.AddDate(0, 1, 0))

		edit := newEntry(1800)
		edit.Id = created.Id
		updated, err := f.service.UpdateEntry(user.WithUser(context.Background(), f.admin), edit)

		require.NoError(t, err)
		assert.Equal(t, f.worker.Id, updated.UserId)
		assert.True(t, updated.RatePerHour.Equal(decimal.NewFromInt(20)))
	})

	t.Run("other users cannot edit", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.CreateEntry(user.WithUser(context.Background(), f.worker), newEntry(3600))
		require.NoError(t, err)
		other := user.User{Id: 5, Username: "other", RatePerHour: decimal.NewNullDecimal(decimal.NewFromInt(10))}

		edit := newEntry(1800)
		edit.Id = created.Id
		_, err = f.service.UpdateEntry(user.WithUser(context.Background(), other), edit)

		assert.ErrorIs(t, err, ErrNotOwner)
	})
}

func TestServiceImpl_DeleteEntry(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		f := setup(t)
		ctx := user.WithUser(context.Background(), f.worker)
		created, err := f.service.CreateEntry(ctx, newEntry(3600))
		require.NoError(t, err)

		err = f.service.DeleteEntry(ctx, created.Id)

		require.NoError(t, err)
		_, err = f.service.GetEntry(ctx, created.Id)
		assert.ErrorIs(t, err, ErrTimeEntryNotFound)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.CreateEntry(user.WithUser(context.Background(), f.worker), newEntry(3600))
		require.NoError(t, err)

		err = f.service.DeleteEntry(user.WithUser(context.Background(), user.User{Id: 9}), created.Id)

		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("unknown entry", func(t *testing.T) {
		f := setup(t)

		err := f.service.DeleteEntry(user.WithUser(context.Background(), f.admin), 404)

		assert.ErrorIs(t, err, ErrTimeEntryNotFound)
	})
}
