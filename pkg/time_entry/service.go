package time_entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billable/billable/internal/utils"
	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidDuration = errors.New("duration must be a positive number of seconds")
var ErrInvalidDate = errors.New("date is required")
var ErrMissingRate = errors.New("user has no hourly rate")
var ErrSessionTooLong = errors.New("duration exceeds the department's maximum session length")
var ErrEditNotAllowed = errors.New("time entry can no longer be edited")
var ErrNotOwner = errors.New("time entry belongs to another user")

type Service interface {
	CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetEntry(ctx context.Context, id int) (TimeEntry, error)
	UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	DeleteEntry(ctx context.Context, id int) error
	ListEntries(ctx context.Context, projectId int, from time.Time, to time.Time) ([]TimeEntry, error)
}

// UserReader is the part of the user repository needed to snapshot rates.
type UserReader interface {
	GetUser(ctx context.Context, id int) (user.User, error)
}

type ServiceImpl struct {
	repo            Repository
	users           UserReader
	projects        project.Repository
	departments     department.Repository
	clock           utils.Clock
	sameDayEditOnly bool
}

func NewService(
	repo Repository,
	users UserReader,
	projects project.Repository,
	departments department.Repository,
	clock utils.Clock,
	sameDayEditOnly bool,
) *ServiceImpl {
	return &ServiceImpl{
		repo:            repo,
		users:           users,
		projects:        projects,
		departments:     departments,
		clock:           clock,
		sameDayEditOnly: sameDayEditOnly,
	}
}

// CreateEntry stores a new entry for the current user, copying the user's current rate onto it.
func (s *ServiceImpl) CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, entry); err != nil {
		return TimeEntry{}, err
	}

	// the context copy may be stale, the rate must come from the store
	owner, err := s.users.GetUser(ctx, userId)
	if err != nil {
		return TimeEntry{}, err
	}
	if !owner.RatePerHour.Valid || !owner.RatePerHour.Decimal.IsPositive() {
		log.Warnf("rejecting time entry of user %d without hourly rate", userId)
		return TimeEntry{}, ErrMissingRate
	}
	if err := s.checkSessionLength(ctx, owner, entry.DurationSeconds); err != nil {
		return TimeEntry{}, err
	}

	entry.Id = 0
	entry.UserId = owner.Id
	entry.Date = utils.DateOf(entry.Date)
	entry.RatePerHour = owner.RatePerHour.Decimal
	return s.repo.Store(ctx, entry)
}

func (s *ServiceImpl) GetEntry(ctx context.Context, id int) (TimeEntry, error) {
	return s.repo.Get(ctx, id)
}

// UpdateEntry lets the owner edit an entry on the day it was logged, and administrators at any time.
// The frozen rate is kept whatever the user's current rate is.
func (s *ServiceImpl) UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	stored, err := s.repo.Get(ctx, entry.Id)
	if err != nil {
		return TimeEntry{}, err
	}
	if !current.IsAdmin {
		if stored.UserId != current.Id {
			return TimeEntry{}, ErrNotOwner
		}
		if s.sameDayEditOnly && !utils.SameDay(stored.CreatedAt, s.clock.Now()) {
			return TimeEntry{}, ErrEditNotAllowed
		}
	}
	if err := s.validate(ctx, entry); err != nil {
		return TimeEntry{}, err
	}

	entry.UserId = stored.UserId
	entry.Date = utils.DateOf(entry.Date)
	entry.RatePerHour = stored.RatePerHour
	return s.repo.Update(ctx, entry)
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, id int) error {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !current.IsAdmin && stored.UserId != current.Id {
		return ErrNotOwner
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTimeEntryNotFound
	}
	return nil
}

func (s *ServiceImpl) ListEntries(ctx context.Context, projectId int, from time.Time, to time.Time) ([]TimeEntry, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	return s.repo.ListForProject(ctx, projectId, utils.DateOf(from), utils.DateOf(to))
}

func (s *ServiceImpl) validate(ctx context.Context, entry TimeEntry) error {
	if entry.DurationSeconds <= 0 {
		return ErrInvalidDuration
	}
	if entry.Date.IsZero() {
		return ErrInvalidDate
	}
	if _, err := s.projects.GetProject(ctx, entry.ProjectId); err != nil {
		return err
	}
	return nil
}

func (s *ServiceImpl) checkSessionLength(ctx context.Context, owner user.User, durationSeconds int) error {
	if !owner.InDepartment() {
		return nil
	}
	dept, err := s.departments.GetDepartment(ctx, *owner.DepartmentId)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return nil
		}
		return err
	}
	if dept.MaxSessionMinutes > 0 && durationSeconds > dept.MaxSessionMinutes*60 {
		return ErrSessionTooLong
	}
	return nil
}
