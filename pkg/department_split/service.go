package department_split

import (
	"context"

	"github.com/billable/billable/internal/event_bus"
	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/project"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error)
	Update(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error)
	Delete(ctx context.Context, id int) error
	ListForProject(ctx context.Context, projectId int) ([]DepartmentSplit, error)
	ReplaceForProject(ctx context.Context, projectId int, splits []DepartmentSplit) ([]DepartmentSplit, error)
}

type ServiceImpl struct {
	repo        Repository
	projects    project.Repository
	departments department.Repository
	eventBus    *event_bus.EventBus
}

func NewService(
	repo Repository,
	projects project.Repository,
	departments department.Repository,
	eventBus *event_bus.EventBus,
) *ServiceImpl {
	return &ServiceImpl{repo: repo, projects: projects, departments: departments, eventBus: eventBus}
}

// Create adds a split. A second split for the same project and department fails with
// ErrSplitAlreadyExists and leaves the existing one untouched.
func (s *ServiceImpl) Create(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error) {
	if err := s.validate(ctx, split); err != nil {
		return DepartmentSplit{}, err
	}
	split.Id = 0
	created, err := s.repo.Store(ctx, split)
	if err != nil {
		return DepartmentSplit{}, err
	}
	s.publish(ctx, created.ProjectId, created.Id, event_bus.Created, created.BudgetAmount)
	return created, nil
}

// Update changes the amount only; project and department of a split are fixed.
func (s *ServiceImpl) Update(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error) {
	if err := split.Validate(); err != nil {
		return DepartmentSplit{}, err
	}
	updated, err := s.repo.Update(ctx, split)
	if err != nil {
		return DepartmentSplit{}, err
	}
	s.publish(ctx, updated.ProjectId, updated.Id, event_bus.Updated, updated.BudgetAmount)
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSplitNotFound
	}
	s.publish(ctx, stored.ProjectId, stored.Id, event_bus.Deleted, decimal.Zero)
	return nil
}

func (s *ServiceImpl) ListForProject(ctx context.Context, projectId int) ([]DepartmentSplit, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	return s.repo.ListForProject(ctx, projectId)
}

// ReplaceForProject swaps the whole split set of a project in one transaction. On any failure the
// previous set stays in place.
func (s *ServiceImpl) ReplaceForProject(ctx context.Context, projectId int, splits []DepartmentSplit) ([]DepartmentSplit, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(splits))
	for i := range splits {
		splits[i].ProjectId = projectId
		if seen[splits[i].DepartmentId] {
			return nil, ErrDuplicateDepartment
		}
		seen[splits[i].DepartmentId] = true
		if err := s.validate(ctx, splits[i]); err != nil {
			return nil, err
		}
	}

	stored := make([]DepartmentSplit, 0, len(splits))
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		if err := repo.DeleteForProject(ctx, projectId); err != nil {
			return err
		}
		for _, split := range splits {
			split.Id = 0
			created, err := repo.Store(ctx, split)
			if err != nil {
				return err
			}
			stored = append(stored, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infof("replaced department splits of project %d with %d entries", projectId, len(stored))
	total := decimal.Zero
	for _, split := range stored {
		total = total.Add(split.BudgetAmount)
	}
	s.publish(ctx, projectId, 0, event_bus.Replaced, total)
	return stored, nil
}

func (s *ServiceImpl) validate(ctx context.Context, split DepartmentSplit) error {
	if err := split.Validate(); err != nil {
		return err
	}
	if _, err := s.projects.GetProject(ctx, split.ProjectId); err != nil {
		return err
	}
	if _, err := s.departments.GetDepartment(ctx, split.DepartmentId); err != nil {
		return err
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, projectId int, splitId int, action event_bus.Action, amount decimal.Decimal) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.DepartmentSplitsChanged, event_bus.LedgerChanged{
		ProjectId: projectId,
		EntityId:  splitId,
		Action:    action,
		Amount:    amount,
	}))
	if err != nil {
		log.Warnf("department splits of project %d %s, but not all subscribers were notified: %v", projectId, action, err)
	}
}
