package recurring_budget

import (
	"context"

	"github.com/billable/billable/internal/event_bus"
	"github.com/billable/billable/internal/utils"
	"github.com/billable/billable/pkg/project"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, budget RecurringBudget) (RecurringBudget, error)
	Update(ctx context.Context, budget RecurringBudget) (RecurringBudget, error)
	Deactivate(ctx context.Context, id int) (RecurringBudget, error)
	Get(ctx context.Context, id int) (RecurringBudget, error)
	ListForProject(ctx context.Context, projectId int) ([]RecurringBudget, error)
}

type ServiceImpl struct {
	repo     Repository
	projects project.Repository
	clock    utils.Clock
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, projects project.Repository, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, projects: projects, clock: clock, eventBus: eventBus}
}

// Create stores a new active definition. A project can only have one active definition at a time,
// the previous one has to be deactivated first.
func (s *ServiceImpl) Create(ctx context.Context, budget RecurringBudget) (RecurringBudget, error) {
	budget = normalize(budget)
	if err := budget.Validate(); err != nil {
		return RecurringBudget{}, err
	}
	if _, err := s.projects.GetProject(ctx, budget.ProjectId); err != nil {
		return RecurringBudget{}, err
	}
	budget.Id = 0
	budget.IsActive = true
	budget.DeactivatedOn = nil

	var created RecurringBudget
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		active, err := repo.FindActive(ctx, budget.ProjectId)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrActiveRecurringBudgetExists
		}
		created, err = repo.Store(ctx, budget)
		return err
	})
	if err != nil {
		return RecurringBudget{}, err
	}
	log.Infof("recurring budget %d created for project %d: %s %s", created.Id, created.ProjectId,
		created.Amount.StringFixed(2), created.Frequency)
	s.publish(ctx, created, event_bus.Created)
	return created, nil
}

// Update replaces amount, frequency and window of a definition in one transaction.
func (s *ServiceImpl) Update(ctx context.Context, budget RecurringBudget) (RecurringBudget, error) {
	budget = normalize(budget)
	if err := budget.Validate(); err != nil {
		return RecurringBudget{}, err
	}

	var updated RecurringBudget
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		stored, err := repo.Get(ctx, budget.Id)
		if err != nil {
			return err
		}
		stored.Amount = budget.Amount
		stored.Frequency = budget.Frequency
		stored.StartDate = budget.StartDate
		stored.EndDate = budget.EndDate
		updated, err = repo.Update(ctx, stored)
		return err
	})
	if err != nil {
		return RecurringBudget{}, err
	}
	s.publish(ctx, updated, event_bus.Updated)
	return updated, nil
}

// Deactivate switches the definition off as of today. Already inactive definitions are returned unchanged.
func (s *ServiceImpl) Deactivate(ctx context.Context, id int) (RecurringBudget, error) {
	var result RecurringBudget
	deactivated := false
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		stored, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !stored.IsActive {
			result = stored
			return nil
		}
		result, err = repo.Deactivate(ctx, id, utils.Today(s.clock))
		if err == nil {
			deactivated = true
		}
		return err
	})
	if err != nil {
		return RecurringBudget{}, err
	}
	if deactivated {
		s.publish(ctx, result, event_bus.Deactivated)
	}
	return result, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (RecurringBudget, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) ListForProject(ctx context.Context, projectId int) ([]RecurringBudget, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	return s.repo.ListForProject(ctx, projectId)
}

func (s *ServiceImpl) publish(ctx context.Context, budget RecurringBudget, action event_bus.Action) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.RecurringBudgetChanged, event_bus.LedgerChanged{
		ProjectId: budget.ProjectId,
		EntityId:  budget.Id,
		Action:    action,
		Amount:    budget.Amount,
	}))
	if err != nil {
		log.Warnf("recurring budget %d %s, but not all subscribers were notified: %v", budget.Id, action, err)
	}
}

func normalize(budget RecurringBudget) RecurringBudget {
	if !budget.StartDate.IsZero() {
		budget.StartDate = utils.DateOf(budget.StartDate)
	}
	if budget.EndDate != nil {
		end := utils.DateOf(*budget.EndDate)
		budget.EndDate = &end
	}
	return budget
}
