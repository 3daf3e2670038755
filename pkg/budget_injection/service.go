package budget_injection

import (
	"context"

	"github.com/billable/billable/internal/event_bus"
	"github.com/billable/billable/internal/utils"
	"github.com/billable/billable/pkg/project"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, injection BudgetInjection) (BudgetInjection, error)
	Get(ctx context.Context, id int) (BudgetInjection, error)
	Update(ctx context.Context, injection BudgetInjection) (BudgetInjection, error)
	Delete(ctx context.Context, id int) error
	ListForProject(ctx context.Context, projectId int) ([]BudgetInjection, error)
	TotalForProject(ctx context.Context, projectId int) (decimal.Decimal, error)
}

type ServiceImpl struct {
	repo     Repository
	projects project.Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, projects project.Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, projects: projects, eventBus: eventBus}
}

func (s *ServiceImpl) Create(ctx context.Context, injection BudgetInjection) (BudgetInjection, error) {
	if err := injection.Validate(); err != nil {
		return BudgetInjection{}, err
	}
	if _, err := s.projects.GetProject(ctx, injection.ProjectId); err != nil {
		return BudgetInjection{}, err
	}
	injection.Id = 0
	injection.Date = utils.DateOf(injection.Date)
	created, err := s.repo.Store(ctx, injection)
	if err != nil {
		return BudgetInjection{}, err
	}
	s.publish(ctx, created, event_bus.Created)
	return created, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (BudgetInjection, error) {
	return s.repo.Get(ctx, id)
}

// Update changes date, amount and description. An injection never moves to another project.
func (s *ServiceImpl) Update(ctx context.Context, injection BudgetInjection) (BudgetInjection, error) {
	if err := injection.Validate(); err != nil {
		return BudgetInjection{}, err
	}
	injection.Date = utils.DateOf(injection.Date)
	updated, err := s.repo.Update(ctx, injection)
	if err != nil {
		return BudgetInjection{}, err
	}
	s.publish(ctx, updated, event_bus.Updated)
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
		return ErrBudgetInjectionNotFound
	}
	stored.Amount = decimal.Zero
	s.publish(ctx, stored, event_bus.Deleted)
	return nil
}

func (s *ServiceImpl) ListForProject(ctx context.Context, projectId int) ([]BudgetInjection, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	return s.repo.ListForProject(ctx, projectId)
}

func (s *ServiceImpl) TotalForProject(ctx context.Context, projectId int) (decimal.Decimal, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return decimal.Zero, err
	}
	return s.repo.TotalForProject(ctx, projectId)
}

func (s *ServiceImpl) publish(ctx context.Context, injection BudgetInjection, action event_bus.Action) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetInjectionChanged, event_bus.LedgerChanged{
		ProjectId: injection.ProjectId,
		EntityId:  injection.Id,
		Action:    action,
		Amount:    injection.Amount,
	}))
	if err != nil {
		log.Warnf("budget injection %d %s, but not all subscribers were notified: %v", injection.Id, action, err)
	}
}
