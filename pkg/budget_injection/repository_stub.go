package budget_injection

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type RepositoryStub struct {
	mu         sync.RWMutex
	injections map[int]BudgetInjection
	nextId     int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{injections: make(map[int]BudgetInjection), nextId: 1}
}

func (r *RepositoryStub) Store(_ context.Context, injection BudgetInjection) (BudgetInjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	injection.Id = r.nextId
	r.nextId++
	r.injections[injection.Id] = injection
	return injection, nil
}

func (r *RepositoryStub) Get(_ context.Context, id int) (BudgetInjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	injection, ok := r.injections[id]
	if !ok {
		return BudgetInjection{}, ErrBudgetInjectionNotFound
	}
	return injection, nil
}

func (r *RepositoryStub) Update(_ context.Context, injection BudgetInjection) (BudgetInjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.injections[injection.Id]
	if !ok {
		return BudgetInjection{}, ErrBudgetInjectionNotFound
	}
	stored.Date = injection.Date
	stored.Amount = injection.Amount
	stored.Description = injection.Description
	r.injections[injection.Id] = stored
	return stored, nil
}

func (r *RepositoryStub) Delete(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.injections[id]; !ok {
		return false, nil
	}
	delete(r.injections, id)
	return true, nil
}

func (r *RepositoryStub) ListForProject(_ context.Context, projectId int) ([]BudgetInjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	injections := make([]BudgetInjection, 0)
	for _, i := range r.injections {
		if i.ProjectId == projectId {
			injections = append(injections, i)
		}
	}
	sort.Slice(injections, func(a, b int) bool {
		if injections[a].Date.Equal(injections[b].Date) {
			return injections[a].Id < injections[b].Id
		}
		return injections[a].Date.Before(injections[b].Date)
	})
	return injections, nil
}

func (r *RepositoryStub) TotalForProject(ctx context.Context, projectId int) (decimal.Decimal, error) {
	injections, _ := r.ListForProject(ctx, projectId)
	return Total(injections), nil
}
