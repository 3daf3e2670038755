package recurring_budget

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu      sync.Mutex
	budgets map[int]RecurringBudget
	nextId  int
	// FailNextUpdate makes the next Update return this error, to exercise rollbacks.
	FailNextUpdate error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{budgets: make(map[int]RecurringBudget), nextId: 1}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	original := make(map[int]RecurringBudget, len(r.budgets))
	for k, v := range r.budgets {
		original[k] = v
	}
	originalNextId := r.nextId
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.budgets = original
		r.nextId = originalNextId
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) Store(_ context.Context, budget RecurringBudget) (RecurringBudget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if budget.IsActive {
		for _, b := range r.budgets {
			if b.ProjectId == budget.ProjectId && b.IsActive {
				return RecurringBudget{}, ErrActiveRecurringBudgetExists
			}
		}
	}
	budget.Id = r.nextId
	r.nextId++
	r.budgets[budget.Id] = budget
	return budget, nil
}

func (r *RepositoryStub) Get(_ context.Context, id int) (RecurringBudget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	budget, ok := r.budgets[id]
	if !ok {
		return RecurringBudget{}, ErrRecurringBudgetNotFound
	}
	return budget, nil
}

func (r *RepositoryStub) FindActive(_ context.Context, projectId int) (*RecurringBudget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.budgets {
		if b.ProjectId == projectId && b.IsActive {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (r *RepositoryStub) Update(_ context.Context, budget RecurringBudget) (RecurringBudget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNextUpdate != nil {
		err := r.FailNextUpdate
		r.FailNextUpdate = nil
		return RecurringBudget{}, err
	}
	stored, ok := r.budgets[budget.Id]
	if !ok {
		return RecurringBudget{}, ErrRecurringBudgetNotFound
	}
	stored.Amount = budget.Amount
	stored.Frequency = budget.Frequency
	stored.StartDate = budget.StartDate
	stored.EndDate = budget.EndDate
	r.budgets[budget.Id] = stored
	return stored, nil
}

func (r *RepositoryStub) Deactivate(_ context.Context, id int, on time.Time) (RecurringBudget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.budgets[id]
	if !ok {
		return RecurringBudget{}, ErrRecurringBudgetNotFound
	}
	stored.IsActive = false
	stored.DeactivatedOn = &on
	r.budgets[id] = stored
	return stored, nil
}

func (r *RepositoryStub) ListForProject(_ context.Context, projectId int) ([]RecurringBudget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	budgets := make([]RecurringBudget, 0)
	for _, b := range r.budgets {
		if b.ProjectId == projectId {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].Id < budgets[j].Id })
	return budgets, nil
}
