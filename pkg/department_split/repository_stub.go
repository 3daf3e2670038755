package department_split

import (
	"context"
	"sort"
	"sync"
)

type RepositoryStub struct {
	mu     sync.Mutex
	splits map[int]DepartmentSplit
	nextId int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{splits: make(map[int]DepartmentSplit), nextId: 1}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	original := make(map[int]DepartmentSplit, len(r.splits))
	for k, v := range r.splits {
		original[k] = v
	}
	originalNextId := r.nextId
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.splits = original
		r.nextId = originalNextId
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) Store(_ context.Context, split DepartmentSplit) (DepartmentSplit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.splits {
		if s.ProjectId == split.ProjectId && s.DepartmentId == split.DepartmentId {
			return DepartmentSplit{}, ErrSplitAlreadyExists
		}
	}
	split.Id = r.nextId
	r.nextId++
	r.splits[split.Id] = split
	return split, nil
}

func (r *RepositoryStub) Get(_ context.Context, id int) (DepartmentSplit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	split, ok := r.splits[id]
	if !ok {
		return DepartmentSplit{}, ErrSplitNotFound
	}
	return split, nil
}

func (r *RepositoryStub) Update(_ context.Context, split DepartmentSplit) (DepartmentSplit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.splits[split.Id]
	if !ok {
		return DepartmentSplit{}, ErrSplitNotFound
	}
	stored.BudgetAmount = split.BudgetAmount
	r.splits[split.Id] = stored
	return stored, nil
}

func (r *RepositoryStub) Delete(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.splits[id]; !ok {
		return false, nil
	}
	delete(r.splits, id)
	return true, nil
}

func (r *RepositoryStub) DeleteForProject(_ context.Context, projectId int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.splits {
		if s.ProjectId == projectId {
			delete(r.splits, id)
		}
	}
	return nil
}

func (r *RepositoryStub) ListForProject(_ context.Context, projectId int) ([]DepartmentSplit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	splits := make([]DepartmentSplit, 0)
	for _, s := range r.splits {
		if s.ProjectId == projectId {
			splits = append(splits, s)
		}
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].DepartmentId < splits[j].DepartmentId })
	return splits, nil
}
