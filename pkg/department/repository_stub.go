package department

import (
	"context"
	"sort"
)

type RepositoryStub struct {
	departments map[int]Department
}

func NewRepositoryStub(departments ...Department) *RepositoryStub {
	stub := &RepositoryStub{departments: make(map[int]Department)}
	for _, d := range departments {
		stub.departments[d.Id] = d
	}
	return stub
}

func (r *RepositoryStub) GetDepartment(_ context.Context, id int) (Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return Department{}, ErrDepartmentNotFound
	}
	return d, nil
}

func (r *RepositoryStub) ListDepartments(_ context.Context) ([]Department, error) {
	departments := make([]Department, 0, len(r.departments))
	for _, d := range r.departments {
		departments = append(departments, d)
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Name < departments[j].Name })
	return departments, nil
}
