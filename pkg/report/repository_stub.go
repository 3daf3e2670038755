package report

import (
	"context"
	"time"

	"github.com/billable/billable/pkg/project"
)

// RepositoryStub serves fixed inputs per project. ReadMonth keeps only the entries that fall into
// the requested month.
type RepositoryStub struct {
	months    map[int]MonthInput
	lifetimes map[int]LifetimeInput
	// LastWithAllDepartments records the flag of the most recent ReadMonth call.
	LastWithAllDepartments bool
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{months: make(map[int]MonthInput), lifetimes: make(map[int]LifetimeInput)}
}

func (r *RepositoryStub) PutMonth(input MonthInput) {
	r.months[input.Project.Id] = input
}

func (r *RepositoryStub) PutLifetime(input LifetimeInput) {
	r.lifetimes[input.Project.Id] = input
}

func (r *RepositoryStub) ReadMonth(_ context.Context, projectId int, year int, month time.Month, withAllDepartments bool) (MonthInput, error) {
	r.LastWithAllDepartments = withAllDepartments
	input, ok := r.months[projectId]
	if !ok {
		return MonthInput{}, project.ErrProjectNotFound
	}
	entries := make([]EntryRow, 0, len(input.Entries))
	for _, e := range input.Entries {
		if e.Entry.Date.Year() == year && e.Entry.Date.Month() == month {
			entries = append(entries, e)
		}
	}
	input.Entries = entries
	input.Year = year
	input.Month = month
	if !withAllDepartments {
		input.Departments = nil
	}
	return input, nil
}

func (r *RepositoryStub) ReadLifetime(_ context.Context, projectId int) (LifetimeInput, error) {
	input, ok := r.lifetimes[projectId]
	if !ok {
		return LifetimeInput{}, project.ErrProjectNotFound
	}
	return input, nil
}
