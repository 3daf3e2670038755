package time_entry

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu      sync.RWMutex
	entries map[int]TimeEntry
	nextId  int
	now     func() time.Time
}

func NewRepositoryStub(now func() time.Time) *RepositoryStub {
	return &RepositoryStub{entries: make(map[int]TimeEntry), nextId: 1, now: now}
}

func (r *RepositoryStub) Store(_ context.Context, entry TimeEntry) (TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.Id = r.nextId
	entry.CreatedAt = r.now()
	r.nextId++
	r.entries[entry.Id] = entry
	return entry, nil
}

func (r *RepositoryStub) Get(_ context.Context, id int) (TimeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return TimeEntry{}, ErrTimeEntryNotFound
	}
	return entry, nil
}

func (r *RepositoryStub) Update(_ context.Context, entry TimeEntry) (TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.entries[entry.Id]
	if !ok {
		return TimeEntry{}, ErrTimeEntryNotFound
	}
	stored.ProjectId = entry.ProjectId
	stored.Date = entry.Date
	stored.DurationSeconds = entry.DurationSeconds
	stored.Description = entry.Description
	r.entries[entry.Id] = stored
	return stored, nil
}

func (r *RepositoryStub) Delete(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}

func (r *RepositoryStub) ListForProject(_ context.Context, projectId int, from time.Time, to time.Time) ([]TimeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]TimeEntry, 0)
	for _, e := range r.entries {
		if e.ProjectId == projectId && !e.Date.Before(from) && e.Date.Before(to) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Id < entries[j].Id
		}
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}
