package project

import "context"

type RepositoryStub struct {
	projects map[int]Project
}

func NewRepositoryStub(projects ...Project) *RepositoryStub {
	stub := &RepositoryStub{projects: make(map[int]Project)}
	for _, p := range projects {
		stub.projects[p.Id] = p
	}
	return stub
}

func (r *RepositoryStub) GetProject(_ context.Context, id int) (Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return Project{}, ErrProjectNotFound
	}
	return p, nil
}
