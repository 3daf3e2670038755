package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/billable/billable/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrProjectNotFound = errors.New("project not found")

type Repository interface {
	GetProject(ctx context.Context, id int) (Project, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetProject(ctx context.Context, id int) (Project, error) {
	return Get(ctx, r.db, id)
}

// Get reads a project through q, which may be a transaction.
func Get(ctx context.Context, q database.Querier, id int) (Project, error) {
	var p Project
	err := q.QueryRow(ctx, `SELECT id, name FROM project WHERE id = $1`, id).Scan(&p.Id, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		err := fmt.Errorf("could not get project: %w", err)
		log.Error(err)
		return Project{}, err
	}
	return p, nil
}
