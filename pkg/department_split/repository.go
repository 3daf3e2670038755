package department_split

import (
	"context"
	"errors"
	"fmt"

	"github.com/billable/billable/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrSplitNotFound = errors.New("department split not found")
var ErrSplitAlreadyExists = errors.New("department already has a split for this project")

const projectDepartmentKey = "department_split_project_department_key"

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	Store(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error)
	Get(ctx context.Context, id int) (DepartmentSplit, error)
	Update(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error)
	Delete(ctx context.Context, id int) (bool, error)
	DeleteForProject(ctx context.Context, projectId int) error
	ListForProject(ctx context.Context, projectId int) ([]DepartmentSplit, error)
}

type repositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) getQueryer() database.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&repositoryImpl{db: r.db, tx: tx})
	})
}

func (r *repositoryImpl) Store(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error) {
	query := `INSERT INTO department_split (project_id, department_id, budget_amount) 
			  VALUES ($1, $2, $3) RETURNING id`
	err := r.getQueryer().QueryRow(ctx, query, split.ProjectId, split.DepartmentId, split.BudgetAmount).Scan(&split.Id)
	if err != nil {
		if database.IsUniqueViolation(err, projectDepartmentKey) {
			return DepartmentSplit{}, ErrSplitAlreadyExists
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return DepartmentSplit{}, err
	}
	return split, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id int) (DepartmentSplit, error) {
	query := `SELECT id, project_id, department_id, budget_amount FROM department_split WHERE id = $1`
	split, err := scanSplit(r.getQueryer().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DepartmentSplit{}, ErrSplitNotFound
		}
		err := fmt.Errorf("could not get department split: %w", err)
		log.Error(err)
		return DepartmentSplit{}, err
	}
	return split, nil
}

func (r *repositoryImpl) Update(ctx context.Context, split DepartmentSplit) (DepartmentSplit, error) {
	query := `UPDATE department_split SET budget_amount = $1 WHERE id = $2 
              RETURNING id, project_id, department_id, budget_amount`
	updated, err := scanSplit(r.getQueryer().QueryRow(ctx, query, split.BudgetAmount, split.Id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DepartmentSplit{}, ErrSplitNotFound
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return DepartmentSplit{}, err
	}
	return updated, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM department_split WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *repositoryImpl) DeleteForProject(ctx context.Context, projectId int) error {
	_, err := r.getQueryer().Exec(ctx, `DELETE FROM department_split WHERE project_id = $1`, projectId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *repositoryImpl) ListForProject(ctx context.Context, projectId int) ([]DepartmentSplit, error) {
	return ListForProject(ctx, r.getQueryer(), projectId)
}

// ListForProject reads the splits of a project through q.
func ListForProject(ctx context.Context, q database.Querier, projectId int) ([]DepartmentSplit, error) {
	query := `SELECT id, project_id, department_id, budget_amount FROM department_split 
              WHERE project_id = $1 ORDER BY department_id`
	rows, err := q.Query(ctx, query, projectId)
	if err != nil {
		err := fmt.Errorf("could not query department splits: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	splits := make([]DepartmentSplit, 0)
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return splits, nil
}

func scanSplit(row pgx.Row) (DepartmentSplit, error) {
	var split DepartmentSplit
	err := row.Scan(&split.Id, &split.ProjectId, &split.DepartmentId, &split.BudgetAmount)
	return split, err
}
