package department

import (
	"context"
	"errors"
	"fmt"

	"github.com/billable/billable/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrDepartmentNotFound = errors.New("department not found")

type Repository interface {
	GetDepartment(ctx context.Context, id int) (Department, error)
	ListDepartments(ctx context.Context) ([]Department, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetDepartment(ctx context.Context, id int) (Department, error) {
	query := `SELECT id, name, color, max_session_minutes FROM department WHERE id = $1`
	var d Department
	err := r.db.QueryRow(ctx, query, id).Scan(&d.Id, &d.Name, &d.Color, &d.MaxSessionMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Department{}, ErrDepartmentNotFound
		}
		err := fmt.Errorf("could not get department: %w", err)
		log.Error(err)
		return Department{}, err
	}
	return d, nil
}

func (r *RepositoryImpl) ListDepartments(ctx context.Context) ([]Department, error) {
	return List(ctx, r.db)
}

// List reads all departments through q, which may be a transaction.
func List(ctx context.Context, q database.Querier) ([]Department, error) {
	rows, err := q.Query(ctx, `SELECT id, name, color, max_session_minutes FROM department ORDER BY name`)
	if err != nil {
		err := fmt.Errorf("could not query departments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	departments := make([]Department, 0)
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.Id, &d.Name, &d.Color, &d.MaxSessionMinutes); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return departments, nil
}
