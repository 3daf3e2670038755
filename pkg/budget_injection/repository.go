package budget_injection

import (
	"context"
	"errors"
	"fmt"

	"github.com/billable/billable/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetInjectionNotFound = errors.New("budget injection not found")

type Repository interface {
	Store(ctx context.Context, injection BudgetInjection) (BudgetInjection, error)
	Get(ctx context.Context, id int) (BudgetInjection, error)
	Update(ctx context.Context, injection BudgetInjection) (BudgetInjection, error)
	Delete(ctx context.Context, id int) (bool, error)
	ListForProject(ctx context.Context, projectId int) ([]BudgetInjection, error)
	TotalForProject(ctx context.Context, projectId int) (decimal.Decimal, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, injection BudgetInjection) (BudgetInjection, error) {
	query := `INSERT INTO budget_injection (project_id, date, amount, description) 
			  VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		injection.ProjectId,
		injection.Date,
		injection.Amount,
		injection.Description,
	).Scan(&injection.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return BudgetInjection{}, err
	}
	return injection, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (BudgetInjection, error) {
	query := `SELECT id, project_id, date, amount, description FROM budget_injection WHERE id = $1`
	injection, err := scanInjection(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetInjection{}, ErrBudgetInjectionNotFound
		}
		err := fmt.Errorf("could not get budget injection: %w", err)
		log.Error(err)
		return BudgetInjection{}, err
	}
	return injection, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, injection BudgetInjection) (BudgetInjection, error) {
	query := `UPDATE budget_injection SET 
                  date = $1, 
                  amount = $2, 
                  description = $3
              WHERE id = $4
              RETURNING id, project_id, date, amount, description`
	updated, err := scanInjection(r.db.QueryRow(ctx, query,
		injection.Date,
		injection.Amount,
		injection.Description,
		injection.Id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetInjection{}, ErrBudgetInjectionNotFound
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return BudgetInjection{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM budget_injection WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) ListForProject(ctx context.Context, projectId int) ([]BudgetInjection, error) {
	query := `SELECT id, project_id, date, amount, description FROM budget_injection 
              WHERE project_id = $1 ORDER BY date, id`
	rows, err := r.db.Query(ctx, query, projectId)
	if err != nil {
		err := fmt.Errorf("could not query budget injections: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	injections := make([]BudgetInjection, 0)
	for rows.Next() {
		injection, err := scanInjection(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		injections = append(injections, injection)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return injections, nil
}

func (r *RepositoryImpl) TotalForProject(ctx context.Context, projectId int) (decimal.Decimal, error) {
	return TotalForProject(ctx, r.db, projectId)
}

// TotalForProject sums the injections of a project through q.
func TotalForProject(ctx context.Context, q database.Querier, projectId int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM budget_injection WHERE project_id = $1`, projectId).
		Scan(&total)
	if err != nil {
		err := fmt.Errorf("could not sum budget injections: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return total, nil
}

func scanInjection(row pgx.Row) (BudgetInjection, error) {
	var injection BudgetInjection
	err := row.Scan(
		&injection.Id,
		&injection.ProjectId,
		&injection.Date,
		&injection.Amount,
		&injection.Description,
	)
	return injection, err
}
