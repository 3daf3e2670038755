package recurring_budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billable/billable/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrRecurringBudgetNotFound = errors.New("recurring budget not found")
var ErrActiveRecurringBudgetExists = errors.New("project already has an active recurring budget")

const oneActivePerProjectIndex = "recurring_budget_one_active_idx"

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	Store(ctx context.Context, budget RecurringBudget) (RecurringBudget, error)
	// Get returns the definition; inside a transaction the row stays locked until commit.
	Get(ctx context.Context, id int) (RecurringBudget, error)
	FindActive(ctx context.Context, projectId int) (*RecurringBudget, error)
	Update(ctx context.Context, budget RecurringBudget) (RecurringBudget, error)
	Deactivate(ctx context.Context, id int, on time.Time) (RecurringBudget, error)
	ListForProject(ctx context.Context, projectId int) ([]RecurringBudget, error)
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

const returningColumns = `id, project_id, amount, frequency, start_date, end_date, is_active, deactivated_on`

func (r *repositoryImpl) Store(ctx context.Context, budget RecurringBudget) (RecurringBudget, error) {
	query := `INSERT INTO recurring_budget (project_id, amount, frequency, start_date, end_date, is_active) 
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + returningColumns
	stored, err := scanBudget(r.getQueryer().QueryRow(ctx, query,
		budget.ProjectId,
		budget.Amount,
		string(budget.Frequency),
		budget.StartDate,
		budget.EndDate,
		budget.IsActive,
	))
	if err != nil {
		if database.IsUniqueViolation(err, oneActivePerProjectIndex) {
			return RecurringBudget{}, ErrActiveRecurringBudgetExists
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return RecurringBudget{}, err
	}
	return stored, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id int) (RecurringBudget, error) {
	query := `SELECT ` + returningColumns + ` FROM recurring_budget WHERE id = $1`
	if r.tx != nil {
		query += ` FOR UPDATE`
	}
	budget, err := scanBudget(r.getQueryer().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RecurringBudget{}, ErrRecurringBudgetNotFound
		}
		err := fmt.Errorf("could not get recurring budget: %w", err)
		log.Error(err)
		return RecurringBudget{}, err
	}
	return budget, nil
}

func (r *repositoryImpl) FindActive(ctx context.Context, projectId int) (*RecurringBudget, error) {
	query := `SELECT ` + returningColumns + ` FROM recurring_budget WHERE project_id = $1 AND is_active`
	budget, err := scanBudget(r.getQueryer().QueryRow(ctx, query, projectId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not find active recurring budget: %w", err)
		log.Error(err)
		return nil, err
	}
	return &budget, nil
}

func (r *repositoryImpl) Update(ctx context.Context, budget RecurringBudget) (RecurringBudget, error) {
	query := `UPDATE recurring_budget SET 
                  amount = $1, 
                  frequency = $2, 
                  start_date = $3, 
                  end_date = $4
              WHERE id = $5
              RETURNING ` + returningColumns
	updated, err := scanBudget(r.getQueryer().QueryRow(ctx, query,
		budget.Amount,
		string(budget.Frequency),
		budget.StartDate,
		budget.EndDate,
		budget.Id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RecurringBudget{}, ErrRecurringBudgetNotFound
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return RecurringBudget{}, err
	}
	return updated, nil
}

func (r *repositoryImpl) Deactivate(ctx context.Context, id int, on time.Time) (RecurringBudget, error) {
	query := `UPDATE recurring_budget SET is_active = FALSE, deactivated_on = $1 
              WHERE id = $2 
              RETURNING ` + returningColumns
	updated, err := scanBudget(r.getQueryer().QueryRow(ctx, query, on, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RecurringBudget{}, ErrRecurringBudgetNotFound
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return RecurringBudget{}, err
	}
	return updated, nil
}

func (r *repositoryImpl) ListForProject(ctx context.Context, projectId int) ([]RecurringBudget, error) {
	return ListForProject(ctx, r.getQueryer(), projectId)
}

// ListForProject reads all definitions of a project through q, which may be a snapshot transaction
// owned by another package.
func ListForProject(ctx context.Context, q database.Querier, projectId int) ([]RecurringBudget, error) {
	query := `SELECT ` + returningColumns + ` FROM recurring_budget WHERE project_id = $1 ORDER BY start_date, id`
	rows, err := q.Query(ctx, query, projectId)
	if err != nil {
		err := fmt.Errorf("could not query recurring budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	budgets := make([]RecurringBudget, 0)
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func scanBudget(row pgx.Row) (RecurringBudget, error) {
	var budget RecurringBudget
	var frequency string
	err := row.Scan(
		&budget.Id,
		&budget.ProjectId,
		&budget.Amount,
		&frequency,
		&budget.StartDate,
		&budget.EndDate,
		&budget.IsActive,
		&budget.DeactivatedOn,
	)
	budget.Frequency = Frequency(frequency)
	return budget, err
}
