package report

import (
	"context"
	"fmt"
	"time"

	"github.com/billable/billable/internal/database"
	"github.com/billable/billable/pkg/budget_injection"
	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/department_split"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/recurring_budget"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// LifetimeInput holds the all-time totals of a project.
type LifetimeInput struct {
	Project      project.Project
	TotalBudget  decimal.Decimal
	TotalSpend   decimal.Decimal
	TotalSeconds int64
}

// Repository reads report inputs, each call from a single consistent snapshot.
type Repository interface {
	ReadMonth(ctx context.Context, projectId int, year int, month time.Month, withAllDepartments bool) (MonthInput, error)
	ReadLifetime(ctx context.Context, projectId int) (LifetimeInput, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ReadMonth(ctx context.Context, projectId int, year int, month time.Month, withAllDepartments bool) (MonthInput, error) {
	input := MonthInput{Year: year, Month: month}
	err := database.ReadSnapshot(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		input.Project, err = project.Get(ctx, tx, projectId)
		if err != nil {
			return err
		}
		from, to := recurring_budget.MonthBounds(year, month)
		input.Entries, err = readEntries(ctx, tx, projectId, from, to)
		if err != nil {
			return err
		}
		input.Recurring, err = recurring_budget.ListForProject(ctx, tx, projectId)
		if err != nil {
			return err
		}
		input.Splits, err = department_split.ListForProject(ctx, tx, projectId)
		if err != nil {
			return err
		}
		if withAllDepartments || len(input.Splits) > 0 {
			// also needed to name departments that only have a split
			all, err := department.List(ctx, tx)
			if err != nil {
				return err
			}
			if withAllDepartments {
				input.Departments = all
			} else {
				input.Departments = referencedBySplits(all, input.Splits)
			}
		}
		return nil
	})
	if err != nil {
		return MonthInput{}, err
	}
	log.Debugf("read %d time entries of project %d for %d-%02d", len(input.Entries), projectId, year, month)
	return input, nil
}

func (r *RepositoryImpl) ReadLifetime(ctx context.Context, projectId int) (LifetimeInput, error) {
	var input LifetimeInput
	err := database.ReadSnapshot(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		input.Project, err = project.Get(ctx, tx, projectId)
		if err != nil {
			return err
		}
		input.TotalBudget, err = budget_injection.TotalForProject(ctx, tx, projectId)
		if err != nil {
			return err
		}
		var weightedSeconds decimal.Decimal
		query := `SELECT COALESCE(SUM(rate_per_hour * duration_seconds), 0), COALESCE(SUM(duration_seconds), 0) 
                  FROM time_entry WHERE project_id = $1`
		err = tx.QueryRow(ctx, query, projectId).Scan(&weightedSeconds, &input.TotalSeconds)
		if err != nil {
			err := fmt.Errorf("could not sum time entries: %w", err)
			log.Error(err)
			return err
		}
		input.TotalSpend = weightedSeconds.Div(decimal.NewFromInt(3600))
		return nil
	})
	if err != nil {
		return LifetimeInput{}, err
	}
	return input, nil
}

func readEntries(ctx context.Context, q database.Querier, projectId int, from time.Time, to time.Time) ([]EntryRow, error) {
	query := `SELECT te.id, te.user_id, te.project_id, te.entry_date, te.duration_seconds, te.description, 
                     te.rate_per_hour, te.created_at,
                     u.uid, u.username, u.display_name, u.rate_per_hour, u.department_id, u.is_admin,
                     d.name, d.color, d.max_session_minutes
              FROM time_entry te
              JOIN users u ON u.id = te.user_id
              LEFT JOIN department d ON d.id = u.department_id
              WHERE te.project_id = $1 AND te.entry_date >= $2 AND te.entry_date < $3
              ORDER BY te.entry_date, te.id`
	rows, err := q.Query(ctx, query, projectId, from, to)
	if err != nil {
		err := fmt.Errorf("could not query time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]EntryRow, 0)
	for rows.Next() {
		var row EntryRow
		var deptName, deptColor *string
		var deptMaxSession *int
		err := rows.Scan(
			&row.Entry.Id,
			&row.Entry.UserId,
			&row.Entry.ProjectId,
			&row.Entry.Date,
			&row.Entry.DurationSeconds,
			&row.Entry.Description,
			&row.Entry.RatePerHour,
			&row.Entry.CreatedAt,
			&row.User.Uid,
			&row.User.Username,
			&row.User.DisplayName,
			&row.User.RatePerHour,
			&row.User.DepartmentId,
			&row.User.IsAdmin,
			&deptName,
			&deptColor,
			&deptMaxSession,
		)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		row.User.Id = row.Entry.UserId
		if row.User.DepartmentId != nil && deptName != nil {
			row.Department = &department.Department{
				Id:                *row.User.DepartmentId,
				Name:              *deptName,
				Color:             deref(deptColor),
				MaxSessionMinutes: derefInt(deptMaxSession),
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return result, nil
}

func referencedBySplits(all []department.Department, splits []department_split.DepartmentSplit) []department.Department {
	byId := department_split.ByDepartment(splits)
	result := make([]department.Department, 0, len(splits))
	for _, d := range all {
		if _, ok := byId[d.Id]; ok {
			result = append(result, d)
		}
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
