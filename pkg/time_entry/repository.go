package time_entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrTimeEntryNotFound = errors.New("time entry not found")

type Repository interface {
	Store(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	Get(ctx context.Context, id int) (TimeEntry, error)
	// Update changes date, duration, description and project. The stored rate is never touched.
	Update(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	Delete(ctx context.Context, id int) (bool, error)
	// ListForProject returns entries with from <= date < to, ordered by date.
	ListForProject(ctx context.Context, projectId int, from time.Time, to time.Time) ([]TimeEntry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectEntry = `SELECT id, user_id, project_id, entry_date, duration_seconds, description, rate_per_hour, created_at 
					 FROM time_entry`

func (r *RepositoryImpl) Store(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	query := `INSERT INTO time_entry (user_id, project_id, entry_date, duration_seconds, description, rate_per_hour) 
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		entry.UserId,
		entry.ProjectId,
		entry.Date,
		entry.DurationSeconds,
		entry.Description,
		entry.RatePerHour,
	).Scan(&entry.Id, &entry.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (TimeEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, selectEntry+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TimeEntry{}, ErrTimeEntryNotFound
		}
		err := fmt.Errorf("could not get time entry: %w", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	query := `UPDATE time_entry SET 
                  project_id = $1, 
                  entry_date = $2, 
                  duration_seconds = $3, 
                  description = $4
              WHERE id = $5
              RETURNING id, user_id, project_id, entry_date, duration_seconds, description, rate_per_hour, created_at`
	updated, err := scanEntry(r.db.QueryRow(ctx, query,
		entry.ProjectId,
		entry.Date,
		entry.DurationSeconds,
		entry.Description,
		entry.Id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TimeEntry{}, ErrTimeEntryNotFound
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM time_entry WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) ListForProject(ctx context.Context, projectId int, from time.Time, to time.Time) ([]TimeEntry, error) {
	query := selectEntry + ` WHERE project_id = $1 AND entry_date >= $2 AND entry_date < $3 ORDER BY entry_date, id`
	rows, err := r.db.Query(ctx, query, projectId, from, to)
	if err != nil {
		err := fmt.Errorf("could not query time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]TimeEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (TimeEntry, error) {
	var entry TimeEntry
	err := row.Scan(
		&entry.Id,
		&entry.UserId,
		&entry.ProjectId,
		&entry.Date,
		&entry.DurationSeconds,
		&entry.Description,
		&entry.RatePerHour,
		&entry.CreatedAt,
	)
	return entry, err
}
