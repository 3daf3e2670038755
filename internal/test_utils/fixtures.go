package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// InsertDepartment stores a department row and returns its id.
func InsertDepartment(t *testing.T, db *pgxpool.Pool, name string, color string) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO department (name, color) VALUES ($1, $2) RETURNING id`, name, color).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertProject stores a project row and returns its id.
func InsertProject(t *testing.T, db *pgxpool.Pool, name string) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO project (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertUser stores a user with the given hourly rate; departmentId 0 leaves the user unassigned.
func InsertUser(t *testing.T, db *pgxpool.Pool, name string, rate string, departmentId int) int {
	t.Helper()
	var deptId *int
	if departmentId != 0 {
		deptId = &departmentId
	}
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (uid, username, display_name, rate_per_hour, department_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		uuid.NewString(), name, name, decimal.RequireFromString(rate), deptId).Scan(&id)
	require.NoError(t, err)
	return id
}
