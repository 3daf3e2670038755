package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billable/billable/pkg/recurring_budget"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() (*mux.Router, *RepositoryStub) {
	service, repo := setupService()
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/project/{projectId}/monthly-breakdown", handler.MonthlyBreakdown).Methods("GET")
	router.HandleFunc("/api/project/{projectId}/lifetime", handler.Lifetime).Methods("GET")
	return router, repo
}

func TestHandler_MonthlyBreakdown(t *testing.T) {
	anna := member(1, "Anna", &design)

	t.Run("should render breakdown with rounded numbers", func(t *testing.T) {
		router, repo := setupRouter()
		input := marchInput(
			row(anna, &design, 3, 1000, "25"),
			row(anna, &design, 29, 3600, "25"),
		)
		input.Recurring = []recurring_budget.RecurringBudget{monthlyRetainer(1000)}
		repo.PutMonth(input)
		req := httptest.NewRequest(http.MethodGet, "/api/project/1/monthly-breakdown?year=2025&month=3", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body MonthlyBreakdownDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "Website relaunch", body.Project.Name)
		assert.Equal(t, 1000.0, body.MonthData.RetainerFee)
		assert.Equal(t, 31.94, body.MonthData.TotalSpend)
		assert.Equal(t, 968.06, body.MonthData.Leftover)
		assert.Equal(t, int64(3), body.MonthData.UsedPercentage)
		require.Len(t, body.Departments, 1)
		require.Len(t, body.Departments[0].Users, 1)
		u := body.Departments[0].Users[0]
		assert.Equal(t, [WeeksPerMonth]float64{0.28, 0, 0, 0, 1}, u.WeeklyHours)
		require.Len(t, u.TimeEntries, 2)
		assert.Equal(t, "2025-03-03", u.TimeEntries[0].Date)
		assert.Equal(t, 6.94, u.TimeEntries[0].Cost)
		assert.Equal(t, 5, u.TimeEntries[1].WeekNumber)
	})

	t.Run("should reject malformed and out of range periods", func(t *testing.T) {
		router, repo := setupRouter()
		repo.PutMonth(marchInput())

		for _, query := range []string{"year=2025", "year=abc&month=3", "year=2025&month=13", "year=2025&month=3&includeIdle=maybe"} {
			req := httptest.NewRequest(http.MethodGet, "/api/project/1/monthly-breakdown?"+query, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code, query)
		}
	})

	t.Run("should return 404 for unknown project", func(t *testing.T) {
		router, _ := setupRouter()
		req := httptest.NewRequest(http.MethodGet, "/api/project/7/monthly-breakdown?year=2025&month=3", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandler_Lifetime(t *testing.T) {
	router, repo := setupRouter()
	repo.PutLifetime(LifetimeInput{
		Project:      testProject,
		TotalBudget:  decimal.Zero,
		TotalSpend:   decimal.NewFromInt(120),
		TotalSeconds: 7200,
	})
	req := httptest.NewRequest(http.MethodGet, "/api/project/1/lifetime", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body LifetimeDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, -120.0, body.Leftover)
	assert.Equal(t, 2.0, body.TotalHours)
	assert.Equal(t, int64(0), body.UsedPercentage)
	assert.Equal(t, int64(0), body.RemainingPercentage)
}
