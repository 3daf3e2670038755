package budget_injection

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest() *mux.Router {
	service, _ := setupService()
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/budget-injection", handler.Create).Methods("POST")
	router.HandleFunc("/api/budget-injection/{id}", handler.Update).Methods("PUT")
	router.HandleFunc("/api/budget-injection/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/api/project/{projectId}/budget-injection", handler.ListForProject).Methods("GET")
	return router
}

func serve(router *mux.Router, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Create(t *testing.T) {
	t.Run("should create injection", func(t *testing.T) {
		router := setupHandlerTest()

		rr := serve(router, http.MethodPost, "/api/budget-injection",
			`{"projectId":1,"date":"2025-02-03","amount":5000.5,"description":"Purchase order"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		var created BudgetInjectionDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
		assert.NotZero(t, created.Id)
		assert.Equal(t, "2025-02-03", created.Date)
		assert.Equal(t, "5000.50", created.Amount.StringFixed(2))
	})

	t.Run("should map errors to status codes", func(t *testing.T) {
		router := setupHandlerTest()
		cases := []struct {
			body   string
			status int
		}{
			{`{"projectId":1,"date":"2025-02-03","amount":0}`, http.StatusBadRequest},
			{`{"projectId":1,"date":"03.02.2025","amount":10}`, http.StatusBadRequest},
			{`{"projectId":1,"date":"2025-02-03","amount":0.001}`, http.StatusBadRequest},
			{`{"projectId":1,"date":"2025-02-03","amount":"12.345"}`, http.StatusBadRequest},
			{`{"projectId":99,"date":"2025-02-03","amount":10}`, http.StatusNotFound},
			{`not json`, http.StatusBadRequest},
		}
		for _, c := range cases {
			assert.Equal(t, c.status, serve(router, http.MethodPost, "/api/budget-injection", c.body).Code, c.body)
		}
	})
}

func TestHandler_ListAndDelete(t *testing.T) {
	router := setupHandlerTest()
	rr := serve(router, http.MethodPost, "/api/budget-injection", `{"projectId":1,"date":"2025-02-03","amount":100}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created BudgetInjectionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))

	list := serve(router, http.MethodGet, "/api/project/1/budget-injection", "")
	require.Equal(t, http.StatusOK, list.Code)
	var dtos []BudgetInjectionDTO
	require.NoError(t, json.NewDecoder(list.Body).Decode(&dtos))
	assert.Len(t, dtos, 1)

	path := "/api/budget-injection/" + strconv.Itoa(created.Id)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/project/99/budget-injection", "").Code)
}
