package department_split

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest() *mux.Router {
	service, _ := setupService()
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/department-split", handler.Create).Methods("POST")
	router.HandleFunc("/api/project/{projectId}/department-split", handler.ReplaceForProject).Methods("PUT")
	router.HandleFunc("/api/project/{projectId}/department-split", handler.ListForProject).Methods("GET")
	return router
}

func serve(router *mux.Router, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Create(t *testing.T) {
	router := setupHandlerTest()
	body := `{"projectId":1,"departmentId":10,"budgetAmount":400}`

	first := serve(router, http.MethodPost, "/api/department-split", body)
	second := serve(router, http.MethodPost, "/api/department-split", body)

	require.Equal(t, http.StatusCreated, first.Code)
	var created DepartmentSplitDTO
	require.NoError(t, json.NewDecoder(first.Body).Decode(&created))
	assert.True(t, decimal.NewFromInt(400).Equal(created.BudgetAmount))
	assert.Equal(t, http.StatusConflict, second.Code)

	assert.Equal(t, http.StatusNotFound,
		serve(router, http.MethodPost, "/api/department-split", `{"projectId":1,"departmentId":99,"budgetAmount":5}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		serve(router, http.MethodPost, "/api/department-split", `{"projectId":1,"departmentId":20,"budgetAmount":0}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		serve(router, http.MethodPost, "/api/department-split", `{"projectId":1,"departmentId":20,"budgetAmount":0.001}`).Code)
}

func TestHandler_ReplaceForProject(t *testing.T) {
	t.Run("should replace the whole set", func(t *testing.T) {
		router := setupHandlerTest()
		require.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/api/department-split",
			`{"projectId":1,"departmentId":10,"budgetAmount":400}`).Code)

		rr := serve(router, http.MethodPut, "/api/project/1/department-split",
			`[{"departmentId":20,"budgetAmount":250.5}]`)

		require.Equal(t, http.StatusOK, rr.Code)
		list := serve(router, http.MethodGet, "/api/project/1/department-split", "")
		var dtos []DepartmentSplitDTO
		require.NoError(t, json.NewDecoder(list.Body).Decode(&dtos))
		require.Len(t, dtos, 1)
		assert.Equal(t, 20, dtos[0].DepartmentId)
		assert.True(t, decimal.RequireFromString("250.5").Equal(dtos[0].BudgetAmount))
	})

	t.Run("should reject duplicate departments", func(t *testing.T) {
		router := setupHandlerTest()

		rr := serve(router, http.MethodPut, "/api/project/1/department-split",
			`[{"departmentId":20,"budgetAmount":1},{"departmentId":20,"budgetAmount":2}]`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
