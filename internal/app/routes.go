package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAllUsers).Methods("GET")
	r.HandleFunc("/api/user/{userId}/rate", deps.UserHandler.UpdateRate).Methods("PUT")

	// Departments
	r.HandleFunc("/api/department", deps.DepartmentHandler.ListDepartments).Methods("GET")

	// Time entries
	r.HandleFunc("/api/time-entry", deps.TimeEntryHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/time-entry/{entryId}", deps.TimeEntryHandler.GetEntry).Methods("GET")
	r.HandleFunc("/api/time-entry/{entryId}", deps.TimeEntryHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/time-entry/{entryId}", deps.TimeEntryHandler.DeleteEntry).Methods("DELETE")
	r.HandleFunc("/api/project/{projectId}/time-entry", deps.TimeEntryHandler.ListEntries).Methods("GET")

	// Recurring budgets
	r.HandleFunc("/api/recurring-budget", deps.RecurringBudgetHandler.Create).Methods("POST")
	r.HandleFunc("/api/recurring-budget/{id}", deps.RecurringBudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/recurring-budget/{id}/deactivate", deps.RecurringBudgetHandler.Deactivate).Methods("PATCH")
	r.HandleFunc("/api/project/{projectId}/recurring-budget", deps.RecurringBudgetHandler.ListForProject).Methods("GET")

	// Budget injections
	r.HandleFunc("/api/budget-injection", deps.BudgetInjectionHandler.Create).Methods("POST")
	r.HandleFunc("/api/budget-injection/{id}", deps.BudgetInjectionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budget-injection/{id}", deps.BudgetInjectionHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/project/{projectId}/budget-injection", deps.BudgetInjectionHandler.ListForProject).Methods("GET")

	// Department splits
	r.HandleFunc("/api/department-split", deps.DepartmentSplitHandler.Create).Methods("POST")
	r.HandleFunc("/api/department-split/{id}", deps.DepartmentSplitHandler.Update).Methods("PUT")
	r.HandleFunc("/api/department-split/{id}", deps.DepartmentSplitHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/project/{projectId}/department-split", deps.DepartmentSplitHandler.ReplaceForProject).Methods("PUT")
	r.HandleFunc("/api/project/{projectId}/department-split", deps.DepartmentSplitHandler.ListForProject).Methods("GET")

	// Reports
	r.HandleFunc("/api/project/{projectId}/monthly-breakdown", deps.ReportHandler.MonthlyBreakdown).Methods("GET")
	r.HandleFunc("/api/project/{projectId}/lifetime", deps.ReportHandler.Lifetime).Methods("GET")
}
