package app

import (
	"github.com/billable/billable/internal/config"
	"github.com/billable/billable/internal/event_bus"
	"github.com/billable/billable/internal/utils"
	"github.com/billable/billable/pkg/budget_injection"
	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/department_split"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/recurring_budget"
	"github.com/billable/billable/pkg/report"
	"github.com/billable/billable/pkg/time_entry"
	"github.com/billable/billable/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserRepo    user.Repo
	UserService user.Service
	UserHandler *user.Handler

	ProjectRepo       project.Repository
	DepartmentRepo    department.Repository
	DepartmentHandler *department.Handler

	TimeEntryService *time_entry.ServiceImpl
	TimeEntryHandler *time_entry.Handler

	RecurringBudgetService *recurring_budget.ServiceImpl
	RecurringBudgetHandler *recurring_budget.Handler

	BudgetInjectionService *budget_injection.ServiceImpl
	BudgetInjectionHandler *budget_injection.Handler

	DepartmentSplitService *department_split.ServiceImpl
	DepartmentSplitHandler *department_split.Handler

	ReportService *report.ServiceImpl
	ReportHandler *report.Handler

	EventBus *event_bus.EventBus
	Clock    utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	SubscribeAuditLog(deps.EventBus)

	deps.UserRepo = user.NewUserRepo(db)
	deps.UserService = user.NewUserService(deps.UserRepo, deps.EventBus)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.ProjectRepo = project.NewRepository(db)
	deps.DepartmentRepo = department.NewRepository(db)
	deps.DepartmentHandler = department.NewHandler(deps.DepartmentRepo)

	deps.TimeEntryService = time_entry.NewService(
		time_entry.NewRepository(db),
		deps.UserRepo,
		deps.ProjectRepo,
		deps.DepartmentRepo,
		deps.Clock,
		cfg.TimeEntry.SameDayEditOnly,
	)
	deps.TimeEntryHandler = time_entry.NewHandler(deps.TimeEntryService)

	deps.RecurringBudgetService = recurring_budget.NewService(
		recurring_budget.NewRepository(db),
		deps.ProjectRepo,
		deps.Clock,
		deps.EventBus,
	)
	deps.RecurringBudgetHandler = recurring_budget.NewHandler(deps.RecurringBudgetService)

	deps.BudgetInjectionService = budget_injection.NewService(budget_injection.NewRepository(db), deps.ProjectRepo, deps.EventBus)
	deps.BudgetInjectionHandler = budget_injection.NewHandler(deps.BudgetInjectionService)

	deps.DepartmentSplitService = department_split.NewService(
		department_split.NewRepository(db),
		deps.ProjectRepo,
		deps.DepartmentRepo,
		deps.EventBus,
	)
	deps.DepartmentSplitHandler = department_split.NewHandler(deps.DepartmentSplitService)

	deps.ReportService = report.NewService(report.NewRepository(db), cfg.Report)
	deps.ReportHandler = report.NewHandler(deps.ReportService)

	return deps
}
