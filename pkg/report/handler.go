package report

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/billable/billable/internal/rest"
	"github.com/billable/billable/pkg/project"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ProjectDTO struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type SummaryDTO struct {
	RetainerFee         float64 `json:"retainerFee"`
	TotalSpend          float64 `json:"totalSpend"`
	Leftover            float64 `json:"leftover"`
	UsedPercentage      int64   `json:"usedPercentage"`
	RemainingPercentage int64   `json:"remainingPercentage"`
}

type EntryDTO struct {
	Id              int     `json:"id"`
	Description     string  `json:"description"`
	Date            string  `json:"date"`
	DurationSeconds int     `json:"durationSeconds"`
	RatePerHour     float64 `json:"ratePerHour"`
	Cost            float64 `json:"cost"`
	WeekNumber      int     `json:"weekNumber"`
}

type UserDTO struct {
	Id          int                    `json:"id"`
	Name        string                 `json:"name"`
	RatePerHour *float64               `json:"ratePerHour"`
	TotalHours  float64                `json:"totalHours"`
	TotalSpend  float64                `json:"totalSpend"`
	WeeklyHours [WeeksPerMonth]float64 `json:"weeklyHours"`
	TimeEntries []EntryDTO             `json:"timeEntries"`
}

type DepartmentDTO struct {
	Id         int         `json:"id"`
	Name       string      `json:"name"`
	Color      string      `json:"color"`
	TotalHours float64     `json:"totalHours"`
	TotalSpend float64     `json:"totalSpend"`
	Budget     *SummaryDTO `json:"budget,omitempty"`
	Users      []UserDTO   `json:"users"`
}

type MonthlyBreakdownDTO struct {
	Project     ProjectDTO      `json:"project"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	TotalHours  float64         `json:"totalHours"`
	MonthData   SummaryDTO      `json:"monthData"`
	Departments []DepartmentDTO `json:"departments"`
}

type LifetimeDTO struct {
	Project             ProjectDTO `json:"project"`
	TotalBudget         float64    `json:"totalBudget"`
	TotalSpend          float64    `json:"totalSpend"`
	Leftover            float64    `json:"leftover"`
	TotalHours          float64    `json:"totalHours"`
	UsedPercentage      int64      `json:"usedPercentage"`
	RemainingPercentage int64      `json:"remainingPercentage"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// MonthlyBreakdown godoc
// @Summary Monthly spend of a project by department and user
// @Description Retainer fee, spend, leftover and utilization of one calendar month. Idle departments are
// @Description omitted unless includeIdle is true.
// @Tags Report
// @Produce json
// @Param projectId path int true "Project ID"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param includeIdle query bool false "Include departments without activity"
// @Success 200 {object} MonthlyBreakdownDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid period"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/project/{projectId}/monthly-breakdown [get]
// @Security XUserId
func (h *Handler) MonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	query := r.URL.Query()
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid year", "year must be a number")
		return
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", "month must be a number between 1 and 12")
		return
	}
	var includeIdle *bool
	if raw := query.Get("includeIdle"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid includeIdle", "includeIdle must be true or false")
			return
		}
		includeIdle = &value
	}

	breakdown, err := h.service.MonthlyBreakdown(r.Context(), projectId, year, month, includeIdle)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BreakdownToDTO(breakdown))
}

// Lifetime godoc
// @Summary Lifetime budget of a project
// @Description Sum of all budget injections against all spend ever logged on the project.
// @Tags Report
// @Produce json
// @Param projectId path int true "Project ID"
// @Success 200 {object} LifetimeDTO
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/project/{projectId}/lifetime [get]
// @Security XUserId
func (h *Handler) Lifetime(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	lifetime, err := h.service.Lifetime(r.Context(), projectId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, LifetimeDTO{
		Project:             ProjectDTO{Id: lifetime.Project.Id, Name: lifetime.Project.Name},
		TotalBudget:         money(lifetime.TotalBudget),
		TotalSpend:          money(lifetime.TotalSpend),
		Leftover:            money(lifetime.Leftover),
		TotalHours:          money(lifetime.TotalHours),
		UsedPercentage:      lifetime.UsedPercentage,
		RemainingPercentage: lifetime.RemainingPercentage,
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPeriod):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, project.ErrProjectNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	default:
		log.Errorf("report request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func BreakdownToDTO(m MonthlyBreakdown) MonthlyBreakdownDTO {
	departments := make([]DepartmentDTO, 0, len(m.Departments))
	for _, d := range m.Departments {
		departments = append(departments, departmentToDTO(d))
	}
	return MonthlyBreakdownDTO{
		Project:     ProjectDTO{Id: m.Project.Id, Name: m.Project.Name},
		Year:        m.Year,
		Month:       int(m.Month),
		TotalHours:  money(m.TotalHours),
		MonthData:   summaryToDTO(m.Summary),
		Departments: departments,
	}
}

func departmentToDTO(d DepartmentBreakdown) DepartmentDTO {
	users := make([]UserDTO, 0, len(d.Users))
	for _, u := range d.Users {
		users = append(users, userToDTO(u))
	}
	dto := DepartmentDTO{
		Id:         d.Id,
		Name:       d.Name,
		Color:      d.Color,
		TotalHours: money(d.TotalHours),
		TotalSpend: money(d.TotalSpend),
		Users:      users,
	}
	if d.Budget != nil {
		budget := summaryToDTO(*d.Budget)
		dto.Budget = &budget
	}
	return dto
}

func userToDTO(u UserBreakdown) UserDTO {
	entries := make([]EntryDTO, 0, len(u.Entries))
	for _, e := range u.Entries {
		entries = append(entries, EntryDTO{
			Id:              e.Id,
			Description:     e.Description,
			Date:            e.Date.Format(time.DateOnly),
			DurationSeconds: e.DurationSeconds,
			RatePerHour:     money(e.RatePerHour),
			Cost:            money(e.Cost),
			WeekNumber:      e.WeekNumber,
		})
	}
	dto := UserDTO{
		Id:          u.Id,
		Name:        u.Name,
		TotalHours:  money(u.TotalHours),
		TotalSpend:  money(u.TotalSpend),
		TimeEntries: entries,
	}
	if u.RatePerHour.Valid {
		rate := money(u.RatePerHour.Decimal)
		dto.RatePerHour = &rate
	}
	for i, hours := range u.WeeklyHours {
		dto.WeeklyHours[i] = money(hours)
	}
	return dto
}

func summaryToDTO(s Summary) SummaryDTO {
	return SummaryDTO{
		RetainerFee:         money(s.RetainerFee),
		TotalSpend:          money(s.TotalSpend),
		Leftover:            money(s.Leftover),
		UsedPercentage:      s.UsedPercentage,
		RemainingPercentage: s.RemainingPercentage,
	}
}

// money rounds to two decimal places for output.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
