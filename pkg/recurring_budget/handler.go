package recurring_budget

import (
	"encoding/json"
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

type RecurringBudgetDTO struct {
	Id            int             `json:"id"`
	ProjectId     int             `json:"projectId"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     string          `json:"frequency"`
	StartDate     string          `json:"startDate"`
	EndDate       *string         `json:"endDate,omitempty"`
	IsActive      bool            `json:"isActive"`
	DeactivatedOn *string         `json:"deactivatedOn,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Create a recurring budget
// @Description Adds the active retainer definition of a project. Fails with 409 when one is already active.
// @Tags RecurringBudget
// @Accept json
// @Produce json
// @Param budget body RecurringBudgetDTO true "Recurring budget"
// @Success 201 {object} RecurringBudgetDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid budget"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Failure 409 {object} rest.ErrorResponse "Active budget already exists"
// @Router /api/recurring-budget [post]
// @Security XUserId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	budget, ok := decodeBudget(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), budget)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, BudgetToDTO(created))
}

// Update godoc
// @Summary Update a recurring budget
// @Tags RecurringBudget
// @Accept json
// @Produce json
// @Param id path int true "Recurring budget ID"
// @Param budget body RecurringBudgetDTO true "Recurring budget"
// @Success 200 {object} RecurringBudgetDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid budget"
// @Failure 404 {object} rest.ErrorResponse "Recurring budget not found"
// @Router /api/recurring-budget/{id} [put]
// @Security XUserId
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid recurring budget id", err.Error())
		return
	}
	budget, ok := decodeBudget(w, r)
	if !ok {
		return
	}
	budget.Id = id
	updated, err := h.service.Update(r.Context(), budget)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BudgetToDTO(updated))
}

// Deactivate godoc
// @Summary Deactivate a recurring budget
// @Description The definition stops contributing from the current month on. Earlier months are unchanged.
// @Tags RecurringBudget
// @Produce json
// @Param id path int true "Recurring budget ID"
// @Success 200 {object} RecurringBudgetDTO
// @Failure 404 {object} rest.ErrorResponse "Recurring budget not found"
// @Router /api/recurring-budget/{id}/deactivate [patch]
// @Security XUserId
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid recurring budget id", err.Error())
		return
	}
	deactivated, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BudgetToDTO(deactivated))
}

func (h *Handler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	budgets, err := h.service.ListForProject(r.Context(), projectId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]RecurringBudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		dtos = append(dtos, BudgetToDTO(b))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func decodeBudget(w http.ResponseWriter, r *http.Request) (RecurringBudget, bool) {
	var dto RecurringBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return RecurringBudget{}, false
	}
	startDate, err := time.Parse(time.DateOnly, dto.StartDate)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid start date format", "Date must be in YYYY-MM-DD format")
		return RecurringBudget{}, false
	}
	budget := RecurringBudget{
		ProjectId: dto.ProjectId,
		Amount:    dto.Amount,
		Frequency: Frequency(dto.Frequency),
		StartDate: startDate,
	}
	if dto.EndDate != nil && *dto.EndDate != "" {
		endDate, err := time.Parse(time.DateOnly, *dto.EndDate)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid end date format", "Date must be in YYYY-MM-DD format")
			return RecurringBudget{}, false
		}
		budget.EndDate = &endDate
	}
	return budget, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidFrequency),
		errors.Is(err, ErrInvalidStartDate), errors.Is(err, ErrInvalidWindow):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, ErrRecurringBudgetNotFound), errors.Is(err, project.ErrProjectNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, ErrActiveRecurringBudgetExists):
		rest.WriteError(w, http.StatusConflict, err.Error(), "Deactivate the current recurring budget first")
	default:
		log.Errorf("recurring budget request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func BudgetToDTO(b RecurringBudget) RecurringBudgetDTO {
	dto := RecurringBudgetDTO{
		Id:        b.Id,
		ProjectId: b.ProjectId,
		Amount:    b.Amount.Round(2),
		Frequency: string(b.Frequency),
		StartDate: b.StartDate.Format(time.DateOnly),
		IsActive:  b.IsActive,
	}
	if b.EndDate != nil {
		end := b.EndDate.Format(time.DateOnly)
		dto.EndDate = &end
	}
	if b.DeactivatedOn != nil {
		on := b.DeactivatedOn.Format(time.DateOnly)
		dto.DeactivatedOn = &on
	}
	return dto
}
