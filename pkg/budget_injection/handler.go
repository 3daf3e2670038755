package budget_injection

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

type BudgetInjectionDTO struct {
	Id          int             `json:"id"`
	ProjectId   int             `json:"projectId"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Add money to a project's lifetime budget
// @Tags BudgetInjection
// @Accept json
// @Produce json
// @Param injection body BudgetInjectionDTO true "Budget injection"
// @Success 201 {object} BudgetInjectionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid injection"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/budget-injection [post]
// @Security XUserId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	injection, ok := decodeInjection(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), injection)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, InjectionToDTO(created))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget injection id", err.Error())
		return
	}
	injection, ok := decodeInjection(w, r)
	if !ok {
		return
	}
	injection.Id = id
	updated, err := h.service.Update(r.Context(), injection)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, InjectionToDTO(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget injection id", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForProject godoc
// @Summary List budget injections of a project
// @Tags BudgetInjection
// @Produce json
// @Param projectId path int true "Project ID"
// @Success 200 {array} BudgetInjectionDTO
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/project/{projectId}/budget-injection [get]
// @Security XUserId
func (h *Handler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	injections, err := h.service.ListForProject(r.Context(), projectId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]BudgetInjectionDTO, 0, len(injections))
	for _, i := range injections {
		dtos = append(dtos, InjectionToDTO(i))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func decodeInjection(w http.ResponseWriter, r *http.Request) (BudgetInjection, bool) {
	var dto BudgetInjectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return BudgetInjection{}, false
	}
	date, err := time.Parse(time.DateOnly, dto.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "Date must be in YYYY-MM-DD format")
		return BudgetInjection{}, false
	}
	return BudgetInjection{
		ProjectId:   dto.ProjectId,
		Date:        date,
		Amount:      dto.Amount,
		Description: dto.Description,
	}, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidDate):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, ErrBudgetInjectionNotFound), errors.Is(err, project.ErrProjectNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	default:
		log.Errorf("budget injection request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func InjectionToDTO(i BudgetInjection) BudgetInjectionDTO {
	return BudgetInjectionDTO{
		Id:          i.Id,
		ProjectId:   i.ProjectId,
		Date:        i.Date.Format(time.DateOnly),
		Amount:      i.Amount.Round(2),
		Description: i.Description,
	}
}
