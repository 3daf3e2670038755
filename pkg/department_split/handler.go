package department_split

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/billable/billable/internal/rest"
	"github.com/billable/billable/pkg/department"
	"github.com/billable/billable/pkg/project"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type DepartmentSplitDTO struct {
	Id           int             `json:"id"`
	ProjectId    int             `json:"projectId"`
	DepartmentId int             `json:"departmentId"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Reserve part of a project's monthly budget for a department
// @Tags DepartmentSplit
// @Accept json
// @Produce json
// @Param split body DepartmentSplitDTO true "Department split"
// @Success 201 {object} DepartmentSplitDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid split"
// @Failure 404 {object} rest.ErrorResponse "Project or department not found"
// @Failure 409 {object} rest.ErrorResponse "Split already exists"
// @Router /api/department-split [post]
// @Security XUserId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto DepartmentSplitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), DTOToSplit(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, SplitToDTO(created))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid department split id", err.Error())
		return
	}
	var dto DepartmentSplitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	split := DTOToSplit(dto)
	split.Id = id
	updated, err := h.service.Update(r.Context(), split)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SplitToDTO(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid department split id", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	splits, err := h.service.ListForProject(r.Context(), projectId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, splitsToDTO(splits))
}

// ReplaceForProject godoc
// @Summary Replace all department splits of a project
// @Description The new set is stored in one transaction; on error the previous set is kept.
// @Tags DepartmentSplit
// @Accept json
// @Produce json
// @Param projectId path int true "Project ID"
// @Param splits body []DepartmentSplitDTO true "Department splits"
// @Success 200 {array} DepartmentSplitDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid split"
// @Failure 404 {object} rest.ErrorResponse "Project or department not found"
// @Router /api/project/{projectId}/department-split [put]
// @Security XUserId
func (h *Handler) ReplaceForProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	var dtos []DepartmentSplitDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	splits := make([]DepartmentSplit, 0, len(dtos))
	for _, dto := range dtos {
		splits = append(splits, DTOToSplit(dto))
	}
	stored, err := h.service.ReplaceForProject(r.Context(), projectId, splits)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, splitsToDTO(stored))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrDuplicateDepartment):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, ErrSplitNotFound), errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, department.ErrDepartmentNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, ErrSplitAlreadyExists):
		rest.WriteError(w, http.StatusConflict, err.Error(), "Update the existing split instead")
	default:
		log.Errorf("department split request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func splitsToDTO(splits []DepartmentSplit) []DepartmentSplitDTO {
	dtos := make([]DepartmentSplitDTO, 0, len(splits))
	for _, s := range splits {
		dtos = append(dtos, SplitToDTO(s))
	}
	return dtos
}

func SplitToDTO(s DepartmentSplit) DepartmentSplitDTO {
	return DepartmentSplitDTO{
		Id:           s.Id,
		ProjectId:    s.ProjectId,
		DepartmentId: s.DepartmentId,
		BudgetAmount: s.BudgetAmount.Round(2),
	}
}

func DTOToSplit(dto DepartmentSplitDTO) DepartmentSplit {
	return DepartmentSplit{
		ProjectId:    dto.ProjectId,
		DepartmentId: dto.DepartmentId,
		BudgetAmount: dto.BudgetAmount,
	}
}
