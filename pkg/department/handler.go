package department

import (
	"net/http"

	"github.com/billable/billable/internal/rest"
)

type DepartmentDTO struct {
	Id                int    `json:"id"`
	Name              string `json:"name"`
	Color             string `json:"color"`
	MaxSessionMinutes int    `json:"maxSessionMinutes"`
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListDepartments godoc
// @Summary List departments
// @Tags Department
// @Produce json
// @Success 200 {array} DepartmentDTO
// @Router /api/department [get]
// @Security XUserId
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.repo.ListDepartments(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]DepartmentDTO, 0, len(departments))
	for _, d := range departments {
		dtos = append(dtos, DepartmentDTO{Id: d.Id, Name: d.Name, Color: d.Color, MaxSessionMinutes: d.MaxSessionMinutes})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
