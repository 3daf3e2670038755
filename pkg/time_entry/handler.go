package time_entry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/billable/billable/internal/rest"
	"github.com/billable/billable/pkg/project"
	"github.com/billable/billable/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TimeEntryDTO struct {
	Id              int     `json:"id"`
	UserId          int     `json:"userId"`
	ProjectId       int     `json:"projectId"`
	Date            string  `json:"date"`
	DurationSeconds int     `json:"durationSeconds"`
	Description     string  `json:"description"`
	RatePerHour     float64 `json:"ratePerHour"`
	Cost            float64 `json:"cost"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateEntry godoc
// @Summary Log time against a project
// @Description The current hourly rate of the user is stored on the entry.
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param entry body TimeEntryDTO true "Time entry"
// @Success 201 {object} TimeEntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid entry"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/time-entry [post]
// @Security XUserId
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating time entry")
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateEntry(r.Context(), entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EntryToDTO(created))
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time entry id", err.Error())
		return
	}
	entry, err := h.service.GetEntry(r.Context(), entryId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EntryToDTO(entry))
}

// UpdateEntry godoc
// @Summary Edit a time entry
// @Description Owners may edit on the day the entry was logged, administrators at any time. The rate never changes.
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param entryId path int true "Time entry ID"
// @Param entry body TimeEntryDTO true "Time entry"
// @Success 200 {object} TimeEntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid entry"
// @Failure 403 {object} rest.ErrorResponse "Edit not allowed"
// @Failure 404 {object} rest.ErrorResponse "Time entry not found"
// @Router /api/time-entry/{entryId} [put]
// @Security XUserId
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time entry id", err.Error())
		return
	}
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry.Id = entryId
	updated, err := h.service.UpdateEntry(r.Context(), entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EntryToDTO(updated))
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time entry id", err.Error())
		return
	}
	if err := h.service.DeleteEntry(r.Context(), entryId); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEntries godoc
// @Summary List time entries of a project
// @Tags TimeEntry
// @Produce json
// @Param projectId path int true "Project ID"
// @Param from query string true "First day (YYYY-MM-DD), inclusive"
// @Param to query string true "Last day (YYYY-MM-DD), exclusive"
// @Success 200 {array} TimeEntryDTO
// @Router /api/project/{projectId}/time-entry [get]
// @Security XUserId
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	from, err := time.Parse(time.DateOnly, r.URL.Query().Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from date", "Date must be in YYYY-MM-DD format")
		return
	}
	to, err := time.Parse(time.DateOnly, r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid to date", "Date must be in YYYY-MM-DD format")
		return
	}
	entries, err := h.service.ListEntries(r.Context(), projectId, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]TimeEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (TimeEntry, bool) {
	var dto TimeEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return TimeEntry{}, false
	}
	date, err := time.Parse(time.DateOnly, dto.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "Date must be in YYYY-MM-DD format")
		return TimeEntry{}, false
	}
	return TimeEntry{
		ProjectId:       dto.ProjectId,
		Date:            date,
		DurationSeconds: dto.DurationSeconds,
		Description:     dto.Description,
	}, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrMissingRate), errors.Is(err, ErrSessionTooLong):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, ErrTimeEntryNotFound), errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, ErrEditNotAllowed), errors.Is(err, ErrNotOwner), errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, err.Error(), "")
	default:
		log.Errorf("time entry request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func EntryToDTO(e TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		Id:              e.Id,
		UserId:          e.UserId,
		ProjectId:       e.ProjectId,
		Date:            e.Date.Format(time.DateOnly),
		DurationSeconds: e.DurationSeconds,
		Description:     e.Description,
		RatePerHour:     e.RatePerHour.Round(2).InexactFloat64(),
		Cost:            e.Cost().Round(2).InexactFloat64(),
	}
}
