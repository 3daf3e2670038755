package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/billable/billable/internal/rest"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Id           int              `json:"id"`
	Uid          string           `json:"uid"`
	Username     string           `json:"username"`
	DisplayName  string           `json:"displayName"`
	RatePerHour  *decimal.Decimal `json:"ratePerHour,omitempty"`
	DepartmentId *int             `json:"departmentId,omitempty"`
	IsAdmin      bool             `json:"isAdmin"`
}

type RateDTO struct {
	RatePerHour decimal.Decimal `json:"ratePerHour"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CreateUser godoc
// @Summary Create a new user
// @Description Register a new user in the system
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating user")

	var userDTO UserDTO
	if err := json.NewDecoder(r.Body).Decode(&userDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if len(userDTO.Username) == 0 {
		rest.WriteError(w, http.StatusBadRequest, "Username is required", "")
		return
	}

	created, err := h.userService.CreateUser(r.Context(), DTOToUser(userDTO))
	if err != nil {
		if errors.Is(err, ErrInvalidRate) {
			rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, UserToDTO(created))
}

// CurrentUser godoc
// @Summary Get current user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 403 {string} string "User not found"
// @Router /api/user/current [get]
// @Security XUserId
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	current, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) || errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, UserToDTO(current))
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	usersDTO := make([]UserDTO, 0, len(users))
	for _, u := range users {
		usersDTO = append(usersDTO, UserToDTO(u))
	}
	rest.WriteJSON(w, http.StatusOK, usersDTO)
}

// UpdateRate godoc
// @Summary Change a user's hourly rate
// @Description The new rate applies to time entries logged from now on. Existing entries keep their rate.
// @Tags User
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param rate body RateDTO true "New rate"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid rate"
// @Failure 403 {object} rest.ErrorResponse "Administrator required"
// @Failure 404 {object} rest.ErrorResponse "User not found"
// @Router /api/user/{userId}/rate [put]
// @Security XUserId
func (h *Handler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	userId, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid user id", err.Error())
		return
	}
	var rateDTO RateDTO
	if err := json.NewDecoder(r.Body).Decode(&rateDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	updated, err := h.userService.UpdateRate(r.Context(), userId, rateDTO.RatePerHour)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRate):
			rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, ErrForbidden), errors.Is(err, ErrNoUser):
			rest.WriteError(w, http.StatusForbidden, err.Error(), "")
		case errors.Is(err, ErrUserNotFound):
			rest.WriteError(w, http.StatusNotFound, err.Error(), "")
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, UserToDTO(updated))
}

func UserToDTO(u User) UserDTO {
	dto := UserDTO{
		Id:           u.Id,
		Uid:          u.Uid,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		DepartmentId: u.DepartmentId,
		IsAdmin:      u.IsAdmin,
	}
	if u.RatePerHour.Valid {
		rate := u.RatePerHour.Decimal.Round(2)
		dto.RatePerHour = &rate
	}
	return dto
}

func DTOToUser(dto UserDTO) User {
	u := User{
		Id:           dto.Id,
		Uid:          dto.Uid,
		Username:     dto.Username,
		DisplayName:  dto.DisplayName,
		DepartmentId: dto.DepartmentId,
		IsAdmin:      dto.IsAdmin,
	}
	if dto.RatePerHour != nil {
		u.RatePerHour = decimal.NewNullDecimal(*dto.RatePerHour)
	}
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	return u
}
