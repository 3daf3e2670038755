package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/billable/billable/internal/event_bus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidRate = errors.New("rate per hour must be greater than zero")
var ErrForbidden = errors.New("operation requires an administrator")

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	// UpdateRate changes the user's current rate. Entries logged before the change keep the rate
	// they were created with.
	UpdateRate(ctx context.Context, userId int, rate decimal.Decimal) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
}

type UserServiceImpl struct {
	repo     Repo
	eventBus *event_bus.EventBus
}

func NewUserService(repo Repo, eventBus *event_bus.EventBus) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, eventBus: eventBus}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, userId)
}

func (u *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if user.RatePerHour.Valid && !user.RatePerHour.Decimal.IsPositive() {
		return User{}, ErrInvalidRate
	}
	if user.Uid == "" {
		user.Uid = uuid.NewString()
	}
	userId, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = userId
	return user, nil
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) UpdateRate(ctx context.Context, userId int, rate decimal.Decimal) (User, error) {
	current, err := CurrentUser(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !current.IsAdmin {
		return User{}, ErrForbidden
	}
	if !rate.IsPositive() {
		return User{}, ErrInvalidRate
	}
	if err := u.repo.UpdateRate(ctx, userId, rate); err != nil {
		return User{}, err
	}
	log.Infof("rate of user %d changed to %s by %d", userId, rate.String(), current.Id)
	err = u.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.UserRateChanged, event_bus.RateChanged{
		UserId: userId,
		Rate:   rate,
	}))
	if err != nil {
		log.Warnf("rate change of user %d not fully propagated: %v", userId, err)
	}
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	return u.repo.GetAllUsers(ctx)
}
