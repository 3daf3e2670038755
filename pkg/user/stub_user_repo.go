package user

import (
	"context"

	"github.com/shopspring/decimal"
)

type StubUserRepository struct {
	nextId int
	data   map[int]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{nextId: 0, data: map[int]User{}}
}

func (s *StubUserRepository) CreateUser(ctx context.Context, user User) (int, error) {
	s.nextId++
	user.Id = s.nextId
	s.data[s.nextId] = user
	return s.nextId, nil
}

func (s *StubUserRepository) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) UpdateRate(ctx context.Context, userId int, rate decimal.Decimal) error {
	user, ok := s.data[userId]
	if !ok {
		return ErrUserNotFound
	}
	user.RatePerHour = decimal.NewNullDecimal(rate)
	s.data[userId] = user
	return nil
}

func (s *StubUserRepository) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	for _, user := range s.data {
		users = append(users, user)
	}
	return users, nil
}

// Put stores user under its own Id, replacing any previous value.
func (s *StubUserRepository) Put(user User) {
	s.data[user.Id] = user
	if user.Id > s.nextId {
		s.nextId = user.Id
	}
}
