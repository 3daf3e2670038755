package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type actingUserKey struct{}

var ErrNoUser = errors.New("no acting user in request context")

// CurrentId returns the id of the user acting in this request, or ErrNoUser.
func CurrentId(ctx context.Context) (int, error) {
	acting, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return acting.Id, nil
}

// CurrentUser returns the user the middleware resolved from the X-User-Id header.
func CurrentUser(ctx context.Context) (User, error) {
	acting, ok := ctx.Value(actingUserKey{}).(User)
	if !ok {
		log.Trace("request carries no acting user")
		return User{}, ErrNoUser
	}
	return acting, nil
}

func WithUser(ctx context.Context, acting User) context.Context {
	return context.WithValue(ctx, actingUserKey{}, acting)
}
