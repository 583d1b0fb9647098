package user_service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/store"
)

type UserService struct {
	Store *store.Store
}

// UserStatistics is the public profile view of a user's activity.
type UserStatistics struct {
	Handle         string `json:"handle"`
	AttemptedCount int64  `json:"attempted_count"`
	SolvedCount    int64  `json:"solved_count"`
}

func (u *UserService) GetUserByHandle(ctx context.Context, handle string) (store.User, error) {
	return u.Store.Users.GetUserByHandle(ctx, handle)
}

func (u *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error) {
	return u.Store.Users.GetUserByID(ctx, id)
}

// GetStatistics surfaces the counters the submission path maintains.
func (u *UserService) GetStatistics(ctx context.Context, handle string) (UserStatistics, error) {
	user, err := u.Store.Users.GetUserByHandle(ctx, handle)
	if err != nil {
		return UserStatistics{}, err
	}
	return UserStatistics{
		Handle:         user.Handle,
		AttemptedCount: user.AttemptedCount,
		SolvedCount:    user.SolvedCount,
	}, nil
}
