package contest_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
	"golang.org/x/crypto/bcrypt"
)

func (c *ContestService) GetContestByID(
	ctx context.Context,
	contestID uuid.UUID,
) (store.Contest, error) {
	return c.Store.Contests.GetContestByID(ctx, contestID)
}

func (c *ContestService) CreateContest(
	ctx context.Context,
	request CreateContestRequest,
) (store.Contest, error) {
	if err := service.ValidateInput(request); err != nil {
		return store.Contest{}, err
	}
	if err := c.AuthorizeCreateContest(ctx, request.Type, request.GroupID); err != nil {
		return store.Contest{}, err
	}

	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return store.Contest{}, err
	}

	hashedPassword, err := hashContestPassword(request.Visibility, request.Password)
	if err != nil {
		return store.Contest{}, err
	}

	contest := store.Contest{
		ID:             uuid.New(),
		Title:          request.Title,
		Description:    request.Description,
		BeginTime:      request.BeginTime,
		Length:         time.Duration(request.DurationMin) * time.Minute,
		Type:           request.Type,
		Visibility:     request.Visibility,
		HashedPassword: hashedPassword,
		OwnerID:        claims.UserID,
		GroupID:        request.GroupID,
		Problems:       request.Problems,
	}

	created, err := c.Store.Contests.CreateContest(ctx, contest)
	if err != nil {
		return store.Contest{}, err
	}

	log.WithField("from", "contest-service").Infof(
		"user %s created contest %v (%s)",
		claims.Handle, created.ID, created.Title,
	)
	return created, nil
}

func (c *ContestService) UpdateContest(
	ctx context.Context,
	request UpdateContestRequest,
) (store.Contest, error) {
	if err := service.ValidateInput(request); err != nil {
		return store.Contest{}, err
	}

	contest, err := c.Store.Contests.GetContestByID(ctx, request.ContestID)
	if err != nil {
		return store.Contest{}, err
	}
	if err := c.AuthorizeManageContest(ctx, contest); err != nil {
		return store.Contest{}, err
	}

	contest.Title = request.Title
	contest.Description = request.Description
	contest.BeginTime = request.BeginTime
	contest.Length = time.Duration(request.DurationMin) * time.Minute
	contest.Visibility = request.Visibility
	contest.Problems = request.Problems

	if request.Password != "" {
		hashed, err := hashContestPassword(request.Visibility, request.Password)
		if err != nil {
			return store.Contest{}, err
		}
		contest.HashedPassword = hashed
	}

	updated, err := c.Store.Contests.UpdateContest(ctx, contest)
	if err != nil {
		return store.Contest{}, err
	}
	c.invalidateRank(ctx, contest.ID)
	return updated, nil
}

func (c *ContestService) DeleteContest(ctx context.Context, contestID uuid.UUID) error {
	contest, err := c.Store.Contests.GetContestByID(ctx, contestID)
	if err != nil {
		return err
	}
	if err := c.AuthorizeManageContest(ctx, contest); err != nil {
		return err
	}
	if err := c.Store.Contests.DeleteContest(ctx, contestID); err != nil {
		return err
	}
	c.invalidateRank(ctx, contestID)
	return nil
}

// hashContestPassword hashes the entry password of a private contest.
// A private contest without a password is fine: entry then comes only
// through membership or invitation.
func hashContestPassword(
	visibility store.ContestVisibility,
	password string,
) (*string, error) {
	if password == "" {
		return nil, nil
	}
	if visibility == store.VisibilityPublic {
		return nil, fmt.Errorf(
			"%w, a public contest cannot have a password",
			xjudge_errors.ErrInvalidRequest,
		)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to hash contest password: %w",
			xjudge_errors.ErrInternal,
			err,
		)
		log.Error(err)
		return nil, err
	}
	s := string(hashed)
	return &s, nil
}
