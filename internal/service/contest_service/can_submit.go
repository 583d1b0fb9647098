package contest_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// CanSubmit gates a contest-scoped submission: the caller must be an
// authorized contestant, the contest clock must be running, and the
// problem must belong to the contest. Any failure to establish those
// facts blocks the submission.
func (c *ContestService) CanSubmit(
	ctx context.Context,
	problemID int32,
	contestID uuid.UUID,
	password string,
) error {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := c.AuthorizeContestantsRoles(ctx, contestID, password); err != nil {
		return err
	}

	contest, err := c.Store.Contests.GetContestByID(ctx, contestID)
	if err != nil {
		return err
	}

	now := time.Now()
	if now.Before(contest.BeginTime) {
		log.Warnf(
			"user %s tried to submit to contest %v before it started",
			claims.Handle,
			contestID,
		)
		return fmt.Errorf(
			"%w, the contest has not started yet",
			xjudge_errors.ErrUnAuthorized,
		)
	}
	if now.After(contest.EndTime()) {
		log.Warnf(
			"user %s tried to submit to ended contest %v",
			claims.Handle,
			contestID,
		)
		return fmt.Errorf(
			"%w, cannot submit to an ended contest",
			xjudge_errors.ErrInvalidRequest,
		)
	}

	for _, problem := range contest.Problems {
		if problem.ProblemID == problemID {
			return nil
		}
	}
	log.Warnf(
		"user %s tried to submit problem %v outside contest %v",
		claims.Handle,
		problemID,
		contestID,
	)
	return fmt.Errorf(
		"%w, the problem does not belong to this contest",
		xjudge_errors.ErrInvalidRequest,
	)
}
