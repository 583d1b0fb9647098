package contest_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
	"golang.org/x/crypto/bcrypt"
)

// AuthorizeContestantsRoles decides whether the calling user may act as
// a contestant. Entry is granted by exactly one of: the contest being
// public, an existing participant or group-member role, or the contest
// password. No grant means denial, whatever the reason.
func (c *ContestService) AuthorizeContestantsRoles(
	ctx context.Context,
	contestID uuid.UUID,
	password string,
) error {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	contest, err := c.Store.Contests.GetContestByID(ctx, contestID)
	if err != nil {
		return err
	}

	if contest.Visibility == store.VisibilityPublic {
		return c.ensureParticipant(ctx, contestID, claims.UserID)
	}

	// owner always passes
	if contest.OwnerID == claims.UserID {
		return nil
	}

	isParticipant, err := c.Store.Contests.IsParticipant(ctx, contestID, claims.UserID)
	if err != nil {
		return err
	}
	if isParticipant {
		return nil
	}

	if contest.Type == store.ContestGroup && contest.GroupID != nil {
		_, err := c.Store.Groups.GetUserGroup(ctx, claims.UserID, *contest.GroupID)
		if err == nil {
			return c.ensureParticipant(ctx, contestID, claims.UserID)
		}
		if !errors.Is(err, xjudge_errors.ErrNotFound) {
			return err
		}
	}

	if contest.HashedPassword != nil && password != "" {
		if bcrypt.CompareHashAndPassword(
			[]byte(*contest.HashedPassword),
			[]byte(password),
		) == nil {
			return c.ensureParticipant(ctx, contestID, claims.UserID)
		}
	}

	log.Warnf(
		"user %s was denied contestant access to contest %v",
		claims.Handle,
		contestID,
	)
	return fmt.Errorf(
		"%w, you are not allowed to enter this contest",
		xjudge_errors.ErrUnAuthorized,
	)
}

// ensureParticipant records the user as a participant, tolerating the
// case where they already are one.
func (c *ContestService) ensureParticipant(
	ctx context.Context,
	contestID uuid.UUID,
	userID uuid.UUID,
) error {
	err := c.Store.Contests.AddParticipant(ctx, contestID, userID)
	if err != nil && !errors.Is(err, xjudge_errors.ErrEntityAlreadyExist) {
		return err
	}
	return nil
}

// AuthorizeCreateContest allows anyone to create a classic contest; a
// group contest needs a LEADER or MANAGER role in the group.
func (c *ContestService) AuthorizeCreateContest(
	ctx context.Context,
	contestType store.ContestType,
	groupID *uuid.UUID,
) error {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if contestType != store.ContestGroup {
		return nil
	}
	if groupID == nil {
		return fmt.Errorf(
			"%w, a group contest must name its group",
			xjudge_errors.ErrInvalidRequest,
		)
	}
	return c.requireGroupAdmin(ctx, claims.UserID, claims.Handle, *groupID)
}

// AuthorizeManageContest guards update and delete: the owner passes,
// and for group contests so does a group LEADER or MANAGER.
func (c *ContestService) AuthorizeManageContest(
	ctx context.Context,
	contest store.Contest,
) error {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if contest.OwnerID == claims.UserID {
		return nil
	}
	if contest.Type == store.ContestGroup && contest.GroupID != nil {
		if err := c.requireGroupAdmin(ctx, claims.UserID, claims.Handle, *contest.GroupID); err == nil {
			return nil
		}
	}

	log.Warnf(
		"user %s tried to manage contest %v without permission",
		claims.Handle,
		contest.ID,
	)
	return fmt.Errorf(
		"%w, only the contest owner or group admins can manage this contest",
		xjudge_errors.ErrUnAuthorized,
	)
}

func (c *ContestService) requireGroupAdmin(
	ctx context.Context,
	userID uuid.UUID,
	handle string,
	groupID uuid.UUID,
) error {
	ug, err := c.Store.Groups.GetUserGroup(ctx, userID, groupID)
	if err != nil {
		if errors.Is(err, xjudge_errors.ErrNotFound) {
			return fmt.Errorf(
				"%w, user %s is not a member of group %v",
				xjudge_errors.ErrUnAuthorized,
				handle,
				groupID,
			)
		}
		return err
	}
	if ug.Role != store.RoleLeader && ug.Role != store.RoleManager {
		return fmt.Errorf(
			"%w, group role %s cannot manage contests",
			xjudge_errors.ErrUnAuthorized,
			ug.Role,
		)
	}
	return nil
}
