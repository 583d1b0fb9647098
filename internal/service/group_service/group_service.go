package group_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/email"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// GroupService manages groups, membership, and invitations. Creating a
// group makes its creator the LEADER; everyone else enters as MEMBER
// through join or invitation.
type GroupService struct {
	Store        *store.Store
	EmailService *email.EmailService
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=2000"`
	IsPublic    bool   `json:"is_public"`
}

type InviteRequest struct {
	GroupID        uuid.UUID `json:"group_id" validate:"required"`
	ReceiverHandle string    `json:"receiver_handle" validate:"required"`
}

func (g *GroupService) CreateGroup(
	ctx context.Context,
	request CreateGroupRequest,
) (store.Group, error) {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return store.Group{}, err
	}
	if err := service.ValidateInput(request); err != nil {
		return store.Group{}, err
	}

	group, err := g.Store.Groups.CreateGroup(ctx, store.Group{
		ID:          uuid.New(),
		Name:        request.Name,
		Description: request.Description,
		IsPublic:    request.IsPublic,
	})
	if err != nil {
		return store.Group{}, err
	}

	if err := g.Store.Groups.AddUserGroup(ctx, store.UserGroup{
		UserID:  claims.UserID,
		GroupID: group.ID,
		Role:    store.RoleLeader,
	}); err != nil {
		return store.Group{}, err
	}

	log.WithField("from", "group-service").Infof(
		"user %s created group %v (%s)",
		claims.Handle, group.ID, group.Name,
	)
	return group, nil
}

func (g *GroupService) GetGroupByID(ctx context.Context, id uuid.UUID) (store.Group, error) {
	return g.Store.Groups.GetGroupByID(ctx, id)
}

// JoinGroup adds the caller as a MEMBER of a public group. Joining
// twice is a conflict, joining a private group needs an invitation.
func (g *GroupService) JoinGroup(ctx context.Context, groupID uuid.UUID) error {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	group, err := g.Store.Groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsPublic {
		return fmt.Errorf(
			"%w, group %s is private, ask a leader for an invitation",
			xjudge_errors.ErrUnAuthorized,
			group.Name,
		)
	}

	err = g.Store.Groups.AddUserGroup(ctx, store.UserGroup{
		UserID:  claims.UserID,
		GroupID: groupID,
		Role:    store.RoleMember,
	})
	if errors.Is(err, xjudge_errors.ErrEntityAlreadyExist) {
		return fmt.Errorf(
			"%w, you are already a member of group %s",
			xjudge_errors.ErrEntityAlreadyExist,
			group.Name,
		)
	}
	return err
}

// Invite issues a membership invitation. Members cannot invite
// themselves, and a receiver holds at most one pending invitation per
// group.
func (g *GroupService) Invite(
	ctx context.Context,
	request InviteRequest,
) (store.Invitation, error) {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return store.Invitation{}, err
	}
	if err := service.ValidateInput(request); err != nil {
		return store.Invitation{}, err
	}

	// only existing members may invite
	if _, err := g.Store.Groups.GetUserGroup(ctx, claims.UserID, request.GroupID); err != nil {
		if errors.Is(err, xjudge_errors.ErrNotFound) {
			return store.Invitation{}, fmt.Errorf(
				"%w, only group members can send invitations",
				xjudge_errors.ErrUnAuthorized,
			)
		}
		return store.Invitation{}, err
	}

	receiver, err := g.Store.Users.GetUserByHandle(ctx, request.ReceiverHandle)
	if err != nil {
		return store.Invitation{}, err
	}

	if receiver.ID == claims.UserID {
		log.Warnf("user %s tried to invite themselves to group %v", claims.Handle, request.GroupID)
		return store.Invitation{}, fmt.Errorf(
			"%w, you cannot invite yourself",
			xjudge_errors.ErrUnAuthorized,
		)
	}

	if _, err := g.Store.Groups.GetUserGroup(ctx, receiver.ID, request.GroupID); err == nil {
		return store.Invitation{}, fmt.Errorf(
			"%w, %s is already a member of the group",
			xjudge_errors.ErrEntityAlreadyExist,
			receiver.Handle,
		)
	} else if !errors.Is(err, xjudge_errors.ErrNotFound) {
		return store.Invitation{}, err
	}

	pending, err := g.Store.Groups.HasPendingInvitation(ctx, request.GroupID, receiver.ID)
	if err != nil {
		return store.Invitation{}, err
	}
	if pending {
		return store.Invitation{}, fmt.Errorf(
			"%w, %s already has a pending invitation to this group",
			xjudge_errors.ErrEntityAlreadyExist,
			receiver.Handle,
		)
	}

	invitation, err := g.Store.Groups.CreateInvitation(ctx, store.Invitation{
		ID:         uuid.New(),
		GroupID:    request.GroupID,
		InviterID:  claims.UserID,
		ReceiverID: receiver.ID,
		Status:     store.InvitationPending,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return store.Invitation{}, err
	}

	g.sendInvitationMail(ctx, claims.Handle, receiver, request.GroupID)
	return invitation, nil
}

// sendInvitationMail is best effort: a failed mail never fails the
// invitation itself.
func (g *GroupService) sendInvitationMail(
	ctx context.Context,
	inviterHandle string,
	receiver store.User,
	groupID uuid.UUID,
) {
	if g.EmailService == nil || receiver.Email == "" {
		return
	}

	group, err := g.Store.Groups.GetGroupByID(ctx, groupID)
	if err != nil {
		log.Warnf("cannot load group %v for invitation mail: %v", groupID, err)
		return
	}

	err = g.EmailService.Send(ctx, email.EmailRequest{
		To:      []string{receiver.Email},
		Subject: fmt.Sprintf("Invitation to join %s", group.Name),
		Body: fmt.Sprintf(
			"Hi %s,\n\n%s invited you to join the group %q. "+
				"Log in to accept or decline the invitation.\n",
			receiver.Handle, inviterHandle, group.Name,
		),
		BodyType: email.KeyEmailBodyPlain,
		Purpose:  email.PurposeGroupInvitation,
	})
	if err != nil {
		log.Warnf("invitation mail to %s was not queued: %v", receiver.Handle, err)
	}
}
