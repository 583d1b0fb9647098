package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgGroupStore struct {
	pool *pgxpool.Pool
}

func (s *pgGroupStore) CreateGroup(ctx context.Context, g Group) (Group, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	const query = `INSERT INTO groups (id, name, description, is_public) VALUES ($1, $2, $3, $4)`
	if _, err := s.pool.Exec(ctx, query, g.ID, g.Name, g.Description, g.IsPublic); err != nil {
		return Group{}, translatePgError(err, "cannot create group")
	}
	return g, nil
}

func (s *pgGroupStore) GetGroupByID(ctx context.Context, id uuid.UUID) (Group, error) {
	const query = `SELECT id, name, description, is_public FROM groups WHERE id = $1`
	var g Group
	err := s.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.Description, &g.IsPublic)
	if err != nil {
		return Group{}, translatePgError(err, "cannot fetch group by id")
	}
	return g, nil
}

func (s *pgGroupStore) GetUserGroup(ctx context.Context, userID, groupID uuid.UUID) (UserGroup, error) {
	const query = `SELECT user_id, group_id, role FROM user_groups WHERE user_id = $1 AND group_id = $2`
	var ug UserGroup
	err := s.pool.QueryRow(ctx, query, userID, groupID).Scan(&ug.UserID, &ug.GroupID, &ug.Role)
	if err != nil {
		return UserGroup{}, translatePgError(err, "cannot fetch user group membership")
	}
	return ug, nil
}

func (s *pgGroupStore) AddUserGroup(ctx context.Context, ug UserGroup) error {
	const query = `INSERT INTO user_groups (user_id, group_id, role) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, ug.UserID, ug.GroupID, ug.Role); err != nil {
		return translatePgError(err, "cannot insert user group membership")
	}
	return nil
}

func (s *pgGroupStore) CreateInvitation(ctx context.Context, inv Invitation) (Invitation, error) {
	const query = `
		INSERT INTO invitations (id, group_id, inviter_id, receiver_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(
		ctx, query,
		inv.ID, inv.GroupID, inv.InviterID, inv.ReceiverID, inv.Status, inv.CreatedAt,
	); err != nil {
		return Invitation{}, translatePgError(err, "cannot insert invitation")
	}
	return inv, nil
}

func (s *pgGroupStore) HasPendingInvitation(ctx context.Context, groupID, receiverID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM invitations
			WHERE group_id = $1 AND receiver_id = $2 AND status = $3
		)`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, groupID, receiverID, InvitationPending).Scan(&exists); err != nil {
		return false, translatePgError(err, "cannot check pending invitation")
	}
	return exists, nil
}
