package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgUserStore struct {
	pool *pgxpool.Pool
}

const userColumns = " id, handle, email, hashed_password, attempted_count, solved_count"

func (s *pgUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := "SELECT" + userColumns + " FROM users WHERE id = $1"
	var u User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Handle, &u.Email, &u.HashedPassword, &u.AttemptedCount, &u.SolvedCount,
	)
	if err != nil {
		return User{}, translatePgError(err, "cannot fetch user by id")
	}
	return u, nil
}

func (s *pgUserStore) GetUserByHandle(ctx context.Context, handle string) (User, error) {
	query := "SELECT" + userColumns + " FROM users WHERE handle = $1"
	var u User
	err := s.pool.QueryRow(ctx, query, handle).Scan(
		&u.ID, &u.Handle, &u.Email, &u.HashedPassword, &u.AttemptedCount, &u.SolvedCount,
	)
	if err != nil {
		return User{}, translatePgError(err, "cannot fetch user by handle")
	}
	return u, nil
}

func (s *pgUserStore) CreateUser(ctx context.Context, user User) (User, error) {
	query := `
		INSERT INTO users (id, handle, email, hashed_password, attempted_count, solved_count)
		VALUES ($1, $2, $3, $4, 0, 0)
		RETURNING` + userColumns

	var u User
	err := s.pool.QueryRow(
		ctx, query,
		user.ID, user.Handle, user.Email, user.HashedPassword,
	).Scan(&u.ID, &u.Handle, &u.Email, &u.HashedPassword, &u.AttemptedCount, &u.SolvedCount)
	if err != nil {
		return User{}, translatePgError(err, "cannot insert user")
	}
	return u, nil
}

func (s *pgUserStore) IncrementAttemptedCount(ctx context.Context, id uuid.UUID) error {
	return s.incrementCounter(ctx, id, "attempted_count")
}

func (s *pgUserStore) IncrementSolvedCount(ctx context.Context, id uuid.UUID) error {
	return s.incrementCounter(ctx, id, "solved_count")
}

func (s *pgUserStore) incrementCounter(ctx context.Context, id uuid.UUID, column string) error {
	query := fmt.Sprintf("UPDATE users SET %s = %s + 1 WHERE id = $1", column, column)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return translatePgError(err, "cannot increment user "+column)
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(fmt.Errorf("no user with id %v", id), "cannot increment user "+column)
	}
	return nil
}
