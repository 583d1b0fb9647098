package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// NewPostgresStore wires every aggregate onto one pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Problems:    &pgProblemStore{pool: pool},
		Compilers:   &pgCompilerStore{pool: pool},
		Submissions: &pgSubmissionStore{pool: pool},
		Users:       &pgUserStore{pool: pool},
		Contests:    &pgContestStore{pool: pool},
		Groups:      &pgGroupStore{pool: pool},
	}
}

func translatePgError(err error, contextMessage string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return xjudge_errors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case xjudge_errors.CodeUniqueConstraint:
			return fmt.Errorf(
				"%w, %s",
				xjudge_errors.ErrEntityAlreadyExist,
				pgErr.Detail,
			)
		case xjudge_errors.CodeForeignKeyConstraint:
			return fmt.Errorf(
				"%w, %s",
				xjudge_errors.ErrInvalidRequest,
				pgErr.Detail,
			)
		}
	}
	return fmt.Errorf(
		"%w, %s, %w",
		xjudge_errors.ErrInternal,
		contextMessage,
		err,
	)
}
