package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

type pgContestStore struct {
	pool *pgxpool.Pool
}

func (s *pgContestStore) GetContestByID(ctx context.Context, id uuid.UUID) (Contest, error) {
	const query = `
		SELECT id, title, description, begin_time, length_seconds, type,
		       visibility, hashed_password, owner_id, group_id
		FROM contests
		WHERE id = $1`

	var c Contest
	var lengthSeconds int64
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.BeginTime, &lengthSeconds,
		&c.Type, &c.Visibility, &c.HashedPassword, &c.OwnerID, &c.GroupID,
	)
	if err != nil {
		return Contest{}, translatePgError(err, "cannot fetch contest by id")
	}
	c.Length = time.Duration(lengthSeconds) * time.Second

	const problemQuery = `
		SELECT problem_id, hashtag
		FROM contest_problems
		WHERE contest_id = $1
		ORDER BY hashtag`
	rows, err := s.pool.Query(ctx, problemQuery, id)
	if err != nil {
		return Contest{}, translatePgError(err, "cannot fetch contest problems")
	}
	defer rows.Close()
	for rows.Next() {
		var cp ContestProblem
		if err := rows.Scan(&cp.ProblemID, &cp.Hashtag); err != nil {
			return Contest{}, translatePgError(err, "cannot scan contest problem row")
		}
		c.Problems = append(c.Problems, cp)
	}
	if err := rows.Err(); err != nil {
		return Contest{}, translatePgError(err, "error iterating contest problem rows")
	}

	return c, nil
}

func (s *pgContestStore) CreateContest(ctx context.Context, c Contest) (Contest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Contest{}, translatePgError(err, "cannot begin contest insert transaction")
	}
	defer tx.Rollback(ctx)

	const insertContest = `
		INSERT INTO contests
			(id, title, description, begin_time, length_seconds, type,
			 visibility, hashed_password, owner_id, group_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err = tx.Exec(
		ctx, insertContest,
		c.ID, c.Title, c.Description, c.BeginTime, int64(c.Length/time.Second),
		c.Type, c.Visibility, c.HashedPassword, c.OwnerID, c.GroupID,
	); err != nil {
		return Contest{}, translatePgError(err, "cannot insert contest")
	}

	const insertProblem = `
		INSERT INTO contest_problems (contest_id, problem_id, hashtag)
		VALUES ($1, $2, $3)`
	for _, cp := range c.Problems {
		if _, err = tx.Exec(ctx, insertProblem, c.ID, cp.ProblemID, cp.Hashtag); err != nil {
			return Contest{}, translatePgError(err, "cannot insert contest problem")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Contest{}, translatePgError(err, "cannot commit contest insert transaction")
	}
	return c, nil
}

func (s *pgContestStore) UpdateContest(ctx context.Context, c Contest) (Contest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Contest{}, translatePgError(err, "cannot begin contest update transaction")
	}
	defer tx.Rollback(ctx)

	const updateContest = `
		UPDATE contests
		SET title = $2, description = $3, begin_time = $4, length_seconds = $5,
		    type = $6, visibility = $7, hashed_password = $8, group_id = $9
		WHERE id = $1`

	tag, err := tx.Exec(
		ctx, updateContest,
		c.ID, c.Title, c.Description, c.BeginTime, int64(c.Length/time.Second),
		c.Type, c.Visibility, c.HashedPassword, c.GroupID,
	)
	if err != nil {
		return Contest{}, translatePgError(err, "cannot update contest")
	}
	if tag.RowsAffected() == 0 {
		return Contest{}, xjudge_errors.ErrNotFound
	}

	if _, err = tx.Exec(ctx, `DELETE FROM contest_problems WHERE contest_id = $1`, c.ID); err != nil {
		return Contest{}, translatePgError(err, "cannot clear contest problems")
	}
	const insertProblem = `
		INSERT INTO contest_problems (contest_id, problem_id, hashtag)
		VALUES ($1, $2, $3)`
	for _, cp := range c.Problems {
		if _, err = tx.Exec(ctx, insertProblem, c.ID, cp.ProblemID, cp.Hashtag); err != nil {
			return Contest{}, translatePgError(err, "cannot insert contest problem")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Contest{}, translatePgError(err, "cannot commit contest update transaction")
	}
	return c, nil
}

func (s *pgContestStore) DeleteContest(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contests WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err, "cannot delete contest")
	}
	if tag.RowsAffected() == 0 {
		return xjudge_errors.ErrNotFound
	}
	return nil
}

func (s *pgContestStore) AddParticipant(ctx context.Context, contestID, userID uuid.UUID) error {
	const query = `INSERT INTO contest_participants (contest_id, user_id) VALUES ($1, $2)`
	if _, err := s.pool.Exec(ctx, query, contestID, userID); err != nil {
		return translatePgError(err, "cannot add contest participant")
	}
	return nil
}

func (s *pgContestStore) IsParticipant(ctx context.Context, contestID, userID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM contest_participants WHERE contest_id = $1 AND user_id = $2
		)`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, contestID, userID).Scan(&exists); err != nil {
		return false, translatePgError(err, "cannot check contest participant")
	}
	return exists, nil
}

func (s *pgContestStore) ListParticipants(ctx context.Context, contestID uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT user_id FROM contest_participants WHERE contest_id = $1`
	rows, err := s.pool.Query(ctx, query, contestID)
	if err != nil {
		return nil, translatePgError(err, "cannot list contest participants")
	}
	defer rows.Close()

	participants := make([]uuid.UUID, 0)
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, translatePgError(err, "cannot scan contest participant row")
		}
		participants = append(participants, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, "error iterating contest participant rows")
	}
	return participants, nil
}
