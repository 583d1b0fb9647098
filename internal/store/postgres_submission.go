package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgSubmissionStore struct {
	pool *pgxpool.Pool
}

const submissionColumns = `
	id, user_id, problem_id, contest_id, compiler_id, judge, solution,
	remote_run_id, status, verdict, time_usage, memory_usage, is_open,
	submitted_at`

func scanSubmission(row interface{ Scan(...any) error }) (Submission, error) {
	var sub Submission
	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.ContestID, &sub.CompilerID,
		&sub.Judge, &sub.Solution, &sub.RemoteRunID, &sub.Status, &sub.Verdict,
		&sub.TimeUsage, &sub.MemoryUsage, &sub.IsOpen, &sub.SubmittedAt,
	)
	return sub, err
}

func (s *pgSubmissionStore) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	const query = `
		INSERT INTO submissions
			(id, user_id, problem_id, contest_id, compiler_id, judge, solution,
			 remote_run_id, status, verdict, time_usage, memory_usage, is_open,
			 submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING` + submissionColumns

	row := s.pool.QueryRow(
		ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.ContestID, sub.CompilerID,
		sub.Judge, sub.Solution, sub.RemoteRunID, sub.Status, sub.Verdict,
		sub.TimeUsage, sub.MemoryUsage, sub.IsOpen, sub.SubmittedAt,
	)
	created, err := scanSubmission(row)
	if err != nil {
		return Submission{}, translatePgError(err, "cannot insert submission")
	}
	return created, nil
}

func (s *pgSubmissionStore) GetSubmissionByID(ctx context.Context, id uuid.UUID) (Submission, error) {
	query := "SELECT" + submissionColumns + " FROM submissions WHERE id = $1"
	sub, err := scanSubmission(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Submission{}, translatePgError(err, "cannot fetch submission by id")
	}
	return sub, nil
}

func (s *pgSubmissionStore) MergeSubmissionResult(
	ctx context.Context,
	id uuid.UUID,
	result SubmissionResult,
) (Submission, error) {
	query := `
		UPDATE submissions
		SET remote_run_id = $2, status = $3, verdict = $4,
		    time_usage = $5, memory_usage = $6
		WHERE id = $1
		RETURNING` + submissionColumns

	row := s.pool.QueryRow(
		ctx, query,
		id, result.RemoteRunID, result.Status, result.Verdict,
		result.TimeUsage, result.MemoryUsage,
	)
	sub, err := scanSubmission(row)
	if err != nil {
		return Submission{}, translatePgError(err, "cannot merge submission result")
	}
	return sub, nil
}

func (s *pgSubmissionStore) ListSubmissionsByUserAndProblem(
	ctx context.Context,
	userID uuid.UUID,
	problemID int32,
) ([]Submission, error) {
	query := "SELECT" + submissionColumns + `
		FROM submissions
		WHERE user_id = $1 AND problem_id = $2
		ORDER BY submitted_at`

	rows, err := s.pool.Query(ctx, query, userID, problemID)
	if err != nil {
		return nil, translatePgError(err, "cannot list submissions by user and problem")
	}
	defer rows.Close()

	subs := make([]Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, translatePgError(err, "cannot scan submission row")
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, "error iterating submission rows")
	}
	return subs, nil
}

func (s *pgSubmissionStore) ListSubmissions(
	ctx context.Context,
	filter SubmissionFilter,
) ([]Submission, error) {
	var conditions []string
	var args []any
	argID := 1

	appendCondition := func(clause string, value any) {
		conditions = append(conditions, fmt.Sprintf(clause, argID))
		args = append(args, value)
		argID++
	}

	if filter.ContestID != nil {
		appendCondition("contest_id = $%d", *filter.ContestID)
	}
	if filter.UserID != nil {
		appendCondition("user_id = $%d", *filter.UserID)
	}
	if filter.ProblemID != nil {
		appendCondition("problem_id = $%d", *filter.ProblemID)
	}
	if filter.Verdict != "" {
		appendCondition("verdict ILIKE $%d", filter.Verdict)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(
		"SELECT%s FROM submissions%s ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d",
		submissionColumns, whereClause, argID, argID+1,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err, "cannot list submissions")
	}
	defer rows.Close()

	subs := make([]Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, translatePgError(err, "cannot scan submission row")
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, "error iterating submission rows")
	}
	return subs, nil
}
