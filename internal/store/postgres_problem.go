package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgProblemStore struct {
	pool *pgxpool.Pool
}

func (s *pgProblemStore) GetProblemByJudgeAndCode(
	ctx context.Context,
	judge JudgeType,
	code string,
) (Problem, error) {
	const query = `
		SELECT id, judge, code, title, problem_link, contest_name, contest_link,
		       description_route, prepend_html, solved_count
		FROM problems
		WHERE judge = $1 AND code = $2`

	var p Problem
	err := s.pool.QueryRow(ctx, query, judge, code).Scan(
		&p.ID, &p.Judge, &p.Code, &p.Title, &p.ProblemLink, &p.ContestName,
		&p.ContestLink, &p.DescriptionRoute, &p.PrependHTML, &p.SolvedCount,
	)
	if err != nil {
		return Problem{}, translatePgError(err, "cannot fetch problem by judge and code")
	}
	return s.attachChildren(ctx, p)
}

func (s *pgProblemStore) GetProblemByID(ctx context.Context, id int32) (Problem, error) {
	const query = `
		SELECT id, judge, code, title, problem_link, contest_name, contest_link,
		       description_route, prepend_html, solved_count
		FROM problems
		WHERE id = $1`

	var p Problem
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Judge, &p.Code, &p.Title, &p.ProblemLink, &p.ContestName,
		&p.ContestLink, &p.DescriptionRoute, &p.PrependHTML, &p.SolvedCount,
	)
	if err != nil {
		return Problem{}, translatePgError(err, "cannot fetch problem by id")
	}
	return s.attachChildren(ctx, p)
}

// CreateProblem writes the problem and its sections and properties in a
// single transaction. Either the whole aggregate commits or nothing does.
func (s *pgProblemStore) CreateProblem(ctx context.Context, p Problem) (Problem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Problem{}, translatePgError(err, "cannot begin problem insert transaction")
	}
	defer tx.Rollback(ctx)

	const insertProblem = `
		INSERT INTO problems
			(judge, code, title, problem_link, contest_name, contest_link,
			 description_route, prepend_html, solved_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
		RETURNING id`

	err = tx.QueryRow(
		ctx, insertProblem,
		p.Judge, p.Code, p.Title, p.ProblemLink, p.ContestName,
		p.ContestLink, p.DescriptionRoute, p.PrependHTML,
	).Scan(&p.ID)
	if err != nil {
		return Problem{}, translatePgError(err, "cannot insert problem")
	}

	const insertSection = `
		INSERT INTO problem_sections (problem_id, position, title, format, content)
		VALUES ($1, $2, $3, $4, $5)`
	for i, section := range p.Sections {
		if _, err = tx.Exec(
			ctx, insertSection,
			p.ID, i, section.Title, section.Value.Format, section.Value.Content,
		); err != nil {
			return Problem{}, translatePgError(err, "cannot insert problem section")
		}
	}

	const insertProperty = `
		INSERT INTO problem_properties (problem_id, position, title, content, spoiler)
		VALUES ($1, $2, $3, $4, $5)`
	for i, property := range p.Properties {
		if _, err = tx.Exec(
			ctx, insertProperty,
			p.ID, i, property.Title, property.Content, property.Spoiler,
		); err != nil {
			return Problem{}, translatePgError(err, "cannot insert problem property")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Problem{}, translatePgError(err, "cannot commit problem insert transaction")
	}

	p.SolvedCount = 0
	return p, nil
}

func (s *pgProblemStore) ListProblems(
	ctx context.Context,
	filter ProblemFilter,
) ([]Problem, int64, error) {
	var conditions []string
	var args []any
	argID := 1

	appendCondition := func(clause string, value any) {
		conditions = append(conditions, fmt.Sprintf(clause, argID))
		args = append(args, value)
		argID++
	}

	if filter.Judge != "" {
		appendCondition("judge = $%d", filter.Judge)
	}
	if filter.Code != "" {
		appendCondition("code ILIKE $%d", "%"+filter.Code+"%")
	}
	if filter.Title != "" {
		appendCondition("title ILIKE $%d", "%"+filter.Title+"%")
	}
	if filter.ContestName != "" {
		appendCondition("contest_name ILIKE $%d", "%"+filter.ContestName+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM problems" + whereClause
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, translatePgError(err, "cannot count problems")
	}

	query := fmt.Sprintf(`
		SELECT id, judge, code, title, problem_link, contest_name, contest_link,
		       description_route, prepend_html, solved_count
		FROM problems%s
		ORDER BY id
		LIMIT $%d OFFSET $%d`, whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, translatePgError(err, "cannot list problems")
	}
	defer rows.Close()

	problems := make([]Problem, 0)
	for rows.Next() {
		var p Problem
		if err := rows.Scan(
			&p.ID, &p.Judge, &p.Code, &p.Title, &p.ProblemLink, &p.ContestName,
			&p.ContestLink, &p.DescriptionRoute, &p.PrependHTML, &p.SolvedCount,
		); err != nil {
			return nil, 0, translatePgError(err, "cannot scan problem row")
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translatePgError(err, "error iterating problem rows")
	}

	return problems, total, nil
}

func (s *pgProblemStore) IncrementProblemSolvedCount(ctx context.Context, id int32) error {
	const query = `UPDATE problems SET solved_count = solved_count + 1 WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return translatePgError(err, "cannot increment problem solved count")
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(fmt.Errorf("no problem with id %d", id), "cannot increment problem solved count")
	}
	return nil
}

func (s *pgProblemStore) attachChildren(ctx context.Context, p Problem) (Problem, error) {
	const sectionQuery = `
		SELECT title, format, content
		FROM problem_sections
		WHERE problem_id = $1
		ORDER BY position`
	rows, err := s.pool.Query(ctx, sectionQuery, p.ID)
	if err != nil {
		return Problem{}, translatePgError(err, "cannot fetch problem sections")
	}
	defer rows.Close()
	for rows.Next() {
		var section Section
		if err := rows.Scan(&section.Title, &section.Value.Format, &section.Value.Content); err != nil {
			return Problem{}, translatePgError(err, "cannot scan problem section")
		}
		p.Sections = append(p.Sections, section)
	}
	if err := rows.Err(); err != nil {
		return Problem{}, translatePgError(err, "error iterating problem sections")
	}

	const propertyQuery = `
		SELECT title, content, spoiler
		FROM problem_properties
		WHERE problem_id = $1
		ORDER BY position`
	propRows, err := s.pool.Query(ctx, propertyQuery, p.ID)
	if err != nil {
		return Problem{}, translatePgError(err, "cannot fetch problem properties")
	}
	defer propRows.Close()
	for propRows.Next() {
		var property Property
		if err := propRows.Scan(&property.Title, &property.Content, &property.Spoiler); err != nil {
			return Problem{}, translatePgError(err, "cannot scan problem property")
		}
		p.Properties = append(p.Properties, property)
	}
	if err := propRows.Err(); err != nil {
		return Problem{}, translatePgError(err, "error iterating problem properties")
	}

	return p, nil
}
