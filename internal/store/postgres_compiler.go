package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgCompilerStore struct {
	pool *pgxpool.Pool
}

func (s *pgCompilerStore) CreateCompiler(ctx context.Context, c Compiler) (Compiler, error) {
	const query = `
		INSERT INTO compilers (id_value, name, judge)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := s.pool.QueryRow(ctx, query, c.IDValue, c.Name, c.Judge).Scan(&c.ID)
	if err != nil {
		return Compiler{}, translatePgError(err, "cannot create compiler")
	}
	return c, nil
}

func (s *pgCompilerStore) GetCompilerByIDValue(ctx context.Context, idValue string) (Compiler, error) {
	const query = `SELECT id, id_value, name, judge FROM compilers WHERE id_value = $1`
	var c Compiler
	err := s.pool.QueryRow(ctx, query, idValue).Scan(&c.ID, &c.IDValue, &c.Name, &c.Judge)
	if err != nil {
		return Compiler{}, translatePgError(err, "cannot fetch compiler by id value")
	}
	return c, nil
}

func (s *pgCompilerStore) ListCompilersByJudge(ctx context.Context, judge JudgeType) ([]Compiler, error) {
	const query = `SELECT id, id_value, name, judge FROM compilers WHERE judge = $1 ORDER BY name`
	rows, err := s.pool.Query(ctx, query, judge)
	if err != nil {
		return nil, translatePgError(err, "cannot list compilers by judge")
	}
	defer rows.Close()

	compilers := make([]Compiler, 0)
	for rows.Next() {
		var c Compiler
		if err := rows.Scan(&c.ID, &c.IDValue, &c.Name, &c.Judge); err != nil {
			return nil, translatePgError(err, "cannot scan compiler row")
		}
		compilers = append(compilers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, "error iterating compiler rows")
	}
	return compilers, nil
}
