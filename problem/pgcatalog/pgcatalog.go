package pgcatalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/programme-lv/contests/logger"
	"github.com/programme-lv/contests/problem"
)

type PgCatalog struct {
	pool *pgxpool.Pool
}

func NewPgCatalog(pool *pgxpool.Pool) *PgCatalog {
	return &PgCatalog{pool: pool}
}

func (c *PgCatalog) GetProblem(ctx context.Context, id string) (problem.Problem, error) {
	log := logger.FromContext(ctx)
	log.Debug("querying problem", "problem_id", id)

	var p problem.Problem
	err := c.pool.QueryRow(ctx, `
		SELECT short_id, full_name, max_points
		FROM problems
		WHERE short_id = $1
	`, id).Scan(&p.ID, &p.FullName, &p.MaxPoints)
	if errors.Is(err, pgx.ErrNoRows) {
		return problem.Problem{}, problem.ErrProblemNotFound
	}
	if err != nil {
		log.Debug("failed to query problem", "error", err)
		return problem.Problem{}, fmt.Errorf("failed to query problem %s: %w", id, err)
	}
	return p, nil
}

func (c *PgCatalog) ListProblems(ctx context.Context) ([]problem.Problem, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT short_id, full_name, max_points
		FROM problems
		ORDER BY short_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	defer rows.Close()

	var res []problem.Problem
	for rows.Next() {
		var p problem.Problem
		if err := rows.Scan(&p.ID, &p.FullName, &p.MaxPoints); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// UpsertProblem is used by tooling that imports problems into the catalog.
func (c *PgCatalog) UpsertProblem(ctx context.Context, p problem.Problem) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO problems (short_id, full_name, max_points)
		VALUES ($1, $2, $3)
		ON CONFLICT (short_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			max_points = EXCLUDED.max_points
	`, p.ID, p.FullName, p.MaxPoints)
	if err != nil {
		return fmt.Errorf("failed to upsert problem %s: %w", p.ID, err)
	}
	return nil
}
