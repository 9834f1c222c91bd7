package pgcatalog

import (
	"context"
	"net"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/golangmigrator"
	"github.com/programme-lv/contests/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewDB returns a connection pool to a unique and isolated test database,
// fully migrated and ready for testing
func NewDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	conn, err := net.DialTimeout("tcp", "localhost:5433", time.Second)
	if err != nil {
		t.Skip("local postgres is not running on :5433")
	}
	conn.Close()

	ctx := context.Background()
	conf := pgtestdb.Config{
		DriverName: "pgx",
		User:       "proglv", // local dev pg user
		Password:   "proglv", // local dev pg password
		Host:       "localhost",
		Port:       "5433",
		Options:    "sslmode=disable",
	}
	gm := golangmigrator.New("../../migrate")
	config := pgtestdb.Custom(t, conf, gm)

	pool, err := pgxpool.New(ctx, config.URL())
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
	})
	return pool
}

func TestPgCatalogGetProblem(t *testing.T) {
	ctx := context.Background()
	catalog := NewPgCatalog(NewDB(t))

	require.NoError(t, catalog.UpsertProblem(ctx, problem.Problem{ID: "aplusb", FullName: "A+B", MaxPoints: 100}))
	require.NoError(t, catalog.UpsertProblem(ctx, problem.Problem{ID: "aplusb", FullName: "Summa", MaxPoints: 50}))

	p, err := catalog.GetProblem(ctx, "aplusb")
	require.NoError(t, err)
	assert.Equal(t, problem.Problem{ID: "aplusb", FullName: "Summa", MaxPoints: 50}, p)

	_, err = catalog.GetProblem(ctx, "missing")
	assert.ErrorIs(t, err, problem.ErrProblemNotFound)

	all, err := catalog.ListProblems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
