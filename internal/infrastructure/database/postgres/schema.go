package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/pkg/errors"
)

// TableName is the cache table.
const TableName = "simulation_cache"

// execer is the subset of *pgxpool.Pool used for DDL.
type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type schemaStep struct {
	name string
	sql  string
}

// schemaSteps are applied in order.  Every step is idempotent, so EnsureSchema
// can run on every startup.
var schemaSteps = []schemaStep{
	{
		name: "create " + TableName,
		sql: `CREATE TABLE IF NOT EXISTS simulation_cache (
			key       TEXT PRIMARY KEY,
			data      JSONB NOT NULL,
			cached_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "index " + TableName + ".cached_at",
		sql:  `CREATE INDEX IF NOT EXISTS simulation_cache_cached_at_idx ON simulation_cache (cached_at)`,
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// EnsureSchema
// ─────────────────────────────────────────────────────────────────────────────

// EnsureSchema creates the cache table and its index when missing.
func EnsureSchema(ctx context.Context, db execer, log logging.Logger) error {
	for _, step := range schemaSteps {
		if _, err := db.Exec(ctx, step.sql); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "schema step failed").WithDetail(step.name)
		}
		log.Debug("Schema step applied", logging.String("step", step.name))
	}
	return nil
}

//Personal.AI order the ending
