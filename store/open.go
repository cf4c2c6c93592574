package store

import (
	"context"
	"log/slog"

	"nfeditor/types"
)

// Open connects to Postgres and creates the tables when cfg names a host,
// and returns a MemoryStore otherwise.
func Open(ctx context.Context, cfg types.PostgresConfig) (DBStorer, error) {
	if !cfg.Enabled() {
		slog.Info("no Postgres host configured, keeping history in memory")
		return NewMemoryStore(), nil
	}

	pg, err := NewPostgresStore(ctx, cfg.ConnString())
	if err != nil {
		return nil, err
	}
	if err := pg.Init(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
