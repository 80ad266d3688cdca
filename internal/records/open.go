package records

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cgmis/internal/config"
	"cgmis/internal/logging"
	"cgmis/internal/store"
)

// Open builds the repository selected by cfg.RecordsBackend and returns it
// with a health check and a close function.
func Open(ctx context.Context, cfg config.App, log *zap.Logger) (Repository, func(context.Context) bool, func() error, error) {
	log = logging.OrNop(log)
	always := func(context.Context) bool { return true }
	nop := func() error { return nil }

	switch cfg.RecordsBackend {
	case "memory":
		return NewMemory(), always, nop, nil
	case "postgres", "sqlite":
		var (
			db  *store.DB
			err error
		)
		if cfg.RecordsBackend == "postgres" {
			db, err = store.NewPostgres(ctx, cfg.DatabaseURL)
		} else {
			db, err = store.NewSQLite(ctx, cfg.SQLitePath)
		}
		if err != nil {
			return nil, nil, nil, err
		}
		repo := NewSQL(db.Client, db.Driver)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		log.Debug("records ready", zap.String("backend", cfg.RecordsBackend))
		return repo, db.Healthy, db.Close, nil
	}
	return nil, nil, nil, fmt.Errorf("records: unknown backend %q", cfg.RecordsBackend)
}
