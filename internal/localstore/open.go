package localstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cgmis/internal/config"
	"cgmis/internal/logging"
	"cgmis/internal/store"
)

// Open builds the storage selected by cfg.StorageBackend. The returned close
// function releases any connection the backend holds.
func Open(ctx context.Context, cfg config.App, log *zap.Logger) (Watchable, func() error, error) {
	log = logging.OrNop(log)
	nop := func() error { return nil }

	switch cfg.StorageBackend {
	case "memory":
		return NewMemory(), nop, nil

	case "file":
		f, err := NewFile(cfg.StorageFile, WithFileLogger(log))
		if err != nil {
			return nil, nil, err
		}
		log.Debug("local storage ready", zap.String("backend", "file"), zap.String("path", f.Path()))
		return f, nop, nil

	case "redis":
		r := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, nil, err
		}
		log.Debug("local storage ready", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr))
		return NewRedis(r.Client, WithPublishLogger(log)), r.Close, nil

	case "postgres", "sqlite":
		var (
			db  *store.DB
			err error
		)
		if cfg.StorageBackend == "postgres" {
			db, err = store.NewPostgres(ctx, cfg.DatabaseURL)
		} else {
			db, err = store.NewSQLite(ctx, cfg.SQLitePath)
		}
		if err != nil {
			return nil, nil, err
		}
		s := NewSQL(db.Client, db.Driver)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		// SQL has no change feed; notifications stay within this process.
		log.Debug("local storage ready", zap.String("backend", cfg.StorageBackend))
		return WithNotifier(s, NewInMemoryNotifier(), WithPublishLogger(log)), db.Close, nil
	}
	return nil, nil, fmt.Errorf("localstore: unknown backend %q", cfg.StorageBackend)
}
