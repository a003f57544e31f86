package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/match-ticket-booking/internal/config"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
	"github.com/iliyamo/match-ticket-booking/internal/repository/memory"
)

// OpenStore returns the store selected by cfg.StorageDriver together with
// a function releasing it.  SQL backends are migrated when cfg.DBMigrate
// is set.
func OpenStore(ctx context.Context, cfg config.Config) (repository.Store, func() error, error) {
	if cfg.StorageDriver == config.DriverMemory {
		logrus.Warn("using in-memory storage; data is lost on exit")
		return memory.New(), func() error { return nil }, nil
	}
	db, err := Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.StorageDriver, err)
	}
	if cfg.DBMigrate {
		if err := Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	logrus.WithField("driver", cfg.StorageDriver).Info("database connected")
	return repository.NewSQLStore(db), db.Close, nil
}
