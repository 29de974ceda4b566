package gorm

import (
	"path/filepath"
	"testing"

	"github.com/bornholm/clubhouse/internal/core/port/testsuite"
	"github.com/bornholm/clubhouse/internal/identifier"
	"github.com/jonboulle/clockwork"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
)

func TestStore(t *testing.T) {
	testsuite.TestRepositories(t, func(t *testing.T, clock clockwork.Clock, generator identifier.Generator) (testsuite.Store, error) {
		dsn := filepath.Join(t.TempDir(), "clubhouse.sqlite")

		db, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}

		internalDB, err := db.DB()
		if err != nil {
			return nil, errors.WithStack(err)
		}

		internalDB.SetMaxOpenConns(1)

		t.Cleanup(func() {
			if err := internalDB.Close(); err != nil {
				t.Logf("could not close database: %+v", errors.WithStack(err))
			}
		})

		if err := db.Exec("PRAGMA foreign_keys=on").Error; err != nil {
			return nil, errors.WithStack(err)
		}

		funcs := []OptionFunc{
			WithClock(clock),
			// The fake clock never fires backoff timers
			WithRetry(0, 0),
		}

		if generator != nil {
			funcs = append(funcs, WithIdentifierGenerator(generator))
		}

		store, err := NewStore(db, funcs...)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return store, nil
	})
}
