package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Blank import required for PostgreSQL driver registration for migrations
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/exp/slog"

	"edusync/internal/app/server/config"
)

// Migrator часть migrate.Migrate, которой мы пользуемся
type Migrator interface {
	Up() error
	Version() (uint, bool, error)
	Close() (error, error)
}

// MigrationEngine создает мигратор; в тестах подменяется
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	sourceURL   string
	databaseURL string
	engine      MigrationEngine
	log         *slog.Logger
}

func NewMigration(cfg *config.Config, engine MigrationEngine, log *slog.Logger) *Migration {
	return &Migration{
		sourceURL:   "file://" + cfg.DB.Migrations,
		databaseURL: cfg.DB.DatabaseURI,
		engine:      engine,
		log:         log.With("component", "migration"),
	}
}

// DefaultEngine открывает migrate.Migrate по файлам миграций и DATABASE_URI
func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Up применяет все непримененные миграции; отсутствие изменений не ошибка
func (mg *Migration) Up() (err error) {
	m, err := mg.engine(mg.sourceURL, mg.databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("migration source: %w", serr))
		}
		if dberr != nil {
			err = errors.Join(err, fmt.Errorf("migration database: %w", dberr))
		}
	}()

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up: %w", err)
		}
		mg.log.Debug("schema is up to date")
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", verr)
	}
	mg.log.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}
