package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO github.com/mattn/go-sqlite3
	DriverCGO = "sqlite3"
	// DriverPure modernc.org/sqlite, без cgo
	DriverPure = "sqlite"
)

// defaultPollInterval как часто подписки проверяют записи других процессов
const defaultPollInterval = 500 * time.Millisecond

var ErrUnknownDriver = errors.New("unknown sqlite driver")

// Store локальная база клиента: одна таблица documents на все коллекции
type Store struct {
	db           *sql.DB
	log          *slog.Logger
	notifier     *notifier
	pollInterval time.Duration
}

// Open открывает (или создает) файл базы и готовит схему
func Open(ctx context.Context, driver, path string, log *slog.Logger) (*Store, error) {
	dsn, err := dataSource(driver, path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	// Один писатель: SQLite сериализует запись, пул только добавляет SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &Store{
		db:           db,
		log:          log.With("component", "sqlite", "driver", driver),
		notifier:     newNotifier(),
		pollInterval: defaultPollInterval,
	}

	if err := s.initTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init local tables: %w", err)
	}

	s.log.Debug("local store opened", "path", path)
	return s, nil
}

func dataSource(driver, path string) (string, error) {
	switch driver {
	case "", DriverCGO:
		return path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", nil
	case DriverPure:
		return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
}

func (s *Store) initTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(collection, created_at);
	`)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// dataVersion меняется, когда другое соединение (в том числе другой процесс)
// фиксирует запись в файл базы
func (s *Store) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := s.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("data version: %w", err)
	}
	return v, nil
}

// Close закрывает базу. Открытые подписки должны быть отменены раньше.
func (s *Store) Close() error {
	return s.db.Close()
}

// Counts число записей по коллекциям
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT collection, COUNT(*) FROM documents GROUP BY collection`)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}
