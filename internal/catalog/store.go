package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string

	// linkTable is resolved once at startup: older deployments carried the
	// link rows in an "attachments" table. Probing per item is forbidden.
	linkTable string
}

// legacyLinkTable is the pre-migration name of the link table.
const legacyLinkTable = "attachments"

// Open initializes or connects to the catalog database and applies the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.probeLinkTable(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LinkTable reports which table name holds link rows for this database.
func (s *Store) LinkTable() string {
	return s.linkTable
}

// probeLinkTable resolves the link table name once and caches it. A legacy
// "attachments" table with rows wins over an empty "object_links" table.
func (s *Store) probeLinkTable(ctx context.Context) error {
	s.linkTable = "object_links"

	var name string
	row := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", legacyLinkTable)
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("probe link table: %w", err)
	}

	var legacyCount, currentCount int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+legacyLinkTable).Scan(&legacyCount); err != nil {
		return fmt.Errorf("count legacy links: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM object_links").Scan(&currentCount); err != nil {
		return fmt.Errorf("count links: %w", err)
	}
	if legacyCount > 0 && currentCount == 0 {
		s.linkTable = legacyLinkTable
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
