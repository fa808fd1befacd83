package characters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/KirkDiggler/pgte-bot/internal/repositories/characters/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository persists encoded records in a single SQLite table. Owner
// and realm are duplicated into columns for the listing queries.
type SQLiteRepository struct {
	db           *sql.DB
	timeProvider TimeProvider
}

// OpenSQLite opens (creating if needed) a SQLite character store and applies
// the embedded schema. Use ":memory:" for a throwaway database.
func OpenSQLite(path string, timeProvider TimeProvider) (*SQLiteRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if timeProvider == nil {
		timeProvider = SystemClock()
	}

	dsn := ":memory:?_txlock=immediate"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, timeProvider: timeProvider}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteRepository) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create stores a new character
func (s *SQLiteRepository) Create(ctx context.Context, char *sheet.Character) error {
	if err := validateNew(char, s.timeProvider.Now()); err != nil {
		return err
	}

	data, err := encodeRecord(char)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO characters (id, owner_id, realm_id, name, record, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		char.ID, char.OwnerID, char.RealmID, char.Name, string(data),
		char.CreatedAt.UnixMilli(), char.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return alreadyExists(char.ID)
		}
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

// Get retrieves a character by ID
func (s *SQLiteRepository) Get(ctx context.Context, id string) (*sheet.Character, error) {
	if id == "" {
		return nil, sheeterr.InvalidArgument("character ID is required")
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM characters WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return decodeRecord([]byte(data))
}

// GetByOwner retrieves all characters for a specific owner
func (s *SQLiteRepository) GetByOwner(ctx context.Context, ownerID string) ([]*sheet.Character, error) {
	if ownerID == "" {
		return nil, sheeterr.InvalidArgument("owner ID is required")
	}
	return s.query(ctx,
		`SELECT record FROM characters WHERE owner_id = ? ORDER BY name, id`, ownerID)
}

// GetByOwnerAndRealm retrieves all characters for a specific owner in a realm
func (s *SQLiteRepository) GetByOwnerAndRealm(ctx context.Context, ownerID, realmID string) ([]*sheet.Character, error) {
	if ownerID == "" {
		return nil, sheeterr.InvalidArgument("owner ID is required")
	}
	return s.query(ctx,
		`SELECT record FROM characters WHERE owner_id = ? AND realm_id = ? ORDER BY name, id`,
		ownerID, realmID)
}

func (s *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*sheet.Character, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var result []*sheet.Character
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		char, err := decodeRecord([]byte(data))
		if err != nil {
			return nil, err
		}
		result = append(result, char)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return result, nil
}

// ListIDs returns every stored ID in sorted order
func (s *SQLiteRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM characters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan character ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Write applies dotted-path updates to the character's document
func (s *SQLiteRepository) Write(ctx context.Context, id string, updates map[string]any) error {
	return s.update(ctx, id, func(data []byte, now time.Time) ([]byte, error) {
		return ApplyUpdates(data, updates, now)
	})
}

// Replace overwrites the character's whole document
func (s *SQLiteRepository) Replace(ctx context.Context, id string, system map[string]any) error {
	return s.update(ctx, id, func(data []byte, now time.Time) ([]byte, error) {
		return ReplaceSystem(data, system, now)
	})
}

func (s *SQLiteRepository) update(ctx context.Context, id string, mutate func([]byte, time.Time) ([]byte, error)) error {
	if id == "" {
		return sheeterr.InvalidArgument("character ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var data string
	err = tx.QueryRowContext(ctx, `SELECT record FROM characters WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to get character: %w", err)
	}

	now := s.timeProvider.Now()
	next, err := mutate([]byte(data), now)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE characters SET record = ?, updated_at = ? WHERE id = ?`,
		string(next), now.UnixMilli(), id,
	); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return tx.Commit()
}

// Delete removes a character
func (s *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return sheeterr.InvalidArgument("character ID is required")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

const migrationTable = "schema_migrations"

// applyMigrations runs each embedded .sql file once, in name order.
func applyMigrations(db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var applied int
		if err := db.QueryRow(
			`SELECT COUNT(1) FROM `+migrationTable+` WHERE name = ?`, file,
		).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upMigration(string(content))); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// upMigration returns the SQL between the Up and Down markers.
func upMigration(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	if i := strings.Index(content, up); i >= 0 {
		content = content[i+len(up):]
	}
	if i := strings.Index(content, down); i >= 0 {
		content = content[:i]
	}
	return content
}
