// Package archive keeps a local sqlite history of every snapshot taken.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"camera-preset-cli/internal/transfer"
	"camera-preset-cli/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           TEXT PRIMARY KEY,
	device       TEXT NOT NULL,
	name         TEXT NOT NULL,
	preset_count INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	payload      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS snapshots_name_created ON snapshots(name, created_at);
`

// Entry describes one archived snapshot without its payload.
type Entry struct {
	ID          string    `json:"id"`
	Device      string    `json:"device"`
	Name        string    `json:"name"`
	PresetCount int       `json:"presetCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store is a sqlite-backed transfer.SnapshotStore. Save always appends;
// Load accepts an archive id or a snapshot name, newest first.
type Store struct {
	sqlDB  *sql.DB
	device string
	now    func() time.Time
}

// Open opens (and creates if needed) the archive at path. device labels
// the entries this Store writes.
func Open(path, device string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	sqlDB, err := sql.Open("sqlite", cleanPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB, device: device, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Save(ctx context.Context, name string, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO snapshots (id, device, name, preset_count, created_at, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), s.device, name, len(snap), s.now().UTC().UnixMilli(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, ref string) (models.Snapshot, error) {
	var payload string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE id = ? OR name = ? ORDER BY (id = ?) DESC, created_at DESC, rowid DESC LIMIT 1`,
		ref, ref, ref,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("archive entry %q: %w", ref, transfer.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("decode archive entry %q: %w", ref, err)
	}
	return snap, nil
}

// List returns archived entries, newest first. limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, device, name, preset_count, created_at FROM snapshots ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Device, &e.Name, &e.PresetCount, &created); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
