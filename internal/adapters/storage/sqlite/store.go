package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/studycircle/studycircle/internal/domain"
)

// Store persists sessions and conversation snapshots in a local SQLite file.
// Implements domain.SessionStore and domain.StateStore.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Keep sqlite responsive under contention.
	_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
	_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL;")

	schema := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT,
			created_at_ns INTEGER NOT NULL,
			updated_at_ns INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at_ns);`,
		`CREATE TABLE IF NOT EXISTS states (
			session_id TEXT PRIMARY KEY,
			snapshot TEXT NOT NULL,
			updated_at_ns INTEGER NOT NULL
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initializing sqlite schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(session *domain.Session) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, title, created_at_ns, updated_at_ns) VALUES (?, ?, ?, ?)`,
		string(session.ID), session.Title,
		session.CreatedAt.UnixNano(), session.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite CreateSession: %w", err)
	}
	return nil
}

func (s *Store) UpdateSession(session *domain.Session) error {
	res, err := s.db.Exec(
		`UPDATE sessions SET title = ?, updated_at_ns = ? WHERE id = ?`,
		session.Title, session.UpdatedAt.UnixNano(), string(session.ID),
	)
	if err != nil {
		return fmt.Errorf("sqlite UpdateSession: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) GetSession(id domain.SessionID) (*domain.Session, error) {
	row := s.db.QueryRow(
		`SELECT title, created_at_ns, updated_at_ns FROM sessions WHERE id = ?`,
		string(id),
	)

	var title string
	var createdNS, updatedNS int64
	if err := row.Scan(&title, &createdNS, &updatedNS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sqlite GetSession: %w", err)
	}

	return &domain.Session{
		ID:        id,
		Title:     title,
		CreatedAt: time.Unix(0, createdNS),
		UpdatedAt: time.Unix(0, updatedNS),
	}, nil
}

func (s *Store) ListSessions(limit int) ([]*domain.Session, error) {
	q := `SELECT id, title, created_at_ns, updated_at_ns FROM sessions ORDER BY updated_at_ns DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListSessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		var id, title string
		var createdNS, updatedNS int64
		if err := rows.Scan(&id, &title, &createdNS, &updatedNS); err != nil {
			return nil, fmt.Errorf("sqlite ListSessions scan: %w", err)
		}
		out = append(out, &domain.Session{
			ID:        domain.SessionID(id),
			Title:     title,
			CreatedAt: time.Unix(0, createdNS),
			UpdatedAt: time.Unix(0, updatedNS),
		})
	}
	return out, rows.Err()
}

// ─────────────────────────────────────────
// StateStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveState(id domain.SessionID, snap *domain.StateSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sqlite SaveState encode: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO states (session_id, snapshot, updated_at_ns) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at_ns = excluded.updated_at_ns`,
		string(id), string(data), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite SaveState: %w", err)
	}
	return nil
}

func (s *Store) LoadState(id domain.SessionID) (*domain.StateSnapshot, error) {
	row := s.db.QueryRow(`SELECT snapshot FROM states WHERE session_id = ?`, string(id))

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite LoadState: %w", err)
	}

	var snap domain.StateSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("sqlite LoadState decode: %w", err)
	}
	return &snap, nil
}
