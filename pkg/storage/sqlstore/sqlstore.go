// Package sqlstore implements storage.Driver over database/sql. The sqlite
// and postgres drivers wrap it with their own connection setup.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/executehq/concierge/pkg/logger"
	"github.com/executehq/concierge/pkg/storage"
)

const table = "transcripts"

var columns = []string{"id", "created_at", "model", "messages", "reply", "complete", "duration_ms"}

// Dialect pairs a goose dialect name with the placeholder style it needs.
type Dialect struct {
	Goose       string
	Placeholder sq.PlaceholderFormat
}

var (
	SQLite   = Dialect{Goose: "sqlite3", Placeholder: sq.Question}
	Postgres = Dialect{Goose: "postgres", Placeholder: sq.Dollar}
)

// Store is a transcript store backed by a *sql.DB.
type Store struct {
	db   *sql.DB
	psql sq.StatementBuilderType
	log  *slog.Logger
}

// Open migrates db and returns a Store that owns it.
func Open(ctx context.Context, db *sql.DB, dialect Dialect, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}

	if err := Migrate(ctx, db, dialect.Goose, log); err != nil {
		return nil, err
	}

	return &Store{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		log:  log,
	}, nil
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Put inserts t.
func (s *Store) Put(ctx context.Context, t *storage.Transcript) error {
	if err := t.Validate(); err != nil {
		return err
	}

	messages, err := json.Marshal(t.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	query, args, err := s.psql.
		Insert(table).
		Columns(columns...).
		Values(t.ID, t.CreatedAt.UTC(), t.Model, string(messages), t.Reply, t.Complete, t.DurationMs).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}

	return nil
}

// Get retrieves a transcript by ID.
func (s *Store) Get(ctx context.Context, id string) (*storage.Transcript, error) {
	query, args, err := s.psql.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	t, err := scan(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}

	return t, nil
}

// List returns up to limit transcripts, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*storage.Transcript, error) {
	query, args, err := s.psql.
		Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(storage.ClampLimit(limit))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	out := []*storage.Transcript{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*storage.Transcript, error) {
	var (
		t        storage.Transcript
		messages string
	)

	err := row.Scan(&t.ID, &t.CreatedAt, &t.Model, &messages, &t.Reply, &t.Complete, &t.DurationMs)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(messages), &t.Messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()

	return &t, nil
}
