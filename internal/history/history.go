package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codeberg.org/algorave/errorstack/internal/logger"
	"codeberg.org/algorave/errorstack/internal/parser"
	"codeberg.org/algorave/errorstack/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const writeTimeout = 10 * time.Second

// Store appends store events to Postgres.
type Store struct {
	db *pgxpool.Pool
}

// connects to Postgres and creates the events table
func Open(ctx context.Context, connString string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Close() {
	s.db.Close()
}

// creates the events table if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("failed to create error_events table: %w", err)
	}

	if _, err := s.db.Exec(ctx, queryCreateIndex); err != nil {
		return fmt.Errorf("failed to create error_events index: %w", err)
	}

	return nil
}

// records events until the channel closes or ctx is done
func (s *Store) Run(ctx context.Context, events <-chan store.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			if _, err := s.Append(writeCtx, evt); err != nil {
				logger.ErrorErr(err, "failed to record error event", "kind", evt.Kind)
			}
			cancel()
		}
	}
}

// inserts one event
func (s *Store) Append(ctx context.Context, evt store.Event) (*Entry, error) {
	entry, recordJSON, err := newEntry(evt)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(ctx, queryInsert,
		entry.ID,
		entry.Kind,
		entry.Type,
		entry.Title,
		entry.Message,
		recordJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert error event: %w", err)
	}

	return entry, nil
}

// returns the newest entries first
func (s *Store) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	limit = ClampLimit(limit)
	offset = max(offset, 0)

	rows, err := s.db.Query(ctx, queryList, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list error events: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)

	for rows.Next() {
		var e Entry
		var recordJSON []byte

		if err := rows.Scan(
			&e.ID,
			&e.Kind,
			&e.Type,
			&e.Title,
			&e.Message,
			&recordJSON,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan error event: %w", err)
		}

		if len(recordJSON) > 0 {
			var rec parser.Record
			if err := json.Unmarshal(recordJSON, &rec); err == nil {
				e.Record = &rec
			}
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// returns the number of stored entries
func (s *Store) Count(ctx context.Context) (int, error) {
	var total int

	if err := s.db.QueryRow(ctx, queryCount).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count error events: %w", err)
	}

	return total, nil
}

// builds the row for evt; the record column is nil for cleared events
func newEntry(evt store.Event) (*Entry, []byte, error) {
	createdAt := evt.At
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	entry := &Entry{
		ID:        uuid.New(),
		Kind:      evt.Kind,
		Record:    evt.Record,
		CreatedAt: createdAt,
	}

	if evt.Record == nil {
		return entry, nil, nil
	}

	entry.Type = evt.Record.Type
	entry.Title = evt.Record.Title
	entry.Message = evt.Record.Message

	recordJSON, err := json.Marshal(evt.Record)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	return entry, recordJSON, nil
}

// keeps limit within [1, MaxListLimit], using DefaultListLimit when unset
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}

	return min(limit, MaxListLimit)
}
