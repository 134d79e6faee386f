package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.StateStore = (*StateStore)(nil)

// StateStore implements driven.StateStore using PostgreSQL. The single
// conversation lives in one JSONB row.
type StateStore struct {
	db *DB
}

// NewStateStore creates a PostgreSQL-backed StateStore
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// Load returns the stored state, or an empty state when none was saved
func (s *StateStore) Load(ctx context.Context) (*driven.ChatState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM chat_state WHERE id = 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return &driven.ChatState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat state: %w", err)
	}

	var state driven.ChatState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat state: %w", err)
	}
	return &state, nil
}

// Save replaces the stored state
func (s *StateStore) Save(ctx context.Context, state *driven.ChatState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal chat state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_state (id, state, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET state = $1, updated_at = now()
	`, data)
	if err != nil {
		return fmt.Errorf("failed to save chat state: %w", err)
	}
	return nil
}

// Clear removes the stored state
func (s *StateStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_state WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to clear chat state: %w", err)
	}
	return nil
}

// Ping verifies the database connection
func (s *StateStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
