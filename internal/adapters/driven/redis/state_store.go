// Package redis provides a Redis-backed StateStore for running the demo
// server with state that survives restarts.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.StateStore = (*StateStore)(nil)

const stateKey = "chat:state"

// StateStore implements driven.StateStore using Redis. The whole chat
// state lives under one key; there is a single conversation per
// deployment.
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a Redis-backed StateStore
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Load returns the stored state, or an empty state when none was saved
func (s *StateStore) Load(ctx context.Context) (*driven.ChatState, error) {
	data, err := s.client.Get(ctx, stateKey).Bytes()
	if err == redis.Nil {
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
	if err := s.client.Set(ctx, stateKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save chat state: %w", err)
	}
	return nil
}

// Clear removes the stored state
func (s *StateStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, stateKey).Err(); err != nil {
		return fmt.Errorf("failed to clear chat state: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection
func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
