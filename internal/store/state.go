package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// State is an in-memory value mirrored to a Backend key. Every Set writes
// the whole value.
type State[T any] struct {
	backend Backend
	key     string
	value   T
}

// Load reads key once and returns a State holding the stored value. A
// missing, unreadable or malformed value yields def.
func Load[T any](backend Backend, key string, def T) *State[T] {
	s := &State[T]{backend: backend, key: key, value: def}

	data, ok, err := backend.Get(key)
	switch {
	case err != nil:
		slog.Warn("stored value unreadable, using default", "key", key, "err", err)
	case !ok:
	default:
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			slog.Warn("stored value malformed, using default", "key", key, "err", err)
			break
		}
		s.value = v
	}
	return s
}

// Get returns the current value.
func (s *State[T]) Get() T {
	return s.value
}

// Set replaces the value and persists it. The in-memory value is updated
// even when the write fails.
func (s *State[T]) Set(v T) error {
	s.value = v
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.backend.Put(s.key, data); err != nil {
		return err
	}
	slog.Debug("persisted", "key", s.key, "bytes", len(data))
	return nil
}
