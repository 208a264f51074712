package store

import (
	"context"
	"sync"

	"github.com/kbukum/prepkit/errors"
)

// Memory implements Store with an in-process map. Useful for tests and for
// fit/transform cycles that never need to outlive the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Save stores a copy of data under key.
func (s *Memory) Save(_ context.Context, key string, data []byte) error {
	if key == "" {
		return errors.MissingField("key")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.mu.Lock()
	s.data[key] = buf
	s.mu.Unlock()
	return nil
}

// Load returns a copy of the data stored under key.
func (s *Memory) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	buf, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.StateMissing(key)
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// Exists checks whether key is present.
func (s *Memory) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.data[key]
	s.mu.RUnlock()
	return ok, nil
}

// Delete removes key. Missing keys are not an error.
func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
