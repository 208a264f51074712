package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/prepkit/errors"
)

// Local implements Store using one <key>.json file per key under a base
// directory.
type Local struct {
	basePath string
}

// NewLocal creates a local filesystem store rooted at basePath, creating the
// directory if needed.
func NewLocal(basePath string) (*Local, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errors.StoreUnavailable(err).WithDetail("base_path", basePath)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, errors.StoreUnavailable(err).WithDetail("base_path", basePath)
	}
	return &Local{basePath: abs}, nil
}

// BasePath returns the resolved root directory of the store.
func (s *Local) BasePath() string { return s.basePath }

// Save writes data to <basePath>/<key>.json.
func (s *Local) Save(_ context.Context, key string, data []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return errors.StoreUnavailable(err).WithDetail("key", key)
	}
	return nil
}

// Load reads the data stored under key.
func (s *Local) Load(_ context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.StateMissing(key)
		}
		return nil, errors.StoreUnavailable(err).WithDetail("key", key)
	}
	return data, nil
}

// Exists checks whether a file exists for key.
func (s *Local) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.StoreUnavailable(err).WithDetail("key", key)
	}
	return true, nil
}

// Delete removes the file for key. Missing keys are not an error.
func (s *Local) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.StoreUnavailable(err).WithDetail("key", key)
	}
	return nil
}

// resolve maps a key to its file path, rejecting keys that would escape the
// base directory.
func (s *Local) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.MissingField("key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", errors.InvalidInput("key", "key must not contain path separators")
	}
	return filepath.Join(s.basePath, key+".json"), nil
}
