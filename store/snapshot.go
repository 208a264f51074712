package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/prepkit/errors"
	"github.com/kbukum/prepkit/version"
)

// Snapshot is the envelope around persisted stage state. The schema version
// belongs to the stage that owns the state; loads reject mismatches instead
// of guessing at field layouts.
type Snapshot struct {
	Key           string          `json:"key"`
	SchemaVersion int             `json:"schema_version"`
	ID            string          `json:"id"`
	Producer      string          `json:"producer"`
	CreatedAt     time.Time       `json:"created_at"`
	State         json.RawMessage `json:"state"`
}

// EncodeSnapshot wraps a stage state value in a Snapshot envelope and
// serializes it.
func EncodeSnapshot(key string, schemaVersion int, state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Serialization("encode", err).WithDetail("key", key)
	}
	snap := Snapshot{
		Key:           key,
		SchemaVersion: schemaVersion,
		ID:            uuid.NewString(),
		Producer:      version.Short(),
		CreatedAt:     time.Now().UTC(),
		State:         raw,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.Serialization("encode", err).WithDetail("key", key)
	}
	return data, nil
}

// DecodeSnapshot parses a Snapshot envelope, verifies its schema version and
// unmarshals the inner state into out.
func DecodeSnapshot(data []byte, key string, schemaVersion int, out any) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.Serialization("decode", err).WithDetail("key", key)
	}
	if snap.SchemaVersion != schemaVersion {
		return errors.StateVersion(key, schemaVersion, snap.SchemaVersion)
	}
	if err := json.Unmarshal(snap.State, out); err != nil {
		return errors.Serialization("decode", err).WithDetail("key", key)
	}
	return nil
}
