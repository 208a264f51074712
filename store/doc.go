// Package store provides persistence for fitted stage state.
//
// Persistence is explicit: callers inject a Store and choose the key under
// which a stage's state lives. There is no implicit type-name-derived path;
// two instances of the same stage kind can persist side by side under
// different keys.
//
// State is wrapped in a Snapshot envelope carrying a schema version, a unique
// snapshot id and a creation timestamp, so loads can reject incompatible
// encodings instead of silently misreading them.
//
// Local writes one <key>.json file per key under a base directory. Writes are
// last-writer-wins with no atomic rename; concurrent fits from two processes
// against the same key race, which matches the fit-once usage model.
package store
