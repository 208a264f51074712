// Package version exposes the build version of the library.
//
// Persisted state snapshots are stamped with the short version string so a
// snapshot can be traced back to the build that produced it.
package version
