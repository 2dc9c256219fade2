// Package store implements the persistence boundary for benchmark runs
// and evaluation records. Two implementations share the core.EvalStore
// contract: an in-memory store for tests and scripted runs, and a
// SQLite store for real deployments.
package store

import "errors"

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")
