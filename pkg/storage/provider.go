package storage

import "github.com/BlackVectorOps/faultseed/pkg/models"

// RunStore defines the contract for run-history persistence. The CLI stays
// agnostic of the backend: a JSON file for portable single-user setups, a
// Pebble database when runs pile up in CI.
type RunStore interface {
	// AddRun persists one record. An empty ID is assigned by the store and
	// propagated back through the pointer so callers can report it.
	AddRun(rec *models.RunRecord) error
	// ListRuns returns records newest first, optionally filtered by target
	// function name. A non-positive limit means no limit.
	ListRuns(targetFunc string, limit int) ([]models.RunRecord, error)
	Close() error
}
