// Package archive persists configure reports so they can be fetched again
// by ID.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and the standalone server
//   - [FileStore]: one JSON file per report, for the CLI
//   - [MongoStore]: a MongoDB collection, for multi-instance deployments
//
// Reports are stored as [graph.Report] values; the struct's bson tags are
// the MongoDB schema.
package archive

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/filtergraph/pkg/graph"
)

// ErrNotFound is returned when no report has the requested ID.
var ErrNotFound = errors.New("report not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Store is the interface for report storage backends.
type Store interface {
	// Put stores r, replacing any report with the same ID. An empty ID is
	// filled with [NewID] before storing.
	Put(ctx context.Context, r *graph.Report) error

	// Get returns the report with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (graph.Report, error)

	// List returns up to limit reports, newest first.
	List(ctx context.Context, limit int) ([]graph.Report, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh random report ID.
func NewID() string {
	return uuid.NewString()
}

func ensureID(r *graph.Report) {
	if r.ID == "" {
		r.ID = NewID()
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// newestFirst sorts by CreatedAt descending, then ID for a stable order.
func newestFirst(reports []graph.Report, limit int) []graph.Report {
	slices.SortFunc(reports, func(a, b graph.Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}
	return reports
}
