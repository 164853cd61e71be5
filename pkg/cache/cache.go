// Package cache stores configured-graph reports keyed by the description
// that produced them.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the API server
//
// Keys come from a [Keyer], so the same description and options map to the
// same entry in every backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for configure reports.
type Keyer interface {
	// ReportKey is the key of the report produced by configuring the
	// description whose content hash is descHash.
	ReportKey(descHash string, opts ReportKeyOpts) string
}

// ReportKeyOpts are the settings besides the description that change the
// outcome of a configure run.
type ReportKeyOpts struct {
	ScaleOptions string   `json:"scale_options,omitempty"`
	MaxNodes     int      `json:"max_nodes,omitempty"`
	Filters      []string `json:"filters,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<sha256>" over the description hash and opts.
// Filters are hashed in the order given; callers pass the registry's sorted
// names.
func (DefaultKeyer) ReportKey(descHash string, opts ReportKeyOpts) string {
	data, _ := json.Marshal(struct {
		Desc string        `json:"desc"`
		Opts ReportKeyOpts `json:"opts"`
	}{descHash, opts})
	return reportNamespace + ":" + Hash(data)
}

// reportNamespace prefixes every report key.
const reportNamespace = "report"

// Hash returns the hex SHA-256 digest of data. Description hashes and cache
// keys are built from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache discards every report, so each configure run recomputes.
// The CLI uses it for --no-cache and the runner when no cache is given.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// TTLReport is how long a configure report stays cached. Reports depend only
// on the description and options, so the bound exists to reclaim space.
const TTLReport = 7 * 24 * time.Hour
