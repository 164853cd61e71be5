package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
)

// FileCache keeps one JSON file per entry below a directory, grouped by key
// namespace: "report:<hash>" lives at <dir>/report/<hash[:2]>/<hash[2:]>.json
// and a scoped key such as "staging:report:<hash>" under <dir>/staging-report.
//
// Writes go through a temporary file and a rename, so concurrent CLI runs
// never observe a half-written report.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fgerr.Wrap(fgerr.ErrCodeInternal, err, "create cache dir %s", dir)
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk form of a cached value. Key guards against two
// keys sharing a file name.
type fileEntry struct {
	Key       string    `json:"key"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Data      []byte    `json:"data"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the entry stored under key. Expired, corrupt or foreign
// entries are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	entry, err := readEntry(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.Key != key || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores data under key. A ttl of zero keeps the entry until it is
// deleted or the cache is cleared.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	entry := fileEntry{Key: key, StoredAt: now, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fgerr.Wrap(fgerr.ErrCodeInternal, err, "encode cache entry %s", key)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fgerr.Wrap(fgerr.ErrCodeInternal, err, "create cache dir for %s", key)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return fgerr.Wrap(fgerr.ErrCodeInternal, err, "write cache entry %s", key)
	}
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fgerr.Wrap(fgerr.ErrCodeInternal, err, "write cache entry %s", key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fgerr.Wrap(fgerr.ErrCodeInternal, err, "write cache entry %s", key)
	}
	return nil
}

// Delete removes key. A missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fgerr.Wrap(fgerr.ErrCodeInternal, err, "delete cache entry %s", key)
	}
	return nil
}

// Prune removes expired and unreadable entries and returns how many were
// removed. Live entries are kept.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	now := time.Now()
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		entry, rerr := readEntry(path)
		if rerr == nil && !entry.expired(now) {
			return nil
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fgerr.Wrap(fgerr.ErrCodeInternal, err, "prune cache %s", c.dir)
	}
	return removed, nil
}

// Close is a no-op; entries live on disk.
func (c *FileCache) Close() error {
	return nil
}

// path maps key to its entry file. The namespace is everything before the
// last colon; the remainder is hashed so arbitrary keys stay file-safe.
func (c *FileCache) path(key string) string {
	ns := "default"
	if i := strings.LastIndexByte(key, ':'); i > 0 {
		ns = strings.NewReplacer(":", "-", "/", "-", string(filepath.Separator), "-").Replace(key[:i])
	}
	h := Hash([]byte(key))
	return filepath.Join(c.dir, ns, h[:2], h[2:]+".json")
}

func readEntry(path string) (fileEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileEntry{}, err
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fileEntry{}, err
	}
	return entry, nil
}

var _ Cache = (*FileCache)(nil)
