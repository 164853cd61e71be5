package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/filtergraph/pkg/graph"
)

// FileStore is a file-based report store for CLI use.
// Reports are stored as indented JSON files named <id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based report store.
// If baseDir is empty, defaults to ~/.config/filtergraph/reports/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "filtergraph", "reports")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) reportPath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid report id %q", id)
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Put(ctx context.Context, r *graph.Report) error {
	ensureID(r)
	path, err := s.reportPath(r.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := graph.WriteReportFile(*r, path); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (graph.Report, error) {
	path, err := s.reportPath(id)
	if err != nil {
		return graph.Report{}, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, err := graph.ReadReportFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return graph.Report{}, ErrNotFound
	}
	if err != nil {
		return graph.Report{}, fmt.Errorf("read report %s: %w", id, err)
	}
	return r, nil
}

func (s *FileStore) List(ctx context.Context, limit int) ([]graph.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read report dir: %w", err)
	}

	var out []graph.Report
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		r, err := graph.ReadReportFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return newestFirst(out, normalizeLimit(limit)), nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.reportPath(id)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove report file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for report files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
