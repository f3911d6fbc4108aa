package rawjson

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/bioindex/core"
)

// Loader reads raw scraped records from JSON files on disk.
type Loader struct {
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a new loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads a single raw record from a JSON file.
func (l *Loader) LoadFile(path string) (core.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw core.RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// LoadDir reads every *.json file in dir as a raw record, in filename order.
// Files that fail to parse are skipped with a logged warning; an empty
// directory yields an empty slice.
func (l *Loader) LoadDir(dir string) ([]core.RawRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	records := make([]core.RawRecord, 0, len(names))
	for _, name := range names {
		raw, err := l.LoadFile(filepath.Join(dir, name))
		if err != nil {
			l.logger.Warn("skipping unreadable raw record", "file", name, "err", err)
			continue
		}
		records = append(records, raw)
	}

	l.logger.Info("loaded raw records", "dir", dir, "count", len(records))
	return records, nil
}
