package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/models"
)

// LoaderService reads regulatory source documents from a directory on disk.
// Each readable file becomes one corpus document; subdirectories and
// unreadable files are skipped with a warning rather than failing the load.
type LoaderService struct {
	dir    string
	logger arbor.ILogger
}

// NewLoaderService creates a loader rooted at the given directory
func NewLoaderService(dir string, logger arbor.ILogger) *LoaderService {
	return &LoaderService{
		dir:    dir,
		logger: logger,
	}
}

// Dir returns the directory the loader reads from
func (s *LoaderService) Dir() string {
	return s.dir
}

// Load reads all documents from the configured directory, sorted by
// filename so corpus order (and therefore the corpus hash) is stable
// across runs.
func (s *LoaderService) Load() ([]models.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			s.logger.Debug().Str("name", entry.Name()).Msg("Skipping subdirectory in documents folder")
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]models.Document, 0, len(names))
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", path).Msg("Skipping unreadable document")
			continue
		}

		text := strings.TrimSpace(string(data))
		if text == "" {
			s.logger.Warn().Str("file", path).Msg("Skipping empty document")
			continue
		}

		docs = append(docs, models.Document{
			Source: name,
			Text:   text,
		})
	}

	s.logger.Info().
		Str("dir", s.dir).
		Int("documents", len(docs)).
		Msg("Loaded regulatory documents")

	return docs, nil
}
