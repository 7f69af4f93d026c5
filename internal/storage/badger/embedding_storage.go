package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// EmbeddingStorage implements the EmbeddingStorage interface for Badger.
// Entries are keyed by the corpus content hash, so a corpus change never
// serves stale vectors; it simply misses and triggers re-embedding.
type EmbeddingStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEmbeddingStorage creates a new EmbeddingStorage instance
func NewEmbeddingStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EmbeddingStorage {
	return &EmbeddingStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the cached embeddings for a corpus hash
func (s *EmbeddingStorage) Get(ctx context.Context, corpusHash string) (*interfaces.CachedEmbeddings, error) {
	var entry interfaces.CachedEmbeddings
	err := s.db.Store().Get(corpusHash, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrEmbeddingsNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached embeddings: %w", err)
	}

	s.logger.Debug().
		Str("corpus_hash", corpusHash).
		Int("vectors", len(entry.Vectors)).
		Msg("Embedding cache hit")

	return &entry, nil
}

// Put inserts or replaces the cache entry for its corpus hash
func (s *EmbeddingStorage) Put(ctx context.Context, entry *interfaces.CachedEmbeddings) error {
	if entry.CorpusHash == "" {
		return fmt.Errorf("cache entry has empty corpus hash")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(entry.CorpusHash, entry); err != nil {
		return fmt.Errorf("failed to store embeddings: %w", err)
	}

	s.logger.Debug().
		Str("corpus_hash", entry.CorpusHash).
		Int("vectors", len(entry.Vectors)).
		Int("dimension", entry.Dimension).
		Msg("Embeddings cached")

	return nil
}

// Purge removes all cached embedding entries
func (s *EmbeddingStorage) Purge(ctx context.Context) error {
	var entries []interfaces.CachedEmbeddings
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return fmt.Errorf("failed to list cached embeddings for purge: %w", err)
	}

	for _, entry := range entries {
		if err := s.db.Store().Delete(entry.CorpusHash, &interfaces.CachedEmbeddings{}); err != nil {
			s.logger.Warn().Str("corpus_hash", entry.CorpusHash).Err(err).Msg("Failed to delete cache entry during purge")
		}
	}

	s.logger.Info().Int("count", len(entries)).Msg("Purged embedding cache")
	return nil
}
