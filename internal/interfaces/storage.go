package interfaces

import (
	"context"
	"time"
)

// CachedEmbeddings is one embedding cache entry: the vectors computed for a
// corpus, keyed by a hash of the corpus contents so that any corpus change
// invalidates the entry.
type CachedEmbeddings struct {
	CorpusHash string `badgerhold:"key"`
	Model      string
	Dimension  int
	Vectors    [][]float32
	CreatedAt  time.Time
}

// EmbeddingStorage persists corpus embeddings across process restarts so a
// restart does not re-embed an unchanged corpus.
type EmbeddingStorage interface {
	// Get returns the cached entry for the corpus hash, or
	// ErrEmbeddingsNotCached.
	Get(ctx context.Context, corpusHash string) (*CachedEmbeddings, error)

	// Put inserts or replaces the entry for its corpus hash.
	Put(ctx context.Context, entry *CachedEmbeddings) error

	// Purge removes all cached entries.
	Purge(ctx context.Context) error
}

// StorageManager provides access to all storage backends.
type StorageManager interface {
	EmbeddingStorage() EmbeddingStorage
	Close() error
}
