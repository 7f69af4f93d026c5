package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

// displayTextLimit caps the Text field of retrieved matches; FullText always
// carries the complete document for downstream extraction.
const displayTextLimit = 1000

// indexedCorpus is an immutable snapshot of the indexed documents and their
// embedding vectors. Searches read a snapshot pointer, so an in-flight search
// always sees a consistent corpus even while Reindex builds a replacement.
type indexedCorpus struct {
	sources []string
	texts   []string
	vectors [][]float32
	dim     int
	hash    string
}

// Service implements the RetrievalService interface with an in-memory flat
// index over embedding vectors. Similarity is squared Euclidean distance
// (lower is more similar); with a corpus of a few hundred regulatory
// paragraphs an exhaustive scan outperforms any approximate structure.
type Service struct {
	llm    interfaces.LLMService
	cache  interfaces.EmbeddingStorage
	logger arbor.ILogger

	mu     sync.RWMutex
	corpus *indexedCorpus
}

// NewService creates a retrieval service. cache may be nil when embedding
// persistence is disabled; every reindex then re-embeds the full corpus.
func NewService(llm interfaces.LLMService, cache interfaces.EmbeddingStorage, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llm,
		cache:  cache,
		logger: logger,
	}
}

// corpusHash returns a stable content hash over the document set. Any change
// to a source name, a text, or the document order produces a different hash,
// so cached vectors can never be served for a corpus they were not built
// from.
func corpusHash(docs []models.Document) string {
	h := sha256.New()
	for _, doc := range docs {
		h.Write([]byte(doc.Source))
		h.Write([]byte{0x00})
		h.Write([]byte(doc.Text))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Reindex embeds the given documents and atomically swaps them in as the
// active corpus. On any failure the previous corpus stays active.
func (s *Service) Reindex(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return interfaces.ErrEmptyCorpus
	}

	startTime := time.Now()
	hash := corpusHash(docs)

	vectors, cached, err := s.loadOrEmbed(ctx, docs, hash)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	corpus := &indexedCorpus{
		sources: make([]string, len(docs)),
		texts:   make([]string, len(docs)),
		vectors: vectors,
		dim:     len(vectors[0]),
		hash:    hash,
	}
	for i, doc := range docs {
		corpus.sources[i] = doc.Source
		corpus.texts[i] = doc.Text
	}

	s.mu.Lock()
	s.corpus = corpus
	s.mu.Unlock()

	s.logger.Info().
		Int("documents", len(docs)).
		Int("dimension", corpus.dim).
		Bool("cache_hit", cached).
		Dur("duration", time.Since(startTime)).
		Msg("Corpus index rebuilt")

	return nil
}

// loadOrEmbed returns the embedding vectors for the corpus, from the cache
// when a matching entry exists, otherwise by embedding each document.
func (s *Service) loadOrEmbed(ctx context.Context, docs []models.Document, hash string) ([][]float32, bool, error) {
	if s.cache != nil {
		entry, err := s.cache.Get(ctx, hash)
		if err == nil && len(entry.Vectors) == len(docs) {
			return entry.Vectors, true, nil
		}
		if err != nil && err != interfaces.ErrEmbeddingsNotCached {
			s.logger.Warn().Err(err).Msg("Embedding cache lookup failed, re-embedding corpus")
		}
	}

	vectors := make([][]float32, len(docs))
	for i, doc := range docs {
		vec, err := s.llm.Embed(ctx, doc.Text)
		if err != nil {
			return nil, false, fmt.Errorf("failed to embed document %s: %w", doc.Source, err)
		}
		vectors[i] = vec
	}

	if s.cache != nil {
		entry := &interfaces.CachedEmbeddings{
			CorpusHash: hash,
			Dimension:  len(vectors[0]),
			Vectors:    vectors,
		}
		if err := s.cache.Put(ctx, entry); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache corpus embeddings")
		}
	}

	return vectors, false, nil
}

// Search embeds the query and returns the k nearest documents ordered by
// ascending distance. k is clamped to [1, corpus size].
func (s *Service) Search(ctx context.Context, query string, k int) ([]models.RetrievedMatch, error) {
	s.mu.RLock()
	corpus := s.corpus
	s.mu.RUnlock()

	if corpus == nil || len(corpus.vectors) == 0 {
		return nil, interfaces.ErrEmptyCorpus
	}

	if k < 1 {
		k = 1
	}
	if k > len(corpus.vectors) {
		k = len(corpus.vectors)
	}

	queryVec, err := s.llm.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVec) != corpus.dim {
		return nil, fmt.Errorf("query embedding dimension mismatch: corpus is %d, query is %d", corpus.dim, len(queryVec))
	}

	type scored struct {
		idx  int
		dist float64
	}
	candidates := make([]scored, len(corpus.vectors))
	for i, vec := range corpus.vectors {
		var dist float64
		for j := range vec {
			d := float64(queryVec[j]) - float64(vec[j])
			dist += d * d
		}
		candidates[i] = scored{idx: i, dist: dist}
	}

	// Ties break on document index so results are deterministic.
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].dist != candidates[b].dist {
			return candidates[a].dist < candidates[b].dist
		}
		return candidates[a].idx < candidates[b].idx
	})

	matches := make([]models.RetrievedMatch, k)
	for i := 0; i < k; i++ {
		c := candidates[i]
		text := corpus.texts[c.idx]
		display := text
		if len(display) > displayTextLimit {
			display = display[:displayTextLimit]
		}
		matches[i] = models.RetrievedMatch{
			Source:   corpus.sources[c.idx],
			Text:     display,
			FullText: text,
			Score:    c.dist,
		}
	}

	s.logger.Debug().
		Int("k", k).
		Int("corpus_size", len(corpus.vectors)).
		Msg("Retrieval search completed")

	return matches, nil
}

// Size returns the number of documents in the active corpus
func (s *Service) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corpus == nil {
		return 0
	}
	return len(s.corpus.vectors)
}
