package interfaces

import "errors"

var (
	// ErrEmptyCorpus is returned when the retrieval index has no documents.
	// Callers treat this as "retrieval unavailable", not as a crash.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrUnsupportedFormat is returned by the export serializer for format
	// values outside json/csv/html. Wrap it with the requested value.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrEmbeddingsNotCached is returned by embedding storage when no cache
	// entry exists for the requested corpus hash.
	ErrEmbeddingsNotCached = errors.New("embeddings not cached")
)
