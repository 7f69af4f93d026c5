package interfaces

import (
	"context"

	"github.com/ternarybob/refero/internal/models"
)

// RetrievalService indexes a document corpus and answers similarity queries.
type RetrievalService interface {
	// Reindex rebuilds the index wholesale from the given documents. The
	// rebuild is exclusive; searches in flight keep reading the pre-swap
	// snapshot. Returns ErrEmptyCorpus when docs is empty.
	Reindex(ctx context.Context, docs []models.Document) error

	// Search returns the k nearest documents to the query in ascending
	// distance order. k is clamped to [1, corpus size]. Returns
	// ErrEmptyCorpus when nothing has been indexed.
	Search(ctx context.Context, query string, k int) ([]models.RetrievedMatch, error)

	// Size reports the number of indexed documents.
	Size() int
}
