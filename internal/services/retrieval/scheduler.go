package retrieval

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

// DocumentLoader supplies the corpus documents for scheduled reindex runs.
type DocumentLoader interface {
	Load() ([]models.Document, error)
}

// Scheduler periodically reloads the document directory and rebuilds the
// retrieval index, picking up documents added or edited while the service
// runs.
type Scheduler struct {
	cron      *cron.Cron
	loader    DocumentLoader
	retrieval interfaces.RetrievalService
	schedule  string
	logger    arbor.ILogger
}

// NewScheduler creates a reindex scheduler with the given cron schedule
// (six-field, with seconds).
func NewScheduler(loader DocumentLoader, retrieval interfaces.RetrievalService, schedule string, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		loader:    loader,
		retrieval: retrieval,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start registers the reindex job and starts the cron runner
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.runReindex)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("Reindex scheduler started")
	return nil
}

// Stop stops the cron runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Timed out waiting for reindex job to finish")
	}
	s.logger.Info().Msg("Reindex scheduler stopped")
}

func (s *Scheduler) runReindex() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	docs, err := s.loader.Load()
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled reindex failed to load documents")
		return
	}

	if err := s.retrieval.Reindex(ctx, docs); err != nil {
		// The previous index stays active on failure.
		s.logger.Error().Err(err).Msg("Scheduled reindex failed")
		return
	}

	s.logger.Info().Int("documents", len(docs)).Msg("Scheduled reindex completed")
}
