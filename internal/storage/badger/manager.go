package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
)

// Manager wires the Badger connection and the storages built on it.
type Manager struct {
	db               *BadgerDB
	embeddingStorage interfaces.EmbeddingStorage
	logger           arbor.ILogger
}

// NewManager opens the database and initializes all storages
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize badger: %w", err)
	}

	return &Manager{
		db:               db,
		embeddingStorage: NewEmbeddingStorage(db, logger),
		logger:           logger,
	}, nil
}

// EmbeddingStorage returns the embedding cache storage
func (m *Manager) EmbeddingStorage() interfaces.EmbeddingStorage {
	return m.embeddingStorage
}

// Close closes the underlying database
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing storage manager")
	return m.db.Close()
}
