package status

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

// State is the lifecycle state of the service.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Snapshot is a point-in-time copy of the service status.
type Snapshot struct {
	State     State          `json:"state"`
	Message   string         `json:"message,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Service tracks the application lifecycle state for the status and health
// endpoints. Handlers consult it rather than reading ambient globals.
type Service struct {
	mu       sync.RWMutex
	state    State
	message  string
	metadata map[string]any
	updated  time.Time
	logger   arbor.ILogger
}

// NewService creates a status service in the uninitialized state
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		state:   StateUninitialized,
		updated: time.Now(),
		logger:  logger,
	}
}

// SetState transitions the service to a new state with an optional message
// and metadata (indexed document count, configured strategy, and so on).
func (s *Service) SetState(state State, message string, metadata map[string]any) {
	s.mu.Lock()
	s.state = state
	s.message = message
	s.metadata = metadata
	s.updated = time.Now()
	s.mu.Unlock()

	s.logger.Info().
		Str("state", string(state)).
		Str("message", message).
		Msg("Service state changed")
}

// SetMetadata merges the given keys into the current metadata without
// changing state.
func (s *Service) SetMetadata(updates map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metadata == nil {
		s.metadata = map[string]any{}
	}
	for k, v := range updates {
		s.metadata[k] = v
	}
	s.updated = time.Now()
}

// State returns the current lifecycle state
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsReady reports whether the service can handle report requests
func (s *Service) IsReady() bool {
	return s.State() == StateReady
}

// Snapshot returns a copy of the full status for API responses
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metadata := make(map[string]any, len(s.metadata))
	for k, v := range s.metadata {
		metadata[k] = v
	}

	return Snapshot{
		State:     s.state,
		Message:   s.message,
		Metadata:  metadata,
		UpdatedAt: s.updated,
	}
}
