package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestLifecycleTransitions(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	assert.Equal(t, StateUninitialized, svc.State())
	assert.False(t, svc.IsReady())

	svc.SetState(StateInitializing, "loading corpus", nil)
	assert.Equal(t, StateInitializing, svc.State())
	assert.False(t, svc.IsReady())

	svc.SetState(StateReady, "", map[string]any{"documents": 12})
	assert.True(t, svc.IsReady())

	snapshot := svc.Snapshot()
	assert.Equal(t, StateReady, snapshot.State)
	assert.Equal(t, 12, snapshot.Metadata["documents"])
	assert.False(t, snapshot.UpdatedAt.IsZero())
}

func TestSetMetadataMerges(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	svc.SetState(StateReady, "", map[string]any{"documents": 3})

	svc.SetMetadata(map[string]any{"strategy": "pattern"})

	snapshot := svc.Snapshot()
	assert.Equal(t, 3, snapshot.Metadata["documents"])
	assert.Equal(t, "pattern", snapshot.Metadata["strategy"])
}

func TestSnapshotIsACopy(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	svc.SetState(StateReady, "", map[string]any{"documents": 3})

	snapshot := svc.Snapshot()
	snapshot.Metadata["documents"] = 99

	assert.Equal(t, 3, svc.Snapshot().Metadata["documents"])
}
