package scenario

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewScenario_SnapshotIsIndependent(t *testing.T) {
	live := liveDataset()
	s := NewScenario("s1", "Cuts", "", &live, t0)

	live.Projects[0].Budget = domain.Float64Ptr(1)
	live.Teams[0].TargetSkills[0] = "changed"

	assert.Equal(t, 200000.0, *s.Data.Projects[0].Budget)
	assert.Equal(t, "go", s.Data.Teams[0].TargetSkills[0])
	assert.Equal(t, t0, s.CreatedDate)
}

func TestLifecycle_StartsLive(t *testing.T) {
	l := NewLifecycle()

	assert.Equal(t, StateLive, l.State())
	assert.Empty(t, l.ActiveID())
	assert.Nil(t, l.Working())
	assert.False(t, l.HasUnsavedChanges())
}

func TestLifecycle_OperationsRequireActiveScenario(t *testing.T) {
	l := NewLifecycle()

	_, err := l.Save(t0)
	assert.ErrorIs(t, err, ErrNoActiveScenario)
	assert.ErrorIs(t, l.Discard(), ErrNoActiveScenario)
	assert.ErrorIs(t, l.UpdateWorkingSet(func(*domain.Dataset) error { return nil }), ErrNoActiveScenario)
}

func TestLifecycle_SwitchEditSaveDiscard(t *testing.T) {
	live := liveDataset()
	s := NewScenario("s1", "Cuts", "", &live, t0)
	l := NewLifecycle()

	l.SwitchTo(s)
	require.Equal(t, StateScenarioActive, l.State())
	assert.Equal(t, "s1", l.ActiveID())
	assert.False(t, l.HasUnsavedChanges())

	require.NoError(t, l.UpdateWorkingSet(func(ds *domain.Dataset) error {
		ds.Teams[0].Capacity = 20
		return nil
	}))
	assert.True(t, l.HasUnsavedChanges())
	assert.Equal(t, 40.0, s.Data.Teams[0].Capacity, "caller's copy untouched")

	saved, err := l.Save(t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 20.0, saved.Data.Teams[0].Capacity)
	assert.Equal(t, t0.Add(time.Hour), saved.LastModified)
	assert.False(t, l.HasUnsavedChanges())
	assert.Equal(t, 40.0, live.Teams[0].Capacity, "saving a scenario never touches live")

	require.NoError(t, l.UpdateWorkingSet(func(ds *domain.Dataset) error {
		ds.Teams[0].Capacity = 5
		return nil
	}))
	require.NoError(t, l.Discard())
	assert.Equal(t, 20.0, l.Working().Teams[0].Capacity)
	assert.Equal(t, StateScenarioActive, l.State())
}

func TestLifecycle_FailedUpdateLeavesClean(t *testing.T) {
	live := liveDataset()
	l := NewLifecycle()
	l.SwitchTo(NewScenario("s1", "x", "", &live, t0))

	boom := errors.New("boom")
	err := l.UpdateWorkingSet(func(*domain.Dataset) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, l.HasUnsavedChanges())
}

func TestLifecycle_SwitchToLiveAndForget(t *testing.T) {
	live := liveDataset()
	l := NewLifecycle()
	l.SwitchTo(NewScenario("s1", "x", "", &live, t0))

	assert.False(t, l.Forget("other"))
	assert.Equal(t, StateScenarioActive, l.State())
	assert.True(t, l.Forget("s1"))
	assert.Equal(t, StateLive, l.State())

	l.SwitchTo(NewScenario("s2", "y", "", &live, t0))
	l.SwitchToLive()
	assert.Equal(t, StateLive, l.State())
	assert.Nil(t, l.Working())
}

func TestLifecycle_SnapshotRestoreRoundTrip(t *testing.T) {
	live := liveDataset()
	s := NewScenario("s1", "x", "", &live, t0)
	l := NewLifecycle()
	l.SwitchTo(s)
	require.NoError(t, l.UpdateWorkingSet(func(ds *domain.Dataset) error {
		ds.Projects = ds.Projects[:1]
		return nil
	}))

	ws := l.Snapshot(t0)
	restored := RestoreLifecycle(&s, &ws)

	assert.Equal(t, "s1", restored.ActiveID())
	assert.True(t, restored.HasUnsavedChanges())
	assert.Len(t, restored.Working().Projects, 1)
}

func TestRestoreLifecycle_MismatchedWorkspaceIsLive(t *testing.T) {
	live := liveDataset()
	s := NewScenario("s1", "x", "", &live, t0)

	assert.Equal(t, StateLive, RestoreLifecycle(nil, &Workspace{ActiveScenarioID: "s1"}).State())
	assert.Equal(t, StateLive, RestoreLifecycle(&s, &Workspace{ActiveScenarioID: "s2"}).State())

	noWorking := RestoreLifecycle(&s, &Workspace{ActiveScenarioID: "s1", Dirty: true})
	assert.False(t, noWorking.HasUnsavedChanges())
	assert.Len(t, noWorking.Working().Projects, 2)
}

func TestExpired(t *testing.T) {
	s := &domain.Scenario{LastModified: t0}

	assert.False(t, Expired(s, 30*24*time.Hour, t0.Add(29*24*time.Hour)))
	assert.True(t, Expired(s, 30*24*time.Hour, t0.Add(31*24*time.Hour)))
	assert.False(t, Expired(s, 0, t0.Add(1000*24*time.Hour)))
}
