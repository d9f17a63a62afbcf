package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/scenario"
	"github.com/alexanderramin/capplan/internal/testutil"
)

func newScenario(id, name string, modified time.Time) *domain.Scenario {
	return &domain.Scenario{
		ID:           id,
		Name:         name,
		Description:  "what if",
		CreatedDate:  modified.Add(-time.Hour),
		LastModified: modified,
		Data:         *testutil.NewTestDataset(),
	}
}

func TestScenarioRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))
	now := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)

	s := newScenario("s1", "Lean year", now)
	s.TemplateName = "budget-reduction"
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestScenarioRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScenarioRepo_ListNewestFirstWithoutData(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newScenario("old", "Old", base)))
	require.NoError(t, repo.Create(ctx, newScenario("new", "New", base.Add(48*time.Hour))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
	assert.Empty(t, list[0].Data.Teams)
	assert.Equal(t, base.Add(48*time.Hour), list[0].LastModified)
}

func TestScenarioRepo_UpdateReplacesData(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	s := newScenario("s1", "Lean year", now)
	require.NoError(t, repo.Create(ctx, s))

	s.Name = "Leaner year"
	s.Data.Teams[0].Capacity = 20
	s.LastModified = now.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Leaner year", got.Name)
	assert.Equal(t, 20.0, got.Data.Teams[0].Capacity)
	assert.Equal(t, now.Add(time.Hour), got.LastModified)
	assert.Equal(t, s.CreatedDate, got.CreatedDate)
}

func TestScenarioRepo_UpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))

	assert.ErrorIs(t, repo.Update(ctx, newScenario("ghost", "Ghost", time.Now())), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), ErrNotFound)
}

func TestScenarioRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))
	require.NoError(t, repo.Create(ctx, newScenario("s1", "Lean year", time.Now().UTC())))

	require.NoError(t, repo.Delete(ctx, "s1"))

	_, err := repo.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspaceRepo_SeededLive(t *testing.T) {
	repo := NewSQLiteWorkspaceRepo(testutil.NewTestDB(t))

	ws, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws.ActiveScenarioID)
	assert.Nil(t, ws.Working)
	assert.False(t, ws.Dirty)
}

func TestWorkspaceRepo_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteWorkspaceRepo(testutil.NewTestDB(t))
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	working := testutil.NewTestDataset()
	working.Teams[0].Capacity = 32
	require.NoError(t, repo.Save(ctx, &scenario.Workspace{
		ActiveScenarioID: "s1",
		Working:          working,
		Dirty:            true,
		UpdatedAt:        now,
	}))

	ws, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", ws.ActiveScenarioID)
	assert.True(t, ws.Dirty)
	assert.Equal(t, now, ws.UpdatedAt)
	require.NotNil(t, ws.Working)
	assert.Equal(t, working, ws.Working)

	// Back to live clears the working set.
	require.NoError(t, repo.Save(ctx, &scenario.Workspace{UpdatedAt: now}))
	ws, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, ws.ActiveScenarioID)
	assert.Nil(t, ws.Working)
}
