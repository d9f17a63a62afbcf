package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/testutil"
)

func TestDatasetRepo_EmptyDatabase(t *testing.T) {
	repo := NewSQLiteDatasetRepo(testutil.NewTestDB(t))

	ds, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Teams)
	assert.Empty(t, ds.Allocations)
}

func TestDatasetRepo_RoundTripsEveryCollection(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteDatasetRepo(testutil.NewTestDB(t))
	want := testutil.NewTestDataset()

	require.NoError(t, repo.ReplaceAll(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDatasetRepo_ReplaceAllDropsPreviousRows(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteDatasetRepo(testutil.NewTestDB(t))
	require.NoError(t, repo.ReplaceAll(ctx, testutil.NewTestDataset()))

	next := &domain.Dataset{Teams: []domain.Team{*testutil.NewTestTeam("Solo")}}
	require.NoError(t, repo.ReplaceAll(ctx, next))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Teams, 1)
	assert.Equal(t, "Solo", got.Teams[0].Name)
	assert.Empty(t, got.Projects)
	assert.Empty(t, got.Allocations)
	assert.Empty(t, got.Skills)
}

func TestDatasetRepo_AppendKeepsExistingRows(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteDatasetRepo(testutil.NewTestDB(t))
	require.NoError(t, repo.ReplaceAll(ctx, testutil.NewTestDataset()))

	extra := testutil.NewTestAllocation(testutil.TeamEdge, testutil.IterationQ1IT1, 25)
	require.NoError(t, repo.Append(ctx, &domain.Dataset{Allocations: []domain.Allocation{*extra}}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Allocations, 4)
	assert.Equal(t, extra.ID, got.Allocations[3].ID, "appended rows come last")
	assert.Len(t, got.Teams, 2)
}

func TestDatasetRepo_AppendRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteDatasetRepo(testutil.NewTestDB(t))
	ds := testutil.NewTestDataset()
	require.NoError(t, repo.ReplaceAll(ctx, ds))

	err := repo.Append(ctx, &domain.Dataset{Teams: ds.Teams[:1]})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting team")
}

func TestDatasetRepo_PreservesProjectDetails(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteDatasetRepo(testutil.NewTestDB(t))

	p := testutil.NewTestProject("Launch",
		testutil.WithBudget(50000),
		testutil.WithEndDate("2025-09-30"),
		testutil.WithMilestone("Alpha", "2025-03-01"),
		testutil.WithMilestone("GA", "2025-09-01"),
	)
	require.NoError(t, repo.Append(ctx, &domain.Dataset{Projects: []domain.Project{*p}}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Projects, 1)
	loaded := got.Projects[0]
	require.NotNil(t, loaded.Budget)
	assert.Equal(t, 50000.0, *loaded.Budget)
	assert.Equal(t, domain.MustDate("2025-09-30"), *loaded.EndDate)
	require.Len(t, loaded.Milestones, 2)
	assert.Equal(t, "Alpha", loaded.Milestones[0].Name)
	assert.Equal(t, "GA", loaded.Milestones[1].Name)
	assert.Nil(t, loaded.PriorityOrder)
}

func TestDatasetRepo_ReplaceAllRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	original := testutil.NewTestDataset()
	require.NoError(t, NewSQLiteDatasetRepo(database).ReplaceAll(ctx, original))

	boom := errors.New("disk full")
	uow := testutil.FailOnNthWrite(database, len(datasetTables)+3, boom)
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteDatasetRepo(tx).ReplaceAll(ctx, &domain.Dataset{
			Teams: []domain.Team{*testutil.NewTestTeam("A"), *testutil.NewTestTeam("B"), *testutil.NewTestTeam("C")},
		})
	})
	require.ErrorIs(t, err, boom)

	got, err := NewSQLiteDatasetRepo(database).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}
