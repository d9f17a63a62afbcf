package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/testutil"
)

const serviceAllocationsCSV = `Team Name,Cycle,Percentage,Epic Name,Run Work Category
Edge,Q1 IT1,40,Invoices,
Ghost,Q1 IT1,10,,Support
core,Q1 IT2,25,,Support
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newImportEnv(t *testing.T, chunkSize int) (*serviceEnv, ImportService) {
	t.Helper()
	env := newServiceEnv(t)
	return env, NewImportService(env.svc, chunkSize, env.observer)
}

func TestImportFile_PartialIntoLive(t *testing.T) {
	env, svc := newImportEnv(t, 0)
	path := writeCSV(t, serviceAllocationsCSV)

	res, err := svc.ImportFile(context.Background(), importer.KindAllocations, path, importer.Options{AllowPartialImports: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)

	live := env.loadLive(t)
	require.Len(t, live.Allocations, 5)
	assert.Equal(t, testutil.TeamEdge, live.Allocations[3].TeamID)
	assert.Equal(t, testutil.EpicInvoices, live.Allocations[3].EpicID)
	assert.Equal(t, testutil.IterationQ1IT2, live.Allocations[4].CycleID)
}

func TestImportFile_AbortWritesNothing(t *testing.T) {
	env, svc := newImportEnv(t, 0)
	path := writeCSV(t, serviceAllocationsCSV)

	res, err := svc.ImportFile(context.Background(), importer.KindAllocations, path, importer.Options{})
	require.Error(t, err)
	assert.Nil(t, res)

	var ie *importer.ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 3, ie.Row)
	assert.Equal(t, *testutil.NewTestDataset(), *env.loadLive(t))
}

func TestImportFile_ActiveScenarioKeepsLiveUntouched(t *testing.T) {
	env, svc := newImportEnv(t, 0)
	ctx := context.Background()

	sc, err := env.svc.CreateScenario(ctx, "More allocations", "")
	require.NoError(t, err)
	require.NoError(t, env.svc.SwitchToScenario(ctx, sc.ID))

	_, err = svc.ImportFile(ctx, importer.KindAllocations, writeCSV(t, serviceAllocationsCSV), importer.Options{AllowPartialImports: true})
	require.NoError(t, err)

	working, err := env.svc.WorkingSet(ctx)
	require.NoError(t, err)
	assert.Len(t, working.Allocations, 5)
	assert.Len(t, env.loadLive(t).Allocations, 3)

	status, err := env.svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.HasUnsavedChanges)
}

func TestImportFile_UsesConfiguredChunkSize(t *testing.T) {
	_, svc := newImportEnv(t, 2)

	var calls [][2]int
	opts := importer.Options{
		AllowPartialImports: true,
		OnProgress: func(processed, total int) {
			calls = append(calls, [2]int{processed, total})
		},
	}
	_, err := svc.ImportFile(context.Background(), importer.KindAllocations, writeCSV(t, serviceAllocationsCSV), opts)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{2, 3}, {3, 3}}, calls)
}

func TestImportFile_MissingFile(t *testing.T) {
	_, svc := newImportEnv(t, 0)

	_, err := svc.ImportFile(context.Background(), importer.KindPeople, filepath.Join(t.TempDir(), "nope.csv"), importer.Options{})
	assert.ErrorContains(t, err, "opening import file")
}

func TestValidateFile_ReportsWithoutWriting(t *testing.T) {
	env, svc := newImportEnv(t, 0)

	res, err := svc.ValidateFile(context.Background(), importer.KindAllocations, writeCSV(t, serviceAllocationsCSV), importer.Options{})
	require.NoError(t, err)
	assert.Len(t, res.Errors, 1)
	assert.Empty(t, res.Records.Allocations)
	assert.Len(t, env.loadLive(t).Allocations, 3)
}

func TestImportFile_ReportsUseCase(t *testing.T) {
	env, svc := newImportEnv(t, 0)

	_, err := svc.ImportFile(context.Background(), importer.KindAllocations, writeCSV(t, serviceAllocationsCSV), importer.Options{AllowPartialImports: true})
	require.NoError(t, err)

	var found *UseCaseEvent
	for i := range env.observer.events {
		if env.observer.events[i].Name == "import-csv" {
			found = &env.observer.events[i]
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.Success)
	assert.Equal(t, 2, found.Fields["imported"])
	assert.Equal(t, 3, found.Fields["rows"])
}

func TestImportFile_NonFiniteCapacityKeepsScenariosWorking(t *testing.T) {
	env, svc := newImportEnv(t, 0)
	ctx := context.Background()
	path := writeCSV(t, "team_name,capacity\nInfinite,Inf\nSpare,20\n")

	res, err := svc.ImportFile(ctx, importer.KindTeams, path, importer.Options{AllowPartialImports: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)

	for _, team := range env.loadLive(t).Teams {
		assert.NotEqual(t, "Infinite", team.Name)
	}

	_, err = env.svc.CreateScenario(ctx, "After import", "")
	require.NoError(t, err)
}
