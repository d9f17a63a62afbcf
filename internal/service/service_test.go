package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/testutil"
)

type recordingNotifier struct {
	got []Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note Notification) {
	n.got = append(n.got, note)
}

func (n *recordingNotifier) titles() []string {
	out := make([]string, len(n.got))
	for i, note := range n.got {
		out[i] = note.Title
	}
	return out
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

type serviceEnv struct {
	db        *sql.DB
	live      repository.DatasetRepo
	scenarios repository.ScenarioRepo
	workspace repository.WorkspaceRepo
	notifier  *recordingNotifier
	observer  *recordingObserver
	svc       ScenarioService
}

// newServiceEnv seeds live data with testutil.NewTestDataset and returns a
// scenario service with a 30 day TTL.
func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &serviceEnv{
		db:        database,
		live:      repository.NewSQLiteDatasetRepo(database),
		scenarios: repository.NewSQLiteScenarioRepo(database),
		workspace: repository.NewSQLiteWorkspaceRepo(database),
		notifier:  &recordingNotifier{},
		observer:  &recordingObserver{},
	}
	require.NoError(t, env.live.ReplaceAll(context.Background(), testutil.NewTestDataset()))
	env.svc = env.newScenarioService(testutil.NewTestUoW(database), 30*24*time.Hour)
	return env
}

func (e *serviceEnv) newScenarioService(uow db.UnitOfWork, ttl time.Duration) ScenarioService {
	return NewScenarioService(e.live, e.scenarios, e.workspace, uow, ttl, e.notifier, e.observer)
}

func (e *serviceEnv) loadLive(t *testing.T) *domain.Dataset {
	t.Helper()
	ds, err := e.live.Load(context.Background())
	require.NoError(t, err)
	return ds
}

func teamByID(t *testing.T, ds *domain.Dataset, id string) domain.Team {
	t.Helper()
	team, ok := ds.FindTeam(id)
	require.True(t, ok, "team %s not found", id)
	return team
}

func projectByID(t *testing.T, ds *domain.Dataset, id string) domain.Project {
	t.Helper()
	p, ok := ds.FindProject(id)
	require.True(t, ok, "project %s not found", id)
	return p
}
