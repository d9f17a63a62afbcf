package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/scenario"
	"github.com/google/uuid"
)

type scenarioService struct {
	live      repository.DatasetRepo
	scenarios repository.ScenarioRepo
	workspace repository.WorkspaceRepo
	uow       db.UnitOfWork
	ttl       time.Duration
	notifier  Notifier
	observer  UseCaseObserver
}

// NewScenarioService wires the lifecycle to storage. Scenarios untouched
// for longer than ttl are removed by CleanupExpiredScenarios; a
// non-positive ttl disables cleanup.
func NewScenarioService(
	live repository.DatasetRepo,
	scenarios repository.ScenarioRepo,
	workspace repository.WorkspaceRepo,
	uow db.UnitOfWork,
	ttl time.Duration,
	notifier Notifier,
	observers ...UseCaseObserver,
) ScenarioService {
	return &scenarioService{
		live:      live,
		scenarios: scenarios,
		workspace: workspace,
		uow:       uow,
		ttl:       ttl,
		notifier:  notifierOrNoop(notifier),
		observer:  useCaseObserverOrNoop(observers),
	}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	live      repository.DatasetRepo
	scenarios repository.ScenarioRepo
	workspace repository.WorkspaceRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		live:      repository.NewSQLiteDatasetRepo(tx),
		scenarios: repository.NewSQLiteScenarioRepo(tx),
		workspace: repository.NewSQLiteWorkspaceRepo(tx),
	}
}

// loadLifecycle restores the persisted lifecycle. A workspace pointing at
// a scenario that no longer exists is treated as Live.
func loadLifecycle(ctx context.Context, scenarios repository.ScenarioRepo, workspace repository.WorkspaceRepo) (*scenario.Lifecycle, *domain.Scenario, error) {
	ws, err := workspace.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading scenario workspace: %w", err)
	}
	if ws.ActiveScenarioID == "" {
		return scenario.NewLifecycle(), nil, nil
	}
	active, err := scenarios.GetByID(ctx, ws.ActiveScenarioID)
	if errors.Is(err, repository.ErrNotFound) {
		return scenario.NewLifecycle(), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return scenario.RestoreLifecycle(active, ws), active, nil
}

// withLifecycle runs fn against the persisted lifecycle inside one
// transaction and saves the resulting state when fn succeeds.
func (s *scenarioService) withLifecycle(ctx context.Context, fn func(ctx context.Context, repos txRepos, lc *scenario.Lifecycle) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		lc, _, err := loadLifecycle(ctx, repos.scenarios, repos.workspace)
		if err != nil {
			return err
		}
		if err := fn(ctx, repos, lc); err != nil {
			return err
		}
		ws := lc.Snapshot(time.Now().UTC())
		return repos.workspace.Save(ctx, &ws)
	})
}

func scenarioLookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, id)
	}
	return err
}

func (s *scenarioService) Status(ctx context.Context) (*ScenarioStatus, error) {
	return db.Read(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (*ScenarioStatus, error) {
		repos := newTxRepos(tx)
		lc, active, err := loadLifecycle(ctx, repos.scenarios, repos.workspace)
		if err != nil {
			return nil, err
		}
		status := &ScenarioStatus{State: lc.State(), HasUnsavedChanges: lc.HasUnsavedChanges()}
		if active != nil {
			meta := *active
			meta.Data = domain.Dataset{}
			status.Active = &meta
		}
		return status, nil
	})
}

// WorkingSet reads the workspace and the data it points at in one
// transaction, so a concurrent switch cannot pair one with the other's
// predecessor.
func (s *scenarioService) WorkingSet(ctx context.Context) (*domain.Dataset, error) {
	return db.Read(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (*domain.Dataset, error) {
		repos := newTxRepos(tx)
		lc, _, err := loadLifecycle(ctx, repos.scenarios, repos.workspace)
		if err != nil {
			return nil, err
		}
		if lc.State() == scenario.StateLive {
			return repos.live.Load(ctx)
		}
		working := lc.Working().Clone()
		return &working, nil
	})
}

func (s *scenarioService) List(ctx context.Context) ([]*domain.Scenario, error) {
	return s.scenarios.List(ctx)
}

func (s *scenarioService) Get(ctx context.Context, id string) (*domain.Scenario, error) {
	sc, err := s.scenarios.GetByID(ctx, id)
	if err != nil {
		return nil, scenarioLookupError(id, err)
	}
	return sc, nil
}

func (s *scenarioService) CreateScenario(ctx context.Context, name, description string) (created *domain.Scenario, err error) {
	uc := startUseCase(s.observer, "create-scenario")
	uc.fields["name"] = name
	defer func() { uc.finish(ctx, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("scenario name is required")
	}
	live, err := s.live.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading live data: %w", err)
	}

	sc := scenario.NewScenario(uuid.New().String(), name, description, live, time.Now().UTC())
	if err = s.scenarios.Create(ctx, &sc); err != nil {
		return nil, err
	}
	uc.fields["scenario_id"] = sc.ID

	s.notifier.Notify(ctx, Notification{
		Level:   NotifySuccess,
		Title:   "Scenario created",
		Message: fmt.Sprintf("%q is a copy of live data", sc.Name),
	})
	return &sc, nil
}

func (s *scenarioService) CreateScenarioFromTemplate(ctx context.Context, templateID, name string, params scenario.Params) (created *domain.Scenario, err error) {
	uc := startUseCase(s.observer, "create-scenario-from-template")
	uc.fields["template"] = templateID
	defer func() { uc.finish(ctx, err) }()

	tmpl, ok := scenario.LookupTemplate(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", scenario.ErrUnknownTemplate, templateID)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = tmpl.Name
	}
	live, err := s.live.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading live data: %w", err)
	}

	sc := scenario.NewScenario(uuid.New().String(), name, tmpl.Description, live, time.Now().UTC())
	sc.TemplateName = tmpl.ID
	if err = scenario.ApplyTemplate(tmpl.ID, params, &sc.Data); err != nil {
		return nil, err
	}
	if err = s.scenarios.Create(ctx, &sc); err != nil {
		return nil, err
	}
	uc.fields["scenario_id"] = sc.ID

	s.notifier.Notify(ctx, Notification{
		Level:   NotifySuccess,
		Title:   "Scenario created",
		Message: fmt.Sprintf("%q from template %s", sc.Name, tmpl.ID),
	})
	return &sc, nil
}

func (s *scenarioService) SwitchToScenario(ctx context.Context, id string) (err error) {
	uc := startUseCase(s.observer, "switch-scenario")
	uc.fields["scenario_id"] = id
	defer func() { uc.finish(ctx, err) }()

	var name string
	err = s.withLifecycle(ctx, func(ctx context.Context, repos txRepos, lc *scenario.Lifecycle) error {
		target, err := repos.scenarios.GetByID(ctx, id)
		if err != nil {
			return scenarioLookupError(id, err)
		}
		uc.fields["dropped_changes"] = lc.HasUnsavedChanges()
		lc.SwitchTo(*target)
		name = target.Name
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Notification{
		Level:   NotifyInfo,
		Title:   "Scenario active",
		Message: fmt.Sprintf("working on %q", name),
	})
	return nil
}

func (s *scenarioService) SaveCurrentScenario(ctx context.Context) (saved *domain.Scenario, err error) {
	uc := startUseCase(s.observer, "save-scenario")
	defer func() { uc.finish(ctx, err) }()

	err = s.withLifecycle(ctx, func(ctx context.Context, repos txRepos, lc *scenario.Lifecycle) error {
		out, err := lc.Save(time.Now().UTC())
		if err != nil {
			return err
		}
		if err := repos.scenarios.Update(ctx, &out); err != nil {
			return scenarioLookupError(out.ID, err)
		}
		saved = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fields["scenario_id"] = saved.ID

	s.notifier.Notify(ctx, Notification{
		Level:   NotifySuccess,
		Title:   "Scenario saved",
		Message: fmt.Sprintf("%q updated; live data unchanged", saved.Name),
	})
	return saved, nil
}

func (s *scenarioService) SwitchToLive(ctx context.Context) (err error) {
	uc := startUseCase(s.observer, "switch-to-live")
	defer func() { uc.finish(ctx, err) }()

	return s.withLifecycle(ctx, func(ctx context.Context, _ txRepos, lc *scenario.Lifecycle) error {
		uc.fields["dropped_changes"] = lc.HasUnsavedChanges()
		lc.SwitchToLive()
		return nil
	})
}

func (s *scenarioService) DiscardChanges(ctx context.Context) (err error) {
	uc := startUseCase(s.observer, "discard-scenario-changes")
	defer func() { uc.finish(ctx, err) }()

	return s.withLifecycle(ctx, func(ctx context.Context, _ txRepos, lc *scenario.Lifecycle) error {
		uc.fields["scenario_id"] = lc.ActiveID()
		return lc.Discard()
	})
}

func (s *scenarioService) DeleteScenario(ctx context.Context, id string) (err error) {
	uc := startUseCase(s.observer, "delete-scenario")
	uc.fields["scenario_id"] = id
	defer func() { uc.finish(ctx, err) }()

	var wasActive bool
	err = s.withLifecycle(ctx, func(ctx context.Context, repos txRepos, lc *scenario.Lifecycle) error {
		if err := repos.scenarios.Delete(ctx, id); err != nil {
			return scenarioLookupError(id, err)
		}
		wasActive = lc.Forget(id)
		return nil
	})
	if err != nil {
		return err
	}
	uc.fields["was_active"] = wasActive

	msg := "scenario removed"
	if wasActive {
		msg = "scenario removed; back on live data"
	}
	s.notifier.Notify(ctx, Notification{Level: NotifySuccess, Title: "Scenario deleted", Message: msg})
	return nil
}

func (s *scenarioService) CleanupExpiredScenarios(ctx context.Context) (removed []string, err error) {
	uc := startUseCase(s.observer, "cleanup-scenarios")
	uc.fields["ttl_hours"] = s.ttl.Hours()
	defer func() { uc.finish(ctx, err) }()

	if s.ttl <= 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	err = s.withLifecycle(ctx, func(ctx context.Context, repos txRepos, lc *scenario.Lifecycle) error {
		all, err := repos.scenarios.List(ctx)
		if err != nil {
			return err
		}
		for _, sc := range all {
			if !scenario.Expired(sc, s.ttl, now) {
				continue
			}
			if err := repos.scenarios.Delete(ctx, sc.ID); err != nil {
				return fmt.Errorf("deleting expired scenario %s: %w", sc.ID, err)
			}
			lc.Forget(sc.ID)
			removed = append(removed, sc.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fields["removed"] = len(removed)

	if len(removed) > 0 {
		s.notifier.Notify(ctx, Notification{
			Level:   NotifyInfo,
			Title:   "Scenarios cleaned up",
			Message: fmt.Sprintf("%d expired scenario(s) removed", len(removed)),
		})
	}
	return removed, nil
}

func (s *scenarioService) UpdateWorkingSet(ctx context.Context, fn func(*domain.Dataset) error) (err error) {
	uc := startUseCase(s.observer, "update-working-set")
	defer func() { uc.finish(ctx, err) }()

	return s.withLifecycle(ctx, func(ctx context.Context, repos txRepos, lc *scenario.Lifecycle) error {
		uc.fields["target"] = string(lc.State())
		if lc.State() == scenario.StateScenarioActive {
			return lc.UpdateWorkingSet(fn)
		}

		live, err := repos.live.Load(ctx)
		if err != nil {
			return fmt.Errorf("loading live data: %w", err)
		}
		if err := fn(live); err != nil {
			return err
		}
		return repos.live.ReplaceAll(ctx, live)
	})
}

// CompareWithLive reads live data and the compared scenario in one
// transaction. An empty id compares the active working copy.
func (s *scenarioService) CompareWithLive(ctx context.Context, id string) (*scenario.Comparison, error) {
	return db.Read(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (*scenario.Comparison, error) {
		repos := newTxRepos(tx)
		live, err := repos.live.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading live data: %w", err)
		}

		var target *domain.Dataset
		if id == "" {
			lc, _, err := loadLifecycle(ctx, repos.scenarios, repos.workspace)
			if err != nil {
				return nil, err
			}
			if lc.State() == scenario.StateLive {
				return nil, scenario.ErrNoActiveScenario
			}
			target = lc.Working()
		} else {
			sc, err := repos.scenarios.GetByID(ctx, id)
			if err != nil {
				return nil, scenarioLookupError(id, err)
			}
			target = &sc.Data
		}

		cmp := scenario.Compare(live, target)
		return &cmp, nil
	})
}

// ApplyScenarioToLive overwrites live data with a stored scenario. An empty
// id applies the active scenario, which must have no unsaved changes.
func (s *scenarioService) ApplyScenarioToLive(ctx context.Context, id string) (err error) {
	uc := startUseCase(s.observer, "apply-scenario")
	defer func() { uc.finish(ctx, err) }()

	var name string
	err = s.withLifecycle(ctx, func(ctx context.Context, repos txRepos, lc *scenario.Lifecycle) error {
		if id == "" {
			id = lc.ActiveID()
			if id == "" {
				return scenario.ErrNoActiveScenario
			}
		}
		if id == lc.ActiveID() && lc.HasUnsavedChanges() {
			return ErrUnsavedChanges
		}

		sc, err := repos.scenarios.GetByID(ctx, id)
		if err != nil {
			return scenarioLookupError(id, err)
		}
		if err := repos.live.ReplaceAll(ctx, &sc.Data); err != nil {
			return fmt.Errorf("replacing live data: %w", err)
		}
		name = sc.Name
		return nil
	})
	uc.fields["scenario_id"] = id
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Notification{
		Level:   NotifyWarning,
		Title:   "Live data replaced",
		Message: fmt.Sprintf("live data now matches %q", name),
	})
	return nil
}
