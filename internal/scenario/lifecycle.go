// Package scenario implements what-if copies of the planning dataset: the
// live/scenario state machine, the differ that reports what a scenario
// changes and the built-in scenario templates.
package scenario

import (
	"errors"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
)

var (
	ErrNoActiveScenario = errors.New("no active scenario")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrUnknownTemplate  = errors.New("unknown scenario template")
)

type State string

const (
	StateLive           State = "live"
	StateScenarioActive State = "scenario_active"
)

// NewScenario snapshots live data into a scenario. The snapshot shares no
// memory with live.
func NewScenario(id, name, description string, live *domain.Dataset, now time.Time) domain.Scenario {
	return domain.Scenario{
		ID:           id,
		Name:         name,
		Description:  description,
		CreatedDate:  now,
		LastModified: now,
		Data:         live.Clone(),
	}
}

// Expired reports whether the scenario has not been modified within ttl.
// A non-positive ttl never expires anything.
func Expired(s *domain.Scenario, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(s.LastModified) > ttl
}

// Lifecycle is the Live / ScenarioActive state machine. In ScenarioActive
// it holds the stored snapshot of the active scenario and a working copy
// the caller mutates. It performs no I/O; callers persist Snapshot().
type Lifecycle struct {
	active  *domain.Scenario
	working *domain.Dataset
	dirty   bool
}

// Workspace is the persisted form of a Lifecycle.
type Workspace struct {
	ActiveScenarioID string
	Working          *domain.Dataset
	Dirty            bool
	UpdatedAt        time.Time
}

// NewLifecycle returns a lifecycle in the Live state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// RestoreLifecycle rebuilds a lifecycle from a persisted workspace and the
// stored snapshot of its active scenario. A nil active scenario yields Live.
func RestoreLifecycle(active *domain.Scenario, ws *Workspace) *Lifecycle {
	if active == nil || ws == nil || ws.ActiveScenarioID != active.ID {
		return NewLifecycle()
	}
	l := &Lifecycle{active: active, dirty: ws.Dirty}
	if ws.Working != nil {
		l.working = ws.Working
	} else {
		data := active.Data.Clone()
		l.working = &data
		l.dirty = false
	}
	return l
}

func (l *Lifecycle) State() State {
	if l.active == nil {
		return StateLive
	}
	return StateScenarioActive
}

// ActiveID returns the active scenario ID, or "" in Live.
func (l *Lifecycle) ActiveID() string {
	if l.active == nil {
		return ""
	}
	return l.active.ID
}

// Working returns the working copy, or nil in Live.
func (l *Lifecycle) Working() *domain.Dataset {
	return l.working
}

// HasUnsavedChanges reports whether the working copy was mutated since the
// last switch, save or discard.
func (l *Lifecycle) HasUnsavedChanges() bool {
	return l.active != nil && l.dirty
}

// SwitchTo loads the scenario's snapshot into the working set. Any unsaved
// work on the previously active scenario is dropped; confirming that is
// the caller's job.
func (l *Lifecycle) SwitchTo(s domain.Scenario) {
	data := s.Data.Clone()
	s.Data = data.Clone()
	l.active = &s
	l.working = &data
	l.dirty = false
}

// SwitchToLive drops the working overlay.
func (l *Lifecycle) SwitchToLive() {
	l.active = nil
	l.working = nil
	l.dirty = false
}

// UpdateWorkingSet applies fn to the working copy and marks it dirty.
func (l *Lifecycle) UpdateWorkingSet(fn func(*domain.Dataset) error) error {
	if l.active == nil {
		return ErrNoActiveScenario
	}
	if err := fn(l.working); err != nil {
		return err
	}
	l.dirty = true
	return nil
}

// Save writes the working copy into the active scenario's snapshot and
// returns the updated scenario for persistence. Live data is untouched.
func (l *Lifecycle) Save(now time.Time) (domain.Scenario, error) {
	if l.active == nil {
		return domain.Scenario{}, ErrNoActiveScenario
	}
	l.active.Data = l.working.Clone()
	l.active.LastModified = now
	l.dirty = false

	out := *l.active
	out.Data = l.active.Data.Clone()
	return out, nil
}

// Discard reverts the working copy to the last saved snapshot.
func (l *Lifecycle) Discard() error {
	if l.active == nil {
		return ErrNoActiveScenario
	}
	data := l.active.Data.Clone()
	l.working = &data
	l.dirty = false
	return nil
}

// Forget returns to Live when id is the active scenario, and reports
// whether it was.
func (l *Lifecycle) Forget(id string) bool {
	if l.active == nil || l.active.ID != id {
		return false
	}
	l.SwitchToLive()
	return true
}

// Snapshot returns the persisted form of the lifecycle.
func (l *Lifecycle) Snapshot(now time.Time) Workspace {
	ws := Workspace{Dirty: l.dirty, UpdatedAt: now}
	if l.active != nil {
		ws.ActiveScenarioID = l.active.ID
		working := l.working.Clone()
		ws.Working = &working
	}
	return ws
}
