package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "save-scenario",
		Duration: 1500 * time.Millisecond,
		Success:  false,
		Err:      errors.New("disk full"),
		Fields:   map[string]any{"scenario_id": "s1"},
	})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "msg=service_use_case")
	assert.Contains(t, out, "use_case=save-scenario")
	assert.Contains(t, out, "duration_ms=1500")
	assert.Contains(t, out, "scenario_id=s1")
	assert.Contains(t, out, `error="disk full"`)
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.Equal(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))
}

func TestLogUseCaseObserver_SortsFieldsAndLogsInfoOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "import-csv",
		Success: true,
		Fields:  map[string]any{"skipped": 2, "imported": 10, "kind": "teams"},
	})

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.NotContains(t, out, "error=")
	imported := strings.Index(out, "imported=10")
	kind := strings.Index(out, "kind=teams")
	skipped := strings.Index(out, "skipped=2")
	assert.True(t, imported < kind && kind < skipped, out)
}

func TestUseCaseObserverOrNoop_FansOutToEveryObserver(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := useCaseObserverOrNoop([]UseCaseObserver{a, nil, b})

	uc := startUseCase(obs, "delete-scenario")
	uc.fields["scenario_id"] = "s1"
	uc.finish(context.Background(), nil)

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Equal(t, "delete-scenario", b.events[0].Name)
	assert.True(t, b.events[0].Success)
	assert.Equal(t, "s1", b.events[0].Fields["scenario_id"])
}

func TestUseCaseObserverOrNoop_SingleObserverIsReturnedAsIs(t *testing.T) {
	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
