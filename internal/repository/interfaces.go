package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/scenario"
)

var ErrNotFound = errors.New("not found")

// DatasetRepo stores the live planning data, one table per collection.
type DatasetRepo interface {
	Load(ctx context.Context) (*domain.Dataset, error)
	// ReplaceAll swaps every table for the contents of ds. Run it inside a
	// unit of work so a failure leaves the previous data in place.
	ReplaceAll(ctx context.Context, ds *domain.Dataset) error
	// Append inserts the records of ds next to the existing data.
	Append(ctx context.Context, ds *domain.Dataset) error
}

type ScenarioRepo interface {
	Create(ctx context.Context, s *domain.Scenario) error
	GetByID(ctx context.Context, id string) (*domain.Scenario, error)
	// List returns scenario metadata, most recently modified first. Data
	// is left empty.
	List(ctx context.Context) ([]*domain.Scenario, error)
	Update(ctx context.Context, s *domain.Scenario) error
	Delete(ctx context.Context, id string) error
}

// WorkspaceRepo persists the scenario lifecycle between CLI invocations.
type WorkspaceRepo interface {
	Get(ctx context.Context) (*scenario.Workspace, error)
	Save(ctx context.Context, ws *scenario.Workspace) error
}
