package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/scenario"
)

// SQLiteWorkspaceRepo keeps the single scenario workspace row seeded by
// the migrations.
type SQLiteWorkspaceRepo struct {
	db db.DBTX
}

func NewSQLiteWorkspaceRepo(conn db.DBTX) *SQLiteWorkspaceRepo {
	return &SQLiteWorkspaceRepo{db: conn}
}

func (r *SQLiteWorkspaceRepo) Get(ctx context.Context) (*scenario.Workspace, error) {
	query := `SELECT active_scenario_id, working, dirty, updated_at FROM scenario_workspace WHERE id = 'default'`
	var ws scenario.Workspace
	var working sql.NullString
	var dirty int
	var updatedAt string
	err := r.db.QueryRowContext(ctx, query).Scan(&ws.ActiveScenarioID, &working, &dirty, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("scenario workspace: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning scenario workspace: %w", err)
	}

	ws.Dirty = intToBool(dirty)
	if ws.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing workspace updated_at: %w", err)
	}
	if working.Valid && working.String != "" {
		var ds domain.Dataset
		if err := decodeJSON(working.String, &ds); err != nil {
			return nil, fmt.Errorf("decoding working set: %w", err)
		}
		ws.Working = &ds
	}
	return &ws, nil
}

func (r *SQLiteWorkspaceRepo) Save(ctx context.Context, ws *scenario.Workspace) error {
	var working any
	if ws.Working != nil {
		data, err := encodeJSON(ws.Working)
		if err != nil {
			return fmt.Errorf("encoding working set: %w", err)
		}
		working = data
	}
	query := `INSERT OR REPLACE INTO scenario_workspace (id, active_scenario_id, working, dirty, updated_at)
		VALUES ('default', ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ws.ActiveScenarioID,
		working,
		boolToInt(ws.Dirty),
		timestampToString(ws.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving scenario workspace: %w", err)
	}
	return nil
}
