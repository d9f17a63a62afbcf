package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
)

// SQLiteScenarioRepo stores each scenario's dataset as a JSON document.
type SQLiteScenarioRepo struct {
	db db.DBTX
}

func NewSQLiteScenarioRepo(conn db.DBTX) *SQLiteScenarioRepo {
	return &SQLiteScenarioRepo{db: conn}
}

func (r *SQLiteScenarioRepo) Create(ctx context.Context, s *domain.Scenario) error {
	data, err := encodeJSON(s.Data)
	if err != nil {
		return fmt.Errorf("encoding scenario data: %w", err)
	}
	query := `INSERT INTO scenarios (id, name, description, template_name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.TemplateName,
		data,
		timestampToString(s.CreatedDate),
		timestampToString(s.LastModified),
	)
	if err != nil {
		return fmt.Errorf("inserting scenario: %w", err)
	}
	return nil
}

func (r *SQLiteScenarioRepo) GetByID(ctx context.Context, id string) (*domain.Scenario, error) {
	query := `SELECT id, name, description, template_name, created_at, updated_at, data
		FROM scenarios WHERE id = ?`
	var s domain.Scenario
	var createdAt, updatedAt, data string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.TemplateName, &createdAt, &updatedAt, &data,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning scenario: %w", err)
	}
	if err := populateScenarioTimes(&s, createdAt, updatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(data, &s.Data); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", id, err)
	}
	return &s, nil
}

func (r *SQLiteScenarioRepo) List(ctx context.Context) ([]*domain.Scenario, error) {
	query := `SELECT id, name, description, template_name, created_at, updated_at
		FROM scenarios ORDER BY updated_at DESC, id`
	return queryAll(ctx, r.db, "scenarios", query, func(row rowScanner) (*domain.Scenario, error) {
		var s domain.Scenario
		var createdAt, updatedAt string
		if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.TemplateName, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := populateScenarioTimes(&s, createdAt, updatedAt); err != nil {
			return nil, err
		}
		return &s, nil
	})
}

func (r *SQLiteScenarioRepo) Update(ctx context.Context, s *domain.Scenario) error {
	data, err := encodeJSON(s.Data)
	if err != nil {
		return fmt.Errorf("encoding scenario data: %w", err)
	}
	query := `UPDATE scenarios SET name = ?, description = ?, template_name = ?, data = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.Description,
		s.TemplateName,
		data,
		timestampToString(s.LastModified),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scenario: %w", err)
	}
	return requireAffected(res, "scenario", s.ID)
}

func (r *SQLiteScenarioRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scenario: %w", err)
	}
	return requireAffected(res, "scenario", id)
}

func populateScenarioTimes(s *domain.Scenario, createdAt, updatedAt string) error {
	var err error
	if s.CreatedDate, err = parseTimestamp(createdAt); err != nil {
		return fmt.Errorf("parsing scenario created_at: %w", err)
	}
	if s.LastModified, err = parseTimestamp(updatedAt); err != nil {
		return fmt.Errorf("parsing scenario updated_at: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
