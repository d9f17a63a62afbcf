package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/capplan/internal/domain"
)

// insertProject writes the project row and its milestones.
func (r *SQLiteDatasetRepo) insertProject(ctx context.Context, p *domain.Project) error {
	budgets, err := encodeJSON(p.FinancialYearBudgets)
	if err != nil {
		return fmt.Errorf("encoding financial year budgets: %w", err)
	}
	query := `INSERT INTO projects (id, name, description, status, start_date, end_date, budget,
		priority, priority_order, financial_year_budgets)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		string(p.Status),
		dateToString(p.StartDate),
		nullableDateToValue(p.EndDate),
		nullableFloatToValue(p.Budget),
		p.Priority,
		nullableIntToValue(p.PriorityOrder),
		budgets,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	for i, m := range p.Milestones {
		query := `INSERT INTO milestones (id, project_id, name, due_date, status, seq) VALUES (?, ?, ?, ?, ?, ?)`
		_, err := r.db.ExecContext(ctx, query, m.ID, p.ID, m.Name, dateToString(m.DueDate), string(m.Status), i)
		if err != nil {
			return fmt.Errorf("inserting milestone: %w", err)
		}
	}
	return nil
}

func (r *SQLiteDatasetRepo) listProjects(ctx context.Context) ([]domain.Project, error) {
	query := `SELECT id, name, description, status, start_date, end_date, budget, priority,
		priority_order, financial_year_budgets FROM projects ORDER BY rowid`
	projects, err := queryAll(ctx, r.db, "projects", query, func(row rowScanner) (domain.Project, error) {
		var p domain.Project
		var status, startDate, budgets string
		var endDate sql.NullString
		var budget sql.NullFloat64
		var order sql.NullInt64
		err := row.Scan(
			&p.ID, &p.Name, &p.Description, &status, &startDate, &endDate, &budget,
			&p.Priority, &order, &budgets,
		)
		if err != nil {
			return p, err
		}

		p.Status = domain.ProjectStatus(status)
		p.Budget = nullableFloat(budget)
		p.PriorityOrder = nullableInt(order)
		if p.StartDate, err = parseDate(startDate); err != nil {
			return p, err
		}
		if p.EndDate, err = parseNullableDate(endDate); err != nil {
			return p, err
		}
		if err := decodeJSON(budgets, &p.FinancialYearBudgets); err != nil {
			return p, fmt.Errorf("decoding budgets of project %s: %w", p.ID, err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	milestones, err := r.listMilestones(ctx)
	if err != nil {
		return nil, err
	}
	byProject := make(map[string]int, len(projects))
	for i := range projects {
		byProject[projects[i].ID] = i
	}
	for _, m := range milestones {
		if i, ok := byProject[m.ProjectID]; ok {
			projects[i].Milestones = append(projects[i].Milestones, m)
		}
	}
	return projects, nil
}

func (r *SQLiteDatasetRepo) listMilestones(ctx context.Context) ([]domain.Milestone, error) {
	query := `SELECT id, project_id, name, due_date, status FROM milestones ORDER BY project_id, seq`
	return queryAll(ctx, r.db, "milestones", query, func(row rowScanner) (domain.Milestone, error) {
		var m domain.Milestone
		var due, status string
		if err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &due, &status); err != nil {
			return m, err
		}
		m.Status = domain.MilestoneStatus(status)
		var err error
		m.DueDate, err = parseDate(due)
		return m, err
	})
}

func (r *SQLiteDatasetRepo) insertEpic(ctx context.Context, e *domain.Epic) error {
	query := `INSERT INTO epics (id, project_id, name, estimated_effort, status, start_date,
		target_end_date, actual_end_date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		e.Name,
		e.EstimatedEffort,
		string(e.Status),
		nullableDateToValue(e.StartDate),
		nullableDateToValue(e.TargetEndDate),
		nullableDateToValue(e.ActualEndDate),
	)
	if err != nil {
		return fmt.Errorf("inserting epic: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listEpics(ctx context.Context) ([]domain.Epic, error) {
	query := `SELECT id, project_id, name, estimated_effort, status, start_date, target_end_date,
		actual_end_date FROM epics ORDER BY rowid`
	return queryAll(ctx, r.db, "epics", query, func(row rowScanner) (domain.Epic, error) {
		var e domain.Epic
		var status string
		var start, target, actual sql.NullString
		err := row.Scan(&e.ID, &e.ProjectID, &e.Name, &e.EstimatedEffort, &status, &start, &target, &actual)
		if err != nil {
			return e, err
		}

		e.Status = domain.EpicStatus(status)
		if e.StartDate, err = parseNullableDate(start); err != nil {
			return e, err
		}
		if e.TargetEndDate, err = parseNullableDate(target); err != nil {
			return e, err
		}
		if e.ActualEndDate, err = parseNullableDate(actual); err != nil {
			return e, err
		}
		return e, nil
	})
}

func (r *SQLiteDatasetRepo) insertRunWorkCategory(ctx context.Context, c *domain.RunWorkCategory) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO run_work_categories (id, name) VALUES (?, ?)`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("inserting run-work category: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listRunWorkCategories(ctx context.Context) ([]domain.RunWorkCategory, error) {
	query := `SELECT id, name FROM run_work_categories ORDER BY rowid`
	return queryAll(ctx, r.db, "run-work categories", query, func(row rowScanner) (domain.RunWorkCategory, error) {
		var c domain.RunWorkCategory
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}
