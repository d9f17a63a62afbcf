package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/capplan/internal/domain"
)

func (r *SQLiteDatasetRepo) insertFinancialYear(ctx context.Context, fy *domain.FinancialYear) error {
	quarters, err := encodeJSON(fy.QuarterIDs)
	if err != nil {
		return fmt.Errorf("encoding quarter ids: %w", err)
	}
	query := `INSERT INTO financial_years (id, name, start_date, end_date, quarter_ids) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, fy.ID, fy.Name, dateToString(fy.StartDate), dateToString(fy.EndDate), quarters)
	if err != nil {
		return fmt.Errorf("inserting financial year: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listFinancialYears(ctx context.Context) ([]domain.FinancialYear, error) {
	query := `SELECT id, name, start_date, end_date, quarter_ids FROM financial_years ORDER BY rowid`
	return queryAll(ctx, r.db, "financial years", query, func(row rowScanner) (domain.FinancialYear, error) {
		var fy domain.FinancialYear
		var start, end, quarters string
		err := row.Scan(&fy.ID, &fy.Name, &start, &end, &quarters)
		if err != nil {
			return fy, err
		}
		if fy.StartDate, err = parseDate(start); err != nil {
			return fy, err
		}
		if fy.EndDate, err = parseDate(end); err != nil {
			return fy, err
		}
		if err := decodeJSON(quarters, &fy.QuarterIDs); err != nil {
			return fy, fmt.Errorf("decoding quarters of financial year %s: %w", fy.ID, err)
		}
		return fy, nil
	})
}

func (r *SQLiteDatasetRepo) insertCycle(ctx context.Context, c *domain.Cycle) error {
	query := `INSERT INTO cycles (id, type, name, start_date, end_date, financial_year_id)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		string(c.Type),
		c.Name,
		dateToString(c.StartDate),
		dateToString(c.EndDate),
		c.FinancialYearID,
	)
	if err != nil {
		return fmt.Errorf("inserting cycle: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listCycles(ctx context.Context) ([]domain.Cycle, error) {
	query := `SELECT id, type, name, start_date, end_date, financial_year_id FROM cycles ORDER BY rowid`
	return queryAll(ctx, r.db, "cycles", query, func(row rowScanner) (domain.Cycle, error) {
		var c domain.Cycle
		var typ, start, end string
		err := row.Scan(&c.ID, &typ, &c.Name, &start, &end, &c.FinancialYearID)
		if err != nil {
			return c, err
		}
		c.Type = domain.CycleType(typ)
		if c.StartDate, err = parseDate(start); err != nil {
			return c, err
		}
		if c.EndDate, err = parseDate(end); err != nil {
			return c, err
		}
		return c, nil
	})
}

func (r *SQLiteDatasetRepo) insertAllocation(ctx context.Context, a *domain.Allocation) error {
	query := `INSERT INTO allocations (id, team_id, cycle_id, iteration_number, percentage, epic_id,
		project_id, run_work_category_id, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TeamID,
		a.CycleID,
		a.IterationNumber,
		a.Percentage,
		a.EpicID,
		a.ProjectID,
		a.RunWorkCategoryID,
		a.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting allocation: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listAllocations(ctx context.Context) ([]domain.Allocation, error) {
	query := `SELECT id, team_id, cycle_id, iteration_number, percentage, epic_id, project_id,
		run_work_category_id, notes FROM allocations ORDER BY rowid`
	return queryAll(ctx, r.db, "allocations", query, func(row rowScanner) (domain.Allocation, error) {
		var a domain.Allocation
		err := row.Scan(
			&a.ID, &a.TeamID, &a.CycleID, &a.IterationNumber, &a.Percentage,
			&a.EpicID, &a.ProjectID, &a.RunWorkCategoryID, &a.Notes,
		)
		return a, err
	})
}

func (r *SQLiteDatasetRepo) insertActualAllocation(ctx context.Context, a *domain.ActualAllocation) error {
	query := `INSERT INTO actual_allocations (id, team_id, cycle_id, iteration_number, percentage,
		epic_id, run_work_category_id, planned_allocation_id, variance_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TeamID,
		a.CycleID,
		a.IterationNumber,
		a.Percentage,
		a.EpicID,
		a.RunWorkCategoryID,
		a.PlannedAllocationID,
		a.VarianceReason,
	)
	if err != nil {
		return fmt.Errorf("inserting actual allocation: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listActualAllocations(ctx context.Context) ([]domain.ActualAllocation, error) {
	query := `SELECT id, team_id, cycle_id, iteration_number, percentage, epic_id,
		run_work_category_id, planned_allocation_id, variance_reason
		FROM actual_allocations ORDER BY rowid`
	return queryAll(ctx, r.db, "actual allocations", query, func(row rowScanner) (domain.ActualAllocation, error) {
		var a domain.ActualAllocation
		err := row.Scan(
			&a.ID, &a.TeamID, &a.CycleID, &a.IterationNumber, &a.Percentage,
			&a.EpicID, &a.RunWorkCategoryID, &a.PlannedAllocationID, &a.VarianceReason,
		)
		return a, err
	})
}
