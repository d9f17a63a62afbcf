package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/capplan/internal/domain"
)

func (r *SQLiteDatasetRepo) insertDivision(ctx context.Context, d *domain.Division) error {
	query := `INSERT INTO divisions (id, name, description, budget) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.Description, nullableFloatToValue(d.Budget))
	if err != nil {
		return fmt.Errorf("inserting division: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listDivisions(ctx context.Context) ([]domain.Division, error) {
	query := `SELECT id, name, description, budget FROM divisions ORDER BY rowid`
	return queryAll(ctx, r.db, "divisions", query, func(row rowScanner) (domain.Division, error) {
		var d domain.Division
		var budget sql.NullFloat64
		if err := row.Scan(&d.ID, &d.Name, &d.Description, &budget); err != nil {
			return d, err
		}
		d.Budget = nullableFloat(budget)
		return d, nil
	})
}

func (r *SQLiteDatasetRepo) insertTeam(ctx context.Context, t *domain.Team) error {
	skills, err := encodeJSON(t.TargetSkills)
	if err != nil {
		return fmt.Errorf("encoding team target skills: %w", err)
	}
	query := `INSERT INTO teams (id, name, capacity, division_id, target_skills, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Capacity,
		t.DivisionID,
		skills,
		string(t.Status),
	)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listTeams(ctx context.Context) ([]domain.Team, error) {
	query := `SELECT id, name, capacity, division_id, target_skills, status FROM teams ORDER BY rowid`
	return queryAll(ctx, r.db, "teams", query, func(row rowScanner) (domain.Team, error) {
		var t domain.Team
		var skills, status string
		if err := row.Scan(&t.ID, &t.Name, &t.Capacity, &t.DivisionID, &skills, &status); err != nil {
			return t, err
		}
		t.Status = domain.TeamStatus(status)
		if err := decodeJSON(skills, &t.TargetSkills); err != nil {
			return t, fmt.Errorf("decoding target skills of team %s: %w", t.ID, err)
		}
		return t, nil
	})
}

func (r *SQLiteDatasetRepo) insertRole(ctx context.Context, role *domain.Role) error {
	query := `INSERT INTO roles (id, name, rate_type, default_rate, default_hourly_rate,
		default_daily_rate, default_annual_salary) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		role.ID,
		role.Name,
		string(role.RateType),
		nullableFloatToValue(role.DefaultRate),
		nullableFloatToValue(role.DefaultHourlyRate),
		nullableFloatToValue(role.DefaultDailyRate),
		nullableFloatToValue(role.DefaultAnnualSalary),
	)
	if err != nil {
		return fmt.Errorf("inserting role: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listRoles(ctx context.Context) ([]domain.Role, error) {
	query := `SELECT id, name, rate_type, default_rate, default_hourly_rate, default_daily_rate,
		default_annual_salary FROM roles ORDER BY rowid`
	return queryAll(ctx, r.db, "roles", query, func(row rowScanner) (domain.Role, error) {
		var role domain.Role
		var rateType string
		var rate, hourly, daily, annual sql.NullFloat64
		if err := row.Scan(&role.ID, &role.Name, &rateType, &rate, &hourly, &daily, &annual); err != nil {
			return role, err
		}
		role.RateType = domain.RateType(rateType)
		role.DefaultRate = nullableFloat(rate)
		role.DefaultHourlyRate = nullableFloat(hourly)
		role.DefaultDailyRate = nullableFloat(daily)
		role.DefaultAnnualSalary = nullableFloat(annual)
		return role, nil
	})
}

func (r *SQLiteDatasetRepo) insertPerson(ctx context.Context, p *domain.Person) error {
	query := `INSERT INTO people (id, name, email, role_id, team_id, is_active, employment_type,
		start_date, end_date, annual_salary, hourly_rate, daily_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		p.RoleID,
		p.TeamID,
		boolToInt(p.IsActive),
		string(p.EmploymentType),
		dateToString(p.StartDate),
		nullableDateToValue(p.EndDate),
		nullableFloatToValue(p.AnnualSalary),
		nullableFloatToValue(p.HourlyRate),
		nullableFloatToValue(p.DailyRate),
	)
	if err != nil {
		return fmt.Errorf("inserting person: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listPeople(ctx context.Context) ([]domain.Person, error) {
	query := `SELECT id, name, email, role_id, team_id, is_active, employment_type, start_date,
		end_date, annual_salary, hourly_rate, daily_rate FROM people ORDER BY rowid`
	return queryAll(ctx, r.db, "people", query, func(row rowScanner) (domain.Person, error) {
		var p domain.Person
		var isActive int
		var employment, startDate string
		var endDate sql.NullString
		var annual, hourly, daily sql.NullFloat64
		err := row.Scan(
			&p.ID, &p.Name, &p.Email, &p.RoleID, &p.TeamID, &isActive, &employment,
			&startDate, &endDate, &annual, &hourly, &daily,
		)
		if err != nil {
			return p, err
		}

		p.IsActive = intToBool(isActive)
		p.EmploymentType = domain.EmploymentType(employment)
		p.AnnualSalary = nullableFloat(annual)
		p.HourlyRate = nullableFloat(hourly)
		p.DailyRate = nullableFloat(daily)
		if p.StartDate, err = parseDate(startDate); err != nil {
			return p, err
		}
		if p.EndDate, err = parseNullableDate(endDate); err != nil {
			return p, err
		}
		return p, nil
	})
}
