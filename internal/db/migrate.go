package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// References between planning tables are not foreign keys: a dataset may
// hold dangling references, which Dataset.Validate reports as data.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS divisions (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		budget      REAL
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		capacity      REAL NOT NULL CHECK(capacity > 0),
		division_id   TEXT NOT NULL DEFAULT '',
		target_skills TEXT NOT NULL DEFAULT '[]',
		status        TEXT NOT NULL DEFAULT 'active'
		              CHECK(status IN ('active','inactive','forming'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_division ON teams(division_id)`,

	`CREATE TABLE IF NOT EXISTS roles (
		id                    TEXT PRIMARY KEY,
		name                  TEXT NOT NULL,
		rate_type             TEXT NOT NULL DEFAULT 'daily'
		                      CHECK(rate_type IN ('','hourly','daily','annual')),
		default_rate          REAL,
		default_hourly_rate   REAL,
		default_daily_rate    REAL,
		default_annual_salary REAL
	)`,

	`CREATE TABLE IF NOT EXISTS people (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		email           TEXT NOT NULL DEFAULT '',
		role_id         TEXT NOT NULL DEFAULT '',
		team_id         TEXT NOT NULL DEFAULT '',
		is_active       INTEGER NOT NULL DEFAULT 1,
		employment_type TEXT NOT NULL DEFAULT 'permanent'
		                CHECK(employment_type IN ('','permanent','contractor')),
		start_date      TEXT NOT NULL DEFAULT '',
		end_date        TEXT,
		annual_salary   REAL,
		hourly_rate     REAL,
		daily_rate      REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_people_team ON people(team_id)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL,
		description            TEXT NOT NULL DEFAULT '',
		status                 TEXT NOT NULL DEFAULT 'planning'
		                       CHECK(status IN ('planning','active','completed','cancelled')),
		start_date             TEXT NOT NULL,
		end_date               TEXT,
		budget                 REAL,
		priority               INTEGER NOT NULL DEFAULT 3,
		priority_order         INTEGER,
		financial_year_budgets TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		due_date   TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'not-started'
		           CHECK(status IN ('not-started','in-progress','completed','at-risk')),
		seq        INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id)`,

	`CREATE TABLE IF NOT EXISTS epics (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL,
		name             TEXT NOT NULL,
		estimated_effort REAL NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'not-started'
		                 CHECK(status IN ('not-started','in-progress','completed')),
		start_date       TEXT,
		target_end_date  TEXT,
		actual_end_date  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_epics_project ON epics(project_id)`,

	`CREATE TABLE IF NOT EXISTS run_work_categories (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS financial_years (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		quarter_ids TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS cycles (
		id                TEXT PRIMARY KEY,
		type              TEXT NOT NULL CHECK(type IN ('quarterly','iteration')),
		name              TEXT NOT NULL,
		start_date        TEXT NOT NULL,
		end_date          TEXT NOT NULL,
		financial_year_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cycles_start ON cycles(start_date)`,

	`CREATE TABLE IF NOT EXISTS allocations (
		id                   TEXT PRIMARY KEY,
		team_id              TEXT NOT NULL,
		cycle_id             TEXT NOT NULL DEFAULT '',
		iteration_number     INTEGER NOT NULL DEFAULT 0,
		percentage           REAL NOT NULL CHECK(percentage >= 0),
		epic_id              TEXT NOT NULL DEFAULT '',
		project_id           TEXT NOT NULL DEFAULT '',
		run_work_category_id TEXT NOT NULL DEFAULT '',
		notes                TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_team ON allocations(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_cycle ON allocations(cycle_id)`,

	`CREATE TABLE IF NOT EXISTS actual_allocations (
		id                    TEXT PRIMARY KEY,
		team_id               TEXT NOT NULL,
		cycle_id              TEXT NOT NULL DEFAULT '',
		iteration_number      INTEGER NOT NULL DEFAULT 0,
		percentage            REAL NOT NULL CHECK(percentage >= 0),
		epic_id               TEXT NOT NULL DEFAULT '',
		run_work_category_id  TEXT NOT NULL DEFAULT '',
		planned_allocation_id TEXT NOT NULL DEFAULT '',
		variance_reason       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_actuals_team ON actual_allocations(team_id)`,

	`CREATE TABLE IF NOT EXISTS skills (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS person_skills (
		person_id           TEXT NOT NULL,
		skill_id            TEXT NOT NULL,
		proficiency         TEXT NOT NULL DEFAULT 'intermediate'
		                    CHECK(proficiency IN ('','beginner','intermediate','advanced','expert')),
		years_of_experience REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (person_id, skill_id)
	)`,

	`CREATE TABLE IF NOT EXISTS solutions (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		category  TEXT NOT NULL DEFAULT '',
		skill_ids TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS project_solutions (
		project_id  TEXT NOT NULL,
		solution_id TEXT NOT NULL,
		is_primary  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, solution_id)
	)`,

	`CREATE TABLE IF NOT EXISTS project_skills (
		project_id         TEXT NOT NULL,
		skill_id           TEXT NOT NULL,
		source_solution_id TEXT NOT NULL DEFAULT '',
		importance         TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (project_id, skill_id)
	)`,

	// Scenarios store the whole dataset as one JSON document.
	`CREATE TABLE IF NOT EXISTS scenarios (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		data        TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scenarios_updated ON scenarios(updated_at)`,
	`ALTER TABLE scenarios ADD COLUMN template_name TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS scenario_workspace (
		id                 TEXT PRIMARY KEY CHECK(id = 'default'),
		active_scenario_id TEXT NOT NULL DEFAULT '',
		working            TEXT,
		dirty              INTEGER NOT NULL DEFAULT 0,
		updated_at         TEXT NOT NULL
	)`,
	`INSERT OR IGNORE INTO scenario_workspace (id, updated_at)
		VALUES ('default', strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))`,
}
