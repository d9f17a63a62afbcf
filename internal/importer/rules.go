package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	KindPeople      Kind = "people"
	KindTeams       Kind = "teams"
	KindProjects    Kind = "projects"
	KindAllocations Kind = "allocations"
	KindActuals     Kind = "actuals"
)

// Kinds lists the supported import variants.
func Kinds() []Kind {
	return []Kind{KindPeople, KindTeams, KindProjects, KindAllocations, KindActuals}
}

// ParseKind accepts a kind name or one of its longer spellings.
func ParseKind(s string) (Kind, error) {
	switch NormalizeHeader(strings.ReplaceAll(s, "-", " ")) {
	case "people", "person":
		return KindPeople, nil
	case "teams", "team":
		return KindTeams, nil
	case "projects", "project", "projects_epics":
		return KindProjects, nil
	case "allocations", "planning_allocations", "planning":
		return KindAllocations, nil
	case "actuals", "actual_allocations":
		return KindActuals, nil
	}
	return "", fmt.Errorf("unknown import kind %q", s)
}

// RowContext is what a rule sees: the row and the reference data.
type RowContext struct {
	Row Row
	Ref *Reference
}

// Rule is a named check. Issues it returns have Row and Rule filled in by
// the caller.
type Rule struct {
	Name  string
	Check func(ctx *RowContext) []Issue
}

var ruleTable = map[Kind][]Rule{
	KindPeople: {
		{Name: "columns", Check: checkPersonColumns},
		{Name: "formats", Check: checkPersonFormats},
		{Name: "references", Check: checkPersonReferences},
		{Name: "unique-email", Check: checkUniqueEmail},
		{Name: "rate-data", Check: checkRateData},
	},
	KindTeams: {
		{Name: "columns", Check: checkTeamColumns},
		{Name: "formats", Check: checkTeamFormats},
		{Name: "references", Check: checkTeamReferences},
		{Name: "unique-team", Check: checkUniqueTeam},
	},
	KindProjects: {
		{Name: "columns", Check: checkProjectColumns},
		{Name: "formats", Check: checkProjectFormats},
		{Name: "unique-project", Check: checkUniqueProject},
	},
	KindAllocations: {
		{Name: "columns", Check: checkAllocationColumns},
		{Name: "formats", Check: checkAllocationFormats},
		{Name: "references", Check: checkAllocationReferences},
		{Name: "single-target", Check: checkSingleTarget(colEpicName, colProjectName, colCategory)},
	},
	KindActuals: {
		{Name: "columns", Check: checkAllocationColumns},
		{Name: "formats", Check: checkAllocationFormats},
		{Name: "references", Check: checkAllocationReferences},
		{Name: "single-target", Check: checkSingleTarget(colEpicName, colCategory)},
	},
}

// Rules returns the rule table for a kind.
func Rules(kind Kind) []Rule {
	return ruleTable[kind]
}

// ValidateRow runs every rule for kind against the row.
func ValidateRow(kind Kind, row Row, ref *Reference) ValidationResult {
	ctx := &RowContext{Row: row, Ref: ref}
	var res ValidationResult
	for _, rule := range Rules(kind) {
		for _, is := range rule.Check(ctx) {
			is.Row = row.Number
			is.Rule = rule.Name
			if is.Severity == SeverityWarning {
				res.Warnings = append(res.Warnings, is)
			} else {
				is.Severity = SeverityError
				res.Errors = append(res.Errors, is)
			}
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

const (
	colName           = "name"
	colEmail          = "email"
	colRole           = "role"
	colTeam           = "team"
	colEmployment     = "employment_type"
	colStartDate      = "start_date"
	colEndDate        = "end_date"
	colIsActive       = "is_active"
	colAnnualSalary   = "annual_salary"
	colHourlyRate     = "hourly_rate"
	colDailyRate      = "daily_rate"
	colTeamName       = "team_name"
	colDivision       = "division"
	colCapacity       = "capacity"
	colStatus         = "status"
	colTargetSkills   = "target_skills"
	colProjectName    = "project_name"
	colDescription    = "description"
	colBudget         = "budget"
	colPriority       = "priority"
	colPriorityOrder  = "priority_order"
	colEpicName       = "epic_name"
	colEpicEffort     = "epic_effort"
	colEpicStatus     = "epic_status"
	colEpicStart      = "epic_start_date"
	colEpicTargetEnd  = "epic_target_end_date"
	colCycle          = "cycle"
	colIteration      = "iteration_number"
	colPercentage     = "percentage"
	colCategory       = "run_work_category"
	colNotes          = "notes"
	colPlannedID      = "planned_allocation_id"
	colVarianceReason = "variance_reason"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("col")
	})
	return v
}

// checkStruct runs validator tags on a column struct and reports each
// failure against its column.
func checkStruct(cols any) []Issue {
	err := validate.Struct(cols)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{Column: fe.Field(), Message: describeFieldError(fe)})
	}
	return issues
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte", "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// checkVar validates a single parsed value against validator tags.
func checkVar(col string, v any, tag string) []Issue {
	err := validate.Var(v, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return []Issue{{Column: col, Message: describeFieldError(verrs[0])}}
	}
	return []Issue{{Column: col, Message: err.Error()}}
}

func parseIssue(col string, err error) Issue {
	return Issue{Column: col, Message: err.Error()}
}

// optionalNumber parses col when present, checking it against tag.
func optionalNumber(row Row, col, tag string) []Issue {
	if !row.Has(col) {
		return nil
	}
	n := ParseNumber(row.Get(col))
	if n.Err != nil {
		return []Issue{parseIssue(col, n.Err)}
	}
	return checkVar(col, n.Value, tag)
}

func optionalDate(row Row, col string) []Issue {
	if !row.Has(col) {
		return nil
	}
	if d := ParseDate(row.Get(col)); d.Err != nil {
		return []Issue{parseIssue(col, d.Err)}
	}
	return nil
}

func endBeforeStart(row Row, startCol, endCol string) []Issue {
	if !row.Has(startCol) || !row.Has(endCol) {
		return nil
	}
	start, end := ParseDate(row.Get(startCol)), ParseDate(row.Get(endCol))
	if start.Err == nil && end.Err == nil && end.Value.Before(start.Value) {
		return []Issue{{Column: endCol, Message: fmt.Sprintf("%s is before %s", endCol, startCol)}}
	}
	return nil
}

func resolve(col, label, key string, find func(string) (string, bool)) []Issue {
	if key == "" {
		return nil
	}
	if _, ok := find(key); !ok {
		return []Issue{{Column: col, Message: fmt.Sprintf("%s %q not found", label, key)}}
	}
	return nil
}

// People.

type personColumns struct {
	Name           string `col:"name" validate:"required"`
	Email          string `col:"email" validate:"required,email"`
	Role           string `col:"role" validate:"required"`
	EmploymentType string `col:"employment_type" validate:"omitempty,oneof=permanent contractor"`
	StartDate      string `col:"start_date" validate:"required"`
}

func checkPersonColumns(ctx *RowContext) []Issue {
	r := ctx.Row
	return checkStruct(personColumns{
		Name:           r.Get(colName),
		Email:          r.Get(colEmail),
		Role:           r.Get(colRole),
		EmploymentType: fold(r.Get(colEmployment)),
		StartDate:      r.Get(colStartDate),
	})
}

func checkPersonFormats(ctx *RowContext) []Issue {
	r := ctx.Row
	var issues []Issue
	issues = append(issues, optionalDate(r, colStartDate)...)
	issues = append(issues, optionalDate(r, colEndDate)...)
	issues = append(issues, endBeforeStart(r, colStartDate, colEndDate)...)
	if r.Has(colIsActive) {
		if b := ParseBool(r.Get(colIsActive)); b.Err != nil {
			issues = append(issues, parseIssue(colIsActive, b.Err))
		}
	}
	for _, col := range []string{colAnnualSalary, colHourlyRate, colDailyRate} {
		issues = append(issues, optionalNumber(r, col, "gte=0")...)
	}
	return issues
}

func checkPersonReferences(ctx *RowContext) []Issue {
	issues := resolve(colRole, "role", ctx.Row.Get(colRole), ctx.Ref.Role)
	return append(issues, resolve(colTeam, "team", ctx.Row.Get(colTeam), ctx.Ref.Team)...)
}

func checkUniqueEmail(ctx *RowContext) []Issue {
	email := ctx.Row.Get(colEmail)
	if email != "" && ctx.Ref.emails[fold(email)] {
		return []Issue{{Column: colEmail, Message: fmt.Sprintf("duplicate email %q", email)}}
	}
	return nil
}

func checkRateData(ctx *RowContext) []Issue {
	r := ctx.Row
	if r.Has(colAnnualSalary) || r.Has(colHourlyRate) || r.Has(colDailyRate) {
		return nil
	}
	roleID, ok := ctx.Ref.Role(r.Get(colRole))
	if !ok || ctx.Ref.roleHasRate[roleID] {
		return nil
	}
	return []Issue{{
		Column:   colRole,
		Severity: SeverityWarning,
		Message:  "no personal or role rate; this person will cost nothing",
	}}
}

// Teams.

type teamColumns struct {
	TeamName string `col:"team_name" validate:"required"`
	Capacity string `col:"capacity" validate:"required"`
	Status   string `col:"status" validate:"omitempty,oneof=active inactive forming"`
}

func checkTeamColumns(ctx *RowContext) []Issue {
	r := ctx.Row
	return checkStruct(teamColumns{
		TeamName: r.Get(colTeamName),
		Capacity: r.Get(colCapacity),
		Status:   fold(r.Get(colStatus)),
	})
}

func checkTeamFormats(ctx *RowContext) []Issue {
	return optionalNumber(ctx.Row, colCapacity, "gt=0")
}

func checkTeamReferences(ctx *RowContext) []Issue {
	r := ctx.Row
	issues := resolve(colDivision, "division", r.Get(colDivision), ctx.Ref.Division)
	for _, s := range splitList(r.Get(colTargetSkills)) {
		if _, ok := ctx.Ref.Skill(s); !ok {
			issues = append(issues, Issue{
				Column:   colTargetSkills,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("skill %q not found; ignored", s),
			})
		}
	}
	return issues
}

func checkUniqueTeam(ctx *RowContext) []Issue {
	name := ctx.Row.Get(colTeamName)
	if name == "" {
		return nil
	}
	divisionID, _ := ctx.Ref.Division(ctx.Row.Get(colDivision))
	if ctx.Ref.teamKeys[teamKey(divisionID, name)] {
		return []Issue{{Column: colTeamName, Message: fmt.Sprintf("duplicate team name %q in division", name)}}
	}
	return nil
}

// Projects. Consecutive rows sharing a project_name add epics to the
// project introduced by the first of them.

type projectColumns struct {
	ProjectName string `col:"project_name" validate:"required"`
	StartDate   string `col:"start_date" validate:"required"`
	Status      string `col:"status" validate:"omitempty,oneof=planning active completed cancelled"`
}

type epicColumns struct {
	EpicName   string `col:"epic_name" validate:"required"`
	EpicStatus string `col:"epic_status" validate:"omitempty,oneof=not-started in-progress completed"`
}

func continuesProject(ctx *RowContext) bool {
	_, ok := ctx.Ref.newProjects[fold(ctx.Row.Get(colProjectName))]
	return ok
}

func checkProjectColumns(ctx *RowContext) []Issue {
	r := ctx.Row
	var issues []Issue
	if continuesProject(ctx) {
		issues = checkStruct(epicColumns{EpicName: r.Get(colEpicName), EpicStatus: fold(r.Get(colEpicStatus))})
		return issues
	}
	issues = checkStruct(projectColumns{
		ProjectName: r.Get(colProjectName),
		StartDate:   r.Get(colStartDate),
		Status:      fold(r.Get(colStatus)),
	})
	if r.Has(colEpicName) || r.Has(colEpicStatus) {
		issues = append(issues, checkStruct(epicColumns{EpicName: r.Get(colEpicName), EpicStatus: fold(r.Get(colEpicStatus))})...)
	}
	return issues
}

func checkProjectFormats(ctx *RowContext) []Issue {
	r := ctx.Row
	var issues []Issue
	for _, col := range []string{colStartDate, colEndDate, colEpicStart, colEpicTargetEnd} {
		issues = append(issues, optionalDate(r, col)...)
	}
	issues = append(issues, endBeforeStart(r, colStartDate, colEndDate)...)
	issues = append(issues, endBeforeStart(r, colEpicStart, colEpicTargetEnd)...)
	issues = append(issues, optionalNumber(r, colBudget, "gte=0")...)
	issues = append(issues, optionalNumber(r, colEpicEffort, "gte=0")...)
	if r.Has(colPriority) {
		if n := ParseInt(r.Get(colPriority)); n.Err != nil {
			issues = append(issues, parseIssue(colPriority, n.Err))
		} else {
			issues = append(issues, checkVar(colPriority, n.Value, "min=1,max=4")...)
		}
	}
	if r.Has(colPriorityOrder) {
		if n := ParseInt(r.Get(colPriorityOrder)); n.Err != nil {
			issues = append(issues, parseIssue(colPriorityOrder, n.Err))
		}
	}
	return issues
}

func checkUniqueProject(ctx *RowContext) []Issue {
	name := ctx.Row.Get(colProjectName)
	if name == "" || continuesProject(ctx) {
		return nil
	}
	if _, ok := ctx.Ref.Project(name); ok {
		return []Issue{{Column: colProjectName, Message: fmt.Sprintf("project %q already exists", name)}}
	}
	return nil
}

// Allocations, planned and actual.

type allocationColumns struct {
	TeamName   string `col:"team_name" validate:"required"`
	Percentage string `col:"percentage" validate:"required"`
}

func checkAllocationColumns(ctx *RowContext) []Issue {
	r := ctx.Row
	issues := checkStruct(allocationColumns{TeamName: r.Get(colTeamName), Percentage: r.Get(colPercentage)})
	switch {
	case !r.Has(colCycle) && !r.Has(colIteration):
		issues = append(issues, Issue{Column: colCycle, Message: "cycle or iteration_number is required"})
	case !r.Has(colCycle):
		issues = append(issues, Issue{
			Column:   colCycle,
			Severity: SeverityWarning,
			Message:  "no cycle given; the allocation will match on iteration number only",
		})
	}
	return issues
}

func checkAllocationFormats(ctx *RowContext) []Issue {
	r := ctx.Row
	issues := optionalNumber(r, colPercentage, "gte=0")
	if len(issues) == 0 && r.Has(colPercentage) {
		if pct := ParseNumber(r.Get(colPercentage)).Value; pct > 100 {
			issues = append(issues, Issue{
				Column:   colPercentage,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%g%% exceeds a full iteration on its own", pct),
			})
		}
	}
	if r.Has(colIteration) {
		n := ParseInt(r.Get(colIteration))
		if n.Err != nil {
			issues = append(issues, parseIssue(colIteration, n.Err))
		} else {
			issues = append(issues, checkVar(colIteration, n.Value, "min=1")...)
		}
	}
	return issues
}

func checkAllocationReferences(ctx *RowContext) []Issue {
	r := ctx.Row
	var issues []Issue
	issues = append(issues, resolve(colTeamName, "team", r.Get(colTeamName), ctx.Ref.Team)...)
	issues = append(issues, resolve(colCycle, "cycle", r.Get(colCycle), ctx.Ref.Cycle)...)
	issues = append(issues, resolve(colEpicName, "epic", r.Get(colEpicName), ctx.Ref.Epic)...)
	issues = append(issues, resolve(colProjectName, "project", r.Get(colProjectName), ctx.Ref.Project)...)
	issues = append(issues, resolve(colCategory, "run-work category", r.Get(colCategory), ctx.Ref.Category)...)
	return issues
}

func checkSingleTarget(cols ...string) func(*RowContext) []Issue {
	return func(ctx *RowContext) []Issue {
		var set []string
		for _, c := range cols {
			if ctx.Row.Has(c) {
				set = append(set, c)
			}
		}
		if len(set) > 1 {
			return []Issue{{Column: set[0], Message: "only one of " + strings.Join(set, ", ") + " may be set"}}
		}
		return nil
	}
}
