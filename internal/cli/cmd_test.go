package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/alexanderramin/capplan/internal/testutil"
)

// testApp wires a full App over an in-memory DB seeded with
// testutil.NewTestDataset. Notifications go to the returned buffer.
func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	database := testutil.NewTestDB(t)

	live := repository.NewSQLiteDatasetRepo(database)
	require.NoError(t, live.ReplaceAll(context.Background(), testutil.NewTestDataset()))

	notes := new(bytes.Buffer)
	scenarios := service.NewScenarioService(
		live,
		repository.NewSQLiteScenarioRepo(database),
		repository.NewSQLiteWorkspaceRepo(database),
		testutil.NewTestUoW(database),
		30*24*time.Hour,
		NewTerminalNotifier(notes),
	)

	return &App{
		Scenarios: scenarios,
		Planning:  service.NewPlanningService(scenarios, 3),
		Import:    service.NewImportService(scenarios, 100),
	}, notes
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func answer(yes bool) func(string) (bool, error) {
	return func(string) (bool, error) { return yes, nil }
}

// --- team ---

func TestTeamList_ShowsDivisionNames(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "team", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Core")
	assert.Contains(t, out, "Edge")
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "40h")
}

func TestTeamList_StatusFlag(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "team", "list", "--status", "Forming")
	require.NoError(t, err)
	assert.Contains(t, out, "No teams match")

	_, err = executeCmd(t, app, "team", "list", "--status", "retired")
	assert.ErrorContains(t, err, "must be one of active, forming, inactive")
}

func TestTeamAdd_ThenListed(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "team", "add", "--name", "Payments", "--capacity", "120", "--division", "Platform", "--skills", "skill-go")
	require.NoError(t, err)
	assert.Contains(t, out, "Added team Payments")

	out, err = executeCmd(t, app, "team", "list", "--division", testutil.DivisionPlatform)
	require.NoError(t, err)
	assert.Contains(t, out, "Payments")
	assert.Contains(t, out, "120h")
}

func TestTeamAdd_RequiresCapacity(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "team", "add", "--name", "Payments")
	assert.ErrorContains(t, err, "capacity")
}

func TestTeamAdd_DuplicateName(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "team", "add", "--name", "core", "--capacity", "10", "--division", testutil.DivisionPlatform)
	assert.ErrorContains(t, err, "already exists")
}

func TestTeamCapacity_Quarter(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "team", "capacity", "core", "--quarter", "q1 2025")
	require.NoError(t, err)
	assert.Contains(t, out, "CORE · Q1 2025")
	assert.Contains(t, out, "IT1")
	assert.Contains(t, out, "90%")
}

func TestTeamCapacity_IterationWithActuals(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "team", "capacity", "Core", "--quarter", testutil.QuarterQ1, "--iteration", "1", "--actuals")
	require.NoError(t, err)
	assert.Contains(t, out, "72h")
	assert.Contains(t, out, "80h")
	assert.Contains(t, out, "-20%")
}

func TestTeamCapacity_ActualsNeedIteration(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "team", "capacity", "Core", "--quarter", testutil.QuarterQ1, "--actuals")
	assert.ErrorContains(t, err, "--iteration")
}

func TestTeamCapacity_UnknownTeam(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "team", "capacity", "Nobody", "--quarter", testutil.QuarterQ1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTeamUtilization(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "team", "utilization", "Edge", "--fy", "FY25")
	require.NoError(t, err)
	assert.Contains(t, out, "FY25")
	assert.Contains(t, out, "Q1 2025")
	assert.Contains(t, out, "50%")
}

// --- project ---

func TestProjectList_StatusFilter(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "project", "list", "--status", "planning")
	require.NoError(t, err)
	assert.Contains(t, out, "Search")
	assert.NotContains(t, out, "Billing")
}

func TestProjectList_InvalidStatus(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "project", "list", "--status", "paused")
	assert.ErrorContains(t, err, `invalid status "paused"`)
}

func TestProjectCost(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "project", "cost", "billing")
	require.NoError(t, err)
	assert.Contains(t, out, "$3,000")
	assert.Contains(t, out, "+$197,000")
	assert.Contains(t, out, "ON TRACK")
	assert.Contains(t, out, testutil.FinancialYear25)
}

func TestProjectRecommend_Limit(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "project", "recommend", "Search", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "TEAMS FOR SEARCH")
	assert.Contains(t, out, "Core")
	assert.NotContains(t, out, "Edge")
}

func TestProjectSkills(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "project", "skills", testutil.ProjectBilling)
	require.NoError(t, err)
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "AWS")
	assert.Contains(t, out, testutil.SolutionPlatform)
}

// --- import ---

const cliAllocationsCSV = `Team Name,Cycle,Percentage,Epic Name,Run Work Category
Edge,Q1 IT1,40,Invoices,
Ghost,Q1 IT1,10,,Support
core,Q1 IT2,25,,Support
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "allocations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport_PartialUpdatesWorkingSet(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "import", "allocations", writeCSV(t, cliAllocationsCSV), "--partial")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 3 rows")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "Ghost")

	out, err = executeCmd(t, app, "team", "capacity", "edge", "--quarter", testutil.QuarterQ1, "--iteration", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "40%")
}

func TestImport_AbortReportsRow(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "import", "allocations", writeCSV(t, cliAllocationsCSV))
	assert.ErrorContains(t, err, "row 3")
}

func TestImport_ValidateOnly(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "import", "allocations", writeCSV(t, cliAllocationsCSV), "--validate-only")
	require.NoError(t, err)
	assert.Contains(t, out, "Would import")

	out, err = executeCmd(t, app, "team", "capacity", "edge", "--quarter", testutil.QuarterQ1, "--iteration", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "unallocated")
}

func TestImport_UnknownKind(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "import", "budgets", writeCSV(t, cliAllocationsCSV))
	assert.Error(t, err)
}

// --- scenario ---

func TestScenario_EditSaveApplyFlow(t *testing.T) {
	app, notes := testApp(t)

	out, err := executeCmd(t, app, "scenario", "create", "Lean", "--description", "fewer people", "--switch")
	require.NoError(t, err)
	assert.Contains(t, out, "Created scenario Lean")
	assert.Contains(t, out, "Switched to Lean")
	assert.Contains(t, notes.String(), "Scenario created")

	_, err = executeCmd(t, app, "team", "add", "--name", "Payments", "--capacity", "120", "--division", "Platform")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "scenario", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Lean")
	assert.Contains(t, out, "unsaved changes")

	out, err = executeCmd(t, app, "scenario", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "LEAN VS LIVE")
	assert.Contains(t, out, "Payments")

	_, err = executeCmd(t, app, "scenario", "live")
	assert.ErrorIs(t, err, service.ErrUnsavedChanges)

	out, err = executeCmd(t, app, "scenario", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved Lean")

	out, err = executeCmd(t, app, "scenario", "apply", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Live data replaced")

	_, err = executeCmd(t, app, "scenario", "live")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "team", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Payments")
}

func TestScenarioLive_InteractiveConfirm(t *testing.T) {
	app, _ := testApp(t)
	app.IsInteractive = func() bool { return true }

	_, err := executeCmd(t, app, "scenario", "create", "Draft", "--switch")
	require.NoError(t, err)
	require.NoError(t, app.Scenarios.UpdateWorkingSet(context.Background(), func(ds *domain.Dataset) error {
		ds.Teams[0].Capacity = 10
		return nil
	}))

	app.Confirm = answer(false)
	_, err = executeCmd(t, app, "scenario", "live")
	assert.ErrorIs(t, err, errCancelled)

	app.Confirm = answer(true)
	out, err := executeCmd(t, app, "scenario", "live")
	require.NoError(t, err)
	assert.Contains(t, out, "Working on live data")
}

func TestScenarioSwitch_ForceDropsChanges(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "scenario", "create", "One", "--switch")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "scenario", "create", "Two")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "team", "add", "--name", "Temp", "--capacity", "5")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "scenario", "switch", "two")
	assert.ErrorIs(t, err, service.ErrUnsavedChanges)

	out, err := executeCmd(t, app, "scenario", "switch", "two", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Switched to Two")

	out, err = executeCmd(t, app, "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "Two")
}

func TestScenarioDelete_NeedsConfirmation(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "scenario", "create", "Spare")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "scenario", "delete", "spare")
	assert.ErrorContains(t, err, "needs confirmation")

	out, err := executeCmd(t, app, "scenario", "delete", "Spare", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Spare")

	out, err = executeCmd(t, app, "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios")
}

func TestScenarioDelete_Unknown(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "scenario", "delete", "nothing", "--force")
	assert.ErrorContains(t, err, "scenario not found")
}

func TestScenarioCreate_FromTemplate(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "scenario", "create", "--template", "budget-reduction", "--param", "percentage=50")
	require.NoError(t, err)
	assert.Contains(t, out, "Created scenario Budget reduction")

	out, err = executeCmd(t, app, "scenario", "diff", "budget reduction")
	require.NoError(t, err)
	assert.Contains(t, out, "Billing")

	out, err = executeCmd(t, app, "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget reduction")
}

func TestScenarioCreate_ParamErrors(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "scenario", "create", "X", "--param", "percentage=5")
	assert.ErrorContains(t, err, "--param needs --template")

	_, err = executeCmd(t, app, "scenario", "create", "--template", "budget-reduction", "--param", "percentage")
	assert.ErrorContains(t, err, "expected name=value")

	_, err = executeCmd(t, app, "scenario", "create")
	assert.ErrorContains(t, err, "name is required")
}

func TestScenarioDiff_NoActiveScenario(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "scenario", "diff")
	assert.Error(t, err)
}

func TestScenarioTemplates(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "scenario", "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "capacity-change")
	assert.Contains(t, out, "project-delay")
}

func TestScenarioCleanup_NothingExpired(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "scenario", "create", "Fresh")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "scenario", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "No expired scenarios")
}

// --- validate ---

func TestValidate_Clean(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "No problems found")
}

func TestValidate_ReportsProblems(t *testing.T) {
	app, _ := testApp(t)
	require.NoError(t, app.Scenarios.UpdateWorkingSet(context.Background(), func(ds *domain.Dataset) error {
		ds.Allocations = append(ds.Allocations, *testutil.NewTestAllocation("team-ghost", testutil.IterationQ1IT1, 10, testutil.ForCategory(testutil.CategorySupport)))
		return nil
	}))

	out, err := executeCmd(t, app, "validate")
	assert.ErrorContains(t, err, "1 problem found")
	assert.Contains(t, out, "team-ghost")
}

func TestTerminalNotifier_Levels(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalNotifier(&buf)

	n.Notify(context.Background(), service.Notification{Level: service.NotifyWarning, Title: "Careful", Message: "unsaved"})
	assert.Contains(t, buf.String(), "▲ Careful  unsaved")
}
