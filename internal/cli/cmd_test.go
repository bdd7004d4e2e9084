package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avelarbuild/quotient/internal/db"
	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/llm"
	"github.com/avelarbuild/quotient/internal/pipeline"
	"github.com/avelarbuild/quotient/internal/repository"
	"github.com/avelarbuild/quotient/internal/service"
	"github.com/avelarbuild/quotient/internal/stage"
	"github.com/avelarbuild/quotient/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDescription = "Full renovation of a 100 sqm apartment in Cairo with premium finishes over ten weeks"

// testApp wires a full App backed by an in-memory DB. The LLM is
// disabled so both stages run on their deterministic paths.
func testApp(t *testing.T) (*App, *pipeline.Orchestrator) {
	t.Helper()
	database := testutil.NewTestDB(t)

	quotRepo := repository.NewSQLiteQuotationRepo(database)
	dataRepo := repository.NewSQLiteQuotationDataRepo(database)
	sessRepo := repository.NewSQLiteSessionRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	cfg := llm.DefaultConfig()
	cfg.Enabled = false
	client := llm.NewOllamaClient(cfg, llm.NoopObserver{})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	quotations := service.NewQuotationService(quotRepo, dataRepo, uow)
	sessions := service.NewSessionService(sessRepo, uow)

	orch := pipeline.NewOrchestrator(
		quotations,
		stage.NewExtractor(client, cfg, log),
		stage.NewPricer(client, cfg, log),
		&pipeline.Options{MaxAttempts: 2, Backoff: time.Millisecond, RunTimeout: 5 * time.Second},
		log,
	)

	app := &App{
		Quotations:    quotations,
		Sessions:      sessions,
		Chat:          service.NewChatService(sessions, quotations, orch, client, cfg),
		Trigger:       orch,
		IsInteractive: func() bool { return false },
		Log:           log,
	}
	return app, orch
}

// executeCmd runs a cobra command and captures cobra-managed output.
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

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "quotient")
}

func TestCreateCmd_RunsPipelineToCompletion(t *testing.T) {
	app, orch := testApp(t)

	_, err := executeCmd(t, app, "create", "--description", testDescription, "--location", "Cairo")
	require.NoError(t, err)
	orch.Wait()

	quotations, err := app.Quotations.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, quotations, 1)
	assert.Equal(t, domain.StatusCompleted, quotations[0].Status)
	assert.Equal(t, 100, quotations[0].Progress)
}

func TestCreateCmd_RejectsShortDescription(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "create", "--description", "too short")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatusCmd_UnknownID(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "status", "quot-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListCmd_EmptyAndAfterCreate(t *testing.T) {
	app, orch := testApp(t)

	_, err := executeCmd(t, app, "list")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "create", "--description", testDescription)
	require.NoError(t, err)
	orch.Wait()

	_, err = executeCmd(t, app, "list", "--limit", "5")
	require.NoError(t, err)
}

func TestDownloadCmd_WritesCompletedDocument(t *testing.T) {
	app, orch := testApp(t)

	_, err := executeCmd(t, app, "create", "--description", testDescription)
	require.NoError(t, err)
	orch.Wait()

	quotations, err := app.Quotations.List(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, quotations, 1)

	path := filepath.Join(t.TempDir(), "quote.txt")
	_, err = executeCmd(t, app, "download", quotations[0].ID, "--format", "text", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CONSTRUCTION QUOTATION")
}

func TestDownloadCmd_PendingQuotationNotReady(t *testing.T) {
	app, _ := testApp(t)

	q, err := app.Quotations.Create(context.Background(), service.CreateQuotationRequest{
		ProjectDescription: testDescription,
	})
	require.NoError(t, err)

	_, err = executeCmd(t, app, "download", q.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestDownloadCmd_UnknownFormat(t *testing.T) {
	app, _ := testApp(t)

	q, err := app.Quotations.Create(context.Background(), service.CreateQuotationRequest{
		ProjectDescription: testDescription,
	})
	require.NoError(t, err)

	_, err = executeCmd(t, app, "download", q.ID, "--format", "pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRemoveCmd_RequiresForceWithoutTerminal(t *testing.T) {
	app, _ := testApp(t)

	q, err := app.Quotations.Create(context.Background(), service.CreateQuotationRequest{
		ProjectDescription: testDescription,
	})
	require.NoError(t, err)

	_, err = executeCmd(t, app, "remove", q.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = executeCmd(t, app, "remove", q.ID, "--force")
	require.NoError(t, err)

	_, err = app.Quotations.Get(context.Background(), q.ID, false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestChatCmd_RequiresMessageWithoutTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message argument")
}

func TestChatCmd_SingleTurnStartsQuotation(t *testing.T) {
	app, orch := testApp(t)

	_, err := executeCmd(t, app, "chat", "I need a quote for a "+testDescription)
	require.NoError(t, err)
	orch.Wait()

	quotations, err := app.Quotations.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, quotations, 1)
	assert.Equal(t, domain.StatusCompleted, quotations[0].Status)
}

func TestGetCmd_ShowsQuotation(t *testing.T) {
	app, orch := testApp(t)

	_, err := executeCmd(t, app, "create", "--description", testDescription)
	require.NoError(t, err)
	orch.Wait()

	quotations, err := app.Quotations.List(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, quotations, 1)

	_, err = executeCmd(t, app, "get", quotations[0].ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "get", quotations[0].ID, "--summary")
	require.NoError(t, err)
}
