package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/avelarbuild/quotient/internal/cli"
	"github.com/avelarbuild/quotient/internal/db"
	"github.com/avelarbuild/quotient/internal/llm"
	"github.com/avelarbuild/quotient/internal/pipeline"
	"github.com/avelarbuild/quotient/internal/repository"
	"github.com/avelarbuild/quotient/internal/service"
	"github.com/avelarbuild/quotient/internal/stage"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.quotient/quotient.db
	dbPath := os.Getenv("QUOTIENT_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".quotient", "quotient.db")
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	quotationRepo := repository.NewSQLiteQuotationRepo(database)
	dataRepo := repository.NewSQLiteQuotationDataRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire the LLM client. Both pipeline stages and the chat dispatcher
	// degrade to deterministic paths when the client is disabled or the
	// backend is unreachable.
	llmCfg := llm.LoadConfig()
	var llmObserver llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		llmObserver = llm.NewLogObserver(os.Stderr)
	}
	llmClient := llm.NewOllamaClient(llmCfg, llmObserver)

	// Wire services
	observer := service.NewLogUseCaseObserver(os.Stderr)
	quotationSvc := service.NewQuotationService(quotationRepo, dataRepo, uow, observer)
	sessionSvc := service.NewSessionService(sessionRepo, uow, observer)

	orchestrator := pipeline.NewOrchestrator(
		quotationSvc,
		stage.NewExtractor(llmClient, llmCfg, log),
		stage.NewPricer(llmClient, llmCfg, log),
		nil,
		log,
	)

	app := &cli.App{
		Quotations: quotationSvc,
		Sessions:   sessionSvc,
		Chat:       service.NewChatService(sessionSvc, quotationSvc, orchestrator, llmClient, llmCfg, observer),
		Trigger:    orchestrator,
		Log:        log,
	}

	// Detect interactive terminal for form and chat entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

func logLevel() slog.Level {
	switch os.Getenv("QUOTIENT_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
