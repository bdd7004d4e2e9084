package cli

import (
	"log/slog"

	"github.com/avelarbuild/quotient/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Quotations service.QuotationService
	Sessions   service.SessionService
	Chat       service.ChatService
	Trigger    service.PipelineTrigger

	// IsInteractive reports whether stdin is an interactive terminal.
	IsInteractive func() bool

	Log *slog.Logger
}

// NewRootCmd creates the top-level "quotient" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "quotient",
		Short: "Construction quotation estimator",
	}

	root.AddCommand(
		newServeCmd(app),
		newCreateCmd(app),
		newListCmd(app),
		newGetCmd(app),
		newStatusCmd(app),
		newChatCmd(app),
		newDownloadCmd(app),
		newRemoveCmd(app),
	)

	return root
}
