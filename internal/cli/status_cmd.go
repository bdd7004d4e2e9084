package cli

import (
	"context"
	"fmt"

	"github.com/avelarbuild/quotient/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status ID",
		Short: "Show quotation processing status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return watchQuotation(app, args[0])
			}

			st, err := app.Quotations.GetStatus(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatStatus(st))
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Poll until processing reaches a terminal state")

	return cmd
}
