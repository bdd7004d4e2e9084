package cli

import (
	"context"
	"fmt"

	"github.com/avelarbuild/quotient/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newGetCmd(app *App) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show quotation details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Quotations.Get(context.Background(), args[0], !summary)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatQuotation(view))
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Omit extraction and pricing details")

	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a quotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if !force {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("use --force to remove without confirmation")
				}
				var confirmed bool
				if err := confirmDeleteForm(id, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Kept.")
					return nil
				}
			}

			if err := app.Quotations.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Removed quotation %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
