package cli

import (
	"context"
	"fmt"

	"github.com/avelarbuild/quotient/internal/cli/formatter"
	"github.com/avelarbuild/quotient/internal/service"
	"github.com/spf13/cobra"
)

func newCreateCmd(app *App) *cobra.Command {
	var req service.CreateQuotationRequest
	var interactive, wait bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quotation and start processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if interactive {
				if app.IsInteractive != nil && !app.IsInteractive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := createQuotationForm(&req).Run(); err != nil {
					return err
				}
			}

			q, err := app.Quotations.Create(ctx, req)
			if err != nil {
				return err
			}
			app.Trigger.Trigger(q.ID)

			fmt.Printf("Created quotation %s\n", q.ID)

			if wait {
				return watchQuotation(app, q.ID)
			}

			fmt.Printf("Track it with: quotient status %s --watch\n", formatter.Dim(q.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ProjectDescription, "description", "", "Free-text project description (at least 10 words)")
	cmd.Flags().StringVar(&req.Location, "location", "", "Project location")
	cmd.Flags().StringVar(&req.ZipCode, "zip", "", "Zip code (5 or 9 digits)")
	cmd.Flags().StringVar(&req.ProjectType, "type", "", "Project type (residential|commercial|renovation|new_construction)")
	cmd.Flags().StringVar(&req.Timeline, "timeline", "", "Requested timeline, e.g. \"10 weeks\"")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Collect fields through an interactive form")
	cmd.Flags().BoolVar(&wait, "wait", false, "Watch processing until it finishes")

	return cmd
}
