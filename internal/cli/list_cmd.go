package cli

import (
	"context"
	"fmt"

	"github.com/avelarbuild/quotient/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotations",
		RunE: func(cmd *cobra.Command, args []string) error {
			quotations, err := app.Quotations.List(context.Background(), limit, offset)
			if err != nil {
				return err
			}

			if len(quotations) == 0 {
				fmt.Println("No quotations found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatQuotationList(quotations))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of quotations to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of quotations to skip")

	return cmd
}
