package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/avelarbuild/quotient/internal/render"
	"github.com/spf13/cobra"
)

func newDownloadCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Save a completed quotation as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Quotations.Get(context.Background(), args[0], true)
			if err != nil {
				return err
			}

			doc, err := render.Render(format, view.Quotation, view.Data)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = doc.Filename
			}
			if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
				return fmt.Errorf("writing document: %w", err)
			}

			fmt.Printf("Wrote %s (%d bytes)\n", path, len(doc.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", render.FormatText, "Document format (text|csv|both)")
	cmd.Flags().StringVar(&output, "output", "", "Output path (defaults to the document filename)")

	return cmd
}
