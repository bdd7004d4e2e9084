package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avelarbuild/quotient/internal/cli/formatter"
	"github.com/avelarbuild/quotient/internal/service"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	var sessionID, quotationID, attachment string

	cmd := &cobra.Command{
		Use:   "chat [MESSAGE]",
		Short: "Talk to the quotation assistant",
		Long: "Talk to the quotation assistant. With a message argument a single\n" +
			"turn is run; without one an interactive conversation starts.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var attachmentText string
			if attachment != "" {
				data, err := os.ReadFile(attachment)
				if err != nil {
					return fmt.Errorf("reading attachment: %w", err)
				}
				attachmentText = string(data)
			}

			if len(args) == 1 {
				_, err := runChatTurn(app, sessionID, quotationID, args[0], attachmentText)
				return err
			}

			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("a message argument is required when stdin is not a terminal")
			}
			return runChatLoop(app, sessionID, quotationID, attachmentText)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Continue an existing chat session")
	cmd.Flags().StringVar(&quotationID, "quotation", "", "Continue an existing quotation's context")
	cmd.Flags().StringVar(&attachment, "attach", "", "Path to a text file sent with the first message")

	return cmd
}

// runChatTurn runs one turn to stdout and returns the session id for
// the next turn. Attachment-bearing turns take the blocking path; the
// streaming dispatcher does not accept attachments.
func runChatTurn(app *App, sessionID, quotationID, message, attachmentText string) (string, error) {
	req := service.ChatRequest{
		SessionID:      sessionID,
		QuotationID:    quotationID,
		Message:        message,
		AttachmentText: attachmentText,
	}

	if attachmentText != "" {
		resp, err := app.Chat.Chat(context.Background(), req)
		if err != nil {
			return sessionID, err
		}
		fmt.Println(resp.Reply)
		if resp.QuotationID != "" {
			fmt.Printf("%s %s\n", formatter.Dim("Quotation:"), formatter.Bold(resp.QuotationID))
		}
		return resp.SessionID, nil
	}

	nextSession := sessionID
	err := app.Chat.ChatStream(context.Background(), req, func(ev service.ChatEvent) error {
		switch ev.Type {
		case service.EventContent:
			fmt.Print(ev.Content)
		case service.EventDone:
			fmt.Println()
			nextSession = ev.SessionID
			if ev.QuotationID != "" {
				fmt.Printf("%s %s\n", formatter.Dim("Quotation:"), formatter.Bold(ev.QuotationID))
			}
		case service.EventError:
			fmt.Println()
			return fmt.Errorf("%s", ev.Error)
		}
		return nil
	})
	return nextSession, err
}

func runChatLoop(app *App, sessionID, quotationID, attachmentText string) error {
	fmt.Println(formatter.Dim("Describe your project to get a quotation. Type \"exit\" to leave."))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(formatter.StyleHeader.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		next, err := runChatTurn(app, sessionID, quotationID, line, attachmentText)
		if err != nil {
			fmt.Println(formatter.StyleRed.Render(err.Error()))
			continue
		}
		sessionID = next
		// The attachment accompanies only the first message.
		attachmentText = ""
	}
}
