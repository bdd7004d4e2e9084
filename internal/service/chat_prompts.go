package service

import (
	"fmt"
	"strings"

	"github.com/avelarbuild/quotient/internal/domain"
)

const intentSystem = `You route messages for a construction quotation assistant.
Decide whether the user wants a quotation prepared now, or is still discussing
the project. Only choose create_quotation when the message (with the history)
contains a real project description. Respond with a single JSON object and
nothing else.`

const intentSchema = `{
  "intent": "create_quotation" or "conversation",
  "project_description": "full project description assembled from the conversation, or empty",
  "location": "stated location or empty",
  "zip_code": "stated zip code or empty",
  "project_type": "renovation | new_construction | commercial | residential or empty",
  "timeline": "stated timeline or empty"
}`

func buildIntentPrompt(history []domain.Message, message string) string {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Latest user message: %s\n\n", message)
	b.WriteString("Respond with JSON matching this shape:\n")
	b.WriteString(intentSchema)
	return b.String()
}

const chatSystem = `You are a friendly construction quotation assistant for the
Egyptian market. You help clients describe their project well enough to be priced:
type of work, size, location, finish level, and timeline. Answer in the user's
language (English or Arabic). Keep replies short and ask for at most one missing
detail at a time. Do not invent prices; quotations are prepared by the pricing
pipeline, not in chat.`

func buildChatPrompt(history []domain.Message, message string) string {
	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	fmt.Fprintf(&b, "user: %s\nassistant:", message)
	return b.String()
}

func quotationStartedReply(quotationID string) string {
	return fmt.Sprintf(
		"I've started preparing your quotation (%s). Data extraction and pricing "+
			"are running now; it is usually ready within a couple of minutes. "+
			"You can ask me for the status here at any time.", quotationID)
}

const needMoreDetailReply = "I'd love to prepare a quotation, but I need a bit " +
	"more detail first. Could you describe the project in a sentence or two, " +
	"including the type of work and roughly how big it is?"

const fallbackChatReply = "Tell me about your construction project and I'll " +
	"prepare a quotation. Helpful details are the type of work, the size, the " +
	"location, the finish level you want, and your timeline."
