package stage

import (
	"fmt"
	"strings"
)

const extractionSystem = `You are a construction project analyst. You read project
descriptions from clients (in English or Arabic) and extract structured parameters.
Respond with a single JSON object and nothing else. Use null for any field the
description does not support. Do not guess numbers that are not stated or clearly
implied.`

const extractionSchema = `{
  "project_type": "renovation | new_construction | commercial | residential or null",
  "size_sqm": number or null,
  "current_finish_level": "basic | standard | premium or null",
  "target_finish_level": "basic | standard | premium or null",
  "timeline_weeks": integer or null,
  "key_requirements": [string],
  "missing_information": [string],
  "follow_up_questions": [string],
  "confidence_score": number between 0 and 1
}`

func buildExtractionPrompt(in ExtractionInput) string {
	var b strings.Builder
	b.WriteString("Extract construction project parameters from the description below.\n\n")
	fmt.Fprintf(&b, "Description: %s\n", in.Description)
	if in.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", in.Location)
	}
	if in.ZipCode != "" {
		fmt.Fprintf(&b, "Zip code: %s\n", in.ZipCode)
	}
	if in.ProjectType != "" {
		fmt.Fprintf(&b, "Client-stated project type: %s\n", in.ProjectType)
	}
	if in.Timeline != "" {
		fmt.Fprintf(&b, "Client-stated timeline: %s\n", in.Timeline)
	}
	if in.AttachmentText != "" {
		fmt.Fprintf(&b, "\nAttached document text:\n%s\n", in.AttachmentText)
	}
	if len(in.History) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, m := range in.History {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}
	b.WriteString("\nSizes given in square feet must be converted to square meters.\n")
	b.WriteString("Respond with JSON matching this shape:\n")
	b.WriteString(extractionSchema)
	return b.String()
}

const finishLevelSystem = `You classify the finish level of a construction project
from its stated requirements. Respond with a single JSON object and nothing else.`

func buildFinishLevelPrompt(requirements []string) string {
	var b strings.Builder
	b.WriteString("Given these project requirements, pick the finish level that fits best.\n\n")
	for _, r := range requirements {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\nRespond with JSON: {\"target_finish_level\": \"basic\" | \"standard\" | \"premium\"}")
	return b.String()
}
