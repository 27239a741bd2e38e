package compat

import (
	"fmt"
	"strings"
)

const promptHeader = `You are a compatibility analysis engine. Given two users, return a JSON object ONLY (no markdown, no explanation) with this exact structure:
{
  "overall": <integer 65-95>,
  "cognitive": <integer 55-99>,
  "social": <integer 55-99>,
  "values": <integer 55-99>,
  "explanation": "<2 sentence AI analysis referencing the users by name and their personality traits>"
}

IMPORTANT: cognitive, social, and values must average to overall (their sum must equal overall × 3). Each can differ from overall by up to 15 points but must balance out.`

// BuildPrompt constructs the backend prompt for a pair of profiles. Blank
// majors and personality answers are sent as "Unknown".
func BuildPrompt(a, b Profile) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\n\n")
	writeUser(&sb, "A", a)
	sb.WriteString("\n")
	writeUser(&sb, "B", b)
	return sb.String()
}

func writeUser(sb *strings.Builder, label string, p Profile) {
	fmt.Fprintf(sb, "User %s: %s, Major: %s, Personality: %s",
		label, p.Name, orUnknown(p.Major), orUnknown(p.PersonalityAnswer))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
