package classifier

import "strings"

// SystemPrompt instructs the model on output shape and the severity scale.
const SystemPrompt = `You are a legal policy analyst. Given a diff of changes to a Terms of Service or Privacy Policy document, produce:

1. A clear, one-line TITLE (max 80 chars) describing the most important change
2. A plain-language SUMMARY (2-4 sentences) explaining what changed and why it matters to users/businesses
3. A SEVERITY rating: critical, major, minor, or patch

Severity Guide:
- critical: Data usage changes (AI training, selling data), liability changes, forced arbitration
- major: Pricing changes, service limits, new restrictions
- minor: Clarification of existing terms, formatting changes with substance
- patch: Typo fixes, formatting-only changes

Respond in JSON format:
{"title": "...", "summary": "...", "severity": "critical|major|minor|patch"}`

const (
	maxPromptSections = 10
	sectionExcerpt    = 500
	documentExcerpt   = 1500
)

// BuildPrompt renders the user message for a change. With sections it lists
// at most ten of them; otherwise it sends excerpts of both versions.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Service: " + req.ServiceName + "\n")

	if len(req.Sections) == 0 {
		b.WriteString("Previous version (excerpt):\n" + truncateRunes(req.OldText, documentExcerpt) + "\n\n")
		b.WriteString("New version (excerpt):\n" + truncateRunes(req.NewText, documentExcerpt) + "\n")
		return b.String()
	}

	b.WriteString("Changed sections:\n")
	sections := req.Sections
	if len(sections) > maxPromptSections {
		sections = sections[:maxPromptSections]
	}
	for _, s := range sections {
		if s.OldText != "" {
			b.WriteString("REMOVED:\n" + truncateRunes(s.OldText, sectionExcerpt) + "\n")
		}
		if s.NewText != "" {
			b.WriteString("ADDED:\n" + truncateRunes(s.NewText, sectionExcerpt) + "\n")
		}
		b.WriteString("---\n")
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
