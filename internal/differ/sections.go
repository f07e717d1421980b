package differ

import "strings"

// ChangeKind classifies a diff section.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// DiffSection is one contiguous run of changed lines with the heading that
// was in effect when it started.
type DiffSection struct {
	Heading    string     `json:"heading"`
	OldText    string     `json:"old_text,omitempty"`
	NewText    string     `json:"new_text,omitempty"`
	ChangeType ChangeKind `json:"change_type"`
}

// parseSections walks unified diff lines and groups changed lines into
// sections. Hunk headers and context lines end the current run. The most
// recent heading-like line, changed or not, carries over between runs.
func parseSections(lines []diffLine) []DiffSection {
	var (
		sections []DiffSection
		removed  []string
		added    []string
		heading  string
	)

	flush := func() {
		if len(removed) == 0 && len(added) == 0 {
			return
		}
		sections = append(sections, makeSection(heading, removed, added))
		removed, added = nil, nil
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.text)
		switch line.kind {
		case lineFileHeader:
		case lineHunkHeader:
			flush()
		case lineRemoved:
			if text != "" {
				removed = append(removed, text)
				if LooksLikeHeading(text) {
					heading = text
				}
			}
		case lineAdded:
			if text != "" {
				added = append(added, text)
				if LooksLikeHeading(text) {
					heading = text
				}
			}
		case lineContext:
			flush()
			if LooksLikeHeading(text) {
				heading = text
			}
		}
	}
	flush()

	return sections
}

func makeSection(heading string, removed, added []string) DiffSection {
	switch {
	case len(added) == 0:
		return DiffSection{Heading: heading, OldText: strings.Join(removed, "\n"), ChangeType: ChangeRemoved}
	case len(removed) == 0:
		return DiffSection{Heading: heading, NewText: strings.Join(added, "\n"), ChangeType: ChangeAdded}
	default:
		return DiffSection{
			Heading:    heading,
			OldText:    strings.Join(removed, "\n"),
			NewText:    strings.Join(added, "\n"),
			ChangeType: ChangeModified,
		}
	}
}
