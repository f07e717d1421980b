package differ

import (
	"github.com/aleister1102/tosmonitor/internal/config"
)

// Result is the structured comparison of two document versions.
type Result struct {
	HasChanges      bool          `json:"has_changes"`
	Sections        []DiffSection `json:"sections"`
	WordsAdded      int           `json:"words_added"`
	WordsRemoved    int           `json:"words_removed"`
	SectionsChanged int           `json:"sections_changed"`
	RenderedDiff    string        `json:"rendered_diff,omitempty"`
	UnifiedDiff     string        `json:"unified_diff,omitempty"`
	SimilarityRatio float64       `json:"similarity_ratio"`
}

// Differ compares document versions. It performs no I/O and the same inputs
// always produce the same Result.
type Differ struct {
	processor    *DiffProcessor
	renderer     *Renderer
	contextLines int
}

// NewDiffer creates a differ from the diff section of the config.
func NewDiffer(cfg config.DiffConfig) *Differ {
	maxLines := cfg.MaxRenderedLines
	if maxLines <= 0 {
		maxLines = config.DefaultDiffMaxRenderedLines
	}
	contextLines := cfg.ContextLines
	if contextLines < 0 {
		contextLines = config.DefaultDiffContextLines
	}

	processor := NewDiffProcessor()
	return &Differ{
		processor:    processor,
		renderer:     NewRenderer(processor, maxLines, contextLines),
		contextLines: contextLines,
	}
}

// Compute compares oldText with newText.
func (d *Differ) Compute(oldText, newText string) Result {
	if oldText == newText {
		return Result{HasChanges: false, SimilarityRatio: 1.0}
	}

	ratio := d.processor.Similarity(oldText, newText)

	oldLines := splitLines(oldText)
	newLines := splitLines(newText)
	lines := unifiedLines(oldLines, newLines, d.processor.LineOpcodes(oldLines, newLines), d.contextLines)
	if len(lines) == 0 {
		return Result{HasChanges: false, SimilarityRatio: ratio}
	}

	sections := parseSections(lines)
	added, removed := WordDelta(oldText, newText)

	return Result{
		HasChanges:      true,
		Sections:        sections,
		WordsAdded:      added,
		WordsRemoved:    removed,
		SectionsChanged: len(sections),
		RenderedDiff:    d.renderer.Render(oldLines, newLines),
		UnifiedDiff:     renderUnified(lines),
		SimilarityRatio: ratio,
	}
}
