package differ

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffProcessor wraps diffmatchpatch with deterministic settings.
type DiffProcessor struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDiffProcessor creates a processor with the diff timeout disabled, so
// results never depend on machine speed.
func NewDiffProcessor() *DiffProcessor {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &DiffProcessor{dmp: dmp}
}

// Similarity returns 2*M/T where M is the number of runes the two texts have
// in common along the diff and T is their combined rune length. The pair is
// ordered before diffing so that Similarity(a, b) == Similarity(b, a).
func (dp *DiffProcessor) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1.0
	}
	if b < a {
		a, b = b, a
	}

	matched := 0
	for _, d := range dp.dmp.DiffMain(a, b, true) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}
	return 2.0 * float64(matched) / float64(total)
}

// CharDiff returns a semantically cleaned character diff, used for intra-line
// highlighting.
func (dp *DiffProcessor) CharDiff(a, b string) []diffmatchpatch.Diff {
	return dp.dmp.DiffCleanupSemantic(dp.dmp.DiffMain(a, b, false))
}

// opTag names an opcode the way unified diffs group them.
type opTag int

const (
	opEqual opTag = iota
	opReplace
	opDelete
	opInsert
)

// opcode maps a[i1:i2] to b[j1:j2].
type opcode struct {
	tag            opTag
	i1, i2, j1, j2 int
}

// LineOpcodes diffs two line slices and returns opcodes covering both.
// A deletion directly followed by an insertion becomes a replace.
func (dp *DiffProcessor) LineOpcodes(a, b []string) []opcode {
	chars1, chars2, lineArray := dp.dmp.DiffLinesToChars(strings.Join(a, ""), strings.Join(b, ""))
	diffs := dp.dmp.DiffCharsToLines(dp.dmp.DiffMain(chars1, chars2, false), lineArray)

	var ops []opcode
	i, j := 0, 0
	for k := 0; k < len(diffs); k++ {
		n := len(splitLines(diffs[k].Text))
		switch diffs[k].Type {
		case diffmatchpatch.DiffEqual:
			ops = append(ops, opcode{opEqual, i, i + n, j, j + n})
			i, j = i+n, j+n
		case diffmatchpatch.DiffDelete:
			if k+1 < len(diffs) && diffs[k+1].Type == diffmatchpatch.DiffInsert {
				m := len(splitLines(diffs[k+1].Text))
				ops = append(ops, opcode{opReplace, i, i + n, j, j + m})
				i, j = i+n, j+m
				k++
				continue
			}
			ops = append(ops, opcode{opDelete, i, i + n, j, j})
			i += n
		case diffmatchpatch.DiffInsert:
			if k+1 < len(diffs) && diffs[k+1].Type == diffmatchpatch.DiffDelete {
				m := len(splitLines(diffs[k+1].Text))
				ops = append(ops, opcode{opReplace, i, i + m, j, j + n})
				i, j = i+m, j+n
				k++
				continue
			}
			ops = append(ops, opcode{opInsert, i, i, j, j + n})
			j += n
		}
	}
	return ops
}

// splitLines splits s after every newline, keeping the terminators.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
