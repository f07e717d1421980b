package differ

import (
	"fmt"
	"strings"
)

type lineKind int

const (
	lineFileHeader lineKind = iota
	lineHunkHeader
	lineContext
	lineRemoved
	lineAdded
)

// diffLine is one line of a unified diff, kept structured so that content
// starting with "--" or "++" is never mistaken for a file header.
type diffLine struct {
	kind lineKind
	text string
}

func (l diffLine) String() string {
	switch l.kind {
	case lineContext:
		return " " + l.text
	case lineRemoved:
		return "-" + l.text
	case lineAdded:
		return "+" + l.text
	default:
		return l.text
	}
}

const (
	fromFile = "Previous Version"
	toFile   = "Current Version"
)

// groupOpcodes splits opcodes into hunks with up to n lines of context,
// breaking wherever an unchanged run is longer than 2n lines.
func groupOpcodes(codes []opcode, n int) [][]opcode {
	if len(codes) == 0 {
		return nil
	}
	codes = append([]opcode(nil), codes...)

	if first := codes[0]; first.tag == opEqual {
		codes[0] = opcode{opEqual, max(first.i1, first.i2-n), first.i2, max(first.j1, first.j2-n), first.j2}
	}
	if last := codes[len(codes)-1]; last.tag == opEqual {
		codes[len(codes)-1] = opcode{opEqual, last.i1, min(last.i2, last.i1+n), last.j1, min(last.j2, last.j1+n)}
	}

	var groups [][]opcode
	var group []opcode
	for _, c := range codes {
		if c.tag == opEqual && c.i2-c.i1 > 2*n {
			group = append(group, opcode{opEqual, c.i1, min(c.i2, c.i1+n), c.j1, min(c.j2, c.j1+n)})
			groups = append(groups, group)
			group = nil
			c.i1, c.j1 = max(c.i1, c.i2-n), max(c.j1, c.j2-n)
		}
		group = append(group, c)
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].tag == opEqual) {
		groups = append(groups, group)
	}
	return groups
}

func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

// unifiedLines builds the unified diff of a and b with n context lines.
// It returns nil when there are no differences.
func unifiedLines(a, b []string, codes []opcode, n int) []diffLine {
	groups := groupOpcodes(codes, n)
	if len(groups) == 0 {
		return nil
	}

	lines := []diffLine{
		{kind: lineFileHeader, text: "--- " + fromFile},
		{kind: lineFileHeader, text: "+++ " + toFile},
	}
	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		lines = append(lines, diffLine{
			kind: lineHunkHeader,
			text: fmt.Sprintf("@@ -%s +%s @@", formatRange(first.i1, last.i2), formatRange(first.j1, last.j2)),
		})
		for _, c := range group {
			if c.tag == opEqual {
				for _, l := range a[c.i1:c.i2] {
					lines = append(lines, diffLine{kind: lineContext, text: l})
				}
				continue
			}
			if c.tag == opReplace || c.tag == opDelete {
				for _, l := range a[c.i1:c.i2] {
					lines = append(lines, diffLine{kind: lineRemoved, text: l})
				}
			}
			if c.tag == opReplace || c.tag == opInsert {
				for _, l := range b[c.j1:c.j2] {
					lines = append(lines, diffLine{kind: lineAdded, text: l})
				}
			}
		}
	}
	return lines
}

// renderUnified joins diff lines into plain unified diff text.
func renderUnified(lines []diffLine) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(strings.TrimRight(l.String(), "\n"))
		sb.WriteByte('\n')
	}
	return sb.String()
}
