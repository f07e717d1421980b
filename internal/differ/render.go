package differ

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var sideBySideTemplate = template.Must(template.New("diff").Parse(`<table class="diff">
<thead><tr><th colspan="2">Previous</th><th colspan="2">Current</th></tr></thead>
{{- if not .Groups}}
<tbody><tr><td colspan="4" class="diff-empty">No differences in the first {{.MaxLines}} lines</td></tr></tbody>
{{- end}}
{{- range $i, $group := .Groups}}
{{- if $i}}
<tbody class="diff-gap"><tr><td colspan="4">&hellip;</td></tr></tbody>
{{- end}}
<tbody>
{{- range $group}}
<tr class="diff-{{.Kind}}"><td class="diff-ln">{{.OldNo}}</td><td class="diff-old">{{.Old}}</td><td class="diff-ln">{{.NewNo}}</td><td class="diff-new">{{.New}}</td></tr>
{{- end}}
</tbody>
{{- end}}
</table>`))

type renderRow struct {
	Kind  string
	OldNo string
	Old   template.HTML
	NewNo string
	New   template.HTML
}

// Renderer produces the visual diff stored with a change.
type Renderer struct {
	processor    *DiffProcessor
	maxLines     int
	contextLines int
}

// NewRenderer creates a renderer that shows at most maxLines lines per side.
func NewRenderer(processor *DiffProcessor, maxLines, contextLines int) *Renderer {
	return &Renderer{processor: processor, maxLines: maxLines, contextLines: contextLines}
}

// Render returns a side-by-side HTML table of the first maxLines lines of each
// side, with intra-line highlighting. If the table cannot be rendered it falls
// back to an inline colour-coded listing.
func (r *Renderer) Render(oldLines, newLines []string) string {
	oldLines = truncate(oldLines, r.maxLines)
	newLines = truncate(newLines, r.maxLines)
	codes := r.processor.LineOpcodes(oldLines, newLines)

	html, err := r.sideBySide(oldLines, newLines, codes)
	if err != nil {
		return renderInline(unifiedLines(oldLines, newLines, codes, r.contextLines))
	}
	return html
}

func (r *Renderer) sideBySide(oldLines, newLines []string, codes []opcode) (string, error) {
	var groups [][]renderRow
	for _, group := range groupOpcodes(codes, r.contextLines) {
		var rows []renderRow
		for _, c := range group {
			rows = append(rows, r.rowsFor(c, oldLines, newLines)...)
		}
		groups = append(groups, rows)
	}

	var sb strings.Builder
	err := sideBySideTemplate.Execute(&sb, struct {
		Groups   [][]renderRow
		MaxLines int
	}{groups, r.maxLines})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) rowsFor(c opcode, oldLines, newLines []string) []renderRow {
	var rows []renderRow
	switch c.tag {
	case opEqual:
		for k := 0; k < c.i2-c.i1; k++ {
			text := escapeLine(oldLines[c.i1+k])
			rows = append(rows, renderRow{Kind: "equal", OldNo: lineNo(c.i1 + k), Old: text, NewNo: lineNo(c.j1 + k), New: text})
		}
	case opDelete:
		for k := c.i1; k < c.i2; k++ {
			rows = append(rows, renderRow{Kind: "removed", OldNo: lineNo(k), Old: wrap("del", oldLines[k])})
		}
	case opInsert:
		for k := c.j1; k < c.j2; k++ {
			rows = append(rows, renderRow{Kind: "added", NewNo: lineNo(k), New: wrap("ins", newLines[k])})
		}
	case opReplace:
		n := max(c.i2-c.i1, c.j2-c.j1)
		for k := 0; k < n; k++ {
			row := renderRow{Kind: "changed"}
			oi, nj := c.i1+k, c.j1+k
			switch {
			case oi < c.i2 && nj < c.j2:
				row.OldNo, row.NewNo = lineNo(oi), lineNo(nj)
				row.Old, row.New = r.highlight(oldLines[oi], newLines[nj])
			case oi < c.i2:
				row.OldNo, row.Old = lineNo(oi), wrap("del", oldLines[oi])
			default:
				row.NewNo, row.New = lineNo(nj), wrap("ins", newLines[nj])
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// highlight marks the characters that differ between a pair of lines.
func (r *Renderer) highlight(oldLine, newLine string) (template.HTML, template.HTML) {
	var oldHTML, newHTML strings.Builder
	for _, d := range r.processor.CharDiff(trimEOL(oldLine), trimEOL(newLine)) {
		escaped := template.HTMLEscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldHTML.WriteString(escaped)
			newHTML.WriteString(escaped)
		case diffmatchpatch.DiffDelete:
			oldHTML.WriteString(`<del>` + escaped + `</del>`)
		case diffmatchpatch.DiffInsert:
			newHTML.WriteString(`<ins>` + escaped + `</ins>`)
		}
	}
	return template.HTML(oldHTML.String()), template.HTML(newHTML.String())
}

func renderInline(lines []diffLine) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		escaped := template.HTMLEscapeString(strings.TrimRight(l.String(), "\n"))
		switch l.kind {
		case lineAdded:
			out = append(out, `<span class="diff-added">`+escaped+`</span>`)
		case lineRemoved:
			out = append(out, `<span class="diff-removed">`+escaped+`</span>`)
		default:
			out = append(out, `<span>`+escaped+`</span>`)
		}
	}
	return "<pre>" + strings.Join(out, "\n") + "</pre>"
}

func wrap(tag, line string) template.HTML {
	return template.HTML("<" + tag + ">" + template.HTMLEscapeString(trimEOL(line)) + "</" + tag + ">")
}

func escapeLine(line string) template.HTML {
	return template.HTML(template.HTMLEscapeString(trimEOL(line)))
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

func lineNo(idx int) string {
	return strconv.Itoa(idx + 1)
}

func truncate(lines []string, limit int) []string {
	if limit > 0 && len(lines) > limit {
		return lines[:limit]
	}
	return lines
}
