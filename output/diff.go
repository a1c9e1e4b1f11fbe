package output

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DiffOptions configures how diffs are rendered. Zero values take the
// defaults noted on each field.
type DiffOptions struct {
	ContextLines int  // Unchanged lines around each change (default 3)
	TabWidth     int  // Spaces per tab (default 4)
	Width        int  // Truncate lines to this width (default: terminal width)
	LineNumbers  bool // Prefix lines with their number in the new file
}

func (o DiffOptions) withDefaults() DiffOptions {
	if o.ContextLines <= 0 {
		o.ContextLines = 3
	}
	if o.TabWidth <= 0 {
		o.TabWidth = 4
	}
	if o.Width <= 0 {
		o.Width = terminalWidth()
	}
	return o
}

// maxDiffLines bounds the quadratic worst case of the edit script.
const maxDiffLines = 10000

var (
	diffHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	addedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
	lineNumStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

type editKind int

const (
	editEqual editKind = iota
	editInsert
	editDelete
)

// edit is one line of an edit script. Line numbers are 1-based; zero means
// the line does not exist on that side.
type edit struct {
	kind    editKind
	oldLine int
	newLine int
	text    string
}

// Diff renders a unified diff between old and newer. An empty old with
// existed=false is shown as a new file. Identical content yields "".
func Diff(path string, old, newer []byte, existed bool, opts DiffOptions) string {
	opts = opts.withDefaults()

	oldName := "a/" + path
	if !existed {
		oldName = "/dev/null"
	}

	if isBinary(old) || isBinary(newer) {
		if bytes.Equal(old, newer) {
			return ""
		}
		return fmt.Sprintf("Binary file %s differs\n", path)
	}

	a, b := splitLines(old), splitLines(newer)
	if slices.Equal(a, b) {
		return ""
	}
	if len(a) > maxDiffLines || len(b) > maxDiffLines {
		return fmt.Sprintf("%s: too large to diff (%d and %d lines)\n", path, len(a), len(b))
	}

	var buf strings.Builder
	buf.WriteString(diffHeaderStyle.Render("--- "+oldName) + "\n")
	buf.WriteString(diffHeaderStyle.Render("+++ b/"+path) + "\n")
	for _, h := range hunks(editScript(a, b), opts.ContextLines) {
		writeHunk(&buf, h, opts)
	}
	return buf.String()
}

// editScript computes a shortest edit script from a to b with Myers'
// O(ND) algorithm.
func editScript(a, b []string) []edit {
	n, m := len(a), len(b)
	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)

	var trace [][]int
search:
	for d := 0; d <= limit; d++ {
		trace = append(trace, slices.Clone(v))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	// Walk the trace backwards, collecting edits in reverse.
	var script []edit
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		vd := trace[d]
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && vd[offset+k-1] < vd[offset+k+1]) {
			prevK = k + 1
		}
		prevX := vd[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			script = append(script, edit{kind: editEqual, oldLine: x, newLine: y, text: a[x-1]})
			x--
			y--
		}
		if d == 0 {
			break
		}
		if x == prevX {
			script = append(script, edit{kind: editInsert, newLine: y, text: b[y-1]})
		} else {
			script = append(script, edit{kind: editDelete, oldLine: x, text: a[x-1]})
		}
		x, y = prevX, prevY
	}

	slices.Reverse(script)
	return script
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	edits              []edit
}

// hunks groups changed lines with up to context unchanged lines on each
// side. Changes separated by more than 2*context unchanged lines get
// separate hunks.
func hunks(script []edit, context int) []hunk {
	var out []hunk
	i := 0
	for i < len(script) {
		// Find the next change.
		for i < len(script) && script[i].kind == editEqual {
			i++
		}
		if i == len(script) {
			break
		}

		start := max(0, i-context)
		end := i
		for end < len(script) {
			if script[end].kind != editEqual {
				end++
				continue
			}
			run := end
			for run < len(script) && script[run].kind == editEqual {
				run++
			}
			if run == len(script) || run-end > 2*context {
				end = min(end+context, len(script))
				break
			}
			end = run
		}

		out = append(out, newHunk(script[start:end]))
		i = end
	}
	return out
}

func newHunk(edits []edit) hunk {
	h := hunk{edits: edits}
	for _, e := range edits {
		if e.kind != editInsert {
			h.oldCount++
			if h.oldStart == 0 {
				h.oldStart = e.oldLine
			}
		}
		if e.kind != editDelete {
			h.newCount++
			if h.newStart == 0 {
				h.newStart = e.newLine
			}
		}
	}
	return h
}

func writeHunk(buf *strings.Builder, h hunk, opts DiffOptions) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	buf.WriteString(hunkStyle.Render(header) + "\n")

	for _, e := range h.edits {
		text := truncate(expandTabs(e.text, opts.TabWidth), opts.Width-10)

		var line string
		switch e.kind {
		case editInsert:
			line = addedStyle.Render("+" + text)
		case editDelete:
			line = removedStyle.Render("-" + text)
		default:
			line = " " + text
		}

		if opts.LineNumbers {
			num := "    "
			if e.newLine > 0 {
				num = fmt.Sprintf("%4d", e.newLine)
			}
			line = lineNumStyle.Render(num) + " " + line
		}
		buf.WriteString(line + "\n")
	}
}

// isBinary reports whether data looks binary (a NUL in the first 8KB).
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) >= 0
}

// splitLines splits content into lines, dropping the empty element a final
// newline would produce.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func expandTabs(s string, width int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if width <= 3 {
		width = 80
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

// terminalWidth returns the stdout terminal width, or 80 when stdout is
// not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
