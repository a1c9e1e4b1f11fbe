package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/plover/generator"
)

var (
	successTag = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("[SUCCESS]")
	failedTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("[FAILED]")
	nameStyle  = lipgloss.NewStyle().Bold(true)
)

// Result prints one line per outcome: changes first, then failures, each
// in the order the actions ran.
//
//	[SUCCESS] add src/Foo.ts
//	[FAILED] modify src/index.ts file not found: src/index.ts
func Result(r *generator.Result) {
	if r == nil {
		return
	}
	for _, c := range r.Changes {
		writeLine(fmt.Sprintf("%s %s %s", successTag, c.Type, c.Path))
	}
	for _, f := range r.Failures {
		writeLine(fmt.Sprintf("%s %s %s %v", failedTag, f.Type, f.Path, f.Err))
	}
}

// Generators prints the available generators with their descriptions,
// names padded to a common width.
func Generators(gens []generator.Generator) {
	if len(gens) == 0 {
		Info("No generators defined")
		return
	}

	width := 0
	for _, g := range gens {
		width = max(width, len(g.Name))
	}

	for _, g := range gens {
		line := nameStyle.Render(g.Name)
		if g.Description != "" {
			line += strings.Repeat(" ", width-len(g.Name)+2) + stepStyle.Render(g.Description)
		}
		writeLine("  " + line)
	}
}
