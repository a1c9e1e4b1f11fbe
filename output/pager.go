package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/plover/filesystem"
)

// pageThreshold is the number of diff lines above which ShowChanges opens
// a pager instead of printing inline.
const pageThreshold = 40

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// ShowChanges prints a diff for every staged file, paths shown relative to
// base. With interactive set, long output opens in a scrollable pager.
func ShowChanges(changes []filesystem.StagedFile, base string, interactive bool) error {
	if len(changes) == 0 {
		Info("Dry run: no files would change")
		return nil
	}

	var buf strings.Builder
	for _, c := range changes {
		diff := Diff(relPath(base, c.Path), c.Original, c.Content, c.Existed, DiffOptions{})
		if diff == "" {
			continue
		}
		buf.WriteString(diff)
		buf.WriteString("\n")
	}

	body := buf.String()
	if interactive && strings.Count(body, "\n") > pageThreshold {
		if err := Page(fmt.Sprintf("Dry run: %d file(s)", len(changes)), body); err != nil {
			return err
		}
	} else {
		writeLine(strings.TrimRight(body, "\n"))
	}

	Info(fmt.Sprintf("Dry run: %d file(s) would change, nothing was written", len(changes)))
	return nil
}

func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// Page shows content in a full-screen scrollable viewport until the user
// quits with q, esc or ctrl+c.
func Page(title, content string) error {
	p := tea.NewProgram(newPagerModel(title, content), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to show pager: %w", err)
	}
	return nil
}

// pagerModel is the BubbleTea model for the diff pager.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{title: title, content: content}
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		}

	case tea.WindowSizeMsg:
		// Title line above, status line below.
		height := max(1, msg.Height-2)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	status := fmt.Sprintf(" %3.f%%  [↑/↓ pgup/pgdn] scroll  [q] quit", m.viewport.ScrollPercent()*100)
	return titleStyle.Render(m.title) + "\n" +
		m.viewport.View() + "\n" +
		borderStyle.Render(status)
}
