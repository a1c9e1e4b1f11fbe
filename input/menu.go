package input

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/plover/generator"
)

// ErrCancelled is returned when the user leaves the menu without choosing.
var ErrCancelled = errors.New("cancelled")

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ChooseGenerator shows a keyboard-driven menu of generators and returns
// the chosen name.
func ChooseGenerator(gens []generator.Generator) (string, error) {
	if len(gens) == 0 {
		return "", fmt.Errorf("no generators defined")
	}

	p := tea.NewProgram(newMenuModel(gens))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to show menu: %w", err)
	}

	m := final.(menuModel)
	if m.chosen < 0 {
		return "", ErrCancelled
	}
	return m.gens[m.chosen].Name, nil
}

// menuModel is the BubbleTea model for the generator menu.
type menuModel struct {
	gens   []generator.Generator
	cursor int
	chosen int // -1 until enter is pressed
	width  int // Widest generator name, for aligning descriptions
}

func newMenuModel(gens []generator.Generator) menuModel {
	width := 0
	for _, g := range gens {
		width = max(width, len(g.Name))
	}
	return menuModel{gens: gens, chosen: -1, width: width}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input
func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.gens)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render("Choose a generator") + "\n")
	b.WriteString(mutedStyle.Render("  [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, g := range m.gens {
		desc := ""
		if g.Description != "" {
			desc = strings.Repeat(" ", m.width-len(g.Name)+2) + mutedStyle.Render(g.Description)
		}
		if i == m.cursor {
			b.WriteString("  " + selectedStyle.Render("> "+g.Name) + desc + "\n")
		} else {
			b.WriteString("    " + g.Name + desc + "\n")
		}
	}

	return b.String()
}
