package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/plover/generator"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Prompt types understood by Terminal.
const (
	TypeInput    = "input"
	TypeConfirm  = "confirm"
	TypeList     = "list"
	TypeCheckbox = "checkbox"
)

// ErrNoInput is returned when input ends before a required answer is given.
var ErrNoInput = errors.New("no input")

// Terminal asks prompts line by line.
//
// Presets answer prompts ahead of time (plover --set name=value); a prompt
// whose name has a preset is not asked. Presets that match no prompt are
// still passed through to the answers.
type Terminal struct {
	Out     io.Writer
	Presets generator.Answers

	in *bufio.Reader
}

// NewTerminal creates a Terminal reading from in and writing to out.
// Nil values mean stdin and stdout.
func NewTerminal(in io.Reader, out io.Writer, presets generator.Answers) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{Out: out, Presets: presets, in: bufio.NewReader(in)}
}

// Ask implements generator.Prompter.
func (t *Terminal) Ask(ctx context.Context, prompts []generator.PromptSpec) (generator.Answers, error) {
	answers := t.Presets.Clone()

	for _, p := range prompts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.Name == "" {
			return nil, fmt.Errorf("prompt %q has no name", p.Message)
		}

		if preset, ok := t.Presets[p.Name]; ok {
			value, err := coercePreset(p, preset)
			if err != nil {
				return nil, err
			}
			answers[p.Name] = value
			continue
		}

		value, err := t.ask(p)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", p.Name, err)
		}
		answers[p.Name] = value
	}

	return answers, nil
}

func (t *Terminal) ask(p generator.PromptSpec) (any, error) {
	message := p.Message
	if message == "" {
		message = p.Name
	}

	switch p.Type {
	case "", TypeInput:
		return t.input(message, p)
	case TypeConfirm:
		return t.confirm(message, p)
	case TypeList:
		return t.list(message, p)
	case TypeCheckbox:
		return t.checkbox(message, p)
	default:
		return nil, fmt.Errorf("unsupported prompt type %q", p.Type)
	}
}

// readLine reads one trimmed line. io.EOF is only returned when nothing at
// all was read.
func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) printPrompt(message, hint string) {
	if hint != "" {
		fmt.Fprint(t.Out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")
		return
	}
	fmt.Fprint(t.Out, promptStyle.Render(message)+": ")
}

func (t *Terminal) complain(msg string) {
	fmt.Fprintln(t.Out, errStyle.Render("  "+msg))
}

// input asks for free text. Empty input takes the default; a required
// prompt without a default asks again.
func (t *Terminal) input(message string, p generator.PromptSpec) (any, error) {
	def := ""
	if p.Default != nil {
		def = fmt.Sprint(p.Default)
	}
	hint := ""
	if def != "" {
		hint = "(" + def + ")"
	}

	for {
		t.printPrompt(message, hint)
		line, err := t.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (def != "" || !p.Required) {
				return def, nil
			}
			return nil, noInput(err)
		}
		if line != "" {
			return line, nil
		}
		if def != "" || !p.Required {
			return def, nil
		}
		t.complain("A value is required")
	}
}

// confirm asks a yes/no question.
func (t *Terminal) confirm(message string, p generator.PromptSpec) (any, error) {
	def, _ := p.Default.(bool)
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		t.printPrompt(message, hint)
		line, err := t.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return def, nil
			}
			return nil, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		t.complain("Please answer y or n")
	}
}

// list asks for one of p.Choices by number or by name.
func (t *Terminal) list(message string, p generator.PromptSpec) (any, error) {
	if len(p.Choices) == 0 {
		return nil, fmt.Errorf("list prompt has no choices")
	}

	def := ""
	if s, ok := p.Default.(string); ok && slices.Contains(p.Choices, s) {
		def = s
	}

	for {
		t.printMenu(message, p.Choices)
		hint := fmt.Sprintf("[1-%d]", len(p.Choices))
		if def != "" {
			hint += " (" + def + ")"
		}
		t.printPrompt("Choose", hint)

		line, err := t.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) && def != "" {
				return def, nil
			}
			return nil, noInput(err)
		}
		if line == "" && def != "" {
			return def, nil
		}
		if choice, ok := pick(line, p.Choices); ok {
			return choice, nil
		}
		t.complain(fmt.Sprintf("Invalid selection %q", line))
	}
}

// checkbox asks for any number of p.Choices as a comma-separated list of
// numbers or names.
func (t *Terminal) checkbox(message string, p generator.PromptSpec) (any, error) {
	if len(p.Choices) == 0 {
		return nil, fmt.Errorf("checkbox prompt has no choices")
	}
	def := toStrings(p.Default)

	for {
		t.printMenu(message, p.Choices)
		t.printPrompt("Select (comma separated)", fmt.Sprintf("[1-%d]", len(p.Choices)))

		line, err := t.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return def, nil
			}
			return nil, err
		}
		if line == "" {
			return def, nil
		}

		selected, bad := pickMany(line, p.Choices)
		if bad == "" {
			return selected, nil
		}
		t.complain(fmt.Sprintf("Invalid selection %q", bad))
	}
}

func (t *Terminal) printMenu(message string, choices []string) {
	fmt.Fprintln(t.Out, promptStyle.Render(message))
	for i, c := range choices {
		fmt.Fprintf(t.Out, "  %d) %s\n", i+1, c)
	}
}

// Choose asks for one item by number and returns its index. It is the
// fallback generator picker when stdin is not a terminal.
func (t *Terminal) Choose(message string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("nothing to choose from")
	}

	t.printMenu(message, items)
	t.printPrompt("Enter number", fmt.Sprintf("[1-%d]", len(items)))

	line, err := t.readLine()
	if err != nil {
		return 0, noInput(err)
	}
	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(items) {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", line, len(items))
	}
	return num - 1, nil
}

func pick(s string, choices []string) (string, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], true
		}
		return "", false
	}
	if slices.Contains(choices, s) {
		return s, true
	}
	return "", false
}

// pickMany resolves a comma-separated selection, keeping choice order and
// dropping duplicates. bad is the first entry that matched nothing.
func pickMany(s string, choices []string) (selected []string, bad string) {
	chosen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, ok := pick(part, choices)
		if !ok {
			return nil, part
		}
		chosen[c] = true
	}

	selected = []string{}
	for _, c := range choices {
		if chosen[c] {
			selected = append(selected, c)
		}
	}
	return selected, ""
}

// coercePreset converts a --set value to the type the prompt would have
// produced.
func coercePreset(p generator.PromptSpec, v any) (any, error) {
	s, isString := v.(string)
	if !isString {
		return v, nil
	}

	switch p.Type {
	case TypeConfirm:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("preset %s=%q: expected true or false", p.Name, s)
		}
		return b, nil
	case TypeCheckbox:
		if s == "" {
			return []string{}, nil
		}
		selected, bad := pickMany(s, p.Choices)
		if bad != "" {
			return nil, fmt.Errorf("preset %s: %q is not one of %v", p.Name, bad, p.Choices)
		}
		return selected, nil
	case TypeList:
		choice, ok := pick(s, p.Choices)
		if !ok {
			return nil, fmt.Errorf("preset %s: %q is not one of %v", p.Name, s, p.Choices)
		}
		return choice, nil
	default:
		return s, nil
	}
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{}
	}
}

func noInput(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrNoInput
	}
	return err
}
