package generator

import (
	"context"
	"maps"
)

// Answers maps prompt names to the values the user supplied.
type Answers map[string]any

// Clone returns a shallow copy of the answers.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	maps.Copy(out, a)
	return out
}

// PromptSpec describes one question. The engine never reads it; it is handed
// as-is to the Prompter.
type PromptSpec struct {
	Type     string   // input, confirm, list, checkbox (default: input)
	Name     string   // Answer key
	Message  string   // Question shown to the user
	Default  any      // Value used when the user enters nothing
	Choices  []string // Options for list and checkbox
	Required bool     // Re-ask on empty input when there is no default
}

// Prompter collects answers for a set of prompts. It is the only place a run
// waits on the outside world.
type Prompter interface {
	Ask(ctx context.Context, prompts []PromptSpec) (Answers, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, prompts []PromptSpec) (Answers, error)

// Ask calls f.
func (f PrompterFunc) Ask(ctx context.Context, prompts []PromptSpec) (Answers, error) {
	return f(ctx, prompts)
}

// Generator is a named bundle of prompts and actions.
type Generator struct {
	Name        string
	Description string
	Prompts     []PromptSpec
	Actions     ActionList
}

// TransformFunc rewrites the existing content of a file for modify actions.
type TransformFunc func(content string, answers Answers) (string, error)

// ActionSpec is one declared file mutation. Type selects the executor;
// every other field is interpreted by that executor.
type ActionSpec struct {
	Type string // Registered action type (add, modify, append, addMany, ...)
	Path string // Target path template, relative to the engine base path

	Template     string // Inline content template
	TemplateFile string // Content template file, relative to the base path

	Pattern   string        // modify/append: regular expression locating the edit
	Transform TransformFunc // modify: replaces Pattern/Template handling when set
	Separator string        // append: inserted before the new text (default "\n")
	Unique    bool          // append: skip when the rendered text is already present

	Force        bool // add/addMany: overwrite existing files
	SkipIfExists bool // add/addMany: leave existing files alone and succeed

	TemplateFiles string // addMany: template directory, relative to the base path

	Data   map[string]any // Extra template data, layered over the answers
	Params map[string]any // Free-form parameters for custom action types
}

// clone copies the spec so later edits to maps never leak across runs.
func (a ActionSpec) clone() ActionSpec {
	if a.Data != nil {
		a.Data = maps.Clone(a.Data)
	}
	if a.Params != nil {
		a.Params = maps.Clone(a.Params)
	}
	return a
}
