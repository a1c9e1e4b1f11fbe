package generator

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/simonhull/plover/filesystem"
	"github.com/simonhull/plover/internal/logger"
)

// Executor performs one action. It returns the rendered path to report for
// the action (empty to report the declared path) and any failure.
type Executor interface {
	Execute(ctx context.Context, actx *ActionContext, spec ActionSpec) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, actx *ActionContext, spec ActionSpec) (string, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, actx *ActionContext, spec ActionSpec) (string, error) {
	return f(ctx, actx, spec)
}

// ActionContext is everything an executor may use during a run.
type ActionContext struct {
	Answers  Answers
	BasePath string        // Root for relative action paths and template files
	FS       filesystem.FS // File access (OS, or Staged for dry runs)
	Renderer *Renderer
	Logger   logger.Logger
	DryRun   bool // Executors with effects outside FS must skip them
}

// withDefaults returns a copy of actx with nil fields filled in.
func (a *ActionContext) withDefaults() *ActionContext {
	out := &ActionContext{}
	if a != nil {
		*out = *a
	}
	if out.Answers == nil {
		out.Answers = Answers{}
	}
	if out.BasePath == "" {
		out.BasePath = "."
	}
	if out.FS == nil {
		out.FS = filesystem.OS{}
	}
	if out.Renderer == nil {
		out.Renderer = NewRenderer()
	}
	if out.Logger == nil {
		out.Logger = logger.Default()
	}
	return out
}

// Data returns the template data for spec: the answers with spec.Data
// layered on top.
func (a *ActionContext) Data(spec ActionSpec) map[string]any {
	data := make(map[string]any, len(a.Answers)+len(spec.Data))
	maps.Copy(data, a.Answers)
	maps.Copy(data, spec.Data)
	return data
}

// Render renders source against the template data for spec.
func (a *ActionContext) Render(spec ActionSpec, name, source string) (string, error) {
	return a.Renderer.Render(name, source, a.Data(spec))
}

// Resolve turns a path relative to the base path into a usable one.
func (a *ActionContext) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(a.BasePath, rel)
}

// RenderPath renders spec.Path. It returns the rendered path as declared
// (for reporting) and the resolved target on disk.
func (a *ActionContext) RenderPath(spec ActionSpec) (string, string, error) {
	rel, err := a.Render(spec, "path", spec.Path)
	if err != nil {
		return "", "", fmt.Errorf("rendering path: %w", err)
	}
	return rel, a.Resolve(rel), nil
}

// Content renders the action's content from Template or TemplateFile.
// With neither set the content is empty.
func (a *ActionContext) Content(spec ActionSpec) (string, error) {
	switch {
	case spec.Template != "":
		return a.Render(spec, "template", spec.Template)
	case spec.TemplateFile != "":
		name, err := a.Render(spec, "templateFile", spec.TemplateFile)
		if err != nil {
			return "", fmt.Errorf("rendering template file path: %w", err)
		}
		source, err := a.FS.ReadFile(a.Resolve(name))
		if err != nil {
			return "", fmt.Errorf("%w: template file %s: %w", ErrRead, name, err)
		}
		return a.Render(spec, name, string(source))
	default:
		return "", nil
	}
}

// writeFile creates parent directories as needed and writes content.
func (a *ActionContext) writeFile(target string, content []byte, perm fs.FileMode) error {
	if err := a.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("%w: creating directory for %s: %w", ErrWrite, target, err)
	}
	if err := a.FS.WriteFile(target, content, perm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	return nil
}

// ActionTypes maps action type names to executors.
//
// Registration happens during setup only; a sealed Engine holds its own copy
// and never writes to it, so no locking is needed. Setting a name that is
// already registered replaces the previous executor: the last registration
// wins.
type ActionTypes struct {
	executors map[string]Executor
}

// NewActionTypes creates an empty set of action types.
func NewActionTypes() *ActionTypes {
	return &ActionTypes{executors: make(map[string]Executor)}
}

// Set registers ex under name, replacing any previous executor.
func (t *ActionTypes) Set(name string, ex Executor) error {
	if name == "" {
		return fmt.Errorf("cannot register action type with empty name")
	}
	if ex == nil {
		return fmt.Errorf("cannot register nil executor for action type %q", name)
	}
	t.executors[name] = ex
	return nil
}

// Get retrieves the executor for name.
func (t *ActionTypes) Get(name string) (Executor, bool) {
	ex, ok := t.executors[name]
	return ex, ok
}

// Names returns all registered type names in sorted order
func (t *ActionTypes) Names() []string {
	return slices.Sorted(maps.Keys(t.executors))
}

func (t *ActionTypes) clone() *ActionTypes {
	return &ActionTypes{executors: maps.Clone(t.executors)}
}
