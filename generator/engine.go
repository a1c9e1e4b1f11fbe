package generator

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/simonhull/plover/filesystem"
	"github.com/simonhull/plover/internal/logger"
)

// Setup is the registration phase. It collects generators, action types,
// helpers and partials until Seal is called. A Setup is not safe for
// concurrent use.
type Setup struct {
	generators map[string]Generator
	order      []string
	types      *ActionTypes
	helpers    map[string]any
	partials   map[string]string
}

// NewSetup creates a Setup with the built-in action types registered:
// add, modify, append and addMany.
func NewSetup() *Setup {
	types := NewActionTypes()
	_ = types.Set("add", ExecutorFunc(addAction))
	_ = types.Set("modify", ExecutorFunc(modifyAction))
	_ = types.Set("append", ExecutorFunc(appendAction))
	_ = types.Set("addMany", ExecutorFunc(addManyAction))

	return &Setup{
		generators: make(map[string]Generator),
		types:      types,
		helpers:    make(map[string]any),
		partials:   make(map[string]string),
	}
}

// SetGenerator registers gen under gen.Name. Registering a name again
// replaces the earlier generator but keeps its position in the listing.
// Static action lists are validated here; dynamic ones when resolved.
func (s *Setup) SetGenerator(gen Generator) error {
	if gen.Name == "" {
		return fmt.Errorf("generator name cannot be empty")
	}
	if static, ok := gen.Actions.(Static); ok {
		if err := validateActions(static); err != nil {
			return fmt.Errorf("generator %q: %w", gen.Name, err)
		}
	}

	if _, exists := s.generators[gen.Name]; !exists {
		s.order = append(s.order, gen.Name)
	}
	s.generators[gen.Name] = gen
	return nil
}

// SetActionType registers a custom action type. Built-in names may be
// overridden: the last registration wins.
func (s *Setup) SetActionType(name string, ex Executor) error {
	return s.types.Set(name, ex)
}

// SetHelper registers a template helper. fn must be a function returning a
// single value. Default helpers may be overridden.
func (s *Setup) SetHelper(name string, fn any) error {
	if err := validateHelper(name, fn); err != nil {
		return err
	}
	s.helpers[name] = fn
	return nil
}

// SetPartial registers a template partial, usable as {{> name}}.
func (s *Setup) SetPartial(name, source string) error {
	if err := validatePartial(name, source); err != nil {
		return err
	}
	s.partials[name] = source
	return nil
}

// Options configure a sealed Engine.
type Options struct {
	BasePath string        // Root for action paths (default ".")
	FS       filesystem.FS // Defaults to the OS filesystem
	Logger   logger.Logger // Defaults to logger.Default()
	DryRun   bool          // Passed to executors through ActionContext
}

// Seal ends the registration phase and returns an Engine holding its own
// copies of everything registered so far. Later calls on s do not affect
// the returned Engine.
func (s *Setup) Seal(opts Options) *Engine {
	if opts.BasePath == "" {
		opts.BasePath = "."
	}
	if opts.FS == nil {
		opts.FS = filesystem.OS{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	return &Engine{
		generators: maps.Clone(s.generators),
		order:      slices.Clone(s.order),
		types:      s.types.clone(),
		renderer:   newRenderer(s.helpers, s.partials),
		opts:       opts,
	}
}

// Engine is the run phase: a read-only set of generators and action types.
// It is safe for concurrent use.
type Engine struct {
	generators map[string]Generator
	order      []string
	types      *ActionTypes
	renderer   *Renderer
	opts       Options
}

// Data is everything a run needs, gathered before any file is touched.
type Data struct {
	Generator Generator
	Answers   Answers
	Actions   []ActionSpec
}

// Generators returns the registered generators in registration order.
func (e *Engine) Generators() []Generator {
	gens := make([]Generator, 0, len(e.order))
	for _, name := range e.order {
		gens = append(gens, e.generators[name])
	}
	return gens
}

// Generator looks up a generator by name.
func (e *Engine) Generator(name string) (Generator, bool) {
	gen, ok := e.generators[name]
	return gen, ok
}

// ActionTypes returns the registered action type names, sorted.
func (e *Engine) ActionTypes() []string {
	return e.types.Names()
}

// Renderer returns the engine's template renderer.
func (e *Engine) Renderer() *Renderer {
	return e.renderer
}

// Options returns the options the engine was sealed with.
func (e *Engine) Options() Options {
	return e.opts
}

// WithFS returns a copy of the engine that performs file access through
// fsys. The copy shares generators, types and the template cache.
func (e *Engine) WithFS(fsys filesystem.FS, dryRun bool) *Engine {
	clone := *e
	clone.opts.FS = fsys
	clone.opts.DryRun = dryRun
	return &clone
}

// GetData looks up the generator, asks its prompts and resolves its
// actions. Any error here is fatal for the run and happens before the
// filesystem is touched.
func (e *Engine) GetData(ctx context.Context, name string, prompter Prompter) (*Data, error) {
	gen, ok := e.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGeneratorNotFound, name)
	}

	answers := Answers{}
	if prompter != nil {
		got, err := prompter.Ask(ctx, slices.Clone(gen.Prompts))
		if err != nil {
			return nil, fmt.Errorf("collecting answers for %q: %w", name, err)
		}
		if got != nil {
			answers = got
		}
	}

	actions, err := ResolveActions(gen.Actions, answers.Clone())
	if err != nil {
		return nil, fmt.Errorf("generator %q: %w", name, err)
	}

	e.opts.Logger.Debug("resolved actions",
		logger.F("generator", name),
		logger.F("count", len(actions)),
	)

	return &Data{Generator: gen, Answers: answers, Actions: actions}, nil
}

// Run executes data's actions. It never fails as a whole; per-action
// errors are in the result's Failures.
func (e *Engine) Run(ctx context.Context, data *Data) *Result {
	if data == nil {
		return Execute(ctx, e.types, nil, nil)
	}

	actx := &ActionContext{
		Answers:  data.Answers,
		BasePath: e.opts.BasePath,
		FS:       e.opts.FS,
		Renderer: e.renderer,
		Logger:   e.opts.Logger.WithFields(logger.F("generator", data.Generator.Name)),
		DryRun:   e.opts.DryRun,
	}
	return Execute(ctx, e.types, actx, data.Actions)
}

// Generate is GetData followed by Run.
func (e *Engine) Generate(ctx context.Context, name string, prompter Prompter) (*Result, error) {
	data, err := e.GetData(ctx, name, prompter)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, data), nil
}
