package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simonhull/plover"
	"github.com/simonhull/plover/exec"
	"github.com/simonhull/plover/filesystem"
	"github.com/simonhull/plover/generator"
	"github.com/simonhull/plover/input"
	"github.com/simonhull/plover/internal/logger"
	"github.com/simonhull/plover/internal/settings"
	"github.com/simonhull/plover/output"
	"github.com/simonhull/plover/plopfile"
	"github.com/simonhull/plover/project"
)

// ErrActionsFailed is returned when a run finished with failed actions.
// The per-action errors have already been printed.
var ErrActionsFailed = errors.New("some actions failed")

type rootOptions struct {
	init  bool
	force bool
	list  bool
	set   []string
}

// RootCmd creates and returns the root command for the plover CLI
func RootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "plover [generator] [answers...]",
		Short: "Scaffold files from templates described in a plopfile",
		Long: `plover reads generators from a plopfile (plopfile.yml, .yaml, .toml or .json)
found in the current directory or one of its parents, asks each generator's
questions and then renders its templates into files.

Run without arguments to pick a generator from a menu. Extra arguments answer
the generator's prompts in order; "_" leaves a prompt to be asked.

Examples:
  plover                          # choose a generator
  plover component                # run the component generator
  plover component Button         # answer the first prompt with "Button"
  plover component --set name=Nav --set story=true
  plover --dry-run component Nav  # show the diff, write nothing
  plover --init                   # create a starter plopfile.yml`,
		Version:       plover.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.String("plopfile", "", "Path to the plopfile (default: search upward from --cwd)")
	flags.String("cwd", "", "Directory to search for the plopfile from")
	flags.BoolVarP(&opts.init, "init", "i", false, "Create a starter plopfile.yml in --cwd")
	flags.BoolVar(&opts.force, "force", false, "With --init, overwrite an existing plopfile.yml")
	flags.BoolVarP(&opts.list, "list", "l", false, "List the available generators")
	flags.Bool("dry-run", false, "Show the changes as a diff without writing anything")
	flags.StringArrayVarP(&opts.set, "set", "s", nil, "Pre-answer a prompt (key=value, repeatable)")
	flags.Bool("verbose", false, "Enable verbose output for debugging")
	flags.String("log-level", "warn", "Diagnostic log level (debug, info, warn, error, silent)")
	flags.String("log-format", "console", "Diagnostic log format (console or json)")

	return cmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	s, err := settings.Load(cmd, "")
	if err != nil {
		return err
	}

	output.SetWriter(cmd.OutOrStdout())
	output.SetVerbose(s.Verbose)

	log, err := newLogger(s, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	presets, err := parsePresets(opts.set)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.init {
		setup := generator.NewSetup()
		if err := setup.SetGenerator(plopfile.InitGenerator(opts.force)); err != nil {
			return err
		}
		engine := setup.Seal(generator.Options{BasePath: s.Cwd, Logger: log})
		return generate(ctx, cmd, engine, plopfile.InitName, input.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), presets), s.DryRun)
	}

	file, err := loadPlopfile(s)
	if err != nil {
		return err
	}
	output.Verbose(fmt.Sprintf("Using %s", file.Path))

	engine, err := buildEngine(cmd, file, log)
	if err != nil {
		return err
	}

	if opts.list {
		output.Generators(engine.Generators())
		return nil
	}

	prompter := input.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), presets)

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		name, err = chooseGenerator(cmd, engine, prompter)
		if err != nil {
			return err
		}
	}

	if len(args) > 1 {
		gen, ok := engine.Generator(name)
		if !ok {
			return fmt.Errorf("%w: %q", generator.ErrGeneratorNotFound, name)
		}
		if err := bypass(gen.Prompts, args[1:], prompter.Presets); err != nil {
			return err
		}
	}

	return generate(ctx, cmd, engine, name, prompter, s.DryRun)
}

func newLogger(s *settings.Settings, out io.Writer) (logger.Logger, error) {
	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	if s.Verbose && level > logger.LevelDebug {
		level = logger.LevelDebug
	}
	return logger.New(level, s.LogFormat, out), nil
}

func loadPlopfile(s *settings.Settings) (*plopfile.File, error) {
	path := s.Plopfile
	if path == "" {
		found, err := plopfile.Find(s.Cwd)
		if err != nil {
			return nil, fmt.Errorf("%w (run plover --init to create one)", err)
		}
		path = found
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(s.Cwd, path)
	}
	return plopfile.Load(path)
}

// buildEngine registers the plopfile's generators, the exec action type
// and the project helpers, rooted at the plopfile's directory.
func buildEngine(cmd *cobra.Command, file *plopfile.File, log logger.Logger) (*generator.Engine, error) {
	setup := generator.NewSetup()

	runner := exec.NewRunner(&exec.Options{
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Spinner: isTerminal(cmd.OutOrStdout()),
	})
	if err := exec.Register(setup, runner); err != nil {
		return nil, err
	}

	for name, fn := range project.Helpers(file.Dir()) {
		if err := setup.SetHelper(name, fn); err != nil {
			return nil, err
		}
	}

	// Plopfile registrations come last so they may override helpers.
	if err := file.Register(setup); err != nil {
		return nil, err
	}

	return setup.Seal(generator.Options{BasePath: file.Dir(), Logger: log}), nil
}

func chooseGenerator(cmd *cobra.Command, engine *generator.Engine, t *input.Terminal) (string, error) {
	gens := engine.Generators()
	switch len(gens) {
	case 0:
		return "", fmt.Errorf("the plopfile defines no generators")
	case 1:
		return gens[0].Name, nil
	}

	if isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()) {
		return input.ChooseGenerator(gens)
	}

	labels := make([]string, len(gens))
	for i, g := range gens {
		labels[i] = g.Name
		if g.Description != "" {
			labels[i] += " - " + g.Description
		}
	}
	idx, err := t.Choose("Choose a generator", labels)
	if err != nil {
		return "", err
	}
	return gens[idx].Name, nil
}

// generate runs one generator. With dryRun set, writes are staged in
// memory and shown as a diff instead.
func generate(ctx context.Context, cmd *cobra.Command, engine *generator.Engine, name string, prompter generator.Prompter, dryRun bool) error {
	var staged *filesystem.Staged
	if dryRun {
		staged = filesystem.NewStaged(filesystem.OS{})
		engine = engine.WithFS(staged, true)
	}

	data, err := engine.GetData(ctx, name, prompter)
	if err != nil {
		return err
	}

	result := engine.Run(ctx, data)
	output.Result(result)

	if staged != nil {
		if err := output.ShowChanges(staged.Changes(), engine.Options().BasePath, isTerminal(cmd.OutOrStdout())); err != nil {
			return err
		}
	}

	if result.Failed() {
		return fmt.Errorf("%w: %d of %d", ErrActionsFailed, len(result.Failures), result.Total())
	}
	return nil
}

// parsePresets turns key=value pairs into answers. Values stay strings;
// the prompter coerces them to the prompt's type.
func parsePresets(pairs []string) (generator.Answers, error) {
	answers := generator.Answers{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q (want key=value)", pair)
		}
		answers[key] = value
	}
	return answers, nil
}

// bypass assigns positional answers to prompts in order. "_" skips a
// prompt; --set values take precedence.
func bypass(prompts []generator.PromptSpec, values []string, presets generator.Answers) error {
	if len(values) > len(prompts) {
		return fmt.Errorf("got %d answers but the generator has %d prompts", len(values), len(prompts))
	}
	for i, v := range values {
		name := prompts[i].Name
		if v == "_" {
			continue
		}
		if _, set := presets[name]; set {
			continue
		}
		presets[name] = v
	}
	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
