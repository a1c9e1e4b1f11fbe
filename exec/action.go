package exec

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/simonhull/plover/generator"
	"github.com/simonhull/plover/internal/logger"
)

// TypeName is the action type the exec executor is registered under.
const TypeName = "exec"

// ErrMissingCommand is returned for an exec action without params.command.
var ErrMissingCommand = errors.New("exec action needs params.command")

// Action is the generator.Executor for exec actions.
type Action struct {
	Runner *Runner
}

// Register adds the exec action type to setup.
func Register(setup *generator.Setup, runner *Runner) error {
	if runner == nil {
		runner = NewRunner(nil)
	}
	return setup.SetActionType(TypeName, &Action{Runner: runner})
}

// Execute renders the command line and runs it in the action's directory.
// The directory must already exist; earlier actions usually create it.
func (a *Action) Execute(ctx context.Context, actx *generator.ActionContext, spec generator.ActionSpec) (string, error) {
	rel, dir, err := actx.RenderPath(spec)
	if err != nil {
		return "", err
	}

	name, args, err := commandLine(actx, spec)
	if err != nil {
		return rel, err
	}
	line := strings.Join(append([]string{name}, args...), " ")

	if actx.DryRun {
		actx.Logger.Info("dry run: command not executed", logger.F("dir", rel), logger.F("command", line))
		return rel, nil
	}

	exists, err := actx.FS.Exists(dir)
	if err != nil {
		return rel, fmt.Errorf("%w: working directory %s: %w", generator.ErrRead, rel, err)
	}
	if !exists {
		return rel, fmt.Errorf("%w: working directory %s", generator.ErrNotFound, rel)
	}

	actx.Logger.Debug("running command", logger.F("dir", rel), logger.F("command", line))

	runner := a.Runner
	if runner == nil {
		runner = NewRunner(nil)
	}
	if runner.spinner {
		err = runner.RunWithSpinner(ctx, line, dir, name, args...)
	} else {
		err = runner.Run(ctx, dir, name, args...)
	}
	return rel, err
}

// commandLine renders params.command and params.args.
func commandLine(actx *generator.ActionContext, spec generator.ActionSpec) (string, []string, error) {
	raw, _ := spec.Params["command"].(string)
	if strings.TrimSpace(raw) == "" {
		return "", nil, ErrMissingCommand
	}

	name, err := actx.Render(spec, "command", raw)
	if err != nil {
		return "", nil, err
	}

	var rawArgs []string
	switch v := spec.Params["args"].(type) {
	case nil:
	case []string:
		rawArgs = v
	case []any:
		for _, a := range v {
			rawArgs = append(rawArgs, fmt.Sprint(a))
		}
	case string:
		rawArgs = strings.Fields(v)
	default:
		return "", nil, fmt.Errorf("exec action: params.args must be a list, got %T", v)
	}

	args := make([]string, len(rawArgs))
	for i, a := range rawArgs {
		if args[i], err = actx.Render(spec, "args", a); err != nil {
			return "", nil, err
		}
	}

	return strings.TrimSpace(name), args, nil
}
