package generator

import (
	"context"
	"fmt"

	"github.com/simonhull/plover/internal/logger"
)

// Outcome is the result of one action. Err is nil for changes.
type Outcome struct {
	Type string
	Path string
	Err  error
}

// Result collects every action outcome of a run, split by success, each list
// in the order the actions were declared.
type Result struct {
	Changes  []Outcome
	Failures []Outcome
}

// Total reports the number of outcomes recorded.
func (r *Result) Total() int {
	return len(r.Changes) + len(r.Failures)
}

// Failed reports whether any action failed.
func (r *Result) Failed() bool {
	return len(r.Failures) > 0
}

// Execute runs actions in order against types and reports one outcome per
// action. A failing action is recorded and the next one runs; Execute itself
// never fails. The context is handed to executors but does not stop the
// loop.
func Execute(ctx context.Context, types *ActionTypes, actx *ActionContext, actions []ActionSpec) *Result {
	if types == nil {
		types = NewActionTypes()
	}
	actx = actx.withDefaults()

	result := &Result{
		Changes:  []Outcome{},
		Failures: []Outcome{},
	}

	for i, spec := range actions {
		outcome := runAction(ctx, types, actx, spec)
		fields := []logger.Field{
			logger.F("index", i),
			logger.F("type", outcome.Type),
			logger.F("path", outcome.Path),
		}

		if outcome.Err != nil {
			actx.Logger.Warn("action failed", append(fields, logger.F("error", outcome.Err))...)
			result.Failures = append(result.Failures, outcome)
			continue
		}

		actx.Logger.Debug("action completed", fields...)
		result.Changes = append(result.Changes, outcome)
	}

	return result
}

// runAction dispatches one action and converts a panicking executor into a
// failed outcome. Each executor gets its own copy of the answers.
func runAction(ctx context.Context, types *ActionTypes, actx *ActionContext, spec ActionSpec) (outcome Outcome) {
	outcome = Outcome{Type: spec.Type, Path: spec.Path}

	local := *actx
	local.Answers = actx.Answers.Clone()

	ex, ok := types.Get(spec.Type)
	if !ok {
		if rel, _, err := local.RenderPath(spec); err == nil {
			outcome.Path = rel
		}
		outcome.Err = fmt.Errorf("%w: %q", ErrUnknownActionType, spec.Type)
		return outcome
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("action %q panicked: %v", spec.Type, r)
		}
	}()

	path, err := ex.Execute(ctx, &local, spec.clone())
	if path != "" {
		outcome.Path = path
	}
	outcome.Err = err
	return outcome
}
