package generator

import (
	"errors"
	"fmt"
)

// Run-fatal errors: returned by GetData before anything touches the disk.
var (
	ErrGeneratorNotFound = errors.New("generator not found")
	ErrInvalidActionList = errors.New("invalid action list")
)

// Per-action errors: recorded in Result.Failures, never returned from Run.
var (
	ErrUnknownActionType = errors.New("unknown action type")
	ErrRender            = errors.New("template rendering failed")
	ErrPathConflict      = errors.New("file already exists")
	ErrNotFound          = errors.New("file not found")
	ErrTransform         = errors.New("transform failed")
	ErrWrite             = errors.New("write failed")
	ErrRead              = errors.New("read failed")
)

// TemplateError reports a template that could not be parsed or executed.
// It matches ErrRender with errors.Is.
type TemplateError struct {
	Name string // Template name (a path or the action field it came from)
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRender) true for every TemplateError.
func (e *TemplateError) Is(target error) bool { return target == ErrRender }
