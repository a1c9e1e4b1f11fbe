package generator

import (
	"fmt"
	"strings"
)

// ActionList produces the concrete actions for a run once answers are known.
type ActionList interface {
	Resolve(answers Answers) ([]ActionSpec, error)
}

// Static is a fixed action list.
type Static []ActionSpec

// Resolve returns a copy of the list.
func (s Static) Resolve(Answers) ([]ActionSpec, error) {
	out := make([]ActionSpec, len(s))
	for i, a := range s {
		out[i] = a.clone()
	}
	return out, nil
}

// Dynamic computes the action list from the answers. It must be
// deterministic and free of side effects.
type Dynamic func(answers Answers) ([]ActionSpec, error)

// Resolve calls d once and copies the result.
func (d Dynamic) Resolve(answers Answers) ([]ActionSpec, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: dynamic action list is nil", ErrInvalidActionList)
	}
	actions, err := d(answers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidActionList, err)
	}
	return Static(actions).Resolve(answers)
}

// ResolveActions resolves list against answers and checks every entry.
// It decides what will run; it never renders templates or touches files.
func ResolveActions(list ActionList, answers Answers) ([]ActionSpec, error) {
	if list == nil {
		return []ActionSpec{}, nil
	}

	actions, err := list.Resolve(answers)
	if err != nil {
		return nil, err
	}
	if err := validateActions(actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func validateActions(actions []ActionSpec) error {
	for i, a := range actions {
		if strings.TrimSpace(a.Type) == "" {
			return fmt.Errorf("%w: action %d has no type", ErrInvalidActionList, i)
		}
		if strings.TrimSpace(a.Path) == "" {
			return fmt.Errorf("%w: action %d (%s) has no path", ErrInvalidActionList, i, a.Type)
		}
	}
	return nil
}
