package plopfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/simonhull/plover"
)

// ErrUnsupportedVersion is returned when the running plover does not
// satisfy a plopfile's version constraint.
var ErrUnsupportedVersion = errors.New("plopfile requires a different plover version")

// CheckVersion verifies that plover.Version satisfies constraint. An empty
// constraint always passes.
func CheckVersion(constraint string) error {
	return checkVersion(constraint, plover.Version)
}

func checkVersion(constraint, version string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("%w: plover constraint %q: %w", ErrInvalid, constraint, err)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("parsing plover version %q: %w", version, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: need %s, running %s", ErrUnsupportedVersion, constraint, v)
	}
	return nil
}
