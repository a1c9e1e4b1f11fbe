package generator

import (
	"context"
	"fmt"

	"github.com/simonhull/plover/internal/logger"
)

// addAction creates a new file from a template.
//
// An existing target is a conflict unless Force is set. SkipIfExists turns
// the conflict into a no-op success.
func addAction(_ context.Context, actx *ActionContext, spec ActionSpec) (string, error) {
	rel, target, err := actx.RenderPath(spec)
	if err != nil {
		return "", err
	}

	exists, err := actx.FS.Exists(target)
	if err != nil {
		return rel, fmt.Errorf("%w: %s: %w", ErrRead, rel, err)
	}
	if exists && !spec.Force {
		if spec.SkipIfExists {
			actx.Logger.Info("skipped existing file", logger.F("path", rel))
			return rel, nil
		}
		return rel, fmt.Errorf("%w: %s", ErrPathConflict, rel)
	}

	content, err := actx.Content(spec)
	if err != nil {
		return rel, err
	}

	if err := actx.writeFile(target, []byte(content), 0644); err != nil {
		return rel, err
	}
	return rel, nil
}
