package generator

import (
	"context"
	"strings"

	"github.com/simonhull/plover/internal/logger"
)

// appendAction inserts rendered text into an existing file: right after the
// first match of spec.Pattern, or at the end of the file without a pattern.
func appendAction(_ context.Context, actx *ActionContext, spec ActionSpec) (string, error) {
	rel, target, existing, err := readExisting(actx, spec)
	if err != nil {
		return rel, err
	}

	text, err := actx.Content(spec)
	if err != nil {
		return rel, err
	}

	if spec.Unique && text != "" && strings.Contains(existing, text) {
		actx.Logger.Debug("append skipped, text already present", logger.F("path", rel))
		return rel, nil
	}

	sep := spec.Separator
	if sep == "" {
		sep = "\n"
	}

	var updated string
	if spec.Pattern != "" {
		_, loc, err := findPattern(spec.Pattern, existing, rel)
		if err != nil {
			return rel, err
		}
		updated = existing[:loc[1]] + sep + text + existing[loc[1]:]
	} else if existing == "" || strings.HasSuffix(existing, sep) {
		updated = existing + text
	} else {
		updated = existing + sep + text
	}

	if err := actx.writeFile(target, []byte(updated), 0644); err != nil {
		return rel, err
	}
	return rel, nil
}
