package generator

import (
	"context"
	"fmt"
	"regexp"
)

// modifyAction rewrites an existing file.
//
// The new content comes from, in order of precedence:
//   - spec.Transform applied to the current content
//   - the first match of spec.Pattern replaced by the rendered template
//     ($1-style group references are expanded; write $$ for a literal $)
//   - the rendered template, replacing the whole file
//   - the current content itself, re-rendered as a template
func modifyAction(_ context.Context, actx *ActionContext, spec ActionSpec) (string, error) {
	rel, target, existing, err := readExisting(actx, spec)
	if err != nil {
		return rel, err
	}

	updated, err := transformContent(actx, spec, rel, existing)
	if err != nil {
		return rel, err
	}

	if err := actx.writeFile(target, []byte(updated), 0644); err != nil {
		return rel, err
	}
	return rel, nil
}

// readExisting renders the target path and reads the file. A missing file
// is ErrNotFound.
func readExisting(actx *ActionContext, spec ActionSpec) (rel, target, content string, err error) {
	rel, target, err = actx.RenderPath(spec)
	if err != nil {
		return "", "", "", err
	}

	exists, err := actx.FS.Exists(target)
	if err != nil {
		return rel, target, "", fmt.Errorf("%w: %s: %w", ErrRead, rel, err)
	}
	if !exists {
		return rel, target, "", fmt.Errorf("%w: %s", ErrNotFound, rel)
	}

	data, err := actx.FS.ReadFile(target)
	if err != nil {
		return rel, target, "", fmt.Errorf("%w: %s: %w", ErrRead, rel, err)
	}
	return rel, target, string(data), nil
}

func transformContent(actx *ActionContext, spec ActionSpec, rel, existing string) (string, error) {
	switch {
	case spec.Transform != nil:
		out, err := spec.Transform(existing, actx.Answers.Clone())
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrTransform, rel, err)
		}
		return out, nil

	case spec.Pattern != "":
		re, loc, err := findPattern(spec.Pattern, existing, rel)
		if err != nil {
			return "", err
		}
		replacement, err := actx.Content(spec)
		if err != nil {
			return "", err
		}
		expanded := re.ExpandString(nil, replacement, existing, loc)
		return existing[:loc[0]] + string(expanded) + existing[loc[1]:], nil

	case spec.Template != "" || spec.TemplateFile != "":
		return actx.Content(spec)

	default:
		return actx.Render(spec, rel, existing)
	}
}

// findPattern compiles pattern and locates its first match in content.
// An invalid or unmatched pattern is a transform failure.
func findPattern(pattern, content, rel string) (*regexp.Regexp, []int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: invalid pattern %q: %w", ErrTransform, rel, pattern, err)
	}
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil {
		return nil, nil, fmt.Errorf("%w: %s: pattern %q not found", ErrTransform, rel, pattern)
	}
	return re, loc, nil
}
