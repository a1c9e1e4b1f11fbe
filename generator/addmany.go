package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/plover/filesystem"
	"github.com/simonhull/plover/internal/logger"
)

// plannedFile is one rendered file waiting to be written by addMany.
type plannedFile struct {
	target  string
	content []byte
}

// addManyAction renders every file under spec.TemplateFiles into the
// directory named by spec.Path. File names are rendered too, and a trailing
// ".hbs" is dropped.
//
// All files are rendered and checked for conflicts before the first write,
// so a conflict leaves the destination untouched.
func addManyAction(_ context.Context, actx *ActionContext, spec ActionSpec) (string, error) {
	rel, destDir, err := actx.RenderPath(spec)
	if err != nil {
		return "", err
	}
	if spec.TemplateFiles == "" {
		return rel, fmt.Errorf("%w: addMany needs a templateFiles directory", ErrRead)
	}

	srcDir := actx.Resolve(spec.TemplateFiles)
	files, err := filesystem.Files(srcDir, filesystem.WalkOptions{IncludeHidden: true})
	if err != nil {
		return rel, fmt.Errorf("%w: template directory %s: %w", ErrRead, spec.TemplateFiles, err)
	}

	// Phase 1: render and validate everything
	var plan []plannedFile
	for _, file := range files {
		name, err := actx.Render(spec, file, strings.TrimSuffix(file, ".hbs"))
		if err != nil {
			return rel, fmt.Errorf("rendering file name: %w", err)
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))
		shown := filepath.ToSlash(filepath.Join(rel, name))

		exists, err := actx.FS.Exists(target)
		if err != nil {
			return rel, fmt.Errorf("%w: %s: %w", ErrRead, shown, err)
		}
		if exists && !spec.Force {
			if spec.SkipIfExists {
				actx.Logger.Info("skipped existing file", logger.F("path", shown))
				continue
			}
			return rel, fmt.Errorf("%w: %s", ErrPathConflict, shown)
		}

		source, err := actx.FS.ReadFile(filepath.Join(srcDir, filepath.FromSlash(file)))
		if err != nil {
			return rel, fmt.Errorf("%w: template file %s: %w", ErrRead, file, err)
		}
		content, err := actx.Render(spec, file, string(source))
		if err != nil {
			return rel, err
		}

		plan = append(plan, plannedFile{target: target, content: []byte(content)})
	}

	// Phase 2: write
	for _, p := range plan {
		if err := actx.writeFile(p.target, p.content, 0644); err != nil {
			return rel, err
		}
	}

	actx.Logger.Debug("addMany wrote files", logger.F("path", rel), logger.F("count", len(plan)))
	return rel, nil
}
