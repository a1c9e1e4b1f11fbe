package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
)

// DefaultIgnoreDirs are skipped when WalkOptions.IgnoreDirs is nil.
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", ".svn", ".hg",
	".idea", ".vscode", ".vs",
}

// WalkOptions controls which files Files lists.
type WalkOptions struct {
	IgnoreDirs     []string // Directory names to skip (nil: DefaultIgnoreDirs)
	IgnorePatterns []string // Glob patterns matched against file base names
	IncludeHidden  bool     // List dotfiles and descend into dot-directories
}

func (o WalkOptions) skipDir(name string) bool {
	if !o.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	ignore := o.IgnoreDirs
	if ignore == nil {
		ignore = DefaultIgnoreDirs
	}
	return slices.Contains(ignore, name)
}

func (o WalkOptions) skipFile(name string) bool {
	if !o.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range o.IgnorePatterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Files lists the files under root as slash-separated paths relative to
// root, in lexical order. Directories are not listed; symlinks to files are.
func Files(root string, opts WalkOptions) ([]string, error) {
	var files []string

	err := fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}

		if d.IsDir() {
			if opts.skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if opts.skipFile(d.Name()) {
			return nil
		}
		if t := d.Type(); t.IsRegular() || t&fs.ModeSymlink != 0 {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	return files, nil
}
