package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aymerick/raymond"
	"golang.org/x/mod/modfile"
)

// ModuleInfo contains information from go.mod
type ModuleInfo struct {
	Root      string // Directory containing go.mod
	Path      string // Module path (e.g., "github.com/user/repo")
	GoVersion string // Go version requirement (e.g., "1.21")
}

// DetectModule reads go.mod in rootPath and returns module information.
func DetectModule(rootPath string) (*ModuleInfo, error) {
	modPath := filepath.Join(rootPath, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("go.mod %w in %s", ErrNotFound, rootPath)
		}
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}

	modFile, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	if modFile.Module == nil {
		return nil, fmt.Errorf("failed to parse go.mod: no module directive")
	}

	info := &ModuleInfo{
		Root: rootPath,
		Path: modFile.Module.Mod.Path,
	}
	if modFile.Go != nil {
		info.GoVersion = modFile.Go.Version
	}
	return info, nil
}

// FindModule finds the go.mod governing dir and reads it.
func FindModule(dir string) (*ModuleInfo, error) {
	modPath, err := FindUp(dir, "go.mod")
	if err != nil {
		return nil, err
	}
	return DetectModule(filepath.Dir(modPath))
}

// Helpers returns template helpers describing the Go module that contains
// dir. Outside a module they render as the empty string.
//
//	import "{{goModule}}/internal/{{snakeCase name}}"
func Helpers(dir string) map[string]any {
	lookup := func() *ModuleInfo {
		info, err := FindModule(dir)
		if err != nil {
			return &ModuleInfo{}
		}
		return info
	}

	return map[string]any{
		"goModule": func() raymond.SafeString {
			return raymond.SafeString(lookup().Path)
		},
		"goVersion": func() raymond.SafeString {
			return raymond.SafeString(lookup().GoVersion)
		},
	}
}
