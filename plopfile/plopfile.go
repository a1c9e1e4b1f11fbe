package plopfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/plover/project"
)

// Names lists the file names Find looks for, in order of preference.
var Names = []string{"plopfile.yml", "plopfile.yaml", "plopfile.toml", "plopfile.json"}

var (
	// ErrNoPlopfile is returned when no plopfile can be found.
	ErrNoPlopfile = errors.New("no plopfile found")

	// ErrInvalid is returned for documents that fail to parse or validate.
	ErrInvalid = errors.New("invalid plopfile")
)

// File is a parsed plopfile.
type File struct {
	Path       string            `json:"-"` // Absolute path the file was loaded from
	Plover     string            `json:"plover,omitempty"`
	Partials   map[string]string `json:"partials,omitempty"`
	Generators []GeneratorDef    `json:"generators"`
}

// GeneratorDef declares one generator.
type GeneratorDef struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Prompts     []PromptDef `json:"prompts,omitempty"`
	Actions     []ActionDef `json:"actions,omitempty"`
}

// PromptDef declares one prompt.
type PromptDef struct {
	Type     string   `json:"type,omitempty"`
	Name     string   `json:"name"`
	Message  string   `json:"message,omitempty"`
	Default  any      `json:"default,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// ActionDef declares one action. When is a condition on the answers;
// every other field maps onto generator.ActionSpec.
type ActionDef struct {
	Type          string         `json:"type"`
	Path          string         `json:"path"`
	Template      string         `json:"template,omitempty"`
	TemplateFile  string         `json:"templateFile,omitempty"`
	TemplateFiles string         `json:"templateFiles,omitempty"`
	Pattern       string         `json:"pattern,omitempty"`
	Separator     string         `json:"separator,omitempty"`
	Unique        bool           `json:"unique,omitempty"`
	Force         bool           `json:"force,omitempty"`
	SkipIfExists  bool           `json:"skipIfExists,omitempty"`
	When          string         `json:"when,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
	Params        map[string]any `json:"params,omitempty"`
}

// Dir returns the directory containing the plopfile. Action paths are
// relative to it.
func (f *File) Dir() string {
	if f.Path == "" {
		return "."
	}
	return filepath.Dir(f.Path)
}

// Find looks for a plopfile in dir and its parents.
func Find(dir string) (string, error) {
	path, err := project.FindUp(dir, Names...)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrNoPlopfile, dir)
		}
		return "", err
	}
	return path, nil
}

// Load reads, validates and parses the plopfile at path. The format is
// chosen by file extension.
func Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoPlopfile, path)
		}
		return nil, fmt.Errorf("failed to read plopfile: %w", err)
	}

	f, err := Parse(data, FormatOf(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(abs), err)
	}
	f.Path = abs
	return f, nil
}

// FormatOf returns the format name for a plopfile path: "yaml", "toml"
// or "json".
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

// Parse decodes a plopfile in the given format, validates it and checks
// its version constraint.
func Parse(data []byte, format string) (*File, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	// JSON is the common form for schema validation and struct mapping.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: converting to JSON: %w", ErrInvalid, err)
	}

	if err := validate(jsonData); err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := CheckVersion(f.Plover); err != nil {
		return nil, err
	}
	return &f, nil
}

// decode parses data into generic maps and slices with string keys.
func decode(data []byte, format string) (any, error) {
	var doc any

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case "toml":
		var m map[string]any
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		doc = m
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if doc == nil {
		doc = map[string]any{}
	}
	return normalize(doc), nil
}

// normalize converts decoded values to JSON-compatible types. YAML can
// produce non-string map keys and TOML produces typed table slices.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[k] = normalize(e)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []map[string]any:
		a := make([]any, len(val))
		for i, e := range val {
			a[i] = normalize(e)
		}
		return a
	case []any:
		a := make([]any, len(val))
		for i, e := range val {
			a[i] = normalize(e)
		}
		return a
	default:
		return val
	}
}
