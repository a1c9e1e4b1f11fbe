package plopfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/plover/generator"
	"github.com/simonhull/plover/internal/logger"
	"github.com/simonhull/plover/plopfile"
)

const componentYAML = `
plover: ">= 0.1"
partials:
  header: "// generated"
generators:
  - name: component
    description: React component
    prompts:
      - name: name
        message: Component name
        required: true
      - type: confirm
        name: story
        message: Add a story?
    actions:
      - type: add
        path: "src/{{pascalCase name}}.tsx"
        template: "{{> header}}: export const {{pascalCase name}} = 1;"
      - type: add
        path: "src/{{pascalCase name}}.stories.tsx"
        template: "story"
        when: story
      - type: add
        path: "src/{{pascalCase name}}.plain.tsx"
        template: "plain"
        when: "!story"
  - name: route
    actions:
      - type: append
        path: routes.txt
        template: "{{name}}"
        unique: true
`

func answers(a generator.Answers) generator.Prompter {
	return generator.PrompterFunc(func(context.Context, []generator.PromptSpec) (generator.Answers, error) {
		return a.Clone(), nil
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParse_YAML(t *testing.T) {
	f, err := plopfile.Parse([]byte(componentYAML), "yaml")
	require.NoError(t, err)

	assert.Equal(t, ">= 0.1", f.Plover)
	assert.Equal(t, map[string]string{"header": "// generated"}, f.Partials)
	require.Len(t, f.Generators, 2)

	comp := f.Generators[0]
	assert.Equal(t, "component", comp.Name)
	assert.Equal(t, "React component", comp.Description)
	require.Len(t, comp.Prompts, 2)
	assert.True(t, comp.Prompts[0].Required)
	assert.Equal(t, "confirm", comp.Prompts[1].Type)
	require.Len(t, comp.Actions, 3)
	assert.Equal(t, "story", comp.Actions[1].When)
	assert.True(t, f.Generators[1].Actions[0].Unique)
}

func TestParse_TOML(t *testing.T) {
	src := `
plover = ">= 0.1"

[[generators]]
name = "model"

[[generators.prompts]]
name = "name"
default = "user"

[[generators.actions]]
type = "add"
path = "models/{{name}}.go"
template = "package models"

[generators.actions.params]
retries = 3
`
	f, err := plopfile.Parse([]byte(src), "toml")
	require.NoError(t, err)

	require.Len(t, f.Generators, 1)
	gen := f.Generators[0]
	assert.Equal(t, "model", gen.Name)
	assert.Equal(t, "user", gen.Prompts[0].Default)
	assert.Equal(t, "models/{{name}}.go", gen.Actions[0].Path)
	assert.EqualValues(t, 3, gen.Actions[0].Params["retries"])
}

func TestParse_JSON(t *testing.T) {
	src := `{
  "generators": [
    {"name": "doc", "actions": [{"type": "add", "path": "README.md", "template": "# {{name}}"}]}
  ]
}`
	f, err := plopfile.Parse([]byte(src), "json")
	require.NoError(t, err)
	require.Len(t, f.Generators, 1)
	assert.Equal(t, "README.md", f.Generators[0].Actions[0].Path)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := plopfile.Parse([]byte("generators: [\n"), "yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, plopfile.ErrInvalid)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
	}{
		{
			name: "missing generators",
			src:  "partials: {}\n",
		},
		{
			name: "generator without name",
			src:  "generators:\n  - description: nameless\n",
			path: "/generators/0",
		},
		{
			name: "action without path",
			src:  "generators:\n  - name: a\n    actions:\n      - type: add\n",
			path: "/generators/0/actions/0",
		},
		{
			name: "unknown action field",
			src:  "generators:\n  - name: a\n    actions:\n      - type: add\n        path: x\n        bogus: 1\n",
			path: "/generators/0/actions/0",
		},
		{
			name: "template and templateFile",
			src:  "generators:\n  - name: a\n    actions:\n      - type: add\n        path: x\n        template: t\n        templateFile: f\n",
			path: "/generators/0/actions/0",
		},
		{
			name: "list prompt without choices",
			src:  "generators:\n  - name: a\n    prompts:\n      - type: list\n        name: pick\n",
			path: "/generators/0/prompts/0",
		},
		{
			name: "malformed when",
			src:  "generators:\n  - name: a\n    actions:\n      - type: add\n        path: x\n        when: \"{{x}}\"\n",
			path: "/generators/0/actions/0/when",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plopfile.Parse([]byte(tt.src), "yaml")
			require.Error(t, err)
			assert.ErrorIs(t, err, plopfile.ErrInvalid)

			var ve *plopfile.ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Issues)
			if tt.path != "" {
				assert.Contains(t, ve.Error(), tt.path)
			}
		})
	}
}

func TestParse_VersionConstraint(t *testing.T) {
	_, err := plopfile.Parse([]byte("plover: \">= 99.0\"\ngenerators: []\n"), "yaml")
	assert.ErrorIs(t, err, plopfile.ErrUnsupportedVersion)

	_, err = plopfile.Parse([]byte("plover: \"not a range\"\ngenerators: []\n"), "yaml")
	assert.ErrorIs(t, err, plopfile.ErrInvalid)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, "yaml", plopfile.FormatOf("plopfile.yml"))
	assert.Equal(t, "yaml", plopfile.FormatOf("plopfile.YAML"))
	assert.Equal(t, "toml", plopfile.FormatOf("dir/plopfile.toml"))
	assert.Equal(t, "json", plopfile.FormatOf("plopfile.json"))
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plopfile.yml")
	writeFile(t, path, componentYAML)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := plopfile.Find(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	f, err := plopfile.Load(found)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, dir, f.Dir())
}

func TestLoad_Missing(t *testing.T) {
	_, err := plopfile.Load(filepath.Join(t.TempDir(), "plopfile.yml"))
	assert.ErrorIs(t, err, plopfile.ErrNoPlopfile)
}

func TestRegister_RunsGenerators(t *testing.T) {
	f, err := plopfile.Parse([]byte(componentYAML), "yaml")
	require.NoError(t, err)

	setup := generator.NewSetup()
	require.NoError(t, f.Register(setup))

	dir := t.TempDir()
	engine := setup.Seal(generator.Options{BasePath: dir, Logger: logger.NewNop()})

	names := []string{}
	for _, g := range engine.Generators() {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"component", "route"}, names)

	ctx := context.Background()
	result, err := engine.Generate(ctx, "component", answers(generator.Answers{"name": "nav bar", "story": true}))
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Changes, 2)
	assert.Equal(t, "src/NavBar.tsx", result.Changes[0].Path)
	assert.Equal(t, "src/NavBar.stories.tsx", result.Changes[1].Path)

	content, err := os.ReadFile(filepath.Join(dir, "src/NavBar.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "// generated: export const NavBar = 1;", string(content))

	result, err = engine.Generate(ctx, "component", answers(generator.Answers{"name": "footer", "story": false}))
	require.NoError(t, err)
	require.Len(t, result.Changes, 2)
	assert.Equal(t, "src/Footer.plain.tsx", result.Changes[1].Path)
}

func TestInitGenerator(t *testing.T) {
	dir := t.TempDir()
	setup := generator.NewSetup()
	require.NoError(t, setup.SetGenerator(plopfile.InitGenerator(false)))
	engine := setup.Seal(generator.Options{BasePath: dir, Logger: logger.NewNop()})

	ctx := context.Background()
	result, err := engine.Generate(ctx, plopfile.InitName, answers(nil))
	require.NoError(t, err)
	require.Len(t, result.Changes, 1)

	f, err := plopfile.Load(filepath.Join(dir, "plopfile.yml"))
	require.NoError(t, err)
	require.Len(t, f.Generators, 1)
	assert.Equal(t, "src/components/{{pascalCase name}}.go", f.Generators[0].Actions[0].Path)

	// A second init conflicts unless forced.
	result, err = engine.Generate(ctx, plopfile.InitName, answers(nil))
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0].Err, generator.ErrPathConflict)
}
