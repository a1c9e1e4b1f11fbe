package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/plover/generator"
	"github.com/simonhull/plover/internal/logger"
)

// runActions runs actions with the built-in types against dir.
func runActions(t *testing.T, dir string, answers generator.Answers, actions ...generator.ActionSpec) *generator.Result {
	t.Helper()
	engine := generator.NewSetup().Seal(generator.Options{
		BasePath: dir,
		Logger:   logger.NewNop(),
	})
	return engine.Run(context.Background(), &generator.Data{Answers: answers, Actions: actions})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestAdd(t *testing.T) {
	t.Run("creates file and directories", func(t *testing.T) {
		dir := t.TempDir()
		result := runActions(t, dir, generator.Answers{"name": "Foo"},
			generator.ActionSpec{Type: "add", Path: "src/deep/{{name}}.ts", Template: "export const {{name}} = 1;"})

		require.Empty(t, result.Failures)
		assert.Equal(t, []generator.Outcome{{Type: "add", Path: "src/deep/Foo.ts"}}, result.Changes)
		assert.Equal(t, "export const Foo = 1;", readFile(t, filepath.Join(dir, "src/deep/Foo.ts")))
	})

	t.Run("conflict leaves file untouched", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "original")

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "add", Path: "a.txt", Template: "new"})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrPathConflict)
		assert.Equal(t, "original", readFile(t, filepath.Join(dir, "a.txt")))
	})

	t.Run("force overwrites", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "original")

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "add", Path: "a.txt", Template: "new", Force: true})

		require.Empty(t, result.Failures)
		assert.Equal(t, "new", readFile(t, filepath.Join(dir, "a.txt")))
	})

	t.Run("skipIfExists succeeds without writing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "original")

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "add", Path: "a.txt", Template: "new", SkipIfExists: true})

		require.Empty(t, result.Failures)
		require.Len(t, result.Changes, 1)
		assert.Equal(t, "original", readFile(t, filepath.Join(dir, "a.txt")))
	})

	t.Run("template file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "templates/model.hbs"), "type {{pascalCase name}} struct{}")

		result := runActions(t, dir, generator.Answers{"name": "user"},
			generator.ActionSpec{Type: "add", Path: "{{name}}.go", TemplateFile: "templates/model.hbs"})

		require.Empty(t, result.Failures)
		assert.Equal(t, "type User struct{}", readFile(t, filepath.Join(dir, "user.go")))
	})

	t.Run("missing template file", func(t *testing.T) {
		dir := t.TempDir()

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "add", Path: "a.txt", TemplateFile: "nope.hbs"})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrRead)
		assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
	})

	t.Run("render error", func(t *testing.T) {
		dir := t.TempDir()

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "add", Path: "a.txt", Template: "{{#each}}"})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrRender)
		assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
	})

	t.Run("bad path template reports declared path", func(t *testing.T) {
		dir := t.TempDir()

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "add", Path: "{{#if}}.txt", Template: "x"})

		require.Len(t, result.Failures, 1)
		assert.Equal(t, "{{#if}}.txt", result.Failures[0].Path)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrRender)
	})

	t.Run("action data overlays answers", func(t *testing.T) {
		dir := t.TempDir()

		result := runActions(t, dir, generator.Answers{"name": "a", "kind": "answer"},
			generator.ActionSpec{
				Type:     "add",
				Path:     "{{name}}.txt",
				Template: "{{kind}}",
				Data:     map[string]any{"kind": "data"},
			})

		require.Empty(t, result.Failures)
		assert.Equal(t, "data", readFile(t, filepath.Join(dir, "a.txt")))
	})
}

func TestModify(t *testing.T) {
	t.Run("missing target never writes", func(t *testing.T) {
		dir := t.TempDir()

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "modify", Path: "routes.go", Template: "x"})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrNotFound)
		assert.NoFileExists(t, filepath.Join(dir, "routes.go"))
	})

	t.Run("pattern replaces first match", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "routes.go")
		writeFile(t, path, "// routes\n// routes\n")

		result := runActions(t, dir, generator.Answers{"name": "users"},
			generator.ActionSpec{Type: "modify", Path: "routes.go", Pattern: `(// routes)`, Template: "${1}\nr.Mount(\"/{{name}}\")"})

		require.Empty(t, result.Failures)
		assert.Equal(t, "// routes\nr.Mount(\"/users\")\n// routes\n", readFile(t, path))
	})

	t.Run("pattern not found is a transform failure", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "routes.go")
		writeFile(t, path, "package routes\n")

		result := runActions(t, dir, nil,
			generator.ActionSpec{Type: "modify", Path: "routes.go", Pattern: `// MARKER`, Template: "x"})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrTransform)
		assert.Equal(t, "package routes\n", readFile(t, path))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "x")

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "modify", Path: "a.txt", Pattern: `(`, Template: "y"})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrTransform)
	})

	t.Run("transform func", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a.txt")
		writeFile(t, path, "count=1")

		result := runActions(t, dir, generator.Answers{"n": "2"}, generator.ActionSpec{
			Type: "modify",
			Path: "a.txt",
			Transform: func(content string, answers generator.Answers) (string, error) {
				return content + "," + answers["n"].(string), nil
			},
		})

		require.Empty(t, result.Failures)
		assert.Equal(t, "count=1,2", readFile(t, path))
	})

	t.Run("transform error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "x")

		result := runActions(t, dir, nil, generator.ActionSpec{
			Type: "modify",
			Path: "a.txt",
			Transform: func(string, generator.Answers) (string, error) {
				return "", assert.AnError
			},
		})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrTransform)
		assert.ErrorIs(t, result.Failures[0].Err, assert.AnError)
	})

	t.Run("whole file template", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a.txt")
		writeFile(t, path, "old")

		result := runActions(t, dir, generator.Answers{"v": "new"},
			generator.ActionSpec{Type: "modify", Path: "a.txt", Template: "{{v}}"})

		require.Empty(t, result.Failures)
		assert.Equal(t, "new", readFile(t, path))
	})

	t.Run("re-render existing content", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a.txt")
		writeFile(t, path, "hello {{name}}")

		result := runActions(t, dir, generator.Answers{"name": "Foo"},
			generator.ActionSpec{Type: "modify", Path: "a.txt"})

		require.Empty(t, result.Failures)
		assert.Equal(t, "hello Foo", readFile(t, path))
	})
}

func TestAppend(t *testing.T) {
	t.Run("end of file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "list.txt")
		writeFile(t, path, "a\nb")

		result := runActions(t, dir, generator.Answers{"x": "c"},
			generator.ActionSpec{Type: "append", Path: "list.txt", Template: "{{x}}"})

		require.Empty(t, result.Failures)
		assert.Equal(t, "a\nb\nc", readFile(t, path))
	})

	t.Run("after pattern", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "list.txt")
		writeFile(t, path, "import (\n)\n")

		result := runActions(t, dir, nil,
			generator.ActionSpec{Type: "append", Path: "list.txt", Pattern: `import \(`, Template: "\t\"fmt\""})

		require.Empty(t, result.Failures)
		assert.Equal(t, "import (\n\t\"fmt\"\n)\n", readFile(t, path))
	})

	t.Run("unique skips duplicates", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "list.txt")
		writeFile(t, path, "one\n")

		spec := generator.ActionSpec{Type: "append", Path: "list.txt", Template: "two", Unique: true}
		runActions(t, dir, nil, spec)
		result := runActions(t, dir, nil, spec)

		require.Empty(t, result.Failures)
		assert.Equal(t, "one\ntwo", readFile(t, path))
	})

	t.Run("custom separator", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "list.txt")
		writeFile(t, path, "a")

		result := runActions(t, dir, nil,
			generator.ActionSpec{Type: "append", Path: "list.txt", Template: "b", Separator: ", "})

		require.Empty(t, result.Failures)
		assert.Equal(t, "a, b", readFile(t, path))
	})

	t.Run("missing target", func(t *testing.T) {
		dir := t.TempDir()

		result := runActions(t, dir, nil, generator.ActionSpec{Type: "append", Path: "nope.txt", Template: "x"})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrNotFound)
	})
}

func TestAddMany(t *testing.T) {
	setup := func(t *testing.T) string {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "templates/component/{{kebabCase name}}.ts.hbs"), "export class {{pascalCase name}} {}")
		writeFile(t, filepath.Join(dir, "templates/component/index.ts"), "export * from './{{kebabCase name}}';")
		return dir
	}

	t.Run("renders directory", func(t *testing.T) {
		dir := setup(t)

		result := runActions(t, dir, generator.Answers{"name": "UserCard"}, generator.ActionSpec{
			Type:          "addMany",
			Path:          "src/{{kebabCase name}}",
			TemplateFiles: "templates/component",
		})

		require.Empty(t, result.Failures)
		assert.Equal(t, []generator.Outcome{{Type: "addMany", Path: "src/user-card"}}, result.Changes)
		assert.Equal(t, "export class UserCard {}", readFile(t, filepath.Join(dir, "src/user-card/user-card.ts")))
		assert.Equal(t, "export * from './user-card';", readFile(t, filepath.Join(dir, "src/user-card/index.ts")))
	})

	t.Run("conflict writes nothing", func(t *testing.T) {
		dir := setup(t)
		writeFile(t, filepath.Join(dir, "src/user-card/user-card.ts"), "keep")

		result := runActions(t, dir, generator.Answers{"name": "UserCard"}, generator.ActionSpec{
			Type:          "addMany",
			Path:          "src/{{kebabCase name}}",
			TemplateFiles: "templates/component",
		})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrPathConflict)
		assert.NoFileExists(t, filepath.Join(dir, "src/user-card/index.ts"))
		assert.Equal(t, "keep", readFile(t, filepath.Join(dir, "src/user-card/user-card.ts")))
	})

	t.Run("missing template directory", func(t *testing.T) {
		dir := t.TempDir()

		result := runActions(t, dir, nil, generator.ActionSpec{
			Type:          "addMany",
			Path:          "out",
			TemplateFiles: "templates/none",
		})

		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, generator.ErrRead)
	})
}
