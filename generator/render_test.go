package generator_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/plover/generator"
)

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name   string
		source string
		data   map[string]any
		want   string
	}{
		{
			name:   "no placeholders is unchanged",
			source: "package main\n\nfunc main() {}\n",
			want:   "package main\n\nfunc main() {}\n",
		},
		{
			name:   "interpolation",
			source: "export const {{name}} = 1;",
			data:   map[string]any{"name": "Foo"},
			want:   "export const Foo = 1;",
		},
		{
			name:   "undefined key renders empty",
			source: "a{{missing}}b",
			data:   map[string]any{},
			want:   "ab",
		},
		{
			name:   "values are not escaped",
			source: "{{expr}}",
			data:   map[string]any{"expr": `a < b && c > "d"`},
			want:   `a < b && c > "d"`,
		},
		{
			name:   "nested values",
			source: "{{model.name}}",
			data:   map[string]any{"model": map[string]any{"name": "<User>"}},
			want:   "<User>",
		},
		{
			name:   "each over strings",
			source: "{{#each fields}}[{{this}}]{{/each}}",
			data:   map[string]any{"fields": []string{"id", "a&b"}},
			want:   "[id][a&b]",
		},
		{
			name:   "conditional",
			source: "{{#if test}}with tests{{else}}no tests{{/if}}",
			data:   map[string]any{"test": false},
			want:   "no tests",
		},
		{
			name:   "helpers",
			source: "{{pascalCase name}} {{snakeCase name}} {{plural name}}",
			data:   map[string]any{"name": "blog post"},
			want:   "BlogPost blog_post blog posts",
		},
	}

	r := generator.NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.name, tt.source, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_AcceptsAnswers(t *testing.T) {
	r := generator.NewRenderer()

	got, err := r.Render("answers", "{{name}}", generator.Answers{"name": "Foo"})
	require.NoError(t, err)
	assert.Equal(t, "Foo", got)
}

func TestRenderer_MalformedTemplate(t *testing.T) {
	r := generator.NewRenderer()

	_, err := r.Render("broken", "{{#if name}}unclosed", map[string]any{"name": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrRender))

	var tmplErr *generator.TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Equal(t, "broken", tmplErr.Name)
}

func TestRenderer_UnknownHelper(t *testing.T) {
	r := generator.NewRenderer()
	data := map[string]any{"name": "Foo", "items": []string{"a"}, "m": map[string]any{"k": "v"}}

	for _, tmpl := range []string{
		"{{shout name}}",
		"src/{{camleCase name}}.ts",
		"{{#repeat name}}x{{/repeat}}",
		"{{pascalCase (shout name)}}",
		"{{#if name}}{{shout name}}{{/if}}",
		"{{#if name}}{{else}}{{shout name}}{{/if}}",
		"{{wrap x=name}}",
	} {
		t.Run(tmpl, func(t *testing.T) {
			_, err := r.Render("helper", tmpl, data)
			require.ErrorIs(t, err, generator.ErrRender)
			assert.Contains(t, err.Error(), "missing helper")
		})
	}

	for tmpl, want := range map[string]string{
		"{{missing}}":                                        "",
		"{{#items}}{{this}}{{/items}}":                       "a",
		"{{#each items}}{{this}}{{/each}}":                   "a",
		"{{#unless missing}}u{{/unless}}":                    "u",
		"{{#with m}}{{k}}{{/with}}":                          "v",
		`{{lookup m "k"}}`:                                   "v",
		"{{#if (pascalCase name)}}{{kebabCase name}}{{/if}}": "foo",
	} {
		t.Run(tmpl, func(t *testing.T) {
			got, err := r.Render("known", tmpl, data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRenderer_RenderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.go.hbs")
	require.NoError(t, os.WriteFile(path, []byte("type {{pascalCase name}} struct{}"), 0644))

	r := generator.NewRenderer()

	got, err := r.RenderFile(path, map[string]any{"name": "user_account"})
	require.NoError(t, err)
	assert.Equal(t, "type UserAccount struct{}", got)

	_, err = r.RenderFile(filepath.Join(dir, "missing.hbs"), nil)
	assert.ErrorIs(t, err, generator.ErrRead)
}

func TestRenderer_Concurrent(t *testing.T) {
	r := generator.NewRenderer()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("n=%d", i)
			got, err := r.Render("concurrent", "n={{n}}", map[string]any{"n": i})
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- fmt.Errorf("got %q, want %q", got, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
