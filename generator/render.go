package generator

import (
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"sync"

	"github.com/aymerick/raymond"
	"github.com/aymerick/raymond/ast"
	"github.com/aymerick/raymond/parser"
)

// Renderer parses and renders Handlebars templates with caching.
//
// Undefined keys render as the empty string; malformed templates are
// reported as *TemplateError. Answer values are emitted verbatim, without
// HTML escaping, because generated files are source code.
type Renderer struct {
	helpers  map[string]any
	partials map[string]string
	cache    map[string]*raymond.Template
	mu       sync.RWMutex // Protect cache for concurrent access
}

// NewRenderer creates a renderer with the built-in helpers.
func NewRenderer() *Renderer {
	return newRenderer(nil, nil)
}

func newRenderer(helpers map[string]any, partials map[string]string) *Renderer {
	h := defaultHelpers()
	maps.Copy(h, helpers)

	p := make(map[string]string, len(partials))
	maps.Copy(p, partials)

	return &Renderer{
		helpers:  h,
		partials: p,
		cache:    make(map[string]*raymond.Template),
	}
}

// Render renders source against data. The name is only used in errors.
func (r *Renderer) Render(name, source string, data any) (string, error) {
	tmpl, err := r.parse(name, source)
	if err != nil {
		return "", err
	}

	out, err := tmpl.Exec(templateData(data))
	if err != nil {
		return "", &TemplateError{Name: name, Err: err}
	}
	return out, nil
}

// RenderFile renders a template read from path.
func (r *Renderer) RenderFile(path string, data any) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: template file %s: %w", ErrRead, path, err)
	}
	return r.Render(path, string(source), data)
}

// parse returns the cached template for source, parsing it on first use.
func (r *Renderer) parse(name, source string) (*raymond.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[source]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	prog, err := parser.Parse(source)
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	if err := r.checkHelpers(prog); err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}

	tmpl, err := raymond.Parse(source)
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	tmpl.RegisterHelpers(r.helpers)
	tmpl.RegisterPartials(r.partials)

	r.mu.Lock()
	r.cache[source] = tmpl
	r.mu.Unlock()

	return tmpl, nil
}

// builtinHelpers are the block and inline helpers raymond provides.
var builtinHelpers = []string{"if", "unless", "each", "with", "lookup", "log", "equal"}

// checkHelpers rejects calls to helpers that are neither built in nor
// registered. Raymond renders such calls as empty strings.
func (r *Renderer) checkHelpers(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Program:
		if n == nil {
			return nil
		}
		for _, stmt := range n.Body {
			if err := r.checkHelpers(stmt); err != nil {
				return err
			}
		}
	case *ast.MustacheStatement:
		return r.checkCall(n.Expression)
	case *ast.BlockStatement:
		if err := r.checkCall(n.Expression); err != nil {
			return err
		}
		if err := r.checkHelpers(n.Program); err != nil {
			return err
		}
		return r.checkHelpers(n.Inverse)
	case *ast.PartialStatement:
		if err := r.checkHelpers(n.Name); err != nil {
			return err
		}
		for _, p := range n.Params {
			if err := r.checkHelpers(p); err != nil {
				return err
			}
		}
		return r.checkHelpers(n.Hash)
	case *ast.SubExpression:
		return r.checkCall(n.Expression)
	case *ast.Hash:
		if n == nil {
			return nil
		}
		for _, pair := range n.Pairs {
			if err := r.checkHelpers(pair.Val); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkCall checks one expression. Without params or hash arguments it may
// be a plain data lookup, so only calls with arguments are checked.
func (r *Renderer) checkCall(e *ast.Expression) error {
	if e == nil {
		return nil
	}
	for _, p := range e.Params {
		if err := r.checkHelpers(p); err != nil {
			return err
		}
	}
	if err := r.checkHelpers(e.Hash); err != nil {
		return err
	}
	if len(e.Params) == 0 && e.Hash == nil {
		return nil
	}

	path, ok := e.Path.(*ast.PathExpression)
	if !ok {
		return nil
	}
	if _, ok := r.helpers[path.Original]; ok || slices.Contains(builtinHelpers, path.Original) {
		return nil
	}
	return fmt.Errorf("missing helper %q", path.Original)
}

// validateHelper checks that fn can be registered as a template helper:
// a function returning exactly one value.
func validateHelper(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("helper name is required")
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("helper %q must be a function, got %T", name, fn)
	}
	if v.Type().NumOut() != 1 {
		return fmt.Errorf("helper %q must return exactly one value", name)
	}
	return nil
}

// validatePartial checks that a partial parses.
func validatePartial(name, source string) error {
	if name == "" {
		return fmt.Errorf("partial name is required")
	}
	if _, err := raymond.Parse(source); err != nil {
		return &TemplateError{Name: name, Err: err}
	}
	return nil
}

// templateData marks string values as safe so raymond does not HTML-escape
// them. Nested maps and slices are converted too.
func templateData(data any) any {
	switch v := data.(type) {
	case nil:
		return map[string]any{}
	case Answers:
		return safeMap(v)
	case map[string]any:
		return safeMap(v)
	default:
		return data
	}
}

func safeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = safeValue(v)
	}
	return out
}

func safeValue(v any) any {
	switch t := v.(type) {
	case string:
		return raymond.SafeString(t)
	case map[string]any:
		return safeMap(t)
	case Answers:
		return safeMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = safeValue(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = raymond.SafeString(e)
		}
		return out
	default:
		return v
	}
}
