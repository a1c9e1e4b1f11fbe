package plopfile

import (
	"fmt"
	"maps"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/simonhull/plover/generator"
)

// Register adds the file's partials and generators to setup. Generators
// keep their declaration order.
func (f *File) Register(setup *generator.Setup) error {
	for name, source := range f.Partials {
		if err := setup.SetPartial(name, source); err != nil {
			return fmt.Errorf("partial %q: %w", name, err)
		}
	}

	for _, def := range f.Generators {
		if err := setup.SetGenerator(def.Generator()); err != nil {
			return err
		}
	}
	return nil
}

// Generator converts the definition to a generator.Generator. The action
// list is static unless some action carries a when condition.
func (g GeneratorDef) Generator() generator.Generator {
	prompts := make([]generator.PromptSpec, len(g.Prompts))
	for i, p := range g.Prompts {
		prompts[i] = p.Spec()
	}

	return generator.Generator{
		Name:        g.Name,
		Description: g.Description,
		Prompts:     prompts,
		Actions:     actionList(g.Actions),
	}
}

// Spec converts the definition to a generator.PromptSpec.
func (p PromptDef) Spec() generator.PromptSpec {
	return generator.PromptSpec{
		Type:     p.Type,
		Name:     p.Name,
		Message:  p.Message,
		Default:  p.Default,
		Choices:  append([]string(nil), p.Choices...),
		Required: p.Required,
	}
}

// Spec converts the definition to a generator.ActionSpec. When is dropped;
// it only affects which actions are resolved.
func (a ActionDef) Spec() generator.ActionSpec {
	return generator.ActionSpec{
		Type:          a.Type,
		Path:          a.Path,
		Template:      a.Template,
		TemplateFile:  a.TemplateFile,
		TemplateFiles: a.TemplateFiles,
		Pattern:       a.Pattern,
		Separator:     a.Separator,
		Unique:        a.Unique,
		Force:         a.Force,
		SkipIfExists:  a.SkipIfExists,
		Data:          maps.Clone(a.Data),
		Params:        maps.Clone(a.Params),
	}
}

func actionList(defs []ActionDef) generator.ActionList {
	conditional := false
	specs := make([]generator.ActionSpec, len(defs))
	for i, d := range defs {
		specs[i] = d.Spec()
		if d.When != "" {
			conditional = true
		}
	}

	if !conditional {
		return generator.Static(specs)
	}

	return generator.Dynamic(func(answers generator.Answers) ([]generator.ActionSpec, error) {
		out := make([]generator.ActionSpec, 0, len(defs))
		for i, d := range defs {
			if d.When == "" || evalWhen(d.When, answers) {
				out = append(out, specs[i])
			}
		}
		return out, nil
	})
}

// evalWhen reports whether the condition holds. "key" tests the answer for
// Handlebars truthiness, "!key" negates it, and dotted keys descend into
// nested maps.
func evalWhen(cond string, answers generator.Answers) bool {
	cond = strings.TrimSpace(cond)
	negate := strings.HasPrefix(cond, "!")
	if negate {
		cond = strings.TrimSpace(cond[1:])
	}

	var value any = map[string]any(answers)
	for _, key := range strings.Split(cond, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			value = nil
			break
		}
		value = m[key]
	}

	return raymond.IsTrue(value) != negate
}
