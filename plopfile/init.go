package plopfile

import "github.com/simonhull/plover/generator"

// InitName is the generator registered by InitGenerator.
const InitName = "init"

// skeleton is written by plover --init. It is passed as template data so
// its own mustaches are left untouched.
const skeleton = `# plover generators. See "plover --help".
plover: ">= 0.1"

generators:
  - name: component
    description: Create a component
    prompts:
      - name: name
        message: Component name
        required: true
    actions:
      - type: add
        path: "src/components/{{pascalCase name}}.go"
        template: |
          package components

          // {{pascalCase name}} is a component.
          type {{pascalCase name}} struct{}
`

// InitGenerator returns a generator that writes a starter plopfile.yml.
// Force overwrites an existing file.
func InitGenerator(force bool) generator.Generator {
	return generator.Generator{
		Name:        InitName,
		Description: "Create a starter plopfile.yml",
		Actions: generator.Static{{
			Type:     "add",
			Path:     "plopfile.yml",
			Template: "{{skeleton}}",
			Force:    force,
			Data:     map[string]any{"skeleton": skeleton},
		}},
	}
}
