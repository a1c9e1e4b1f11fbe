// Package plopfile loads declarative generator definitions.
//
// A plopfile is a YAML, TOML or JSON document listing generators, their
// prompts and their actions:
//
//	plover: ">= 0.1"
//	partials:
//	  header: "// Code generated by plover. Edit freely."
//	generators:
//	  - name: component
//	    description: React component
//	    prompts:
//	      - name: name
//	        message: Component name
//	        required: true
//	      - type: confirm
//	        name: story
//	        message: Add a story?
//	    actions:
//	      - type: add
//	        path: "src/{{pascalCase name}}.tsx"
//	        templateFile: templates/component.tsx.hbs
//	      - type: add
//	        path: "src/{{pascalCase name}}.stories.tsx"
//	        templateFile: templates/story.tsx.hbs
//	        when: story
//
// Documents are validated against an embedded JSON Schema before use. An
// action with "when: key" runs only if the answer for key is truthy;
// "when: !key" inverts the test.
package plopfile
