// Package generator is the plover execution engine: it turns a generator
// definition plus the user's answers into an ordered sequence of file
// mutations and reports every action's outcome.
//
// # Features
//
//   - Handlebars template rendering with case-conversion helpers
//   - Static or answer-dependent (dynamic) action lists
//   - Built-in add, modify, append and addMany actions
//   - Custom action types registered next to the built-ins
//   - Partial-failure isolation: one failed action never stops the rest
//
// # Lifecycle
//
// Registration and execution are separate phases. A Setup collects
// generators, action types, helpers and partials; Seal freezes them into an
// Engine that can only run:
//
//	setup := generator.NewSetup()
//	setup.SetGenerator(generator.Generator{
//	    Name: "component",
//	    Actions: generator.Static{
//	        {Type: "add", Path: "src/{{name}}.ts", Template: "export const {{name}} = 1;"},
//	    },
//	})
//
//	engine := setup.Seal(generator.Options{BasePath: "."})
//	data, err := engine.GetData(ctx, "component", prompter)
//	if err != nil {
//	    return err // generator missing or action list invalid: nothing was written
//	}
//	result := engine.Run(ctx, data)
//
// Run never fails as a whole. Each action lands in either result.Changes or
// result.Failures, in the order the actions were declared.
package generator
