// Package exec runs external commands for plover's "exec" action type.
//
// An exec action runs a command after files are generated, for example
// "go mod tidy" or "npm install", in the directory named by the action's
// path:
//
//	actions:
//	  - type: exec
//	    path: "{{kebabCase name}}"
//	    params:
//	      command: npm
//	      args: [install]
//
// Command and arguments are templates rendered against the answers. Dry
// runs skip the command.
package exec
