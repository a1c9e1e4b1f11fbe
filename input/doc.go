// Package input asks generator prompts on a terminal.
//
// Terminal implements generator.Prompter with plain line-based input so it
// works the same on a TTY, in a pipe and in tests. ChooseGenerator is the
// full-screen menu shown when plover starts without a generator name.
package input
