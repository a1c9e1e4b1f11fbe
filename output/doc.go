// Package output provides styled terminal output for plover.
//
// Message helpers (Success, Error, Info, Step, Verbose) style a single line
// with lipgloss. Result prints a run's outcomes in the classic
// "[SUCCESS] type path" form, and Diff/ShowChanges render what a dry run
// would have written.
package output
