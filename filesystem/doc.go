// Package filesystem provides the file access layer used by plover actions.
//
// # Overview
//
// Actions never call the os package directly. They go through the FS
// interface so that the same action list can run against the real disk
// or against a staged, in-memory overlay:
//   - OS writes straight to disk
//   - Staged records writes in memory for --dry-run previews
//   - Walk traverses template directories with sensible ignore defaults
//
// # Usage
//
// Preview what a run would write:
//
//	staged := filesystem.NewStaged(filesystem.OS{})
//	// ... run actions against staged ...
//	for _, change := range staged.Changes() {
//	    fmt.Println(change.Path, change.Existed)
//	}
//
// Walk a template directory including dotfiles:
//
//	err := filesystem.Walk("templates", filesystem.WalkOptions{
//	    IncludeHidden: true,
//	}, func(path string, info os.FileInfo) error {
//	    return nil
//	})
package filesystem
