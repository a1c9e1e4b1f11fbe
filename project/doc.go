// Package project inspects the directory plover runs in: it locates files
// by walking up from a starting directory and reads Go module metadata for
// the goModule and goVersion template helpers.
package project
