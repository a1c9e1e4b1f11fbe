// Package plover holds build information shared by the plover packages.
package plover

// Version is the plover release. Plopfiles may constrain it with a
// "plover" semver range.
var Version = "0.1.0"
