// Package layout maps projects, templates, and targets onto directories.
//
// A template names a project-type folder convention (animation, game, art).
// Resolve turns a project root, template, target kind, and target id into the
// directory that holds the target's versioned workfiles, creating it on first
// use. The subtree names returned here are an external contract: DCC launcher
// scripts and artists look for files under them, so they must not change once
// a project exists.
//
// The package also owns project scaffolding: the folder list each template
// creates and the naming rule for new project roots.
package layout
