// Package workflow ties the layout resolver, the workfile versioner and the
// registry together into the operations the CLI exposes.
//
// The Manager resolves a target directory inside a project, asks the
// versioner for the next workfile, retries exactly once when another writer
// claimed the same version first, and records the result in the registry.
// It also scaffolds new projects and lists existing workfiles straight from
// disk, which stays the source of truth for version numbers.
package workflow
