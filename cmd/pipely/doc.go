// Package main hosts the pipely CLI entrypoint and command graph.
//
// The Cobra-based command tree scaffolds projects, creates and opens
// versioned workfiles, shows the workfile history kept in the registry, and
// checks the local setup. It centralizes configuration resolution, request
// correlation and logging so subcommands only translate flags into calls on
// internal/workflow.
package main
