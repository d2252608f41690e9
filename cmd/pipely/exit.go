package main

import (
	"errors"

	"pipely/internal/layout"
	"pipely/internal/manifest"
	"pipely/internal/workfile"
	"pipely/internal/workflow"
)

// Exit codes returned by the CLI.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitPermission  = 3
	exitCollision   = 4
	exitSynthesis   = 5
	exitUnavailable = 6
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, layout.ErrPermissionDenied):
		return exitPermission
	case errors.Is(err, workfile.ErrCollision):
		return exitCollision
	case errors.Is(err, workfile.ErrSynthesis):
		return exitSynthesis
	case errors.Is(err, layout.ErrInvalidRoot),
		errors.Is(err, layout.ErrUnknownTemplate),
		errors.Is(err, layout.ErrInvalidTarget),
		errors.Is(err, layout.ErrInvalidTargetKind),
		errors.Is(err, workfile.ErrUnknownKind),
		errors.Is(err, workfile.ErrVersionLimit),
		errors.Is(err, manifest.ErrNotFound):
		return exitInvalid
	case errors.Is(err, workflow.ErrNoWorkfile):
		return exitUnavailable
	default:
		return exitFailure
	}
}
