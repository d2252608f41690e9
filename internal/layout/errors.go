package layout

import "errors"

var (
	// ErrInvalidRoot reports a project root that is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid project root")
	// ErrUnknownTemplate reports a project-type key with no registered template.
	ErrUnknownTemplate = errors.New("unknown project template")
	// ErrPermissionDenied reports a filesystem permission failure while creating directories.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidTarget reports an empty target or one that cannot be a single directory name.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidTargetKind reports a target kind other than shot or asset.
	ErrInvalidTargetKind = errors.New("invalid target kind")
)
