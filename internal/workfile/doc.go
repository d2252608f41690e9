// Package workfile allocates and creates versioned workfiles.
//
// A workfile is named <target>_<kind>_w<NNN>.<ext> and lives in the target's
// folder. The next version is always one past the highest version on disk,
// files are written through a temporary file, and an existing file is never
// replaced. The filesystem is the only source of truth for version numbers.
package workfile
