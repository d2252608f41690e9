// Package preflight provides readiness checks for the filesystem paths and
// applications that pipely depends on.
//
// The doctor command runs RunAll for directory and registry checks, then
// CheckApplications for the authoring programs. Nothing here modifies
// projects; a failed check only explains what to fix.
package preflight
