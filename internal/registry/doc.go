// Package registry persists the show list and the history of created
// workfiles in SQLite.
//
// The registry is a ledger only. Version numbers are always derived from the
// files on disk, so a missing or stale registry never affects allocation;
// the CLI uses it for "project list" and "workfile history".
package registry
