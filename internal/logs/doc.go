// Package logs reads the JSON log file that every pipely command appends to.
//
// Tail returns the last lines of the file (or everything after an offset)
// and can wait for new lines, which backs `pipely logs --follow`. ParseEntry
// and Filter narrow the raw lines to one invocation, component or minimum
// level, and Format renders an entry for a terminal.
package logs
