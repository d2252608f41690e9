// Package synth produces the initial content of a new workfile for each
// supported application.
//
// Most formats are built in-process (Krita archives, PSD, PNG, plain text).
// Blender files are written by a headless Blender run, and formats with no
// practical writer are reserved as empty placeholders that the artist
// replaces with "Save As".
package synth
