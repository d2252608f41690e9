package synth

import (
	"context"
	"fmt"
)

// PlaceholderFile reserves the versioned filename with an empty file for
// applications whose format cannot be produced outside the application.
type PlaceholderFile struct {
	Application string
}

// Synthesize leaves the temporary file empty.
func (p PlaceholderFile) Synthesize(ctx context.Context, _ Request, _ string) error {
	return ctx.Err()
}

// Notice tells the artist how to turn the placeholder into a real document.
func (p PlaceholderFile) Notice(req Request) string {
	return fmt.Sprintf("%s is an empty placeholder: open %s, create the document, and Save As over this file", req.FileName, p.Application)
}
