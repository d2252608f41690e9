package synth

import (
	"fmt"
	"io"
)

// WriteFountain writes a screenplay containing only its title page.
func WriteFountain(w io.Writer, req Request) error {
	_, err := fmt.Fprintf(w, "Title: %s\n", req.Target)
	return err
}

// WriteMarkdown writes a document containing only a level-one heading.
func WriteMarkdown(w io.Writer, req Request) error {
	_, err := fmt.Fprintf(w, "# %s\n", req.Target)
	return err
}
