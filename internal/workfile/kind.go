package workfile

import (
	"fmt"
	"strings"
)

// Kind describes one workfile type.
type Kind struct {
	Name        string
	Extension   string
	Application string
	// Placeholder kinds start as an empty file the application must overwrite.
	Placeholder bool
}

var kinds = []Kind{
	{Name: "blender", Extension: "blend", Application: "Blender"},
	{Name: "krita", Extension: "kra", Application: "Krita"},
	{Name: "photoshop", Extension: "psd", Application: "Photoshop"},
	{Name: "image", Extension: "png", Application: "Image editor"},
	{Name: "fountain", Extension: "fountain", Application: "Screenplay editor"},
	{Name: "markdown", Extension: "md", Application: "Text editor"},
	{Name: "pureref", Extension: "pur", Application: "PureRef", Placeholder: true},
	{Name: "aftereffects", Extension: "aep", Application: "After Effects", Placeholder: true},
}

// Kinds returns the registry in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// KindNames returns the registered kind names in display order.
func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.Name)
	}
	return names
}

// LookupKind finds a kind by name, case-insensitively.
func LookupKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, kind := range kinds {
		if kind.Name == normalized {
			return kind, nil
		}
	}
	return Kind{}, fmt.Errorf("%w %q (valid: %s)", ErrUnknownKind, name, strings.Join(KindNames(), ", "))
}

// KindForExtension maps a file extension (with or without the dot) back to
// its kind.
func KindForExtension(ext string) (Kind, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, kind := range kinds {
		if kind.Extension == ext {
			return kind, true
		}
	}
	return Kind{}, false
}
