package logging

import "strings"

// FormatSubject builds the show/target/kind subject used in console output,
// e.g. "DMO · DMO_SH010 (krita)".
func FormatSubject(show, target, kind string) string {
	show = strings.TrimSpace(show)
	target = strings.TrimSpace(target)
	kind = strings.TrimSpace(kind)
	parts := make([]string, 0, 2)
	if show != "" {
		parts = append(parts, strings.ToUpper(show))
	}
	switch {
	case target != "" && kind != "":
		parts = append(parts, target+" ("+kind+")")
	case target != "":
		parts = append(parts, target)
	case kind != "":
		parts = append(parts, kind)
	}
	return strings.Join(parts, " · ")
}
