package textutil

import (
	"runtime"
	"strings"
)

// windowsReserved lists device names Windows refuses as file or folder names.
var windowsReserved = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeFolderName normalizes a user supplied name into a portable folder
// name. Spaces become underscores and anything outside [A-Za-z0-9._-] is
// dropped. Returns fallback when nothing usable remains.
func SanitizeFolderName(value, fallback string) string {
	return sanitizeFolderName(value, fallback, runtime.GOOS == "windows")
}

func sanitizeFolderName(value, fallback string, windows bool) string {
	value = strings.ReplaceAll(strings.TrimSpace(value), " ", "_")
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		out = fallback
	}
	if windows {
		out = strings.TrimRight(out, " .")
		if out == "" {
			out = fallback
		}
		if _, reserved := windowsReserved[strings.ToUpper(out)]; reserved {
			out += "_"
		}
	}
	return out
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
