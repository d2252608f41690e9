package dcc

import "strings"

// WindowsToWSL converts a C:\ style path to its /mnt/<drive> form. Paths
// without a drive letter are returned unchanged with ok=false.
func WindowsToWSL(mountRoot, path string) (string, bool) {
	if len(path) < 3 || path[1] != ':' || (path[2] != '\\' && path[2] != '/') {
		return path, false
	}
	drive := strings.ToLower(path[:1])
	rest := strings.ReplaceAll(path[3:], `\`, "/")
	base := strings.TrimRight(mountRoot, "/")
	// mountRoot points at the C: mount; other drives sit beside it.
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[:idx+1] + drive
	}
	return base + "/" + rest, true
}

// WSLToWindows converts a /mnt/<drive>/... path to Windows form.
func WSLToWindows(path string) (string, bool) {
	const prefix = "/mnt/"
	if !strings.HasPrefix(path, prefix) || len(path) < len(prefix)+1 {
		return path, false
	}
	rest := path[len(prefix):]
	drive := rest[:1]
	rest = rest[1:]
	if rest != "" && rest[0] != '/' {
		return path, false
	}
	return strings.ToUpper(drive) + `:\` + strings.ReplaceAll(strings.TrimPrefix(rest, "/"), "/", `\`), true
}
