package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pipely/internal/textutil"
)

// ProjectFolderName builds the root folder name for a new project, e.g.
// "AN_DMO_PokuShort30s" for the animation template, code "dmo", and name
// "poku short 30s".
func ProjectFolderName(templateKey, code, name string) (string, error) {
	tmpl, err := Lookup(templateKey)
	if err != nil {
		return "", err
	}
	code = strings.ToUpper(textutil.SanitizeFolderName(code, ""))
	if code == "" {
		return "", errors.New("project code is required")
	}
	title := cases.Title(language.Und, cases.NoLower)
	words := strings.Fields(name)
	for i, word := range words {
		words[i] = title.String(word)
	}
	joined := textutil.SanitizeFolderName(strings.Join(words, ""), "Project")
	return tmpl.Prefix + "_" + code + "_" + joined, nil
}

// Scaffold creates the template's folder tree under root and returns the
// folders it had to create. Existing folders and files are left untouched.
func Scaffold(root, templateKey string) ([]string, error) {
	tmpl, err := Lookup(templateKey)
	if err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %q: %w", ErrInvalidRoot, root, err)
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, mkdirError(absRoot, err)
	}
	created := make([]string, 0, len(tmpl.Folders))
	for _, rel := range tmpl.Folders {
		dir := filepath.Join(absRoot, filepath.FromSlash(rel))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, mkdirError(dir, err)
		}
		created = append(created, dir)
	}
	return created, nil
}
