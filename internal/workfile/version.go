package workfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// MaxVersion is the highest version pipely allocates or recognizes. Names
// with longer version numbers are treated as foreign files.
const MaxVersion = 999_999_999

// ErrVersionLimit reports that a target already holds MaxVersion.
var ErrVersionLimit = errors.New("workfile version limit reached")

// FormatName builds the versioned filename. Versions are padded to three
// digits and grow past that without truncation (w999, w1000).
func FormatName(target string, kind Kind, version int) string {
	return fmt.Sprintf("%s_%s_w%03d.%s", target, kind.Name, version, kind.Extension)
}

// ParseVersion extracts the version from name when it is exactly a workfile
// of target and kind. Anything else, including other targets, other kinds,
// extra suffixes, or a different extension, yields false.
func ParseVersion(name, target string, kind Kind) (int, bool) {
	prefix := target + "_" + kind.Name + "_w"
	suffix := "." + kind.Extension
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	if len(name) < len(prefix)+len(suffix) {
		return 0, false
	}
	digits := name[len(prefix) : len(name)-len(suffix)]
	if digits == "" || len(digits) > len(strconv.Itoa(MaxVersion)) {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	version, err := strconv.Atoi(digits)
	if err != nil || version > MaxVersion {
		return 0, false
	}
	return version, true
}

// NextVersion scans dir and returns one past the highest existing version of
// target and kind, or 1 when there is none. Gaps are not filled. A missing
// directory counts as empty. It fails with ErrVersionLimit once MaxVersion
// exists.
func NextVersion(dir, target string, kind Kind) (int, error) {
	versions, err := ExistingVersions(dir, target, kind)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, version := range versions {
		if version > highest {
			highest = version
		}
	}
	if highest >= MaxVersion {
		return 0, fmt.Errorf("%w: %s %s is at w%d in %s", ErrVersionLimit, target, kind.Name, highest, dir)
	}
	return highest + 1, nil
}

// ExistingVersions lists the versions of target and kind found in dir in
// directory order.
func ExistingVersions(dir, target string, kind Kind) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, permissionError(fmt.Errorf("scan %s: %w", dir, err))
	}
	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if version, ok := ParseVersion(entry.Name(), target, kind); ok {
			versions = append(versions, version)
		}
	}
	return versions, nil
}
