package layout

import (
	"fmt"
	"strings"
)

// TargetKind tells the resolver whether a target is a shot or an asset.
type TargetKind string

const (
	TargetShot  TargetKind = "shot"
	TargetAsset TargetKind = "asset"
)

// ParseTargetKind accepts shot/asset in singular or plural form.
func ParseTargetKind(value string) (TargetKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "shot", "shots":
		return TargetShot, nil
	case "asset", "assets":
		return TargetAsset, nil
	default:
		return "", fmt.Errorf("%w %q (want shot or asset)", ErrInvalidTargetKind, value)
	}
}

// InferTargetKind applies the legacy naming convention where shot ids carry an
// "_SH" segment (DMO_SH010). Callers should prefer an explicit kind; this is
// only a convenience for interactive use.
func InferTargetKind(target string) TargetKind {
	if strings.Contains(target, "_SH") {
		return TargetShot
	}
	return TargetAsset
}

// ValidateTarget checks that target can be used as a single directory name.
func ValidateTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("%w: target id is empty", ErrInvalidTarget)
	}
	if target == "." || target == ".." || strings.ContainsAny(target, `/\`) {
		return fmt.Errorf("%w %q: must not contain path separators", ErrInvalidTarget, target)
	}
	return nil
}
