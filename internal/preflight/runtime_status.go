package preflight

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// BlenderProbe reports whether headless Blender can run, which the blender
// workfile kind needs.
type BlenderProbe struct {
	Available bool
	Binary    string
	Version   string
}

// ProbeBlender runs "blender --version" with a short timeout.
func ProbeBlender(ctx context.Context, binary string) BlenderProbe {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "blender"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return BlenderProbe{Binary: binary}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return BlenderProbe{Binary: binary}
	}
	return BlenderProbe{Available: true, Binary: binary, Version: parseBlenderVersion(string(output))}
}

func parseBlenderVersion(output string) string {
	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Blender "); ok {
			if fields := strings.Fields(rest); len(fields) > 0 {
				return fields[0]
			}
		}
	}
	return "unknown"
}

// Detail renders a display-friendly summary for the doctor output.
func (p BlenderProbe) Detail() string {
	if !p.Available {
		return "headless Blender unavailable (" + p.Binary + "); blender workfiles cannot be created"
	}
	return "Blender " + p.Version + " (" + p.Binary + ")"
}
