// Package deps checks that external executables are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external program pipely may run.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Resolved is the absolute executable path when Available.
	Resolved string
	Detail   string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "no known install location on this system"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Resolved = resolved
		results = append(results, status)
	}
	return results
}

// MissingRequired counts unavailable requirements that are not optional.
func MissingRequired(statuses []Status) int {
	missing := 0
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing++
		}
	}
	return missing
}
