// Package deps verifies the external tools winnow shells out to.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency winnow relies on. Command is
// either a bare name resolved on PATH or a configured path checked in
// place; a configured path never falls back to PATH resolution.
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
	// Resolved holds the absolute path the check settled on.
	Resolved string
	Detail   string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(req))
	}
	return results
}

func check(req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	if strings.ContainsRune(cmd, os.PathSeparator) {
		info, err := os.Stat(cmd)
		switch {
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		case info.IsDir():
			status.Detail = fmt.Sprintf("%q is a directory", cmd)
		case info.Mode().Perm()&0o111 == 0:
			status.Detail = fmt.Sprintf("%q is not executable", cmd)
		default:
			status.Available = true
			status.Resolved = cmd
		}
		return status
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Available = true
	status.Resolved = resolved
	return status
}
