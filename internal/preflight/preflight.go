// Package preflight reports availability of the external binaries the
// fixture depends on, so suites can skip or fail fast with a useful
// message instead of an exec error mid-test.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external binary the fixture relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// sshdProbePaths are checked before PATH; sbin is rarely on PATH for
// unprivileged users.
var sshdProbePaths = []string{
	"/usr/sbin/sshd",
	"/usr/local/sbin/sshd",
	"/opt/homebrew/sbin/sshd",
}

// Requirements returns the fixture's external binary set.
func Requirements() []Requirement {
	return []Requirement{
		{Name: "sshd", Command: "sshd", Description: "OpenSSH daemon under fixture control"},
		{Name: "id", Command: "id", Description: "resolves the login user for client connections"},
		{Name: "hostname", Command: "hostname", Description: "resolves the host name for client connections"},
		{Name: "ssh-keygen", Command: "ssh-keygen", Description: "key inspection during debugging", Optional: true},
	}
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{Requirement: req}
		cmd := strings.TrimSpace(req.Command)
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		case cmd == "sshd":
			if path, err := FindSSHD(""); err == nil {
				status.Available = true
				status.Detail = path
			} else {
				status.Detail = err.Error()
			}
		default:
			if path, err := exec.LookPath(cmd); err == nil {
				status.Available = true
				status.Detail = path
			} else {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			}
		}
		results = append(results, status)
	}
	return results
}

// FindSSHD locates the sshd binary. A non-empty configured path wins and
// must exist; otherwise well-known locations are probed before PATH.
func FindSSHD(configured string) (string, error) {
	if configured = strings.TrimSpace(configured); configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("configured sshd %s: %w", configured, err)
		}
		return configured, nil
	}
	for _, candidate := range sshdProbePaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if path, err := exec.LookPath("sshd"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("sshd not found in %s or PATH", strings.Join(sshdProbePaths, ", "))
}
