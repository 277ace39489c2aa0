// Package testsupport holds helpers shared by the fixture's own tests.
package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// StubRunner implements proc.Runner with canned responses, recording
// every invocation.
type StubRunner struct {
	mu      sync.Mutex
	Replies map[string]string
	Err     error
	Calls   [][]string
}

// Output returns the canned reply keyed by the command name.
func (s *StubRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := append([]string{name}, args...)
	s.Calls = append(s.Calls, call)
	if s.Err != nil {
		return "", s.Err
	}
	reply, ok := s.Replies[name]
	if !ok {
		return "", fmt.Errorf("stub runner: no reply for %q", name)
	}
	return reply, nil
}

// CallCount returns how many times the stub ran any command.
func (s *StubRunner) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// StubDaemon writes a fake sshd binary that prints one banner line to
// stderr and sleeps until signaled, mimicking a foreground daemon without
// opening any socket. Returns its path.
func StubDaemon(t testing.TB) string {
	t.Helper()

	script := "#!/bin/sh\necho \"stub sshd: $*\" >&2\nwhile :; do sleep 1; done\n"
	path := filepath.Join(t.TempDir(), "sshd")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub sshd: %v", err)
	}
	return path
}

// FailingDaemon writes a fake sshd binary that exits immediately with a
// non-zero status.
func FailingDaemon(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sshd")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 255\n"), 0o755); err != nil {
		t.Fatalf("write failing sshd: %v", err)
	}
	return path
}
