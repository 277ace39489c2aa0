package proc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Runner abstracts helper-process execution for testability.
type Runner interface {
	// Output runs the command to completion and returns trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// CommandRunner executes helper commands with os/exec.
type CommandRunner struct{}

// Output implements Runner.
func (CommandRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("run %s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Drain consumes r line by line until EOF, forwarding each line to fn.
// A nil fn discards the stream. Scanner errors from a closed pipe are
// expected during shutdown and are not reported.
func Drain(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if fn != nil {
			fn(scanner.Text())
		}
	}
}

// DrainAll drains every reader concurrently and blocks until all hit EOF.
func DrainAll(fn func(string), readers ...io.Reader) {
	var wg sync.WaitGroup
	for _, r := range readers {
		if r == nil {
			continue
		}
		wg.Add(1)
		go func(r io.Reader) {
			defer wg.Done()
			Drain(r, fn)
		}(r)
	}
	wg.Wait()
}
