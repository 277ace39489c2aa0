package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckReportsMissingBinary(t *testing.T) {
	statuses := Check([]Requirement{
		{Name: "ghost", Command: "definitely-not-a-binary-xyz"},
	})
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("missing binary reported as available")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
}

func TestCheckFindsCommonBinaries(t *testing.T) {
	statuses := Check([]Requirement{
		{Name: "id", Command: "id"},
		{Name: "hostname", Command: "hostname"},
	})
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("%s unavailable: %s", status.Name, status.Detail)
		}
	}
}

func TestCheckUnconfiguredCommand(t *testing.T) {
	statuses := Check([]Requirement{{Name: "blank"}})
	if statuses[0].Available {
		t.Fatal("blank command must not be available")
	}
}

func TestFindSSHDConfiguredPathMustExist(t *testing.T) {
	if _, err := FindSSHD(filepath.Join(t.TempDir(), "sshd")); err == nil {
		t.Fatal("expected error for missing configured path")
	}
}

func TestFindSSHDConfiguredPathWins(t *testing.T) {
	fake := filepath.Join(t.TempDir(), "sshd")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	path, err := FindSSHD(fake)
	if err != nil {
		t.Fatalf("FindSSHD: %v", err)
	}
	if path != fake {
		t.Fatalf("path = %q, want %q", path, fake)
	}
}

func TestRequirementsIncludeDaemon(t *testing.T) {
	var found bool
	for _, req := range Requirements() {
		if req.Name == "sshd" && !req.Optional {
			found = true
		}
	}
	if !found {
		t.Fatal("sshd must be a required dependency")
	}
}
