package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileModeRestrictsPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")

	if err := WriteFileMode(path, []byte("secret"), 0o600); err != nil {
		t.Fatalf("WriteFileMode: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %04o, want 0600", perm)
	}
	if err := CheckOwnerOnly(path); err != nil {
		t.Fatalf("CheckOwnerOnly: %v", err)
	}
}

func TestCopyFileMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileMode(src, dst, 0o600); err != nil {
		t.Fatalf("CopyFileMode: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %04o, want 0600", perm)
	}
}

func TestCopyFileMode_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFileMode(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), 0o600); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCheckOwnerOnlyRejectsLooseMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loose")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckOwnerOnly(path); err == nil {
		t.Fatal("expected error for group/other readable file")
	}
}
