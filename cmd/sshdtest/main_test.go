package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable(
		[]string{"Field", "Value"},
		[][]string{{"Port", "2222"}, {"Login", "tester"}},
		false,
	)
	if !strings.Contains(out, "Port") || !strings.Contains(out, "2222") {
		t.Fatalf("table missing cells:\n%s", out)
	}
	if !strings.Contains(out, "Login") || !strings.Contains(out, "tester") {
		t.Fatalf("table missing second row:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B", "C"}, [][]string{{"only"}}, false)
	if !strings.Contains(out, "only") {
		t.Fatalf("short row dropped:\n%s", out)
	}
}

func TestRootCommandListsSubcommands(t *testing.T) {
	cmd := newRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"up", "deps", "key", "config"} {
		if !names[want] {
			t.Fatalf("missing subcommand %q", want)
		}
	}
}

func TestKeyCommandPrintsPEM(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"key"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("key command: %v", err)
	}
	if !strings.Contains(out.String(), "PRIVATE KEY") {
		t.Fatalf("key output does not look like PEM:\n%s", out.String())
	}
}

func TestConfigCommandPrintsSample(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config command: %v", err)
	}
	if !strings.Contains(out.String(), "listen_host") {
		t.Fatalf("sample config missing keys:\n%s", out.String())
	}
}

func TestIsTerminalFalseForBuffer(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Fatal("buffer must not be a terminal")
	}
}
