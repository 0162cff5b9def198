package classify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsExecutable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"elf", []byte{0x7f, 'E', 'L', 'F', 2, 1, 1}, true},
		{"macho 64", []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07}, true},
		{"macho fat", []byte{0xca, 0xfe, 0xba, 0xbe, 0x00}, true},
		{"pe", []byte("MZ\x90\x00"), true},
		{"script", []byte("#!/bin/sh\n"), false},
		{"text", []byte("package main\n"), false},
		{"empty", nil, false},
		{"short", []byte{0x7f}, false},
	}
	for _, tt := range tests {
		if got := IsExecutable(tt.buf); got != tt.want {
			t.Errorf("IsExecutable(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetectBinaries(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	write := func(name string, data []byte) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	write("agentflow", []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	write("script", []byte("#!/bin/sh\necho hi\n"))
	write("notes.txt", []byte{0x7f, 'E', 'L', 'F'}) // has extension, skipped

	paths := []string{
		"agentflow",
		"script",
		"notes.txt",
		"cmd/nested", // not root-level
		"missing",    // does not exist
	}

	got := DetectBinaries(dir, paths)
	if len(got) != 1 || got[0] != "agentflow" {
		t.Errorf("DetectBinaries = %v, want [agentflow]", got)
	}
}

func TestDetectBinaries_None(t *testing.T) {
	t.Parallel()
	if got := DetectBinaries(t.TempDir(), []string{"a", "b"}); got != nil {
		t.Errorf("DetectBinaries = %v, want nil", got)
	}
}
