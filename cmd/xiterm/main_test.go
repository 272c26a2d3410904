package main

import (
	"errors"
	"flag"
	"io"
	"testing"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		file      string
		core      string
		verbosity int
	}{
		{"none", nil, "", "", 0},
		{"file", []string{"main.go"}, "main.go", "", 0},
		{"core", []string{"--core", "/bin/xi-core", "a.txt"}, "a.txt", "/bin/xi-core", 0},
		{"verbosity", []string{"-v", "-v", "-v"}, "", "", 3},
		{"verbosity explicit", []string{"-v=true", "-v=false"}, "", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if opts.file != tt.file {
				t.Errorf("file = %q, want %q", opts.file, tt.file)
			}
			if opts.overrides.CorePath != tt.core {
				t.Errorf("core = %q, want %q", opts.overrides.CorePath, tt.core)
			}
			if opts.overrides.Verbosity != tt.verbosity {
				t.Errorf("verbosity = %d, want %d", opts.overrides.Verbosity, tt.verbosity)
			}
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	if _, err := parseFlags([]string{"a", "b"}, io.Discard); err == nil {
		t.Error("expected error for two files")
	}
	if _, err := parseFlags([]string{"--bogus"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h = %v, want flag.ErrHelp", err)
	}
}
