package cli

import (
	"errors"
	"testing"
)

func TestParsePositionalPath(t *testing.T) {
	opts, err := Parse([]string{"merged.txt"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if opts.Path != "merged.txt" {
		t.Fatalf("Parse() Path = %q, want merged.txt", opts.Path)
	}
}

func TestParseNoArgsSelectorMode(t *testing.T) {
	opts, err := Parse([]string{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if opts.Path != "" {
		t.Fatalf("Parse() Path = %q, want empty for selector mode", opts.Path)
	}
	if opts.Backup {
		t.Fatalf("Parse() Backup = true, want false by default")
	}
}

func TestParseBackupFlag(t *testing.T) {
	opts, err := Parse([]string{"--backup", "merged.txt"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !opts.Backup {
		t.Fatalf("Parse() Backup = false, want true")
	}
}

func TestParseApplyAll(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"local", []string{"--apply-all", "local", "merged.txt"}, false},
		{"incoming", []string{"--apply-all", "Incoming", "merged.txt"}, false},
		{"invalid side", []string{"--apply-all", "ours", "merged.txt"}, true},
		{"missing path", []string{"--apply-all", "local"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestParseCheckRequiresPath(t *testing.T) {
	if _, err := Parse([]string{"--check"}); err == nil {
		t.Fatalf("expected error for --check without path")
	}

	opts, err := Parse([]string{"--check", "merged.txt"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !opts.Check || opts.Path != "merged.txt" {
		t.Fatalf("Parse() = %+v, want check mode with path", opts)
	}
}

func TestParseTooManyArgs(t *testing.T) {
	if _, err := Parse([]string{"a.txt", "b.txt"}); err == nil {
		t.Fatalf("expected error for multiple positional args")
	}
}

func TestParseHelpAndVersion(t *testing.T) {
	if _, err := Parse([]string{"-h"}); !errors.Is(err, ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if _, err := Parse([]string{"--version"}); !errors.Is(err, ErrVersion) {
		t.Fatalf("expected ErrVersion, got %v", err)
	}
}
