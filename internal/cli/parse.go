package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

var ErrHelp = errors.New("help requested")
var ErrVersion = errors.New("version requested")

func Parse(args []string) (Options, error) {
	var opts Options
	var help bool
	var showVersion bool

	fs := flag.NewFlagSet("mersge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ApplyAll, "apply-all", "", "Non-interactive resolution: local|incoming")
	fs.BoolVar(&opts.Check, "check", false, "Exit 0 if resolved (no conflict markers), else 1")
	fs.BoolVar(&opts.Backup, "backup", false, "Create FILE.mersge.bak before writing")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose logging to stderr")
	fs.BoolVar(&help, "help", false, "Show help")
	fs.BoolVar(&help, "h", false, "Show help")
	fs.BoolVar(&showVersion, "version", false, "Show version")

	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage())
	}
	if help {
		return Options{}, ErrHelp
	}
	if showVersion {
		return Options{}, ErrVersion
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.Path = fs.Arg(0)
	default:
		return Options{}, fmt.Errorf("expected at most one file argument, got %d\n\n%s", fs.NArg(), Usage())
	}

	opts.ApplyAll = strings.ToLower(strings.TrimSpace(opts.ApplyAll))
	if opts.ApplyAll != "" && opts.ApplyAll != "local" && opts.ApplyAll != "incoming" {
		return Options{}, fmt.Errorf("invalid --apply-all: %q (expected local|incoming)", opts.ApplyAll)
	}

	if opts.Check {
		if opts.Path == "" {
			return Options{}, fmt.Errorf("--check requires a file argument\n\n%s", Usage())
		}
		return opts, nil
	}

	if opts.ApplyAll != "" {
		if opts.Path == "" {
			return Options{}, fmt.Errorf("--apply-all requires a file argument\n\n%s", Usage())
		}
		return opts, nil
	}

	// No path: detect conflicted files in the current repo and select one.
	return opts, nil
}

func Usage() string {
	return strings.TrimSpace(`Usage:
	  mersge
	  mersge <FILE>

Modes:
	  --check                     Exit 0 if FILE has no conflict regions, else 1
	  --apply-all local|incoming  Resolve all conflicts non-interactively and write FILE

No-args mode:
	  If invoked without a file, mersge lists conflicted files under the
	  current directory and prompts to select one.

Options:
	  --backup                    Create FILE.mersge.bak before writing
	  --version                   Show version
	  -v                          Verbose logging
`)
}
