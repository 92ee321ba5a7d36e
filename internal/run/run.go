package run

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chojs23/mersge/internal/cli"
	"github.com/chojs23/mersge/internal/engine"
	"github.com/chojs23/mersge/internal/tui"
)

func Run(ctx context.Context, opts cli.Options) int {
	if opts.Check {
		resolved, err := engine.CheckResolvedFile(opts.Path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if resolved {
			return 0
		}
		return 1
	}

	if opts.ApplyAll != "" {
		if err := engine.ApplyAllAndWrite(opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return 0
	}

	// Interactive TUI
	if opts.Path == "" {
		baseOpts := opts
		for {
			opts = baseOpts
			if err := prepareInteractiveFromRepo(ctx, &opts); err != nil {
				if errors.Is(err, errNoConflicts) {
					fmt.Fprintln(os.Stdout, "No conflicted files found in the current directory.")
					return 0
				}
				if errors.Is(err, tui.ErrSelectorQuit) {
					return 0
				}
				fmt.Fprintln(os.Stderr, err)
				return 2
			}

			if err := tui.Run(ctx, opts); err != nil {
				if errors.Is(err, tui.ErrBackToSelector) {
					continue
				}
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
			return 0
		}
	}

	if err := tui.Run(ctx, opts); err != nil {
		if errors.Is(err, tui.ErrBackToSelector) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}
