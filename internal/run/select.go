package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chojs23/mersge/internal/cli"
	"github.com/chojs23/mersge/internal/engine"
	"github.com/chojs23/mersge/internal/gitutil"
	"github.com/chojs23/mersge/internal/tui"
)

var errNoConflicts = errors.New("no conflicted files found")

// prepareInteractiveFromRepo fills opts.Path from the git repository around
// the working directory: it lists unmerged files scoped to the cwd and lets
// the user pick one. The merged file already carries the conflict markers,
// so the picked path is opened directly.
func prepareInteractiveFromRepo(ctx context.Context, opts *cli.Options) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	repoRoot, err := gitutil.RepoRoot(ctx, cwd)
	if err != nil {
		return err
	}

	scope, err := filepath.Rel(repoRoot, cwd)
	if err != nil {
		scope = "."
	}
	scope = filepath.ToSlash(scope)

	paths, err := gitutil.ListUnmergedFiles(ctx, repoRoot, scope)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errNoConflicts
	}

	selected, err := selectPathInteractive(ctx, repoRoot, paths)
	if err != nil {
		return err
	}

	mergedPath := selected
	if !filepath.IsAbs(mergedPath) {
		mergedPath = filepath.Join(repoRoot, selected)
	}
	if _, err := os.Stat(mergedPath); err != nil {
		return fmt.Errorf("cannot access merged file %s: %w", selected, err)
	}

	opts.Path = mergedPath
	return nil
}

func selectPath(paths []string) (string, error) {
	if len(paths) == 1 {
		return paths[0], nil
	}

	fmt.Fprintln(os.Stdout, "Conflicted files:")
	for i, p := range paths {
		fmt.Fprintf(os.Stdout, "  %d) %s\n", i+1, p)
	}

	reader := bufio.NewReader(os.Stdin)
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprintf(os.Stdout, "Select a file to resolve [1-%d]: ", len(paths))
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read selection: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(paths) {
			fmt.Fprintln(os.Stdout, "Invalid selection.")
			continue
		}
		return paths[idx-1], nil
	}

	return "", fmt.Errorf("invalid selection")
}

func selectPathInteractive(ctx context.Context, repoRoot string, paths []string) (string, error) {
	if isInteractiveTTY() {
		candidates, err := buildFileCandidates(repoRoot, paths)
		if err != nil {
			return "", err
		}
		return tui.SelectFile(ctx, candidates)
	}
	return selectPath(paths)
}

func isInteractiveTTY() bool {
	return isTTY(os.Stdin) && isTTY(os.Stdout)
}

func isTTY(file *os.File) bool {
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func buildFileCandidates(repoRoot string, paths []string) ([]tui.FileCandidate, error) {
	candidates := make([]tui.FileCandidate, 0, len(paths))
	for _, path := range paths {
		mergedPath := path
		if !filepath.IsAbs(mergedPath) {
			mergedPath = filepath.Join(repoRoot, path)
		}
		pending, err := engine.CountConflictsFile(mergedPath)
		if err != nil {
			return nil, fmt.Errorf("count conflicts in %s: %w", path, err)
		}
		candidates = append(candidates, tui.FileCandidate{Path: path, Pending: pending})
	}
	return candidates, nil
}
