package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chojs23/mersge/internal/cli"
	"github.com/chojs23/mersge/internal/markers"
)

const backupSuffix = ".mersge.bak"

// CheckResolvedFile reports whether the file contains no conflict regions.
func CheckResolvedFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read file: %w", err)
	}
	return markers.IsResolved(data), nil
}

// CountConflictsFile returns how many conflict regions the file contains.
func CountConflictsFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}
	return len(markers.Parse(data).Conflicts), nil
}

// ApplyAllAndWrite resolves every conflict to one side non-interactively
// and writes the file back. A file without conflicts is left untouched.
func ApplyAllAndWrite(opts cli.Options) error {
	resolution, err := resolutionFromMode(opts.ApplyAll)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	doc := markers.Parse(data)
	if len(doc.Conflicts) == 0 {
		// Nothing to resolve; exit 0 without writing.
		return nil
	}

	for _, ref := range doc.Conflicts {
		seg, ok := doc.Segments[ref.SegmentIndex].(markers.ConflictSegment)
		if !ok {
			return fmt.Errorf("internal: conflict index %d is not a ConflictSegment", ref.SegmentIndex)
		}
		seg.Resolution = resolution
		doc.Segments[ref.SegmentIndex] = seg
	}

	if err := WriteResolved(opts.Path, doc, opts.Backup); err != nil {
		return err
	}

	// Verify no conflict regions remain after full resolution.
	written, err := os.ReadFile(opts.Path)
	if err != nil {
		return fmt.Errorf("reread file: %w", err)
	}
	if !markers.IsResolved(written) {
		return errors.New("resolution output still contains conflict markers")
	}

	return nil
}

// WriteResolved serializes the document and writes it to path, creating a
// backup of the previous content when requested. Unresolved conflicts are
// written back as marker blocks rather than blocking the write. The
// document is never modified, so a failed write can simply be retried.
func WriteResolved(path string, doc markers.Document, backup bool) error {
	resolved := markers.Render(doc)

	if backup {
		previous, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read file for backup: %w", err)
		}
		bak := path + backupSuffix
		if err := os.WriteFile(bak, previous, 0o644); err != nil {
			return fmt.Errorf("write backup %s: %w", filepath.Base(bak), err)
		}
	}

	if err := os.WriteFile(path, resolved, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

func resolutionFromMode(mode string) (markers.Resolution, error) {
	switch mode {
	case "local":
		return markers.ResolutionLocal, nil
	case "incoming":
		return markers.ResolutionIncoming, nil
	default:
		return markers.ResolutionUnset, fmt.Errorf("invalid apply mode: %q (expected local|incoming)", mode)
	}
}
