package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chojs23/mersge/internal/markers"
)

type lineInfo struct {
	text      string
	category  lineCategory
	highlight bool
	selected  bool
	dim       bool
	connector string
}

type lineCategory int

const (
	categoryDefault lineCategory = iota
	categoryModified
	categoryAdded
	categoryRemoved
	categoryConflicted
	categoryResolved
)

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	text := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func renderLines(lines []lineInfo) string {
	if len(lines) == 0 {
		return ""
	}

	width := len(fmt.Sprintf("%d", len(lines)))
	var b strings.Builder
	for i, line := range lines {
		lineNumber := i + 1
		connector := line.connector
		if connector == "" {
			connector = " "
		}

		numberText := fmt.Sprintf("%*d", width, lineNumber)

		style := styleForCategory(line.category)
		if line.selected {
			style = style.Bold(true)
		}
		if line.dim {
			style = style.Foreground(dimForeground)
		}

		connectorStyle := lineNumberStyle
		if line.category == categoryResolved {
			connectorStyle = resolvedLineStyle
		} else if line.highlight {
			connectorStyle = styleForCategory(line.category)
		}

		prefix := lineNumberStyle.Render(numberText) + " " + connectorStyle.Render(connector) + " "

		b.WriteString(prefix + style.Render(line.text))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func styleForCategory(category lineCategory) lipgloss.Style {
	switch category {
	case categoryModified:
		return modifiedLineStyle
	case categoryAdded:
		return addedLineStyle
	case categoryRemoved:
		return removedLineStyle
	case categoryConflicted:
		return conflictedLineStyle
	case categoryResolved:
		return resolvedLineStyle
	default:
		return lipgloss.NewStyle()
	}
}

type paneSide int

const (
	paneLocal paneSide = iota
	paneIncoming
)

// buildPaneLines renders the whole document from one side's perspective:
// text segments verbatim, each conflict replaced by that side's hunk with
// diff categories. The returned index is the first line of the active
// conflict, for auto-scroll.
func buildPaneLines(doc markers.Document, side paneSide, activeConflict int) ([]lineInfo, int) {
	var lines []lineInfo
	conflictIndex := -1
	currentStart := -1

	for _, seg := range doc.Segments {
		switch s := seg.(type) {
		case markers.TextSegment:
			for _, text := range splitLines(s.Bytes) {
				lines = append(lines, lineInfo{text: text, category: categoryDefault})
			}
		case markers.ConflictSegment:
			conflictIndex++
			selected := conflictIndex == activeConflict
			if selected {
				currentStart = len(lines)
			}

			localEntries, incomingEntries := conflictEntries(s)
			entries := localEntries
			if side == paneIncoming {
				entries = incomingEntries
			}

			connector := ""
			if sideAccepted(s.Resolution, side) {
				connector = connectorForSide(side)
			}

			for _, entry := range entries {
				text := entry.text
				dim := entry.category == categoryRemoved
				if dim {
					text = "- " + text
				}
				lines = append(lines, lineInfo{
					text:      text,
					category:  entry.category,
					highlight: entry.category != categoryDefault,
					selected:  selected,
					dim:       dim,
					connector: connector,
				})
			}
		}
	}

	if currentStart == -1 {
		currentStart = 0
	}
	return lines, currentStart
}

// buildResultLines previews what Render would produce: resolved conflicts
// show the chosen side, unresolved ones show a placeholder so the pending
// decision stays visible.
func buildResultLines(doc markers.Document, activeConflict int) ([]lineInfo, int) {
	var lines []lineInfo
	conflictIndex := -1
	currentStart := -1

	for _, seg := range doc.Segments {
		switch s := seg.(type) {
		case markers.TextSegment:
			for _, text := range splitLines(s.Bytes) {
				lines = append(lines, lineInfo{text: text, category: categoryDefault})
			}
		case markers.ConflictSegment:
			conflictIndex++
			selected := conflictIndex == activeConflict
			if selected {
				currentStart = len(lines)
			}

			var chosen []byte
			switch s.Resolution {
			case markers.ResolutionLocal:
				chosen = s.Local
			case markers.ResolutionIncoming:
				chosen = s.Incoming
			default:
				lines = append(lines, lineInfo{
					text:      "[unresolved conflict]",
					category:  categoryConflicted,
					selected:  selected,
					dim:       true,
					connector: connectorForResult(false, selected),
				})
				continue
			}

			for _, text := range splitLines(chosen) {
				lines = append(lines, lineInfo{
					text:      text,
					category:  categoryResolved,
					selected:  selected,
					connector: connectorForResult(true, selected),
				})
			}
		}
	}

	if currentStart == -1 {
		currentStart = 0
	}
	return lines, currentStart
}

// conflictEntries categorizes both sides of a conflict. With a diff3 base
// each side is diffed against it, so unchanged context stays plain and
// double-edited base lines show as conflicting. Without a base the whole
// hunk is conflicting.
func conflictEntries(seg markers.ConflictSegment) ([]lineEntry, []lineEntry) {
	localLines := splitLines(seg.Local)
	incomingLines := splitLines(seg.Incoming)

	if !seg.HasBase {
		return entriesFromLines(localLines, categoryConflicted), entriesFromLines(incomingLines, categoryConflicted)
	}

	baseLines := splitLines(seg.Base)
	localEntries := diffEntries(baseLines, localLines)
	incomingEntries := diffEntries(baseLines, incomingLines)
	markConflicted(&localEntries, &incomingEntries)
	return localEntries, incomingEntries
}

func entriesFromLines(lines []string, category lineCategory) []lineEntry {
	entries := make([]lineEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, lineEntry{text: line, category: category, baseIndex: -1})
	}
	return entries
}

type lineEntry struct {
	text      string
	category  lineCategory
	baseIndex int
}

type diffOpKind int

const (
	opEqual diffOpKind = iota
	opRemove
	opAdd
)

type diffOp struct {
	kind      diffOpKind
	text      string
	baseIndex int
}

func diffEntries(baseLines []string, sideLines []string) []lineEntry {
	ops := diffOps(baseLines, sideLines)
	entries := make([]lineEntry, 0, len(ops))
	lastRemovedIndex := -1

	for _, op := range ops {
		switch op.kind {
		case opEqual:
			entries = append(entries, lineEntry{text: op.text, category: categoryDefault, baseIndex: op.baseIndex})
			lastRemovedIndex = -1
		case opRemove:
			entries = append(entries, lineEntry{text: op.text, category: categoryRemoved, baseIndex: op.baseIndex})
			lastRemovedIndex = op.baseIndex
		case opAdd:
			cat := categoryAdded
			baseIndex := -1
			if lastRemovedIndex >= 0 {
				cat = categoryModified
				baseIndex = lastRemovedIndex
				lastRemovedIndex = -1
			}
			entries = append(entries, lineEntry{text: op.text, category: cat, baseIndex: baseIndex})
		}
	}

	return entries
}

// diffOps is a line-level LCS diff between the base block and one side.
func diffOps(baseLines []string, sideLines []string) []diffOp {
	if len(baseLines) == 0 && len(sideLines) == 0 {
		return nil
	}

	lcs := make([][]int, len(baseLines)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(sideLines)+1)
	}

	for i := len(baseLines) - 1; i >= 0; i-- {
		for j := len(sideLines) - 1; j >= 0; j-- {
			if baseLines[i] == sideLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []diffOp
	i := 0
	j := 0
	for i < len(baseLines) && j < len(sideLines) {
		if baseLines[i] == sideLines[j] {
			ops = append(ops, diffOp{kind: opEqual, text: baseLines[i], baseIndex: i})
			i++
			j++
			continue
		}

		if lcs[i+1][j] >= lcs[i][j+1] {
			ops = append(ops, diffOp{kind: opRemove, text: baseLines[i], baseIndex: i})
			i++
			continue
		}

		ops = append(ops, diffOp{kind: opAdd, text: sideLines[j], baseIndex: -1})
		j++
	}

	for i < len(baseLines) {
		ops = append(ops, diffOp{kind: opRemove, text: baseLines[i], baseIndex: i})
		i++
	}

	for j < len(sideLines) {
		ops = append(ops, diffOp{kind: opAdd, text: sideLines[j], baseIndex: -1})
		j++
	}

	return ops
}

// markConflicted upgrades lines both sides rewrote (same base line,
// different replacement text) to the conflicted category.
func markConflicted(localEntries *[]lineEntry, incomingEntries *[]lineEntry) {
	localMap := map[int]int{}
	for i, entry := range *localEntries {
		if entry.baseIndex >= 0 && entry.category != categoryRemoved {
			localMap[entry.baseIndex] = i
		}
	}

	incomingMap := map[int]int{}
	for i, entry := range *incomingEntries {
		if entry.baseIndex >= 0 && entry.category != categoryRemoved {
			incomingMap[entry.baseIndex] = i
		}
	}

	for baseIndex, localIdx := range localMap {
		incomingIdx, ok := incomingMap[baseIndex]
		if !ok {
			continue
		}

		local := (*localEntries)[localIdx]
		incoming := (*incomingEntries)[incomingIdx]
		if local.text != incoming.text {
			local.category = categoryConflicted
			incoming.category = categoryConflicted
			(*localEntries)[localIdx] = local
			(*incomingEntries)[incomingIdx] = incoming
		}
	}
}

func sideAccepted(resolution markers.Resolution, side paneSide) bool {
	switch resolution {
	case markers.ResolutionLocal:
		return side == paneLocal
	case markers.ResolutionIncoming:
		return side == paneIncoming
	default:
		return false
	}
}

func connectorForSide(side paneSide) string {
	if side == paneIncoming {
		return "<"
	}
	return ">"
}

func connectorForResult(resolved bool, selected bool) string {
	if resolved {
		return "v"
	}
	if selected {
		return "|"
	}
	return " "
}
