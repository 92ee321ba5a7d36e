package markers

import (
	"bytes"
	"strings"
)

var (
	markStart = []byte("<<<<<<<")
	markBase  = []byte("|||||||")
	markMid   = []byte("=======")
	markEnd   = []byte(">>>>>>>")
)

// Parse splits a file into text segments and conflict segments.
//
// It is total: malformed or truncated marker structures never fail and
// never lose bytes. A start marker that is not followed by a complete
// region (separator and end marker before EOF) degrades to literal text,
// so rendering the document reproduces the input unchanged.
func Parse(data []byte) Document {
	var doc Document

	lines := splitLinesKeepEOL(data)

	var textBuf bytes.Buffer
	appendText := func() {
		if textBuf.Len() == 0 {
			return
		}
		doc.Segments = append(doc.Segments, TextSegment{Bytes: append([]byte(nil), textBuf.Bytes()...)})
		textBuf.Reset()
	}

	i := 0
	for i < len(lines) {
		if !hasLinePrefix(lines[i], markStart) {
			textBuf.Write(lines[i])
			i++
			continue
		}

		seg, next, ok := scanConflict(lines, i)
		if !ok {
			// Truncated region: keep every collected line, markers
			// included, as plain text.
			for ; i < len(lines); i++ {
				textBuf.Write(lines[i])
			}
			break
		}

		appendText()
		doc.Conflicts = append(doc.Conflicts, ConflictRef{SegmentIndex: len(doc.Segments)})
		doc.Segments = append(doc.Segments, seg)
		i = next
	}

	appendText()
	return doc
}

// scanConflict reads a full conflict region starting at the <<<<<<< line.
// Returns ok=false when the region is not closed before EOF; the caller
// falls back to literal text. Marker lines are only control tokens in the
// phase that expects them, so nested or out-of-order markers stay literal.
func scanConflict(lines [][]byte, start int) (ConflictSegment, int, bool) {
	seg := ConflictSegment{
		StartMarker: lines[start],
		LocalLabel:  markerLabel(lines[start], markStart),
	}

	i := start + 1
	var local bytes.Buffer
	for ; i < len(lines); i++ {
		if hasLinePrefix(lines[i], markBase) || hasLinePrefix(lines[i], markMid) {
			break
		}
		local.Write(lines[i])
	}
	if i >= len(lines) {
		return ConflictSegment{}, 0, false
	}

	// Optional diff3 base section.
	var base bytes.Buffer
	if hasLinePrefix(lines[i], markBase) {
		seg.HasBase = true
		seg.BaseMarker = lines[i]
		seg.BaseLabel = markerLabel(lines[i], markBase)
		i++
		for ; i < len(lines); i++ {
			if hasLinePrefix(lines[i], markMid) {
				break
			}
			base.Write(lines[i])
		}
		if i >= len(lines) {
			return ConflictSegment{}, 0, false
		}
	}

	seg.MidMarker = lines[i]
	i++
	var incoming bytes.Buffer
	for ; i < len(lines); i++ {
		if hasLinePrefix(lines[i], markEnd) {
			break
		}
		incoming.Write(lines[i])
	}
	if i >= len(lines) {
		return ConflictSegment{}, 0, false
	}

	seg.EndMarker = lines[i]
	seg.IncomingLabel = markerLabel(lines[i], markEnd)
	seg.Local = local.Bytes()
	if seg.HasBase {
		seg.Base = base.Bytes()
	}
	seg.Incoming = incoming.Bytes()
	seg.Resolution = ResolutionUnset

	return seg, i + 1, true
}

func hasLinePrefix(line, prefix []byte) bool {
	// Markers appear at line start in git output.
	return bytes.HasPrefix(line, prefix)
}

func markerLabel(line, prefix []byte) string {
	label := strings.TrimPrefix(string(line), string(prefix))
	return strings.TrimSpace(label)
}

func splitLinesKeepEOL(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}

	var out [][]byte
	start := 0
	for i := 0; i < len(b); i++ {
		if b[i] == '\n' {
			out = append(out, b[start:i+1])
			start = i + 1
		}
	}
	if start < len(b) {
		out = append(out, b[start:])
	}
	return out
}

// IsResolved returns true if the data contains no conflict regions.
//
// Lines that merely start with <<<<<<< but are not followed by a valid
// region parse as plain text and are NOT counted as conflicts.
func IsResolved(data []byte) bool {
	return len(Parse(data).Conflicts) == 0
}
