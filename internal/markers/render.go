package markers

import "bytes"

// Render reconstructs file content from a document.
//
// Text segments pass through verbatim. Resolved conflicts emit the chosen
// side. Unresolved conflicts emit their full original marker block, so a
// write with pending conflicts never drops or guesses at user content and
// re-parsing the output yields an equivalent document.
func Render(doc Document) []byte {
	var out bytes.Buffer

	for _, seg := range doc.Segments {
		switch s := seg.(type) {
		case TextSegment:
			out.Write(s.Bytes)
		case ConflictSegment:
			switch s.Resolution {
			case ResolutionLocal:
				out.Write(s.Local)
			case ResolutionIncoming:
				out.Write(s.Incoming)
			default:
				writeMarkerBlock(&out, s)
			}
		}
	}

	return out.Bytes()
}

func writeMarkerBlock(out *bytes.Buffer, s ConflictSegment) {
	out.Write(markerLine(s.StartMarker, markStart, s.LocalLabel))
	out.Write(s.Local)
	if s.HasBase {
		out.Write(markerLine(s.BaseMarker, markBase, s.BaseLabel))
		out.Write(s.Base)
	}
	out.Write(markerLine(s.MidMarker, markMid, ""))
	out.Write(s.Incoming)
	out.Write(markerLine(s.EndMarker, markEnd, s.IncomingLabel))
}

// markerLine prefers the raw line captured at parse time; segments built
// by hand fall back to a synthesized marker with the label.
func markerLine(raw, prefix []byte, label string) []byte {
	if len(raw) > 0 {
		return raw
	}
	line := append([]byte(nil), prefix...)
	if label != "" {
		line = append(line, ' ')
		line = append(line, label...)
	}
	return append(line, '\n')
}
