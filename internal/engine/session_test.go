package engine

import (
	"testing"

	"github.com/chojs23/mersge/internal/markers"
)

var sessionInput = []byte(`line1
<<<<<<< LOCAL
local1
||||||| BASE
base1
=======
incoming1
>>>>>>> INCOMING
line2
<<<<<<< LOCAL
local2
=======
incoming2
>>>>>>> INCOMING
line3
<<<<<<< LOCAL
local3
=======
incoming3
>>>>>>> INCOMING
line4
`)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	doc := markers.Parse(sessionInput)
	if len(doc.Conflicts) != 3 {
		t.Fatalf("expected 3 conflicts, got %d", len(doc.Conflicts))
	}
	return NewSession(doc)
}

func resolutionAt(t *testing.T, s *Session, conflictIndex int) markers.Resolution {
	t.Helper()
	doc := s.Document()
	ref := doc.Conflicts[conflictIndex]
	seg, ok := doc.Segments[ref.SegmentIndex].(markers.ConflictSegment)
	if !ok {
		t.Fatalf("conflict %d is not a ConflictSegment", conflictIndex)
	}
	return seg.Resolution
}

func TestSessionStartsAtFirstConflict(t *testing.T) {
	s := newTestSession(t)
	if s.ActiveIndex() != 0 {
		t.Fatalf("ActiveIndex = %d, want 0", s.ActiveIndex())
	}

	view, ok := s.Current()
	if !ok {
		t.Fatalf("expected current conflict")
	}
	if string(view.Local) != "local1\n" {
		t.Errorf("view local = %q", view.Local)
	}
	if !view.HasBase || string(view.Base) != "base1\n" {
		t.Errorf("view base = %q (HasBase=%v)", view.Base, view.HasBase)
	}
	if view.Position != 0 || view.Total != 3 {
		t.Errorf("view position/total = %d/%d, want 0/3", view.Position, view.Total)
	}
}

func TestSessionNavigationClamping(t *testing.T) {
	s := newTestSession(t)

	s.MoveUp()
	if s.ActiveIndex() != 0 {
		t.Fatalf("MoveUp at top: ActiveIndex = %d, want 0", s.ActiveIndex())
	}

	for i := 0; i < 10; i++ {
		s.MoveDown()
	}
	if s.ActiveIndex() != 2 {
		t.Fatalf("MoveDown past end: ActiveIndex = %d, want 2", s.ActiveIndex())
	}

	s.MoveUp()
	if s.ActiveIndex() != 1 {
		t.Fatalf("MoveUp: ActiveIndex = %d, want 1", s.ActiveIndex())
	}
}

func TestSessionAcceptSides(t *testing.T) {
	s := newTestSession(t)

	s.AcceptLocal()
	if got := resolutionAt(t, s, 0); got != markers.ResolutionLocal {
		t.Fatalf("conflict 0 resolution = %q, want local", got)
	}

	s.MoveDown()
	s.AcceptIncoming()
	if got := resolutionAt(t, s, 1); got != markers.ResolutionIncoming {
		t.Fatalf("conflict 1 resolution = %q, want incoming", got)
	}

	if got := resolutionAt(t, s, 2); got != markers.ResolutionUnset {
		t.Fatalf("conflict 2 resolution = %q, want unset", got)
	}
}

func TestSessionAcceptIdempotent(t *testing.T) {
	s := newTestSession(t)

	s.AcceptLocal()
	before := markers.Render(s.Document())
	s.AcceptLocal()
	s.AcceptLocal()
	after := markers.Render(s.Document())

	if string(before) != string(after) {
		t.Fatalf("repeated AcceptLocal changed document:\nbefore %q\nafter  %q", before, after)
	}
}

func TestSessionResolutionSwitchable(t *testing.T) {
	s := newTestSession(t)

	s.AcceptLocal()
	s.AcceptIncoming()
	if got := resolutionAt(t, s, 0); got != markers.ResolutionIncoming {
		t.Fatalf("resolution = %q, want incoming after switch", got)
	}

	s.AcceptLocal()
	if got := resolutionAt(t, s, 0); got != markers.ResolutionLocal {
		t.Fatalf("resolution = %q, want local after switching back", got)
	}
}

func TestSessionSummaryAndCounts(t *testing.T) {
	s := newTestSession(t)
	s.AcceptLocal()
	s.MoveDown()
	s.MoveDown()
	s.AcceptIncoming()

	summary := s.Summary()
	if len(summary) != 3 {
		t.Fatalf("summary length = %d, want 3", len(summary))
	}
	if summary[0].Resolution != markers.ResolutionLocal {
		t.Errorf("summary[0] = %q, want local", summary[0].Resolution)
	}
	if summary[1].Resolution != markers.ResolutionUnset {
		t.Errorf("summary[1] = %q, want unset", summary[1].Resolution)
	}
	if summary[2].Resolution != markers.ResolutionIncoming {
		t.Errorf("summary[2] = %q, want incoming", summary[2].Resolution)
	}

	if s.UnresolvedCount() != 1 {
		t.Errorf("UnresolvedCount = %d, want 1", s.UnresolvedCount())
	}
	if s.Resolved() {
		t.Errorf("Resolved = true with one unresolved conflict")
	}

	s.MoveUp()
	s.AcceptLocal()
	if !s.Resolved() {
		t.Errorf("Resolved = false after resolving everything")
	}
}

func TestSessionEmptyDocumentNoOps(t *testing.T) {
	s := NewSession(markers.Parse([]byte("plain\ntext\n")))

	if s.ActiveIndex() != -1 {
		t.Fatalf("ActiveIndex = %d, want -1 for no conflicts", s.ActiveIndex())
	}

	// None of these may panic or change state.
	s.MoveUp()
	s.MoveDown()
	s.AcceptLocal()
	s.AcceptIncoming()

	if s.ActiveIndex() != -1 {
		t.Fatalf("ActiveIndex changed to %d on empty conflict list", s.ActiveIndex())
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("Current returned a view for an empty conflict list")
	}
	if len(s.Summary()) != 0 {
		t.Fatalf("Summary should be empty")
	}
	if !s.Resolved() {
		t.Fatalf("document without conflicts should count as resolved")
	}

	rendered := markers.Render(s.Document())
	if string(rendered) != "plain\ntext\n" {
		t.Fatalf("document mutated by no-op commands: %q", rendered)
	}
}
