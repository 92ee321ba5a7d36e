package engine

import "github.com/chojs23/mersge/internal/markers"

// Session owns one parsed document and the cursor over its conflict list.
// Every user command maps to one synchronous method call; all methods are
// total, so navigation and resolution on an empty conflict list are no-ops.
type Session struct {
	doc    markers.Document
	active int // index into doc.Conflicts, -1 when there are none
}

// ConflictView is the read-only projection of the active conflict that the
// rendering layer consumes.
type ConflictView struct {
	Local    []byte
	Base     []byte
	Incoming []byte
	HasBase  bool

	Resolution markers.Resolution
	Position   int
	Total      int
}

// ConflictStatus is one entry of the progress summary.
type ConflictStatus struct {
	Position   int
	Resolution markers.Resolution
}

func NewSession(doc markers.Document) *Session {
	active := -1
	if len(doc.Conflicts) > 0 {
		active = 0
	}
	return &Session{doc: doc, active: active}
}

// MoveUp moves the cursor to the previous conflict, clamped at the first.
func (s *Session) MoveUp() {
	if s.active > 0 {
		s.active--
	}
}

// MoveDown moves the cursor to the next conflict, clamped at the last.
func (s *Session) MoveDown() {
	if s.active >= 0 && s.active < len(s.doc.Conflicts)-1 {
		s.active++
	}
}

// AcceptLocal resolves the active conflict to its local side.
func (s *Session) AcceptLocal() {
	s.apply(markers.ResolutionLocal)
}

// AcceptIncoming resolves the active conflict to its incoming side.
func (s *Session) AcceptIncoming() {
	s.apply(markers.ResolutionIncoming)
}

// apply is idempotent and freely re-assignable: choosing the other side
// later always wins, resolutions are never locked.
func (s *Session) apply(resolution markers.Resolution) {
	if s.active < 0 {
		return
	}
	ref := s.doc.Conflicts[s.active]
	seg, ok := s.doc.Segments[ref.SegmentIndex].(markers.ConflictSegment)
	if !ok {
		return
	}
	seg.Resolution = resolution
	s.doc.Segments[ref.SegmentIndex] = seg
}

// Current returns the active conflict's view, or false when the document
// has no conflicts.
func (s *Session) Current() (ConflictView, bool) {
	if s.active < 0 {
		return ConflictView{}, false
	}
	ref := s.doc.Conflicts[s.active]
	seg, ok := s.doc.Segments[ref.SegmentIndex].(markers.ConflictSegment)
	if !ok {
		return ConflictView{}, false
	}
	return ConflictView{
		Local:      seg.Local,
		Base:       seg.Base,
		Incoming:   seg.Incoming,
		HasBase:    seg.HasBase,
		Resolution: seg.Resolution,
		Position:   s.active,
		Total:      len(s.doc.Conflicts),
	}, true
}

// Summary lists every conflict's position and resolution in document order.
func (s *Session) Summary() []ConflictStatus {
	summary := make([]ConflictStatus, 0, len(s.doc.Conflicts))
	for i, ref := range s.doc.Conflicts {
		resolution := markers.ResolutionUnset
		if seg, ok := s.doc.Segments[ref.SegmentIndex].(markers.ConflictSegment); ok {
			resolution = seg.Resolution
		}
		summary = append(summary, ConflictStatus{Position: i, Resolution: resolution})
	}
	return summary
}

// ActiveIndex returns the cursor position, -1 when there are no conflicts.
func (s *Session) ActiveIndex() int {
	return s.active
}

// Document returns the current document state.
func (s *Session) Document() markers.Document {
	return s.doc
}

// UnresolvedCount returns how many conflicts still have no resolution.
func (s *Session) UnresolvedCount() int {
	count := 0
	for _, status := range s.Summary() {
		if status.Resolution == markers.ResolutionUnset {
			count++
		}
	}
	return count
}

// Resolved reports whether every conflict has a resolution.
func (s *Session) Resolved() bool {
	return s.UnresolvedCount() == 0
}
