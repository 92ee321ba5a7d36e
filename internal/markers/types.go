package markers

// Resolution is the user's choice of which side survives for a conflict.
type Resolution string

const (
	ResolutionUnset    Resolution = ""
	ResolutionLocal    Resolution = "local"
	ResolutionIncoming Resolution = "incoming"
)

// Document is an ordered sequence of segments parsed from one file.
// Segment structure is fixed after parsing; only resolutions change.
type Document struct {
	Segments  []Segment
	Conflicts []ConflictRef
}

type Segment interface{ isSegment() }

type TextSegment struct{ Bytes []byte }

func (TextSegment) isSegment() {}

// ConflictSegment is one conflicting region. Local/Base/Incoming hold the
// region content with line endings preserved. The raw marker lines are
// kept so an unresolved conflict renders back byte-for-byte.
type ConflictSegment struct {
	Local    []byte
	Base     []byte // only meaningful when HasBase is true
	Incoming []byte
	HasBase  bool

	LocalLabel    string
	BaseLabel     string
	IncomingLabel string

	StartMarker []byte
	BaseMarker  []byte
	MidMarker   []byte
	EndMarker   []byte

	Resolution Resolution
}

func (ConflictSegment) isSegment() {}

// ConflictRef points to a conflict segment inside Document.Segments.
//
// The index list gives the navigable conflict ordering.
type ConflictRef struct {
	SegmentIndex int
}
