// Package bmff implements the ISO Base Media File Format (ISOBMFF) box layer
// this module needs to walk fragmented MP4 segments: box type identification
// and a zero-copy streaming reader. It does not attempt to cover the full
// ISOBMFF box catalog (no moov sample-table or sample-entry decoding) — only
// the boxes that appear on the fragment path, plus the handful of top-level
// boxes a segment may carry alongside them.
package bmff

// BoxType is a 4-byte box type identifier.
type BoxType [4]byte

func (t BoxType) String() string {
	return string(t[:])
}

// Top-level and segment-type boxes.
var (
	TypeFtyp = BoxType{'f', 't', 'y', 'p'} // File type and compatibility
	TypeStyp = BoxType{'s', 't', 'y', 'p'} // Segment type (fragmented MP4)
	TypeSidx = BoxType{'s', 'i', 'd', 'x'} // Segment index
	TypeEmsg = BoxType{'e', 'm', 's', 'g'} // Event message
)

// Fragment boxes (moof and children).
var (
	TypeMoof = BoxType{'m', 'o', 'o', 'f'} // Movie fragment container
	TypeMfhd = BoxType{'m', 'f', 'h', 'd'} // Movie fragment header (sequence number)
	TypeTraf = BoxType{'t', 'r', 'a', 'f'} // Track fragment container
	TypeTfhd = BoxType{'t', 'f', 'h', 'd'} // Track fragment header
	TypeTfdt = BoxType{'t', 'f', 'd', 't'} // Track fragment decode time
	TypeTrun = BoxType{'t', 'r', 'u', 'n'} // Track run (per-sample metadata)
)

// Data boxes.
var (
	TypeMdat = BoxType{'m', 'd', 'a', 't'} // Media data payload
	TypeFree = BoxType{'f', 'r', 'e', 'e'} // Free space (skippable)
	TypeSkip = BoxType{'s', 'k', 'i', 'p'} // Free space (skippable)
)

// IsFullBox returns true if the box type has version and flags fields
// (an ISOBMFF "FullBox", as opposed to a plain "Box").
func IsFullBox(t BoxType) bool {
	switch t {
	case TypeMfhd, TypeTfhd, TypeTfdt, TypeTrun, TypeSidx, TypeEmsg:
		return true
	}
	return false
}

// IsContainerBox returns true if the box type is a container that holds
// child boxes rather than opaque payload.
func IsContainerBox(t BoxType) bool {
	switch t {
	case TypeMoof, TypeTraf:
		return true
	}
	return false
}
