// Package caption ties the box, fragment, and sei layers together into a
// stateful façade: feed it fMP4 segments plus the track/timescale mapping
// the init segment described, get back timestamped SEI events.
package caption

// LogRecord is a warning or informational note produced while parsing a
// segment. The coordinator never raises an error across this façade;
// anything worth surfacing ends up here instead.
type LogRecord struct {
	Level   string
	Message string
}

// Event is one decoded SEI message, timestamped in seconds against the
// bound track's timescale.
type Event struct {
	PTS         float64
	PayloadType uint32
	PayloadSize uint32
	Payload     []byte
}

// Options is accepted by Init but otherwise opaque to the coordinator; it
// exists so callers can carry whatever configuration their surrounding
// pipeline needs without this package knowing about it.
type Options any

// Result is what Parse returns for a segment that produced any events or
// log records. Parse returns a nil *Result when there is nothing to report,
// matching this façade's no-exceptions contract.
type Result struct {
	SEI  []Event
	Logs []LogRecord
}
