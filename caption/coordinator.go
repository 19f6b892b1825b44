package caption

import (
	"github.com/tetsuo/fmp4sei/bmff"
	"github.com/tetsuo/fmp4sei/fragment"
	"github.com/tetsuo/fmp4sei/sei"
)

// MaxCachedSegments bounds the pending-segment cache held while the
// coordinator is initialized but not yet bound to a track. Once full, the
// oldest cached segment is dropped to make room and a warning is logged
// through the package logger (there is no Result to attach it to, since
// caching a segment always returns nil per the façade contract).
const MaxCachedSegments = 32

// Coordinator is the stateful façade described by the package doc: it
// caches segments until a video track/timescale binding is known, then
// turns each subsequent segment into timestamped SEI events.
type Coordinator struct {
	initialized bool
	bound       bool
	trackID     uint32
	timescale   uint32
	cache       [][]byte
}

// NewCoordinator returns an uninitialized coordinator; Parse calls against
// it return nil until Init is called.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// IsInitialized reports whether Init has been called.
func (c *Coordinator) IsInitialized() bool {
	return c.initialized
}

// Init flips the coordinator to initialized. It is idempotent; options is
// accepted but unused by the core.
func (c *Coordinator) Init(_ Options) {
	c.initialized = true
}

// IsNewInit reports whether binding to videoTrackIds[0] and its timescale
// would change the coordinator's current binding. It is false whenever
// either input is empty, regardless of current binding state.
func (c *Coordinator) IsNewInit(videoTrackIds []uint32, timescales map[uint32]uint32) bool {
	if len(videoTrackIds) == 0 || len(timescales) == 0 {
		return false
	}
	trackID := videoTrackIds[0]
	return !c.bound || c.trackID != trackID || c.timescale != timescales[trackID]
}

// Reset clears the binding and cache but leaves initialized untouched.
func (c *Coordinator) Reset() {
	c.bound = false
	c.trackID = 0
	c.timescale = 0
	c.cache = nil
}

// Parse processes one segment. It returns nil whenever there is nothing to
// report: before Init, when either input collection is empty, while a
// segment is being cached pending a binding, or when processing produced no
// events and no log records.
func (c *Coordinator) Parse(segment []byte, videoTrackIds []uint32, timescales map[uint32]uint32) *Result {
	if !c.initialized {
		return nil
	}
	if len(videoTrackIds) == 0 || len(timescales) == 0 {
		return nil
	}

	if c.IsNewInit(videoTrackIds, timescales) {
		c.trackID = videoTrackIds[0]
		c.timescale = timescales[c.trackID]
		if c.timescale == 0 {
			// No usable timescale for this track yet: hold the segment.
			c.bound = false
			c.cacheSegment(segment)
			return nil
		}
		c.bound = true

		pending := c.cache
		c.cache = nil

		result := &Result{}
		for _, cached := range pending {
			if r := c.processSegment(cached); r != nil {
				result.SEI = append(result.SEI, r.SEI...)
				result.Logs = append(result.Logs, r.Logs...)
			}
		}
		if r := c.processSegment(segment); r != nil {
			result.SEI = append(result.SEI, r.SEI...)
			result.Logs = append(result.Logs, r.Logs...)
		}
		return emptyToNil(result)
	}

	if !c.bound {
		c.cacheSegment(segment)
		return nil
	}

	return c.processSegment(segment)
}

func (c *Coordinator) cacheSegment(segment []byte) {
	if len(c.cache) >= MaxCachedSegments {
		logger.Warn().Int("cacheSize", len(c.cache)).Msg("segment cache full, dropping oldest pending segment")
		c.cache = c.cache[1:]
	}
	cp := make([]byte, len(segment))
	copy(cp, segment)
	c.cache = append(c.cache, cp)
}

// processSegment runs the full moof/traf/mdat pipeline against one segment
// already known to be bound to c.trackID/c.timescale.
func (c *Coordinator) processSegment(segment []byte) *Result {
	trafs := bmff.FindBoxes(segment, []bmff.BoxType{bmff.TypeMoof, bmff.TypeTraf})
	mdats := bmff.FindBoxes(segment, []bmff.BoxType{bmff.TypeMdat})

	pairs := len(trafs)
	if len(mdats) < pairs {
		pairs = len(mdats)
	}

	result := &Result{}
	for i := 0; i < pairs; i++ {
		c.processTraf(trafs[i], mdats[i], result)
	}
	return emptyToNil(result)
}

func (c *Coordinator) processTraf(traf, mdat []byte, result *Result) {
	r := bmff.NewReader(traf)

	var (
		haveTfhd bool
		tfhd     fragment.Tfhd
		tfdt     fragment.Tfdt
		truns    []fragment.Trun
	)

	for r.Next() {
		switch r.Type() {
		case bmff.TypeTfhd:
			decoded, err := fragment.DecodeTfhd(r.Data(), r.Flags())
			if err != nil {
				result.Logs = append(result.Logs, LogRecord{Level: "warn", Message: "tfhd: " + err.Error()})
				continue
			}
			tfhd = decoded
			haveTfhd = true
		case bmff.TypeTfdt:
			decoded, err := fragment.DecodeTfdt(r.Data(), r.Version())
			if err != nil {
				result.Logs = append(result.Logs, LogRecord{Level: "warn", Message: "tfdt: " + err.Error()})
				continue
			}
			tfdt = decoded
		case bmff.TypeTrun:
			decoded, err := fragment.DecodeTrun(r.Data(), r.Version(), r.Flags())
			if err != nil {
				result.Logs = append(result.Logs, LogRecord{Level: "warn", Message: "trun: " + err.Error()})
				continue
			}
			truns = append(truns, decoded)
		}
	}

	if !haveTfhd || tfhd.TrackID != c.trackID || len(truns) == 0 {
		return
	}

	samples := fragment.BuildSamples(tfhd, tfdt.BaseMediaDecodeTime, truns)
	nals, logs := sei.ScanNALs(mdat, c.trackID, samples)
	for _, l := range logs {
		result.Logs = append(result.Logs, LogRecord(l))
	}

	for _, nal := range nals {
		for _, msg := range sei.DecodeMessages(nal.EscapedRBSP) {
			result.SEI = append(result.SEI, Event{
				PTS:         float64(nal.PTS) / float64(c.timescale),
				PayloadType: msg.PayloadType,
				PayloadSize: msg.PayloadSize,
				Payload:     msg.Payload,
			})
		}
	}
}

func emptyToNil(r *Result) *Result {
	if r == nil || (len(r.SEI) == 0 && len(r.Logs) == 0) {
		return nil
	}
	return r
}
