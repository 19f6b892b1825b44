package sei

import (
	"encoding/binary"
	"fmt"

	"github.com/tetsuo/fmp4sei/fragment"
)

var be = binary.BigEndian

// NALUnitTypeSEI identifies the string attached to emitted NAL records; this
// scanner only ever emits type-6 (SEI) NALs.
const NALUnitTypeSEI = "sei_rbsp"

const nalTypeSEI = 6

// NAL is one SEI NAL unit pulled out of an mdat payload, timestamped from
// the sample table it was matched against. RawData excludes the 1-byte NAL
// header; EscapedRBSP is RawData with emulation-prevention bytes removed.
type NAL struct {
	TrackID     uint32
	NALUnitType string
	Size        int
	RawData     []byte
	EscapedRBSP []byte
	DTS         int64
	PTS         int64
}

// LogEvent is a warning or informational record surfaced alongside scan
// results; the scanner never returns an error for malformed input, it logs
// and keeps going.
type LogEvent struct {
	Level   string
	Message string
}

// ScanNALs walks mdat as a sequence of 4-byte-length-prefixed AVC NAL units,
// picks out SEI (type 6) NALs, and associates each with the sample whose
// byte range (by cumulative size) contains its starting offset. samples
// must be in the same decode order the mdat payload was written in.
func ScanNALs(mdat []byte, trackID uint32, samples []fragment.Sample) ([]NAL, []LogEvent) {
	var nals []NAL
	var logs []LogEvent

	sampleIdx := 0
	cumStart := int64(0)
	lastMatched := -1

	i := 0
	for i+4 <= len(mdat) {
		length := int32(be.Uint32(mdat[i : i+4]))
		if length <= 0 {
			i += 4
			continue
		}
		nalStart := i
		i += 4

		if i >= len(mdat) {
			break
		}
		nalType := mdat[i] & 0x1F

		for sampleIdx < len(samples) && cumStart+int64(samples[sampleIdx].Size) <= int64(nalStart) {
			cumStart += int64(samples[sampleIdx].Size)
			sampleIdx++
		}
		matched := sampleIdx
		if matched >= len(samples) {
			matched = lastMatched
		} else {
			lastMatched = matched
		}

		if nalType == nalTypeSEI {
			end := i + int(length)
			if end > len(mdat) {
				end = len(mdat)
			}
			rawData := mdat[i+1 : end]

			if matched < 0 {
				logs = append(logs, LogEvent{
					Level:   "warn",
					Message: fmt.Sprintf("SEI without data at offset %d for trackId %d", nalStart, trackID),
				})
			} else {
				s := samples[matched]
				nals = append(nals, NAL{
					TrackID:     trackID,
					NALUnitType: NALUnitTypeSEI,
					Size:        int(length),
					RawData:     rawData,
					EscapedRBSP: unescapeRBSP(rawData),
					DTS:         s.DTS,
					PTS:         s.PTS,
				})
			}
		}

		i = nalStart + 4 + int(length)
	}

	return nals, logs
}

// unescapeRBSP removes emulation-prevention bytes: a 0x03 that immediately
// follows two consecutive 0x00 bytes.
func unescapeRBSP(data []byte) []byte {
	out := make([]byte, 0, len(data))
	zeros := 0
	for _, b := range data {
		if zeros >= 2 && b == 0x03 {
			zeros = 0
			continue
		}
		out = append(out, b)
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}
