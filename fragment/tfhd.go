// Package fragment decodes ISO-BMFF track-fragment boxes (tfhd, tfdt, trun)
// and reconstructs the flat, timestamped sample list for one track fragment
// from them. Decoders here mirror the shape the pack's own ISOBMFF readers
// use: a data slice plus the FullBox version/flags the caller already pulled
// off the box header, rather than re-parsing that header internally.
package fragment

import (
	"encoding/binary"
	"fmt"
)

var be = binary.BigEndian

// Tfhd flag bits (ISO/IEC 14496-12 §8.8.7).
const (
	TfhdBaseDataOffsetPresent         = 0x000001
	TfhdSampleDescriptionIndexPresent = 0x000002
	TfhdDefaultSampleDurationPresent  = 0x000008
	TfhdDefaultSampleSizePresent      = 0x000010
	TfhdDefaultSampleFlagsPresent     = 0x000020
	TfhdDurationIsEmpty               = 0x010000
	TfhdDefaultBaseIsMoof             = 0x020000
)

// Tfhd is a decoded track fragment header. Any of the default fields may be
// absent; the Has* fields say whether the corresponding value was present.
type Tfhd struct {
	TrackID                   uint32
	BaseDataOffset            uint64
	SampleDescriptionIndex    uint32
	DefaultSampleDuration     uint32
	HasDefaultSampleDuration  bool
	DefaultSampleSize         uint32
	HasDefaultSampleSize      bool
	DefaultSampleFlags        uint32
	HasDefaultSampleFlags     bool
}

// DecodeTfhd decodes a tfhd box's content (the bytes after the FullBox
// version/flags word) given that word's flags. A tfhd too short to contain
// even a trackId is reported as an error; a tfhd truncated partway through
// its optional fields returns whatever fields were fully read, per the
// truncated-box failure semantics shared by all three decoders in this
// package.
func DecodeTfhd(data []byte, flags uint32) (Tfhd, error) {
	if len(data) < 4 {
		return Tfhd{}, fmt.Errorf("tfhd: truncated before trackId (%d bytes)", len(data))
	}
	t := Tfhd{TrackID: be.Uint32(data[0:4])}
	ptr := 4

	if flags&TfhdBaseDataOffsetPresent != 0 {
		if ptr+8 > len(data) {
			return t, nil
		}
		t.BaseDataOffset = be.Uint64(data[ptr:])
		ptr += 8
	}
	if flags&TfhdSampleDescriptionIndexPresent != 0 {
		if ptr+4 > len(data) {
			return t, nil
		}
		t.SampleDescriptionIndex = be.Uint32(data[ptr:])
		ptr += 4
	}
	if flags&TfhdDefaultSampleDurationPresent != 0 {
		if ptr+4 > len(data) {
			return t, nil
		}
		t.DefaultSampleDuration = be.Uint32(data[ptr:])
		t.HasDefaultSampleDuration = true
		ptr += 4
	}
	if flags&TfhdDefaultSampleSizePresent != 0 {
		if ptr+4 > len(data) {
			return t, nil
		}
		t.DefaultSampleSize = be.Uint32(data[ptr:])
		t.HasDefaultSampleSize = true
		ptr += 4
	}
	if flags&TfhdDefaultSampleFlagsPresent != 0 {
		if ptr+4 > len(data) {
			return t, nil
		}
		t.DefaultSampleFlags = be.Uint32(data[ptr:])
		t.HasDefaultSampleFlags = true
	}
	return t, nil
}
