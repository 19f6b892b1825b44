package fragment

import "fmt"

// Trun flag bits (ISO/IEC 14496-12 §8.8.8).
const (
	TrunDataOffsetPresent                  = 0x000001
	TrunFirstSampleFlagsPresent            = 0x000004
	TrunSampleDurationPresent              = 0x000100
	TrunSampleSizePresent                  = 0x000200
	TrunSampleFlagsPresent                 = 0x000400
	TrunSampleCompositionTimeOffsetPresent = 0x000800
)

// TrunEntry is one per-sample record from a trun box. HasDuration/HasSize
// say whether this entry carried its own value or must fall back to the
// tfhd default; CompositionTimeOffset is always populated (0 when absent,
// per §4.2/§4.3 — there is no tfhd-level default for it).
type TrunEntry struct {
	Duration              uint32
	HasDuration           bool
	Size                  uint32
	HasSize               bool
	Flags                 uint32
	CompositionTimeOffset int64
}

// Trun is a decoded track run box.
type Trun struct {
	DataOffset          int32
	HasDataOffset       bool
	FirstSampleFlags    uint32
	HasFirstSampleFlags bool
	Entries             []TrunEntry
}

// DecodeTrun decodes a trun box's content given its FullBox version and
// flags. Version matters only for SampleCompositionTimeOffset: version 1
// stores it as a signed 32-bit value, version 0 as unsigned. If the data is
// truncated partway through the sample array, the entries that were fully
// readable are returned and the rest are silently omitted — this package
// never fails a trun outright once its sample count is known.
func DecodeTrun(data []byte, version uint8, flags uint32) (Trun, error) {
	if len(data) < 4 {
		return Trun{}, fmt.Errorf("trun: truncated before sample count (%d bytes)", len(data))
	}
	count := be.Uint32(data[0:4])
	ptr := 4

	var t Trun
	if flags&TrunDataOffsetPresent != 0 {
		if ptr+4 > len(data) {
			return t, nil
		}
		t.DataOffset = int32(be.Uint32(data[ptr:]))
		t.HasDataOffset = true
		ptr += 4
	}
	if flags&TrunFirstSampleFlagsPresent != 0 {
		if ptr+4 > len(data) {
			return t, nil
		}
		t.FirstSampleFlags = be.Uint32(data[ptr:])
		t.HasFirstSampleFlags = true
		ptr += 4
	}

	stride := 0
	if flags&TrunSampleDurationPresent != 0 {
		stride += 4
	}
	if flags&TrunSampleSizePresent != 0 {
		stride += 4
	}
	if flags&TrunSampleFlagsPresent != 0 {
		stride += 4
	}
	if flags&TrunSampleCompositionTimeOffsetPresent != 0 {
		stride += 4
	}

	entries := make([]TrunEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		offset := ptr + int(i)*stride
		if offset+stride > len(data) {
			break
		}
		var e TrunEntry
		p := offset
		if flags&TrunSampleDurationPresent != 0 {
			e.Duration = be.Uint32(data[p:])
			e.HasDuration = true
			p += 4
		}
		if flags&TrunSampleSizePresent != 0 {
			e.Size = be.Uint32(data[p:])
			e.HasSize = true
			p += 4
		}
		if flags&TrunSampleFlagsPresent != 0 {
			e.Flags = be.Uint32(data[p:])
			p += 4
		}
		if flags&TrunSampleCompositionTimeOffsetPresent != 0 {
			raw := be.Uint32(data[p:])
			if version == 1 {
				e.CompositionTimeOffset = int64(int32(raw))
			} else {
				e.CompositionTimeOffset = int64(raw)
			}
		}
		entries = append(entries, e)
	}
	t.Entries = entries
	return t, nil
}
