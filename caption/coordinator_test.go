package caption

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetsuo/fmp4sei/bmff"
	"github.com/tetsuo/fmp4sei/fragment"
)

func box(typ bmff.BoxType, payload []byte) []byte {
	b := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(b[0:4], uint32(len(b)))
	copy(b[4:8], typ.String())
	copy(b[8:], payload)
	return b
}

func fullBox(typ bmff.BoxType, version uint8, flags uint32, payload []byte) []byte {
	b := make([]byte, 12+len(payload))
	binary.BigEndian.PutUint32(b[0:4], uint32(len(b)))
	copy(b[4:8], typ.String())
	vf := uint32(version)<<24 | (flags & 0x00ffffff)
	binary.BigEndian.PutUint32(b[8:12], vf)
	copy(b[12:], payload)
	return b
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// seiNAL builds a single length-prefixed type-6 NAL unit wrapping a SEI
// message stream of payloadType 4, size 10, a 10-byte payload, and a
// trailing RBSP stop bit.
func seiNAL(payload10 []byte) []byte {
	body := concat([]byte{6}, []byte{4, 10}, payload10, []byte{0x80})
	return concat(be32(uint32(len(body))), body)
}

// oneTrackSegment builds a moof/traf/mdat segment for a single track with
// one trun sample spanning the whole mdat.
func oneTrackSegment(trackID uint32, baseMediaDecodeTime int64, compositionTimeOffset int32, mdatBody []byte) []byte {
	tfhd := fullBox(bmff.TypeTfhd, 0, 0, be32(trackID))
	tfdt := fullBox(bmff.TypeTfdt, 0, 0, be32(uint32(baseMediaDecodeTime)))

	trunFlags := uint32(fragment.TrunSampleDurationPresent |
		fragment.TrunSampleSizePresent |
		fragment.TrunSampleCompositionTimeOffsetPresent)
	trunPayload := concat(
		be32(1), // sample count
		be32(3000),
		be32(uint32(len(mdatBody))),
		be32(uint32(compositionTimeOffset)),
	)
	trun := fullBox(bmff.TypeTrun, 0, trunFlags, trunPayload)

	traf := box(bmff.TypeTraf, concat(tfhd, tfdt, trun))
	moof := box(bmff.TypeMoof, traf)
	mdat := box(bmff.TypeMdat, mdatBody)
	return concat(moof, mdat)
}

func TestCoordinatorUninitializedReturnsNil(t *testing.T) {
	c := NewCoordinator()
	got := c.Parse([]byte{1, 2, 3}, []uint32{1}, map[uint32]uint32{1: 90000})
	assert.Nil(t, got)
}

func TestCoordinatorCacheThenDrain(t *testing.T) {
	c := NewCoordinator()
	c.Init(nil)

	segA := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got := c.Parse(segA, nil, nil)
	assert.Nil(t, got)

	payload := make([]byte, 10)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	segB := oneTrackSegment(7, 1000, 500, seiNAL(payload))

	got = c.Parse(segB, []uint32{7}, map[uint32]uint32{7: 90000})
	require.NotNil(t, got)
	if assert.Len(t, got.SEI, 1) {
		assert.InDelta(t, float64(1500)/90000, got.SEI[0].PTS, 1e-9)
		assert.EqualValues(t, 4, got.SEI[0].PayloadType)
		assert.EqualValues(t, 10, got.SEI[0].PayloadSize)
		assert.Equal(t, payload, got.SEI[0].Payload)
	}
}

func TestCoordinatorMalformedNALLengthProducesNothing(t *testing.T) {
	c := NewCoordinator()
	c.Init(nil)

	mdatBody := []byte{0, 0, 0, 0} // length 0, no NAL payload follows
	seg := oneTrackSegment(1, 0, 0, mdatBody)

	got := c.Parse(seg, []uint32{1}, map[uint32]uint32{1: 90000})
	assert.Nil(t, got)
}

func TestCoordinatorSEIWithTwoMessages(t *testing.T) {
	c := NewCoordinator()
	c.Init(nil)

	p1 := make([]byte, 10)
	p2 := []byte{0xAA, 0xBB}
	body := concat([]byte{6}, []byte{4, 10}, p1, []byte{5, 2}, p2, []byte{0x80})
	nal := concat(be32(uint32(len(body))), body)

	seg := oneTrackSegment(3, 0, 0, nal)
	got := c.Parse(seg, []uint32{3}, map[uint32]uint32{3: 90000})

	require.NotNil(t, got)
	if assert.Len(t, got.SEI, 2) {
		assert.EqualValues(t, 4, got.SEI[0].PayloadType)
		assert.EqualValues(t, 10, got.SEI[0].PayloadSize)
		assert.Equal(t, p1, got.SEI[0].Payload)

		assert.EqualValues(t, 5, got.SEI[1].PayloadType)
		assert.EqualValues(t, 2, got.SEI[1].PayloadSize)
		assert.Equal(t, p2, got.SEI[1].Payload)
	}
}

func TestCoordinatorExtendedTypeAndSize(t *testing.T) {
	c := NewCoordinator()
	c.Init(nil)

	payload := make([]byte, 258)
	body := concat([]byte{6}, []byte{0xFF, 0xFF, 5, 0xFF, 3}, payload)
	nal := concat(be32(uint32(len(body))), body)

	seg := oneTrackSegment(1, 0, 0, nal)
	got := c.Parse(seg, []uint32{1}, map[uint32]uint32{1: 90000})

	require.NotNil(t, got)
	if assert.Len(t, got.SEI, 1) {
		assert.EqualValues(t, 515, got.SEI[0].PayloadType)
		assert.EqualValues(t, 258, got.SEI[0].PayloadSize)
	}
}

func TestCoordinatorWrongTrackSkipped(t *testing.T) {
	c := NewCoordinator()
	c.Init(nil)

	payload1 := make([]byte, 10)
	payload2 := make([]byte, 10)
	for i := range payload2 {
		payload2[i] = 0xFF
	}

	seg1 := oneTrackSegment(1, 0, 0, seiNAL(payload1))
	seg2 := oneTrackSegment(2, 0, 0, seiNAL(payload2))
	seg := concat(seg1, seg2)

	got := c.Parse(seg, []uint32{2}, map[uint32]uint32{2: 90000})
	require.NotNil(t, got)
	if assert.Len(t, got.SEI, 1) {
		assert.Equal(t, payload2, got.SEI[0].Payload)
	}
}

func TestCoordinatorResetThenParseMatchesFreshCoordinator(t *testing.T) {
	payload := make([]byte, 10)
	seg := oneTrackSegment(5, 10, 0, seiNAL(payload))
	ids := []uint32{5}
	scales := map[uint32]uint32{5: 90000}

	fresh := NewCoordinator()
	fresh.Init(nil)
	want := fresh.Parse(seg, ids, scales)

	used := NewCoordinator()
	used.Init(nil)
	_ = used.Parse(seg, ids, scales)
	used.Reset()
	got := used.Parse(seg, ids, scales)

	require.NotNil(t, want)
	require.NotNil(t, got)
	assert.Equal(t, want.SEI, got.SEI)
}

func TestCoordinatorEmptyTrackIDsReturnsNil(t *testing.T) {
	c := NewCoordinator()
	c.Init(nil)
	got := c.Parse([]byte{1, 2, 3, 4}, nil, map[uint32]uint32{1: 90000})
	assert.Nil(t, got)
}
