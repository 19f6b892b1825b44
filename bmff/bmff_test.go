package bmff

import "encoding/binary"

// box builds a plain (non-full) box: 4-byte size, 4-byte type, payload.
func box(typ BoxType, payload []byte) []byte {
	b := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(b[0:4], uint32(len(b)))
	copy(b[4:8], typ[:])
	copy(b[8:], payload)
	return b
}

// fullBox builds a FullBox: size, type, version/flags word, payload.
func fullBox(typ BoxType, version uint8, flags uint32, payload []byte) []byte {
	b := make([]byte, 12+len(payload))
	binary.BigEndian.PutUint32(b[0:4], uint32(len(b)))
	copy(b[4:8], typ[:])
	vf := uint32(version)<<24 | (flags & 0x00ffffff)
	binary.BigEndian.PutUint32(b[8:12], vf)
	copy(b[12:], payload)
	return b
}

func concat(boxes ...[]byte) []byte {
	var out []byte
	for _, b := range boxes {
		out = append(out, b...)
	}
	return out
}
