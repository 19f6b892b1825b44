package bmff

// FindBoxes returns the content (post-header) slice of every box reachable
// by descending through path, an ordered sequence of four-character box
// types. The locator only descends into boxes whose type matches the
// current path element — it does not assume any fixed container hierarchy
// beyond what path expresses, so a caller can locate e.g. moof/traf/tfhd
// without this package knowing traf is "supposed to" contain tfhd.
//
// A malformed box (declared size past the end of its enclosing level, or a
// truncated full-box header) ends iteration at the level it occurs on:
// matches found before it are kept, no later box at that level is visited,
// and the walk resumes with the enclosing level's remaining siblings rather
// than failing outright. Matches are returned in the order boxes occur in buf.
func FindBoxes(buf []byte, path []BoxType) [][]byte {
	if len(path) == 0 {
		return nil
	}
	r := NewReader(buf)
	var out [][]byte
	findBoxes(&r, path, &out)
	return out
}

func findBoxes(r *Reader, path []BoxType, out *[][]byte) {
	want := path[0]
	rest := path[1:]
	for r.Next() {
		if r.Type() != want {
			continue
		}
		if len(rest) == 0 {
			*out = append(*out, r.Data())
			continue
		}
		r.Enter()
		findBoxes(r, rest, out)
		r.Exit()
	}
}
