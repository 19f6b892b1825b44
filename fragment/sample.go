package fragment

// Sample is one media sample in decode order, with absolute timestamps
// already resolved against a tfdt base and tfhd/trun defaults.
type Sample struct {
	TrackID               uint32
	Size                  uint32
	Duration              uint32
	CompositionTimeOffset int64
	DTS                   int64
	PTS                   int64
}

// BuildSamples reconstructs the flat, timestamped sample list for one track
// fragment from its tfhd, its tfdt's baseMediaDecodeTime (0 if the traf
// carried no tfdt), and its trun boxes in box order. Absent per-sample
// duration/size fall back to the tfhd defaults (0 if the tfhd carried none
// either); absent compositionTimeOffset is always 0, since tfhd has no
// default for it.
func BuildSamples(tfhd Tfhd, baseMediaDecodeTime int64, truns []Trun) []Sample {
	currentDts := baseMediaDecodeTime

	var total int
	for _, tr := range truns {
		total += len(tr.Entries)
	}
	samples := make([]Sample, 0, total)

	for _, tr := range truns {
		for _, e := range tr.Entries {
			duration := tfhd.DefaultSampleDuration
			if e.HasDuration {
				duration = e.Duration
			}
			size := tfhd.DefaultSampleSize
			if e.HasSize {
				size = e.Size
			}

			s := Sample{
				TrackID:               tfhd.TrackID,
				Size:                  size,
				Duration:              duration,
				CompositionTimeOffset: e.CompositionTimeOffset,
				DTS:                   currentDts,
				PTS:                   currentDts + e.CompositionTimeOffset,
			}
			samples = append(samples, s)
			currentDts += int64(duration)
		}
	}
	return samples
}
