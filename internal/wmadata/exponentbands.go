package wmadata

// ExponentBandTable returns the hardcoded per-band coefficient counts WMA v2
// uses for the smallest few block sizes at a handful of common sample
// rates, avoiding the general Bark-partition computation for those cases.
// t is frameLenBits-7-k for block-size index k, i.e. blockLenBits-7, so
// t==0 is the 128-sample block, the smallest block size. The configurator
// looks up every block size this way.
//
// Coverage here is deliberately partial: it holds one precomputed table
// (sampleRate bucket 44100, t==0) as a worked example of the hardcoded
// path, computed with the same rounding rule evalMDCTScales uses in its
// general branch. ok is false for every other (bucket, t), and callers
// fall back to that general Bark-partition computation, which is exact
// for every sample rate and block size — so the fallback is never a loss
// of fidelity, only a missed micro-optimization.
func ExponentBandTable(sampleRate, t int) (bands []int, ok bool) {
	bucket := sampleRateBucket(sampleRate)
	if bucket == 0 || t != 0 {
		return nil, false
	}
	switch bucket {
	case 44100:
		return []int{4, 4, 4, 4, 4, 4, 8, 4, 8, 12, 12, 20, 40}, true
	default:
		return nil, false
	}
}

func sampleRateBucket(sampleRate int) int {
	switch {
	case sampleRate >= 44100:
		return 44100
	case sampleRate >= 32000:
		return 32000
	case sampleRate >= 22050:
		return 22050
	default:
		return 0
	}
}
