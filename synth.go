package wma

// calculateIMDCT runs the inverse MDCT for the current block and overlap-adds
// its windowed output into each channel's frameOut accumulator (spec
// §4.3.2 step 10). Channels with no coded data this block contribute
// silence, matching the original decoder's mute-block behavior.
func (d *Decoder) calculateIMDCT(bSize int, msStereo bool, hasChannel *[channelsMaxState]bool) error {
	n := blockLenOf(d.curBlockLenBits)
	if bSize < 0 || bSize >= len(d.cfg.mdctSet) {
		return newPacketError("calculateIMDCT", errBlockLengthRange)
	}

	transform := d.cfg.mdctSet[bSize]
	halfWin := d.cfg.mdctWindow[bSize]

	buf := make([]float32, 2*n)
	for ch := 0; ch < int(d.cfg.Channels); ch++ {
		if !hasChannel[ch] {
			for i := 0; i < n; i++ {
				d.coefs[ch][i] = 0
			}
		}

		transform.Inverse(buf, d.coefs[ch][:n])
		d.window(ch, buf, n, halfWin)
	}

	return nil
}

// window applies the rising/falling halves of the sine window to an IMDCT
// output block and overlap-adds it into frameOut, based at
// frameLen/2 + framePos - n/2 so a shorter-than-frameLen block still lands
// centered on the current frame position. Blocks whose neighbors have a
// different length use the current block's own window halves for the
// overlap, a simplification of the original's four-region variable-length
// window (see DESIGN.md).
func (d *Decoder) window(ch int, buf []float32, n int, halfWin []float32) {
	pos := d.cfg.frameLen/2 + d.framePos - n/2
	fo := d.frameOut[ch]

	for i := 0; i < n; i++ {
		fo[pos+i] += buf[i] * halfWin[i]
	}
	for i := 0; i < n; i++ {
		fo[pos+n+i] += buf[n+i] * halfWin[n-1-i]
	}
}

// interleaveFrame converts the completed frame's per-channel float samples
// into interleaved form and pushes them to the PCM output queue.
func (d *Decoder) interleaveFrame() {
	n := d.cfg.frameLen
	ch := int(d.cfg.Channels)

	need := n * ch
	if cap(d.output) < need {
		d.output = make([]float32, need)
	}
	out := d.output[:need]

	for i := 0; i < n; i++ {
		for c := 0; c < ch; c++ {
			out[i*ch+c] = d.frameOut[c][i]
		}
	}

	d.queue.PushFloat(out)
}

// shiftFrameOut carries the overlap-add tail (samples beyond frameLen)
// down to the start of frameOut, ready to receive the next frame's
// contributions.
func (d *Decoder) shiftFrameOut() {
	n := d.cfg.frameLen
	for ch := 0; ch < int(d.cfg.Channels); ch++ {
		fo := d.frameOut[ch]
		copy(fo[:n], fo[n:2*n])
		for i := n; i < 2*n; i++ {
			fo[i] = 0
		}
	}
}
