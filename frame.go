package wma

import (
	"math"

	"github.com/phaethon-tools/go-wma/internal/bitstream"
	"github.com/phaethon-tools/go-wma/internal/wmadata"
)

// decodeFrame decodes one frame (a sequence of blocks until framePos
// reaches frameLen), pushes its PCM into the output queue, and shifts the
// overlap-add tail into place for the next frame.
func (d *Decoder) decodeFrame(r *bitstream.Reader) error {
	d.framePos = 0
	d.curBlock = 0

	for {
		finished, err := d.decodeBlock(r)
		if err != nil {
			return err
		}
		if finished {
			break
		}
	}

	d.interleaveFrame()
	d.shiftFrameOut()
	return nil
}

// decodeBlock decodes a single block and runs its IMDCT + windowing.
// It returns finished=true once framePos reaches frameLen.
func (d *Decoder) decodeBlock(r *bitstream.Reader) (finished bool, err error) {
	if err := d.evalBlockLength(r); err != nil {
		return false, err
	}

	bSize := d.cfg.frameLenBits - d.curBlockLenBits
	if bSize < 0 || bSize >= d.cfg.blockSizeCount {
		return false, newPacketError("decodeBlock", errBlockLengthRange)
	}

	msStereo := false
	if d.cfg.Channels == 2 {
		msStereo = r.Bit() != 0
	}

	var hasChannel [channelsMaxState]bool
	hasChannels := false
	for i := 0; i < int(d.cfg.Channels); i++ {
		hasChannel[i] = r.Bit() != 0
		if hasChannel[i] {
			hasChannels = true
		}
	}

	if hasChannels {
		if err := d.decodeChannels(r, bSize, msStereo, &hasChannel); err != nil {
			return false, err
		}
	}

	if err := d.calculateIMDCT(bSize, msStereo, &hasChannel); err != nil {
		return false, err
	}

	d.curBlock++
	d.framePos += blockLenOf(d.curBlockLenBits)

	if d.framePos >= d.cfg.frameLen {
		return true, nil
	}
	return false, nil
}

func blockLenOf(blockLenBits int) int {
	return 1 << uint(blockLenBits)
}

// evalBlockLength implements spec §4.3.1.
func (d *Decoder) evalBlockLength(r *bitstream.Reader) error {
	if d.cfg.useVariableBlockLen {
		n := intLog2(d.cfg.blockSizeCount-1) + 1

		if d.resetBlockLengths {
			d.resetBlockLengths = false

			prev := int(r.Bits(n))
			prevBits := d.cfg.frameLenBits - prev
			if prev >= d.cfg.blockSizeCount {
				return newPacketError("evalBlockLength", errBlockLengthRange)
			}
			d.prevBlockLenBits = prevBits

			cur := int(r.Bits(n))
			curBits := d.cfg.frameLenBits - cur
			if cur >= d.cfg.blockSizeCount {
				return newPacketError("evalBlockLength", errBlockLengthRange)
			}
			d.curBlockLenBits = curBits
		} else {
			d.prevBlockLenBits = d.curBlockLenBits
			d.curBlockLenBits = d.nextBlockLenBits
		}

		next := int(r.Bits(n))
		nextBits := d.cfg.frameLenBits - next
		if next >= d.cfg.blockSizeCount {
			return newPacketError("evalBlockLength", errBlockLengthRange)
		}
		d.nextBlockLenBits = nextBits
	} else {
		d.nextBlockLenBits = d.cfg.frameLenBits
		d.prevBlockLenBits = d.cfg.frameLenBits
		d.curBlockLenBits = d.cfg.frameLenBits
	}

	if d.cfg.frameLenBits-d.curBlockLenBits >= d.cfg.blockSizeCount {
		return newPacketError("evalBlockLength", errBlockLengthRange)
	}

	blockLen := blockLenOf(d.curBlockLenBits)
	if d.framePos+blockLen > d.cfg.frameLen {
		return newPacketError("evalBlockLength", errFrameOverflow)
	}

	return nil
}

// intLog2 returns floor(log2(n)) for n >= 1, matching Common::intLog2 used
// by the bit-count derivation for variable block-length fields.
func intLog2(n int) int {
	if n < 1 {
		return 0
	}
	l := 0
	for (1 << uint(l+1)) <= n {
		l++
	}
	return l
}

func (d *Decoder) decodeChannels(r *bitstream.Reader, bSize int, msStereo bool, hasChannel *[channelsMaxState]bool) error {
	totalGain := readTotalGain(r)
	coefBitCount := totalGainToBits(totalGain)

	var coefCount [channelsMaxState]int
	coefN := d.cfg.coefsEnd[bSize] - d.cfg.coefsStart
	for i := 0; i < int(d.cfg.Channels); i++ {
		coefCount[i] = coefN
	}

	if err := d.decodeNoise(r, bSize, hasChannel, &coefCount); err != nil {
		return err
	}
	if err := d.decodeExponents(r, bSize, hasChannel); err != nil {
		return err
	}
	if err := d.decodeSpectralCoef(r, msStereo, hasChannel, &coefCount, coefBitCount); err != nil {
		return err
	}

	mdctNorm := d.normalizedMDCTLength()
	d.calculateMDCTCoefficients(bSize, hasChannel, totalGain, mdctNorm)

	if msStereo && hasChannel[1] {
		if !hasChannel[0] {
			for i := range d.coefs[0] {
				d.coefs[0][i] = 0
			}
			hasChannel[0] = true
		}
		butterflyFloats(d.coefs[0], d.coefs[1], blockLenOf(d.curBlockLenBits))
	}

	return nil
}

func readTotalGain(r *bitstream.Reader) int {
	totalGain := 1
	v := 127
	for v == 127 {
		v = int(r.Bits(7))
		totalGain += v
	}
	return totalGain
}

func totalGainToBits(totalGain int) int {
	switch {
	case totalGain < 15:
		return 13
	case totalGain < 32:
		return 12
	case totalGain < 40:
		return 11
	case totalGain < 45:
		return 10
	default:
		return 9
	}
}

func (d *Decoder) decodeNoise(r *bitstream.Reader, bSize int, hasChannel *[channelsMaxState]bool, coefCount *[channelsMaxState]int) error {
	if !d.cfg.useNoiseCoding {
		return nil
	}

	n := d.cfg.exponentHighSizes[bSize]

	for i := 0; i < int(d.cfg.Channels); i++ {
		if !hasChannel[i] {
			continue
		}
		for j := 0; j < n; j++ {
			a := r.Bit() != 0
			d.highBandCoded[i][j] = a
			if a {
				coefCount[i] -= d.cfg.exponentHighBands[bSize][j]
			}
		}
	}

	const unset = math.MinInt32
	for i := 0; i < int(d.cfg.Channels); i++ {
		if !hasChannel[i] {
			continue
		}
		val := unset
		for j := 0; j < n; j++ {
			if !d.highBandCoded[i][j] {
				continue
			}
			if val != unset {
				code, err := d.cfg.hgainHuffman().Decode(r)
				if err != nil {
					return newPacketError("decodeNoise", errHuffmanSymbol)
				}
				val += code - 18
			} else {
				val = int(r.Bits(7)) - 19
			}
			d.highBandValues[i][j] = val
		}
	}

	return nil
}

func (d *Decoder) decodeExponents(r *bitstream.Reader, bSize int, hasChannel *[channelsMaxState]bool) error {
	if !(d.curBlockLenBits == d.cfg.frameLenBits || r.Bit() != 0) {
		return nil
	}

	for i := 0; i < int(d.cfg.Channels); i++ {
		if !hasChannel[i] {
			continue
		}
		var err error
		if d.cfg.useExpHuffman {
			err = d.decodeExpHuffman(r, i)
		} else {
			err = d.decodeExpLSP(r, i)
		}
		if err != nil {
			return err
		}
		d.exponentsBSize[i] = bSize
	}

	return nil
}

func (d *Decoder) decodeExpHuffman(r *bitstream.Reader, ch int) error {
	ptr := d.cfg.exponentBands[d.cfg.frameLenBits-d.curBlockLenBits][:]

	q := d.exponents[ch]
	qEnd := blockLenOf(d.curBlockLenBits)

	var maxScale float32
	var lastExp int
	pos := 0
	bandIdx := 0

	if d.cfg.Version == 1 {
		lastExp = int(r.Bits(5)) + 10
		v := wmadata.PowTab[lastExp+wmadata.PowTabOffset]
		maxScale = v

		n := ptr[bandIdx]
		bandIdx++
		for j := 0; j < n && pos < qEnd; j++ {
			q[pos] = v
			pos++
		}
	} else {
		lastExp = 36
	}

	for pos < qEnd {
		code, err := d.cfg.expHuffman.Decode(r)
		if err != nil {
			return newPacketError("decodeExpHuffman", errHuffmanSymbol)
		}
		lastExp += code - 60
		if lastExp+wmadata.PowTabOffset < 0 || lastExp+wmadata.PowTabOffset >= len(wmadata.PowTab) {
			return newPacketError("decodeExpHuffman", errExponentRange)
		}

		v := wmadata.PowTab[lastExp+wmadata.PowTabOffset]
		if v > maxScale {
			maxScale = v
		}

		if bandIdx >= len(ptr) {
			break
		}
		n := ptr[bandIdx]
		bandIdx++
		if n <= 0 {
			// spec §9 Open Question (a): treat n <= 0 as "skip band".
			continue
		}
		for j := 0; j < n && pos < qEnd; j++ {
			q[pos] = v
			pos++
		}
	}

	d.maxExponent[ch] = maxScale
	return nil
}

func (d *Decoder) decodeExpLSP(r *bitstream.Reader, ch int) error {
	var lspCoefs [wmadata.LSPCoefCount]float32
	for i := 0; i < wmadata.LSPCoefCount; i++ {
		val := int(r.Bits(wmadata.LSPLevelBits(i)))
		lspCoefs[i] = wmadata.LSPCoef(i, val)
	}

	d.lspToCurve(d.exponents[ch], &d.maxExponent[ch], blockLenOf(d.curBlockLenBits), lspCoefs[:])
	return nil
}

// lspToCurve evaluates the LSP interpolation kernel described in spec
// §4.3.2 step 7's LSP path.
func (d *Decoder) lspToCurve(out []float32, valMax *float32, n int, lsp []float32) {
	var max float32
	for i := 0; i < n; i++ {
		w := d.cfg.lspCosTable[i]

		p := float32(0.5)
		q := float32(0.5)
		for j := 1; j < wmadata.LSPCoefCount; j += 2 {
			q *= w - lsp[j-1]
			p *= w - lsp[j]
		}

		p *= p * (2.0 - w)
		q *= q * (2.0 + w)

		v := d.powM1_4(p + q)
		if v > max {
			max = v
		}
		out[i] = v
	}
	*valMax = max
}

// powM1_4 computes x^(-1/4) via the precomputed lspPowETable/lspPowMTable
// interpolation, reading x's IEEE-754 bit pattern through math.Float32bits
// rather than a pointer-aliasing union (the idiomatic Go equivalent).
func (d *Decoder) powM1_4(x float32) float32 {
	const powBits = lspPowBits
	u := math.Float32bits(x)

	e := u >> 23
	m := (u >> (23 - powBits)) & ((1 << powBits) - 1)

	tBits := ((u << powBits) & ((1 << 23) - 1)) | (127 << 23)
	t := math.Float32frombits(tBits)

	ab := d.cfg.lspPowMTable[m]
	return d.cfg.lspPowETable[e] * (ab.a + ab.b*t)
}

func (d *Decoder) decodeSpectralCoef(r *bitstream.Reader, msStereo bool, hasChannel *[channelsMaxState]bool, coefCount *[channelsMaxState]int, coefBitCount int) error {
	blockLen := blockLenOf(d.curBlockLenBits)

	for i := 0; i < int(d.cfg.Channels); i++ {
		if hasChannel[i] {
			tindex := 0
			if i == 1 && msStereo {
				tindex = 1
			}

			ptr := d.coefs1[i]
			for j := range ptr {
				ptr[j] = 0
			}

			if err := d.decodeRunLevel(r, tindex, ptr, coefCount[i], blockLen, coefBitCount); err != nil {
				return err
			}
		}

		if d.cfg.Version == 1 && d.cfg.Channels >= 2 {
			r.AlignDown()
		}
	}

	return nil
}

func (d *Decoder) decodeRunLevel(r *bitstream.Reader, tindex int, ptr []float32, numCoefs, blockLen, coefBitCount int) error {
	table := d.cfg.coefHuffman[tindex]
	levelTable := d.cfg.coefLevelTable[tindex]
	runTable := d.cfg.coefRunTable[tindex]
	coefMask := blockLen - 1

	offset := 0
	for ; offset < numCoefs; offset++ {
		code, err := table.Decode(r)
		if err != nil {
			return newPacketError("decodeRunLevel", errHuffmanSymbol)
		}

		switch {
		case code > 1:
			sign := float32(-1.0)
			if r.Bit() != 0 {
				sign = 1.0
			}
			offset += runTable[code]
			ptr[offset&coefMask] = levelTable[code] * sign

		case code == 1:
			return nil // EOB

		default:
			var level int
			if d.cfg.Version == 1 {
				level = int(r.Bits(coefBitCount))
				offset += int(r.Bits(d.cfg.frameLenBits))
			} else {
				level = int(getLargeVal(r))
				if r.Bit() != 0 {
					if r.Bit() != 0 {
						if r.Bit() != 0 {
							return newPacketError("decodeRunLevel", errBrokenEscape)
						}
						offset += int(r.Bits(d.cfg.frameLenBits)) + 4
					} else {
						offset += int(r.Bits(2)) + 1
					}
				}
			}

			sign := r.Bit() - 1
			ptr[offset&coefMask] = float32((level ^ sign) - sign)
		}
	}

	if offset > numCoefs {
		d.log.Debug("wma: spectral RLE overflowed coefCount, ignoring")
	}

	return nil
}

// getLargeVal reads a variable-width (8/16/24/31-bit) escape level, driven
// by up to three 1-bit continuation flags.
func getLargeVal(r *bitstream.Reader) uint32 {
	count := 8
	if r.Bit() != 0 {
		count += 8
		if r.Bit() != 0 {
			count += 8
			if r.Bit() != 0 {
				count += 7
			}
		}
	}
	return r.Bits(count)
}

func (d *Decoder) normalizedMDCTLength() float32 {
	n4 := blockLenOf(d.curBlockLenBits) / 2
	mdctNorm := float32(1.0 / float64(n4))
	if d.cfg.Version == 1 {
		mdctNorm *= float32(math.Sqrt(float64(n4)))
	}
	return mdctNorm
}

// calculateMDCTCoefficients implements spec §4.3.2 step 9: scales the
// raw Huffman-reconstructed coefficients into MDCT input, filling the
// low/high frequency zones with noise when noise coding is active.
func (d *Decoder) calculateMDCTCoefficients(bSize int, hasChannel *[channelsMaxState]bool, totalGain int, mdctNorm float32) {
	for i := 0; i < int(d.cfg.Channels); i++ {
		if !hasChannel[i] {
			continue
		}

		coefs := d.coefs[i]
		coefs1 := d.coefs1[i]
		exponents := d.exponents[i]
		eSize := d.exponentsBSize[i]

		mult := float32(math.Pow(10, float64(totalGain)*0.05)) / d.maxExponent[i] * mdctNorm

		blockLen := blockLenOf(d.curBlockLenBits)
		coefsStart := d.cfg.coefsStart
		coefsEnd := d.cfg.coefsEnd[bSize]

		expIdx := func(j int) int {
			idx := (j << uint(bSize)) >> uint(eSize)
			if idx < 0 {
				idx = 0
			}
			if idx >= len(exponents) {
				idx = len(exponents) - 1
			}
			return idx
		}

		pos := 0
		if d.cfg.useNoiseCoding {
			for j := 0; j < coefsStart; j++ {
				coefs[pos] = d.cfg.noiseTable[d.noiseIndex] * exponents[expIdx(j)] * mult
				d.noiseIndex = (d.noiseIndex + 1) & (noiseTabSize - 1)
				pos++
			}

			n1 := d.cfg.exponentHighSizes[bSize]
			var expPower [highBandSizeMax]float32
			for k := range expPower {
				expPower[k] = 1.0
			}

			highExpBase := expIdx(d.cfg.highBandStart[bSize])
			cursor := highExpBase
			lastHighBand := 0
			for k := 0; k < n1; k++ {
				n := d.cfg.exponentHighBands[bSize][k]
				if d.highBandCoded[i][k] {
					var e2 float32
					for j := 0; j < n; j++ {
						idx := cursor + ((j << uint(bSize)) >> uint(eSize))
						if idx >= 0 && idx < len(exponents) {
							v := exponents[idx]
							e2 += v * v
						}
					}
					if n > 0 {
						expPower[k] = e2 / float32(n)
					}
					lastHighBand = k
				}
				cursor += (n << uint(bSize)) >> uint(eSize)
			}

			cursor = expIdx(coefsStart)
			for k := -1; k < n1; k++ {
				var n int
				if k < 0 {
					n = d.cfg.highBandStart[bSize] - coefsStart
				} else {
					n = d.cfg.exponentHighBands[bSize][k]
				}

				if k < 0 {
					// Plain decoded band below the noise-substitution zone:
					// no noise mixed in.
					for j := 0; j < n && pos < len(coefs); j++ {
						idx := cursor + ((j << uint(bSize)) >> uint(eSize))
						if idx < 0 || idx >= len(exponents) {
							idx = len(exponents) - 1
						}
						var c1 float32
						if pos < len(coefs1) {
							c1 = coefs1[pos]
						}
						coefs[pos] = c1 * exponents[idx] * mult
						pos++
					}
					cursor += (n << uint(bSize)) >> uint(eSize)
					continue
				}

				if d.highBandCoded[i][k] {
					mult1 := float32(math.Sqrt(float64(expPower[k] / expPower[lastHighBand])))
					mult1 *= float32(math.Pow(10, float64(d.highBandValues[i][k])*0.05))
					mult1 /= d.maxExponent[i] * d.cfg.noiseMult
					mult1 *= mdctNorm

					for j := 0; j < n; j++ {
						noise := d.cfg.noiseTable[d.noiseIndex]
						d.noiseIndex = (d.noiseIndex + 1) & (noiseTabSize - 1)
						idx := cursor + ((j << uint(bSize)) >> uint(eSize))
						if idx < 0 || idx >= len(exponents) {
							idx = len(exponents) - 1
						}
						coefs[pos] = noise * exponents[idx] * mult1
						pos++
					}
				} else {
					for j := 0; j < n; j++ {
						noise := d.cfg.noiseTable[d.noiseIndex]
						d.noiseIndex = (d.noiseIndex + 1) & (noiseTabSize - 1)
						idx := cursor + ((j << uint(bSize)) >> uint(eSize))
						if idx < 0 || idx >= len(exponents) {
							idx = len(exponents) - 1
						}
						var c1 float32
						if pos < len(coefs1) {
							c1 = coefs1[pos]
						}
						coefs[pos] = (c1 + noise) * exponents[idx] * mult
						pos++
					}
				}
				cursor += (n << uint(bSize)) >> uint(eSize)
			}

			n := blockLen - coefsEnd
			lastIdx := cursor - ((1 << uint(bSize)) >> uint(eSize))
			if lastIdx < 0 || lastIdx >= len(exponents) {
				lastIdx = len(exponents) - 1
			}
			mult1 := mult * exponents[lastIdx]
			for j := 0; j < n && pos < len(coefs); j++ {
				coefs[pos] = d.cfg.noiseTable[d.noiseIndex] * mult1
				d.noiseIndex = (d.noiseIndex + 1) & (noiseTabSize - 1)
				pos++
			}
		} else {
			for j := 0; j < coefsStart && pos < len(coefs); j++ {
				coefs[pos] = 0
				pos++
			}
			coefCount := coefsEnd - coefsStart
			for j := 0; j < coefCount && pos < len(coefs); j++ {
				coefs[pos] = coefs1[j] * exponents[expIdx(j)] * mult
				pos++
			}
			for pos < len(coefs) {
				coefs[pos] = 0
				pos++
			}
		}
	}
}

func butterflyFloats(v1, v2 []float32, length int) {
	for i := 0; i < length; i++ {
		t := v1[i] - v2[i]
		v1[i] += v2[i]
		v2[i] = t
	}
}
