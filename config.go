package wma

import (
	"math"

	"github.com/phaethon-tools/go-wma/internal/huffman"
	"github.com/phaethon-tools/go-wma/internal/mdct"
	"github.com/phaethon-tools/go-wma/internal/sinewindow"
	"github.com/phaethon-tools/go-wma/internal/wmadata"
)

const (
	blockBitsMin   = 7
	blockBitsMax   = 13
	blockNBSizes   = blockBitsMax - blockBitsMin + 1
	channelsMax    = 2
	noiseTabSize   = 8192
	lspPowBits     = 7
	highBandSizeMax = 25
)

// Config holds every immutable, per-stream table the frame decoder reads:
// the derived feature flags, frame/block length bookkeeping, exponent-band
// layout, Huffman tables, the noise table, the MDCT set, and (if the
// stream uses LSP exponent coding) the LSP interpolation tables. It is
// built once by NewConfig and never mutated afterward.
type Config struct {
	Version    int
	SampleRate uint32
	Channels   uint8
	BitRate    uint32
	BlockAlign uint32

	useExpHuffman       bool
	useBitReservoir     bool
	useVariableBlockLen bool

	frameLenBits int
	frameLen     int

	blockSizeCount int
	byteOffsetBits int

	useNoiseCoding bool
	noiseMult      float32
	noiseTable     [noiseTabSize]float32
	hgainTable     *huffman.Table // non-nil iff useNoiseCoding

	coefsStart        int
	coefsEnd          [blockNBSizes]int
	highBandStart     [blockNBSizes]int
	exponentBands     [blockNBSizes][25]int
	exponentSizes     [blockNBSizes]int
	exponentHighBands [blockNBSizes][highBandSizeMax]int
	exponentHighSizes [blockNBSizes]int

	coefHuffman    [2]*huffman.Table
	coefRunTable   [2][]int
	coefLevelTable [2][]float32
	coefIntTable   [2][]int

	mdctSet    []*mdct.MDCT
	mdctWindow [][]float32

	expHuffman *huffman.Table // non-nil iff useExpHuffman

	lspCosTable  []float32
	lspPowETable [256]float32
	lspPowMTable [1 << lspPowBits]struct{ a, b float32 }
}

// NewConfig derives a Config from the container-level codec parameters,
// following spec's ten-step derivation order exactly (later steps read
// earlier results, so the order is load-bearing).
func NewConfig(version int, sampleRate uint32, channels uint8, bitRate, blockAlign uint32, extraData []byte) (*Config, error) {
	if version != 1 && version != 2 {
		return nil, newConfigError("unsupported version %d", version)
	}
	if sampleRate == 0 || sampleRate > 50000 {
		return nil, newConfigError("invalid sample rate %d", sampleRate)
	}
	if channels == 0 || channels > channelsMax {
		return nil, newConfigError("unsupported channel count %d", channels)
	}

	c := &Config{
		Version:    version,
		SampleRate: sampleRate,
		Channels:   channels,
		BitRate:    bitRate,
		BlockAlign: blockAlign,
	}

	// Step 1: flag word.
	flags := c.readFlags(extraData)
	c.useExpHuffman = flags&1 != 0
	c.useBitReservoir = flags&2 != 0
	c.useVariableBlockLen = flags&4 != 0
	if version == 2 && len(extraData) >= 8 {
		w := leUint16(extraData[4:6])
		if w == 0x000D {
			c.useVariableBlockLen = false
		}
	}

	// Step 2: frame length bits F.
	c.frameLenBits = frameLengthBits(sampleRate, version)
	c.frameLen = 1 << uint(c.frameLenBits)

	// Step 3: block-size count B.
	c.blockSizeCount = blockSizeCount(flags, bitRate, channels, c.frameLenBits)

	// Step 4: byte-offset bits.
	bps := float64(bitRate) / (float64(channels) * float64(sampleRate))
	c.byteOffsetBits = int(math.Floor(math.Log2(bps*float64(c.frameLen)/8+0.05))) + 2

	// Step 5: noise-coding decision and high-frequency cutoff.
	noiseCoding, highFreq, adjustedBps := evaluateNoiseCoding(version, sampleRate, channels, bps)
	c.useNoiseCoding = noiseCoding

	// Step 6: exponent bands, coefsEnd, high-band start/sizes.
	c.evalMDCTScales(highFreq)

	// Step 7: noise table.
	if c.useNoiseCoding {
		if c.useExpHuffman {
			c.noiseMult = 0.02
		} else {
			c.noiseMult = 0.04
		}
		c.initNoiseTable()

		table, err := huffman.New(wmadata.HgainHuffmanLengths())
		if err != nil {
			return nil, newConfigError("high-band gain huffman table: %v", err)
		}
		c.hgainTable = table
	}

	// Step 8: coefficient Huffman tables.
	if err := c.initCoefHuffman(adjustedBps); err != nil {
		return nil, err
	}

	// Step 9: MDCT set.
	c.initMDCT()

	// Step 10: exponent decoder state.
	if err := c.initExponents(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) readFlags(extraData []byte) uint16 {
	if c.Version == 1 && len(extraData) >= 4 {
		return leUint16(extraData[2:4])
	}
	if c.Version == 2 && len(extraData) >= 6 {
		return leUint16(extraData[4:6])
	}
	return 0
}

func leUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func frameLengthBits(sampleRate uint32, version int) int {
	switch {
	case sampleRate <= 16000:
		return 9
	case sampleRate <= 22050 || (sampleRate <= 32000 && version == 1):
		return 10
	case sampleRate <= 48000:
		return 11
	case sampleRate <= 96000:
		return 12
	default:
		return 13
	}
}

func blockSizeCount(flags uint16, bitRate uint32, channels uint8, frameLenBits int) int {
	if flags&4 == 0 {
		return 1
	}
	base := int((flags>>3)&3) + 1
	if bitRate/uint32(channels) >= 32000 {
		base += 2
	}
	maxCount := frameLenBits - blockBitsMin
	if base > maxCount {
		base = maxCount
	}
	return base + 1
}

func normalizedSampleRate(version int, sampleRate uint32) uint32 {
	if version != 2 {
		return sampleRate
	}
	switch {
	case sampleRate >= 44100:
		return 44100
	case sampleRate >= 22050:
		return 22050
	case sampleRate >= 16000:
		return 16000
	case sampleRate >= 11025:
		return 11025
	case sampleRate >= 8000:
		return 8000
	default:
		return sampleRate
	}
}

// evaluateNoiseCoding implements spec §6.4's decision table. It returns
// whether noise coding is used, the (possibly reduced) high-frequency
// cutoff, and the stereo-adjusted bps used by coefficient Huffman table
// selection.
func evaluateNoiseCoding(version int, sampleRate uint32, channels uint8, bpsOrig float64) (noiseCoding bool, highFreq float64, adjustedBps float64) {
	highFreq = float64(sampleRate) * 0.5
	bps := bpsOrig
	if channels == 2 {
		bps = bpsOrig * 1.6
	}

	switch normalizedSampleRate(version, sampleRate) {
	case 44100:
		if bps >= 0.61 {
			return false, highFreq, bps
		}
		return true, highFreq * 0.4, bps

	case 22050:
		if bps >= 1.16 {
			return false, highFreq, bps
		}
		if bps >= 0.72 {
			return true, highFreq * 0.7, bps
		}
		return true, highFreq * 0.6, bps

	case 16000:
		if bpsOrig > 0.5 {
			return true, highFreq * 0.5, bps
		}
		return true, highFreq * 0.3, bps

	case 11025:
		return true, highFreq * 0.7, bps

	case 8000:
		if bpsOrig > 0.75 {
			return false, highFreq, bps
		}
		if bpsOrig <= 0.625 {
			return true, highFreq * 0.5, bps
		}
		return true, highFreq * 0.65, bps

	default:
		if bpsOrig >= 0.8 {
			return true, highFreq * 0.75, bps
		}
		if bpsOrig >= 0.6 {
			return true, highFreq * 0.6, bps
		}
		return true, highFreq * 0.5, bps
	}
}

// evalMDCTScales fills exponent bands, coefsEnd, highBandStart and the
// high-band intersections for every block size, following spec §4.1
// step 6.
func (c *Config) evalMDCTScales(highFreq float64) {
	if c.Version == 1 {
		c.coefsStart = 3
	} else {
		c.coefsStart = 0
	}

	for k := 0; k < c.blockSizeCount; k++ {
		blockLen := c.frameLen >> uint(k)

		if c.Version == 1 {
			lpos := 0
			i := 0
			for ; i < 25; i++ {
				a := wmadata.CriticalFreqs[i]
				b := int(c.SampleRate)
				pos := (blockLen*2*a + b>>1) / b
				if pos > blockLen {
					pos = blockLen
				}
				c.exponentBands[k][i] = pos - lpos
				if pos >= blockLen {
					i++
					break
				}
				lpos = pos
			}
			c.exponentSizes[k] = i
		} else {
			t := c.frameLenBits - blockBitsMin - k
			if table, ok := wmadata.ExponentBandTable(int(c.SampleRate), t); ok {
				for i, v := range table {
					c.exponentBands[k][i] = v
				}
				c.exponentSizes[k] = len(table)
			} else {
				j, lpos := 0, 0
				for i := 0; i < 25; i++ {
					a := wmadata.CriticalFreqs[i]
					b := int(c.SampleRate)
					pos := ((blockLen*2*a + b<<1) / (4 * b)) << 2
					if pos > blockLen {
						pos = blockLen
					}
					if pos > lpos {
						c.exponentBands[k][j] = pos - lpos
						j++
					}
					if pos >= blockLen {
						break
					}
					lpos = pos
				}
				c.exponentSizes[k] = j
			}
		}

		c.coefsEnd[k] = (c.frameLen - (c.frameLen*9)/100) >> uint(k)
		c.highBandStart[k] = int(float64(blockLen)*2*highFreq/float64(c.SampleRate) + 0.5)

		n := c.exponentSizes[k]
		j, pos := 0, 0
		for i := 0; i < n; i++ {
			start := pos
			pos += c.exponentBands[k][i]
			end := pos
			if start < c.highBandStart[k] {
				start = c.highBandStart[k]
			}
			if end > c.coefsEnd[k] {
				end = c.coefsEnd[k]
			}
			if end > start {
				c.exponentHighBands[k][j] = end - start
				j++
			}
		}
		c.exponentHighSizes[k] = j
	}
}

// hgainHuffman returns the high-band gain Huffman table. It is only called
// when useNoiseCoding is set, so hgainTable is guaranteed non-nil.
func (c *Config) hgainHuffman() *huffman.Table {
	return c.hgainTable
}

func (c *Config) initNoiseTable() {
	norm := (1.0 / float64(int64(1)<<31)) * math.Sqrt(3) * float64(c.noiseMult)
	seed := uint32(1)
	for i := 0; i < noiseTabSize; i++ {
		seed = seed*314159 + 1
		c.noiseTable[i] = float32(float64(int32(seed)) * norm)
	}
}

func (c *Config) initCoefHuffman(bps float64) error {
	coefHuffTable := 2
	if c.SampleRate >= 32000 {
		if bps < 0.72 {
			coefHuffTable = 0
		} else if bps < 1.16 {
			coefHuffTable = 1
		}
	}

	for idx := 0; idx < 2; idx++ {
		param := wmadata.CoefHuffmanTable(coefHuffTable, idx)
		table, err := huffman.New(param.Lengths)
		if err != nil {
			return newConfigError("coefficient huffman table %d: %v", idx, err)
		}
		c.coefHuffman[idx] = table

		n := len(param.Lengths)
		runTable := make([]int, n)
		levelTable := make([]float32, n)
		intTable := make([]int, n)

		i := 2
		level := 1
		for _, l := range param.Levels {
			if i >= n {
				break
			}
			intTable[level-1] = i
			for j := 0; j < l && i < n; j++ {
				runTable[i] = j
				levelTable[i] = float32(level)
				i++
			}
			level++
		}

		c.coefRunTable[idx] = runTable
		c.coefLevelTable[idx] = levelTable
		c.coefIntTable[idx] = intTable
	}

	return nil
}

func (c *Config) initMDCT() {
	c.mdctSet = make([]*mdct.MDCT, c.blockSizeCount)
	c.mdctWindow = make([][]float32, c.blockSizeCount)
	for k := 0; k < c.blockSizeCount; k++ {
		n := 1 << uint(c.frameLenBits-k+1)
		c.mdctSet[k] = mdct.New(n, 1.0)
		c.mdctWindow[k] = sinewindow.Get(c.frameLenBits - k + 1)
	}
}

func (c *Config) initExponents() error {
	if c.useExpHuffman {
		table, err := huffman.New(wmadata.ExpHuffmanLengths())
		if err != nil {
			return newConfigError("exponent huffman table: %v", err)
		}
		c.expHuffman = table
		return nil
	}

	c.initLSPToCurve()
	return nil
}

func (c *Config) initLSPToCurve() {
	c.lspCosTable = make([]float32, c.frameLen)
	wdel := math.Pi / float64(c.frameLen)
	for i := range c.lspCosTable {
		c.lspCosTable[i] = float32(2.0 * math.Cos(wdel*float64(i)))
	}

	for i := range c.lspPowETable {
		e := i - 126
		c.lspPowETable[i] = float32(math.Pow(2.0, float64(e)*-0.25))
	}

	const powBits = lspPowBits
	b := 1.0
	for i := (1 << powBits) - 1; i >= 0; i-- {
		m := (1 << powBits) + i
		a := float64(m) * (0.5 / float64(int(1)<<powBits))
		a = math.Pow(a, -0.25)
		c.lspPowMTable[i].a = float32(2*a - b)
		c.lspPowMTable[i].b = float32(b - a)
		b = a
	}
}
