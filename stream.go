package wma

import (
	"io"
	"io/ioutil"

	"github.com/phaethon-tools/go-wma/internal/pcmqueue"
	"github.com/sirupsen/logrus"
)

const (
	channelsMaxState  = 2
	overhangCapacity  = 16384 + 4
	highBandSizeState = highBandSizeMax
)

// Decoder is a streaming WMA v1/v2 decoder: construct once with NewStream,
// then feed packets with QueuePacket and drain PCM with ReadBuffer.
type Decoder struct {
	cfg *Config
	log *logrus.Logger

	queue *pcmqueue.Queue

	finished bool

	// Per-superframe state (spec §3.1).
	lastSuperframe    []byte
	lastSuperframeLen int
	lastBitoffset     int
	resetBlockLengths bool

	// Per-frame state.
	framePos          int
	curBlock          int
	prevBlockLenBits  int
	curBlockLenBits   int
	nextBlockLenBits  int

	// Per-block scratch, sized to the largest possible block (frameLen).
	coefs1         [channelsMaxState][]float32
	coefs          [channelsMaxState][]float32
	exponents      [channelsMaxState][]float32
	exponentsBSize [channelsMaxState]int
	maxExponent    [channelsMaxState]float32
	highBandCoded  [channelsMaxState][highBandSizeState]bool
	highBandValues [channelsMaxState][highBandSizeState]int
	noiseIndex     int

	output   []float32
	frameOut [channelsMaxState][]float32
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithLogger overrides the default logrus.StandardLogger() used for
// packet-fatal and recoverable diagnostics.
func WithLogger(l *logrus.Logger) Option {
	return func(d *Decoder) {
		d.log = l
	}
}

// NewStream builds a WMA decoder from the container-supplied codec
// parameters. extraData may be nil, meaning no codec-private data.
func NewStream(version int, sampleRate uint32, channels uint8, bitRate, blockAlign uint32, extraData io.Reader, opts ...Option) (*Decoder, error) {
	var raw []byte
	if extraData != nil {
		b, err := ioutil.ReadAll(extraData)
		if err != nil {
			return nil, newConfigError("reading extra data: %v", err)
		}
		raw = b
	}

	cfg, err := NewConfig(version, sampleRate, channels, bitRate, blockAlign, raw)
	if err != nil {
		return nil, err
	}

	d := &Decoder{
		cfg:            cfg,
		log:            logrus.StandardLogger(),
		queue:          pcmqueue.New(),
		lastSuperframe: make([]byte, 0, overhangCapacity),
	}
	for ch := 0; ch < int(channels); ch++ {
		d.coefs1[ch] = make([]float32, cfg.frameLen)
		d.coefs[ch] = make([]float32, cfg.frameLen)
		d.exponents[ch] = make([]float32, cfg.frameLen)
		d.frameOut[ch] = make([]float32, 2*cfg.frameLen)
	}
	d.output = make([]float32, 2*cfg.frameLen)

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Finish marks the stream as complete: no further packets will arrive.
func (d *Decoder) Finish() {
	d.finished = true
}

// IsFinished reports whether Finish has been called.
func (d *Decoder) IsFinished() bool {
	return d.finished
}

// EndOfData reports whether every queued PCM sample has been read.
func (d *Decoder) EndOfData() bool {
	return d.queue.Len() == 0
}

// EndOfStream reports whether the stream is finished and fully drained.
func (d *Decoder) EndOfStream() bool {
	return d.finished && d.EndOfData()
}

// ReadBuffer copies up to len(dst) bytes of queued interleaved 16-bit PCM
// into dst, returning the number of bytes written.
func (d *Decoder) ReadBuffer(dst []byte) int {
	return d.queue.Read(dst)
}

// Rate returns the stream's sample rate.
func (d *Decoder) Rate() uint32 {
	return d.cfg.SampleRate
}

// Channels returns the stream's channel count.
func (d *Decoder) Channels() int {
	return int(d.cfg.Channels)
}
