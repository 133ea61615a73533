package wma

import (
	"github.com/phaethon-tools/go-wma/internal/bitstream"
)

// QueuePacket decodes one superframe, honoring the bit-reservoir carry
// between packets (spec §4.2). Decode failures are logged and the packet
// is dropped; they never propagate to the caller and never poison later
// packets, except that any pending overhang is discarded.
func (d *Decoder) QueuePacket(data []byte) {
	if d.cfg.BlockAlign != 0 {
		if uint32(len(data)) < d.cfg.BlockAlign {
			d.log.Warnf("wma: packet shorter than blockAlign (%d < %d), dropping", len(data), d.cfg.BlockAlign)
			return
		}
		data = data[:d.cfg.BlockAlign]
	}

	r := bitstream.New(data)

	if !d.cfg.useBitReservoir {
		if err := d.decodeFrame(r); err != nil {
			d.log.WithError(err).Warn("wma: dropping packet")
		}
		return
	}

	r.SkipBits(4) // superframe index, ignored

	newFrameCount := int(r.Bits(4)) - 1
	if newFrameCount < 0 {
		d.log.Warnf("wma: invalid frame count %d, dropping packet", newFrameCount)
		d.resetBlockLengths = true
		d.lastSuperframeLen = 0
		d.lastBitoffset = 0
		return
	}

	bitOffset := int(r.Bits(d.cfg.byteOffsetBits + 3))

	if d.lastSuperframeLen > 0 {
		for bitOffset > 7 {
			d.lastSuperframe = append(d.lastSuperframe, byte(r.Bits(8)))
			bitOffset -= 8
			d.lastSuperframeLen++
		}
		if bitOffset > 0 {
			b := byte(r.Bits(bitOffset)) << uint(8-bitOffset)
			d.lastSuperframe = append(d.lastSuperframe, b)
			d.lastSuperframeLen++
			bitOffset = 0
		}

		overhang := bitstream.New(d.lastSuperframe[:d.lastSuperframeLen])
		overhang.SkipBits(d.lastBitoffset)
		if err := d.decodeFrame(overhang); err != nil {
			d.log.WithError(err).Warn("wma: dropping packet")
			d.resetOverhang()
			return
		}
	}

	r.SkipBits(bitOffset)
	d.resetBlockLengths = true

	for i := 0; i < newFrameCount; i++ {
		if err := d.decodeFrame(r); err != nil {
			d.log.WithError(err).Warn("wma: dropping packet")
			d.resetOverhang()
			return
		}
	}

	remainingBits := r.Len() - r.Pos()
	if remainingBits > 0 {
		lastLen := (remainingBits + 7) / 8
		lastBitoffset := (8 - remainingBits%8) % 8

		d.lastSuperframeLen = lastLen
		d.lastBitoffset = lastBitoffset

		start := len(data) - lastLen
		if start < 0 {
			start = 0
		}
		d.lastSuperframe = append(d.lastSuperframe[:0], data[start:]...)
	} else {
		d.resetOverhang()
	}
}

func (d *Decoder) resetOverhang() {
	d.lastSuperframe = d.lastSuperframe[:0]
	d.lastSuperframeLen = 0
	d.lastBitoffset = 0
}
