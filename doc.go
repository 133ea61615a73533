// Package wma decodes Windows Media Audio v1/v2 streams into interleaved
// 16-bit PCM.
//
// A Decoder is built once per stream from the codec parameters found in
// the container (version, sample rate, channel count, bit rate, block
// align, and the codec-specific extra data), after which packets
// (superframes) are queued one at a time and decoded PCM is drained from
// an internal queue. The decoder never seeks and never re-reads a packet:
// each call to QueuePacket consumes its argument end to end.
//
// Byte order, MDCT, Huffman table construction, and bit-level reading are
// implemented in the internal/* subpackages; this package wires them
// together into the demuxer and frame/block decode pipeline.
package wma
