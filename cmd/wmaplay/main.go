// Command wmaplay plays a raw WMA v1/v2 packet stream (already demuxed
// from its container into fixed-size blockAlign packets) through the
// system's default audio output.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"github.com/sirupsen/logrus"

	wma "github.com/phaethon-tools/go-wma"
)

func main() {
	version := flag.Int("version", 2, "WMA version (1 or 2)")
	sampleRate := flag.Uint("rate", 44100, "sample rate in Hz")
	channels := flag.Uint("channels", 2, "channel count (1 or 2)")
	bitRate := flag.Uint("bitrate", 128000, "bit rate in bits/sec")
	blockAlign := flag.Uint("blockalign", 4096, "container block-align size in bytes")
	extraFile := flag.String("extra", "", "path to codec-private extra data, if any")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logrus.StandardLogger()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: wmaplay [flags] <packet-stream-file>")
		os.Exit(2)
	}

	var extra io.Reader
	if *extraFile != "" {
		b, err := os.ReadFile(*extraFile)
		if err != nil {
			log.WithError(err).Fatal("wmaplay: reading extra data file")
		}
		extra = bytes.NewReader(b)
	}

	dec, err := wma.NewStream(
		*version,
		uint32(*sampleRate),
		uint8(*channels),
		uint32(*bitRate),
		uint32(*blockAlign),
		extra,
		wma.WithLogger(log),
	)
	if err != nil {
		log.WithError(err).Fatal("wmaplay: constructing decoder")
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.WithError(err).Fatal("wmaplay: opening input")
	}
	defer f.Close()

	ctx, ready, err := oto.NewContext(int(*sampleRate), int(*channels), 2)
	if err != nil {
		log.WithError(err).Fatal("wmaplay: creating audio context")
	}
	<-ready

	player := ctx.NewPlayer(&streamReader{dec: dec})
	defer player.Close()

	if err := feedPackets(f, dec, *blockAlign, log); err != nil {
		log.WithError(err).Fatal("wmaplay: feeding packets")
	}
	dec.Finish()

	player.Play()
	for !dec.EndOfStream() || player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
}

// feedPackets reads fixed-size blockAlign packets from r and queues each
// one, until EOF.
func feedPackets(r io.Reader, dec *wma.Decoder, blockAlign uint, log *logrus.Logger) error {
	buf := make([]byte, blockAlign)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			dec.QueuePacket(buf[:n])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// streamReader adapts wma.Decoder's pull-based ReadBuffer into an
// io.Reader suitable for oto's player.
type streamReader struct {
	dec *wma.Decoder
}

func (s *streamReader) Read(p []byte) (int, error) {
	n := s.dec.ReadBuffer(p)
	if n == 0 && s.dec.EndOfStream() {
		return 0, io.EOF
	}
	return n, nil
}
