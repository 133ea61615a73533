package wma

import (
	"math/rand"
	"testing"
)

func TestNewStreamRejectsBadVersion(t *testing.T) {
	if _, err := NewStream(3, 44100, 2, 128000, 4096, nil); err == nil {
		t.Fatal("expected a ConfigError for an unsupported version")
	}
}

func TestNewStreamRejectsZeroChannels(t *testing.T) {
	if _, err := NewStream(2, 44100, 0, 128000, 4096, nil); err == nil {
		t.Fatal("expected a ConfigError for zero channels")
	}
}

func TestNewStreamBuildsStereoDecoder(t *testing.T) {
	dec, err := NewStream(2, 44100, 2, 128000, 4096, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Rate() != 44100 {
		t.Fatalf("Rate() = %d, want 44100", dec.Rate())
	}
	if dec.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", dec.Channels())
	}
	if dec.IsFinished() {
		t.Fatal("IsFinished() = true before Finish() was called")
	}
}

func TestQueuePacketDropsShortPackets(t *testing.T) {
	dec, err := NewStream(2, 44100, 2, 128000, 4096, nil)
	if err != nil {
		t.Fatal(err)
	}
	dec.QueuePacket([]byte{1, 2, 3})
	if dec.ReadBuffer(make([]byte, 16)) != 0 {
		t.Fatal("a too-short packet should not have produced any PCM")
	}
}

func TestQueuePacketNeverPanicsOnGarbage(t *testing.T) {
	dec, err := NewStream(2, 44100, 2, 128000, 4096, nil)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	packet := make([]byte, 4096)
	for i := 0; i < 50; i++ {
		rng.Read(packet)
		dec.QueuePacket(packet)
	}
	dec.Finish()

	out := make([]byte, 4096)
	for !dec.EndOfStream() {
		if dec.ReadBuffer(out) == 0 {
			break
		}
	}
}

func TestFinishMarksEndOfStreamOnceDrained(t *testing.T) {
	dec, err := NewStream(1, 22050, 1, 64000, 2048, nil)
	if err != nil {
		t.Fatal(err)
	}
	dec.Finish()
	if !dec.EndOfStream() {
		t.Fatal("expected EndOfStream() once finished with nothing queued")
	}
}
