// ABOUTME: Tests for the FLAC decoder
// ABOUTME: Tests stream-info parsing, codec guard, and bad input handling
package decode

import (
	"testing"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// minimalFLAC returns a valid empty FLAC stream: the "fLaC" marker and
// a last-block STREAMINFO (24000 Hz, mono, 16-bit, zero frames).
func minimalFLAC() []byte {
	stream := []byte{'f', 'L', 'a', 'C'}
	stream = append(stream, 0x80, 0x00, 0x00, 0x22) // last block, type 0, length 34
	stream = append(stream,
		0x10, 0x00, // min block size 4096
		0x10, 0x00, // max block size 4096
		0x00, 0x00, 0x00, // min frame size unknown
		0x00, 0x00, 0x00, // max frame size unknown
		0x05, 0xDC, 0x00, 0xF0, // 24000 Hz, 1 channel, 16 bits
		0x00, 0x00, 0x00, 0x00, // total samples 0
	)
	stream = append(stream, make([]byte, 16)...) // md5
	return stream
}

func TestFLACDecodeEmptyStream(t *testing.T) {
	dec, err := NewFLAC(audio.SpeechFormat("flac"))
	if err != nil {
		t.Fatalf("NewFLAC failed: %v", err)
	}
	defer dec.Close()

	buf, err := dec.Decode(minimalFLAC())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if buf.SampleRate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", buf.SampleRate)
	}
	if buf.Channels() != 1 {
		t.Errorf("expected 1 channel, got %d", buf.Channels())
	}
	if buf.Frames() != 0 {
		t.Errorf("expected 0 frames, got %d", buf.Frames())
	}
}

func TestFLACDecodeInvalidData(t *testing.T) {
	dec, err := NewFLAC(audio.SpeechFormat("flac"))
	if err != nil {
		t.Fatalf("NewFLAC failed: %v", err)
	}
	defer dec.Close()

	if _, err := dec.Decode([]byte("definitely not flac")); err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestFLACRejectsWrongCodec(t *testing.T) {
	if _, err := NewFLAC(audio.SpeechFormat("mp3")); err == nil {
		t.Error("expected error for wrong codec")
	}
}
