// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Opus packets to float buffers
package decode

import (
	"fmt"

	"gopkg.in/hraban/opus.v2"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// OpusDecoder decodes Opus packets.
type OpusDecoder struct {
	decoder *opus.Decoder
	format  audio.Format
}

// NewOpus creates a new Opus decoder.
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{decoder: dec, format: format}, nil
}

// Decode converts a single Opus packet to a float buffer.
func (d *OpusDecoder) Decode(data []byte) (audio.Buffer, error) {
	channels := d.format.Channels

	// 5760 samples per channel is the maximum Opus frame size.
	pcm16 := make([]int16, 5760*channels)
	n, err := d.decoder.Decode(data, pcm16)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("opus decode failed: %w", err)
	}

	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, n)
	}
	for frame := 0; frame < n; frame++ {
		for ch := 0; ch < channels; ch++ {
			out[ch][frame] = audio.DequantizeSample(pcm16[frame*channels+ch])
		}
	}

	return audio.Buffer{SampleRate: d.format.SampleRate, Data: out}, nil
}

// Close releases decoder resources.
func (d *OpusDecoder) Close() error {
	return nil
}
