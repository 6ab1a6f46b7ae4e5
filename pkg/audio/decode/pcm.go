// ABOUTME: Raw PCM decoder
// ABOUTME: Deinterleaves 16-bit little-endian PCM into float channels
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// PCM16Decoder decodes raw interleaved 16-bit little-endian PCM.
type PCM16Decoder struct {
	format audio.Format
}

// NewPCM16 creates a new raw PCM decoder.
func NewPCM16(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm16" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}
	if format.Channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}
	return &PCM16Decoder{format: format}, nil
}

// Decode converts interleaved PCM bytes to a float buffer.
func (d *PCM16Decoder) Decode(data []byte) (audio.Buffer, error) {
	channels := d.format.Channels
	blockAlign := channels * 2
	if len(data)%blockAlign != 0 {
		return audio.Buffer{}, fmt.Errorf("pcm data length %d is not a multiple of %d", len(data), blockAlign)
	}

	frames := len(data) / blockAlign
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}

	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			v := int16(binary.LittleEndian.Uint16(data[(frame*channels+ch)*2:]))
			out[ch][frame] = audio.DequantizeSample(v)
		}
	}

	return audio.Buffer{SampleRate: d.format.SampleRate, Data: out}, nil
}

// Close releases decoder resources.
func (d *PCM16Decoder) Close() error {
	return nil
}
