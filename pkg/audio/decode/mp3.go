// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 payloads to float buffers via go-mp3
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// MP3Decoder decodes complete MP3 payloads.
type MP3Decoder struct {
	format audio.Format
}

// NewMP3 creates a new MP3 decoder.
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != "mp3" {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}
	return &MP3Decoder{format: format}, nil
}

// Decode converts a complete MP3 payload to a float buffer. go-mp3
// always emits interleaved 16-bit stereo; when the target format is
// mono the two channels are averaged.
func (d *MP3Decoder) Decode(data []byte) (audio.Buffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	frames := len(raw) / 4 // 2 channels x 2 bytes
	if d.format.Channels == 1 {
		out := make([]float32, frames)
		for i := 0; i < frames; i++ {
			left := audio.DequantizeSample(int16(binary.LittleEndian.Uint16(raw[i*4:])))
			right := audio.DequantizeSample(int16(binary.LittleEndian.Uint16(raw[i*4+2:])))
			out[i] = (left + right) / 2
		}
		return audio.Buffer{SampleRate: dec.SampleRate(), Data: [][]float32{out}}, nil
	}

	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = audio.DequantizeSample(int16(binary.LittleEndian.Uint16(raw[i*4:])))
		right[i] = audio.DequantizeSample(int16(binary.LittleEndian.Uint16(raw[i*4+2:])))
	}
	return audio.Buffer{SampleRate: dec.SampleRate(), Data: [][]float32{left, right}}, nil
}

// Close releases decoder resources.
func (d *MP3Decoder) Close() error {
	return nil
}
