// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC payloads to float buffers via mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// FLACDecoder decodes complete FLAC payloads.
type FLACDecoder struct {
	format audio.Format
}

// NewFLAC creates a new FLAC decoder.
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != "flac" {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}
	return &FLACDecoder{format: format}, nil
}

// Decode converts a complete FLAC payload to a float buffer. Samples
// are normalized by the stream's bit depth; when the target format is
// mono and the stream is stereo the channels are averaged.
func (d *FLACDecoder) Decode(data []byte) (audio.Buffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to create flac decoder: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	if channels == 0 {
		return audio.Buffer{}, fmt.Errorf("flac stream reports zero channels")
	}
	scale := float32(int64(1) << (info.BitsPerSample - 1))

	out := make([][]float32, channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return audio.Buffer{}, fmt.Errorf("flac decode error: %w", err)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				out[ch] = append(out[ch], float32(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	if d.format.Channels == 1 && channels == 2 {
		mono := make([]float32, len(out[0]))
		for i := range mono {
			mono[i] = (out[0][i] + out[1][i]) / 2
		}
		out = [][]float32{mono}
	}

	return audio.Buffer{SampleRate: int(info.SampleRate), Data: out}, nil
}

// Close releases decoder resources.
func (d *FLACDecoder) Close() error {
	return nil
}
