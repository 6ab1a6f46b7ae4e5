// ABOUTME: WAV encoder for decoded audio buffers
// ABOUTME: Produces canonical 44-byte RIFF/WAVE headers with 16-bit PCM data
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidBuffer reports a buffer that violates the encoder
// preconditions (zero channels, bad sample rate, or mismatched
// channel lengths).
var ErrInvalidBuffer = errors.New("invalid audio buffer")

// WAVHeaderSize is the size of the RIFF/WAVE header produced by
// EncodeWAV. PCM data starts at this offset.
const WAVHeaderSize = 44

// wavHeader is the canonical single-fmt, single-data RIFF layout.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // total length - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 = PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32  // SampleRate * NumChannels * 2
	BlockAlign    uint16  // NumChannels * 2
	BitsPerSample uint16  // 16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // frames * channels * 2
}

// EncodeWAV converts a decoded buffer into an uncompressed WAV byte
// stream: a 44-byte header followed by interleaved 16-bit little-endian
// PCM, one sample per channel per frame in channel order. The output is
// exactly 44 + frames*channels*2 bytes. Encoding is deterministic and
// has no side effects.
func EncodeWAV(buf Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	channels := buf.Channels()
	frames := buf.Frames()
	dataSize := uint32(frames * channels * 2)

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(buf.SampleRate),
		ByteRate:      uint32(buf.SampleRate * channels * 2),
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	out := bytes.NewBuffer(make([]byte, 0, WAVHeaderSize+int(dataSize)))
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	pcm := make([]int16, 0, frames*channels)
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			pcm = append(pcm, QuantizeSample(buf.Data[ch][frame]))
		}
	}
	if err := binary.Write(out, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("failed to write PCM data: %w", err)
	}

	return out.Bytes(), nil
}
