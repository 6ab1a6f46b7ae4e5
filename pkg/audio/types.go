// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded sample buffers and payload formats
package audio

import "fmt"

// Speech payloads produced by the generation service are always
// single-channel 24 kHz.
const (
	SpeechSampleRate = 24000
	SpeechChannels   = 1
)

// Format describes an encoded audio payload.
type Format struct {
	Codec      string // "pcm16", "mp3", "opus", "flac"
	SampleRate int
	Channels   int
}

// SpeechFormat returns the payload format used by the speech
// generation service for the given codec.
func SpeechFormat(codec string) Format {
	return Format{
		Codec:      codec,
		SampleRate: SpeechSampleRate,
		Channels:   SpeechChannels,
	}
}

// Buffer holds decoded floating-point audio, one sample slice per
// channel. Samples are in [-1, 1] and every channel has the same
// length.
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// Channels returns the channel count.
func (b Buffer) Channels() int {
	return len(b.Data)
}

// Frames returns the number of frames (samples per channel).
func (b Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Validate checks the buffer preconditions: positive sample rate, at
// least one channel, equal-length channel slices.
func (b Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidBuffer, b.SampleRate)
	}
	if len(b.Data) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidBuffer)
	}
	frames := len(b.Data[0])
	for ch, data := range b.Data {
		if len(data) != frames {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrInvalidBuffer, ch, len(data), frames)
		}
	}
	return nil
}

// QuantizeSample maps a float sample to 16-bit PCM. The sample is
// clamped to [-1, 1], scaled by 32768 when negative and 32767
// otherwise, then truncated toward zero. The asymmetric scale is
// load-bearing: existing fixtures depend on the exact output bytes.
func QuantizeSample(s float32) int16 {
	if s < -1 {
		s = -1
	}
	if s > 1 {
		s = 1
	}
	if s < 0 {
		return int16(float64(s) * 32768)
	}
	return int16(float64(s) * 32767)
}

// DequantizeSample is the inverse of QuantizeSample, recovering the
// original sample to within 1/32768.
func DequantizeSample(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768
	}
	return float32(v) / 32767
}
