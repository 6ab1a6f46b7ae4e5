// ABOUTME: Audio fundamentals package providing core types and the WAV encoder
// ABOUTME: Defines Format, Buffer types and 16-bit PCM quantization
// Package audio provides the decoded-audio types shared across the
// playback pipeline and the WAV encoder that turns them into playable
// byte streams.
//
// A Buffer holds per-channel float32 samples in [-1, 1]. EncodeWAV
// writes a canonical RIFF/WAVE container with a single "fmt " and a
// single "data" sub-chunk:
//
//	buf := audio.Buffer{
//	    SampleRate: audio.SpeechSampleRate,
//	    Data:       [][]float32{{0.0, 0.5, -0.5}},
//	}
//	wav, err := audio.EncodeWAV(buf)
package audio
