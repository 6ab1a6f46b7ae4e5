// ABOUTME: Audio decoder package for speech payload codecs
// ABOUTME: Provides Decoder interface and implementations for PCM, MP3, Opus
// Package decode converts compressed speech payloads into decoded
// float buffers.
//
// Supports: raw 16-bit PCM, MP3, Opus.
//
// All decoders implement the Decoder interface and output per-channel
// float32 samples in [-1, 1], ready for the WAV encoder.
//
// Example:
//
//	buf, err := decode.Base64(audio.SpeechFormat("mp3"), payload)
package decode
