// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all audio payload decoders
package decode

import (
	"encoding/base64"
	"fmt"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// Decoder decodes a compressed audio payload into a float buffer.
type Decoder interface {
	// Decode converts encoded audio data to a decoded buffer.
	Decode(data []byte) (audio.Buffer, error)

	// Close releases decoder resources.
	Close() error
}

// New creates a decoder for the specified payload format.
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case "pcm16":
		return NewPCM16(format)
	case "mp3":
		return NewMP3(format)
	case "opus":
		return NewOpus(format)
	case "flac":
		return NewFLAC(format)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", format.Codec)
	}
}

// Base64 decodes a base64-encoded compressed payload, as delivered by
// the speech generation service, into a decoded buffer.
func Base64(format audio.Format, payload string) (audio.Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("invalid base64 payload: %w", err)
	}

	dec, err := New(format)
	if err != nil {
		return audio.Buffer{}, err
	}
	defer dec.Close()

	return dec.Decode(raw)
}
