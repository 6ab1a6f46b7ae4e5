// ABOUTME: Speech generation collaborator
// ABOUTME: Wraps the external text-to-speech API behind a small interface
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// Generator produces a base64-encoded compressed audio payload for the
// given text. The call is I/O-bound and its duration unbounded; the
// caller may abandon interest in the result but cannot cancel the
// in-flight request. Implementations report failure by returning an
// error; no retry is attempted by callers.
type Generator interface {
	Generate(ctx context.Context, text string) (string, audio.Format, error)
}

// OpenAIGenerator implements Generator using the OpenAI speech API.
type OpenAIGenerator struct {
	client oai.Client
	model  string
	voice  string
	codec  string
}

// GeneratorOption configures an OpenAIGenerator.
type GeneratorOption func(*OpenAIGenerator)

// WithVoice sets the synthesis voice (default "alloy").
func WithVoice(voice string) GeneratorOption {
	return func(g *OpenAIGenerator) { g.voice = voice }
}

// WithCodec sets the payload codec requested from the API, one of
// "mp3", "opus", "pcm16", "flac" (default "mp3").
func WithCodec(codec string) GeneratorOption {
	return func(g *OpenAIGenerator) { g.codec = codec }
}

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(url string) GeneratorOption {
	return func(g *OpenAIGenerator) {
		g.client = oai.NewClient(option.WithBaseURL(url), option.WithAPIKey("test"))
	}
}

// NewOpenAIGenerator creates a speech generator backed by the OpenAI
// API.
func NewOpenAIGenerator(apiKey, model string, opts ...GeneratorOption) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("speech: apiKey must not be empty")
	}
	if model == "" {
		model = "tts-1"
	}

	g := &OpenAIGenerator{
		client: oai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		voice:  "alloy",
		codec:  "mp3",
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// Generate synthesizes text and returns the audio payload base64
// encoded, together with its decode format.
func (g *OpenAIGenerator) Generate(ctx context.Context, text string) (string, audio.Format, error) {
	format := audio.SpeechFormat(g.codec)

	respFormat, err := responseFormat(g.codec)
	if err != nil {
		return "", format, err
	}

	res, err := g.client.Audio.Speech.New(ctx, oai.AudioSpeechNewParams{
		Model:          oai.SpeechModel(g.model),
		Input:          text,
		Voice:          oai.AudioSpeechNewParamsVoice(g.voice),
		ResponseFormat: respFormat,
	})
	if err != nil {
		return "", format, fmt.Errorf("speech generation failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", format, fmt.Errorf("reading speech payload: %w", err)
	}
	if len(raw) == 0 {
		return "", format, fmt.Errorf("speech generation returned no data")
	}

	return base64.StdEncoding.EncodeToString(raw), format, nil
}

func responseFormat(codec string) (oai.AudioSpeechNewParamsResponseFormat, error) {
	switch codec {
	case "mp3":
		return oai.AudioSpeechNewParamsResponseFormatMP3, nil
	case "opus":
		return oai.AudioSpeechNewParamsResponseFormatOpus, nil
	case "pcm16":
		return oai.AudioSpeechNewParamsResponseFormatPCM, nil
	case "flac":
		return oai.AudioSpeechNewParamsResponseFormatFLAC, nil
	default:
		return "", fmt.Errorf("unsupported speech codec: %s", codec)
	}
}
