// ABOUTME: YAML configuration for the studyhall client
// ABOUTME: Loads, defaults and validates the user-facing settings file
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// validCodecs lists the speech payload codecs the decode layer supports.
var validCodecs = []string{"mp3", "opus", "pcm16", "flac"}

// Config holds all user-facing settings for the client.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Speech  SpeechConfig  `yaml:"speech"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig points the client at the community service.
type ServiceConfig struct {
	// BaseURL is the HTTP base of the community API, e.g. "http://localhost:8765".
	BaseURL string `yaml:"base_url"`
	// WSURL is the websocket endpoint for the live feed. Derived from
	// BaseURL when empty.
	WSURL string `yaml:"ws_url"`
}

// OpenAIConfig configures the tutor and speech backends.
type OpenAIConfig struct {
	// APIKey falls back to the OPENAI_API_KEY environment variable when empty.
	APIKey      string `yaml:"api_key"`
	ChatModel   string `yaml:"chat_model"`
	SpeechModel string `yaml:"speech_model"`
	Voice       string `yaml:"voice"`
}

// SpeechConfig configures read-aloud playback.
type SpeechConfig struct {
	// Codec is the payload format requested from the speech API,
	// one of "mp3", "opus", "pcm16", "flac".
	Codec string `yaml:"codec"`
}

// LogConfig configures the debug log file.
type LogConfig struct {
	File string `yaml:"file"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{BaseURL: "http://localhost:8765"},
		OpenAI: OpenAIConfig{
			ChatModel:   "gpt-4o-mini",
			SpeechModel: "tts-1",
			Voice:       "alloy",
		},
		Speech: SpeechConfig{Codec: "mp3"},
	}
}

// Load reads the YAML configuration file at path and returns a
// validated Config. A missing file is not an error; the defaults are
// returned instead.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			applyEnv(cfg)
			return cfg, Validate(cfg)
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and
// the environment fallback, and validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file, defaults apply.
		} else {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	}
	applyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It
// returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Service.BaseURL == "" {
		errs = append(errs, errors.New("service.base_url must not be empty"))
	} else if !strings.HasPrefix(cfg.Service.BaseURL, "http://") && !strings.HasPrefix(cfg.Service.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("service.base_url %q must start with http:// or https://", cfg.Service.BaseURL))
	}
	if !slices.Contains(validCodecs, cfg.Speech.Codec) {
		errs = append(errs, fmt.Errorf("speech.codec %q is invalid; valid values: mp3, opus, pcm16, flac", cfg.Speech.Codec))
	}

	return errors.Join(errs...)
}

// WebsocketURL returns the live feed endpoint, deriving it from the
// API base when not set explicitly.
func (c *Config) WebsocketURL() string {
	if c.Service.WSURL != "" {
		return c.Service.WSURL
	}
	base := c.Service.BaseURL
	switch {
	case len(base) > 8 && base[:8] == "https://":
		return "wss://" + base[8:] + "/ws"
	case len(base) > 7 && base[:7] == "http://":
		return "ws://" + base[7:] + "/ws"
	}
	return base + "/ws"
}

func applyEnv(cfg *Config) {
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
