// ABOUTME: Audio output using oto library
// ABOUTME: Plays generated WAV streams with software volume control
package player

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// Output manages the single active audio stream. At most one stream
// plays at a time; starting a new one requires stopping the previous
// stream first.
type Output struct {
	mu      sync.Mutex
	otoCtx  *oto.Context
	current *oto.Player
	gen     int
	volume  int
	muted   bool
	ready   bool
}

// NewOutput creates an audio output.
func NewOutput() *Output {
	return &Output{volume: 100}
}

// Initialize sets up oto for the given stream format. oto allows only
// one context per process, so this is done once.
func (o *Output) Initialize(sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// Play starts playback of a WAV byte stream. done is invoked exactly
// once: with nil on natural completion or stop, with an error on a
// playback fault.
func (o *Output) Play(wav []byte, done func(error)) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return fmt.Errorf("output not initialized")
	}
	if len(wav) < audio.WAVHeaderSize {
		return fmt.Errorf("wav stream too short: %d bytes", len(wav))
	}
	if o.current != nil {
		return fmt.Errorf("a stream is already playing")
	}

	pcm := applyVolume(wav[audio.WAVHeaderSize:], o.volume, o.muted)

	player := o.otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	o.current = player
	o.gen++
	gen := o.gen

	go o.watch(player, gen, done)

	return nil
}

// watch polls the active player until it drains, faults, or is stopped.
func (o *Output) watch(player *oto.Player, gen int, done func(error)) {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		o.mu.Lock()
		stopped := o.gen != gen || o.current != player
		o.mu.Unlock()

		if stopped {
			done(nil)
			return
		}

		if err := player.Err(); err != nil {
			o.clear(player)
			_ = player.Close()
			done(fmt.Errorf("playback fault: %w", err))
			return
		}

		if !player.IsPlaying() {
			o.clear(player)
			_ = player.Close()
			done(nil)
			return
		}
	}
}

// Stop halts the active stream, if any.
func (o *Output) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != nil {
		_ = o.current.Close()
		o.current = nil
		o.gen++
	}
}

// clear releases the current player slot if it still belongs to player.
func (o *Output) clear(player *oto.Player) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == player {
		o.current = nil
	}
}

// SetVolume sets the volume (0-100). Takes effect on the next stream.
func (o *Output) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.mu.Lock()
	o.volume = volume
	o.mu.Unlock()
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state. Takes effect on the next stream.
func (o *Output) SetMuted(muted bool) {
	o.mu.Lock()
	o.muted = muted
	o.mu.Unlock()
	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume.
func (o *Output) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// IsMuted returns mute state.
func (o *Output) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

// Close stops playback and suspends the audio device.
func (o *Output) Close() {
	o.Stop()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.otoCtx != nil {
		_ = o.otoCtx.Suspend()
		o.ready = false
	}
}

// applyVolume scales 16-bit PCM bytes by volume and mute state.
func applyVolume(pcm []byte, volume int, muted bool) []byte {
	multiplier := getVolumeMultiplier(volume, muted)
	if multiplier == 1.0 {
		return pcm
	}

	result := make([]byte, len(pcm))
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		scaled := int16(float64(sample) * multiplier)
		binary.LittleEndian.PutUint16(result[i:], uint16(scaled))
	}

	return result
}

// getVolumeMultiplier calculates volume multiplier.
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
