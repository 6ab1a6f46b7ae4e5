// ABOUTME: Tests for audio output
// ABOUTME: Tests volume control and WAV payload handling
package player

import (
	"encoding/binary"
	"testing"
)

func TestVolumeMultiplier(t *testing.T) {
	tests := []struct {
		volume   int
		muted    bool
		expected float64
	}{
		{100, false, 1.0},
		{50, false, 0.5},
		{0, false, 0.0},
		{80, true, 0.0}, // Muted overrides volume
	}

	for _, tt := range tests {
		result := getVolumeMultiplier(tt.volume, tt.muted)
		if result != tt.expected {
			t.Errorf("volume=%d, muted=%v: expected %f, got %f",
				tt.volume, tt.muted, tt.expected, result)
		}
	}
}

func TestApplyVolume(t *testing.T) {
	pcm := make([]byte, 8)
	binary.LittleEndian.PutUint16(pcm[0:], uint16(int16(1000)))
	binary.LittleEndian.PutUint16(pcm[2:], uint16(int16(-1000)))
	binary.LittleEndian.PutUint16(pcm[4:], uint16(int16(500)))
	binary.LittleEndian.PutUint16(pcm[6:], uint16(int16(-500)))

	result := applyVolume(pcm, 50, false)

	if got := int16(binary.LittleEndian.Uint16(result[0:])); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(result[2:])); got != -500 {
		t.Errorf("expected -500, got %d", got)
	}
}

func TestApplyVolumeFullPassthrough(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	result := applyVolume(pcm, 100, false)

	for i := range pcm {
		if result[i] != pcm[i] {
			t.Fatalf("byte %d changed at full volume", i)
		}
	}
}

func TestPlayRequiresInitialize(t *testing.T) {
	o := NewOutput()
	err := o.Play(make([]byte, 64), func(error) {})
	if err == nil {
		t.Error("expected error when output not initialized")
	}
}
