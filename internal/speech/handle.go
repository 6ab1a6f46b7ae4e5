// ABOUTME: Playable audio handle
// ABOUTME: Opaque reference to a generated WAV stream with explicit release
package speech

import "sync"

// Handle is an opaque reference to a playable generated audio stream.
// Handles are created by the generation pipeline and owned by the
// cache once stored; a handle that loses the cache race must be
// released by its creator.
type Handle struct {
	id string

	mu       sync.Mutex
	wav      []byte
	released bool
}

// NewHandle wraps WAV bytes for the given identifier.
func NewHandle(id string, wav []byte) *Handle {
	return &Handle{id: id, wav: wav}
}

// ID returns the identifier this handle was generated for.
func (h *Handle) ID() string {
	return h.id
}

// WAV returns the playable byte stream, or nil after release.
func (h *Handle) WAV() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.wav
}

// Release frees the underlying stream. Safe to call more than once.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wav = nil
	h.released = true
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
