// ABOUTME: Playback controller state machine
// ABOUTME: Sequences generate-or-cache, play, and stop for one stream at a time
package speech

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio/decode"
)

// Failure taxonomy. All failures are terminal for the current request:
// the controller returns to Idle and surfaces a message, never crashes.
var (
	ErrGenerationFailed = errors.New("generation failed")
	ErrPlaybackFault    = errors.New("playback fault")
)

// State is the playback controller state.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StatePlaying
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Status is the controller's externally visible state. Generating and
// Playing are mutually exclusive across all ids; ID is empty when Idle.
type Status struct {
	State State
	ID    string
}

// Player is the audio output the controller drives.
type Player interface {
	// Play starts a stream and reports completion or fault through
	// done, exactly once.
	Play(wav []byte, done func(error)) error

	// Stop halts the active stream.
	Stop()
}

type eventKind int

const (
	evRequest eventKind = iota
	evGenerated
	evGenFailed
	evPlayDone
	evPlayErr
	evShutdown
)

type event struct {
	kind eventKind
	seq  int
	id   string
	text string
	wav  []byte
	err  error
}

// Controller owns the single active audio stream. All transitions run
// on one event-processing goroutine, so UI-visible state changes are
// applied in the order their triggering events are observed and no two
// streams can be active at once.
type Controller struct {
	gen    Generator
	cache  *Cache
	player Player

	onState func(Status)
	onError func(id string, err error)

	events chan event
	done   chan struct{}
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// OnState registers a callback for state transitions. Invoked from the
// controller's event goroutine.
func OnState(fn func(Status)) ControllerOption {
	return func(c *Controller) { c.onState = fn }
}

// OnError registers a callback for surfaced failures. Invoked from the
// controller's event goroutine.
func OnError(fn func(id string, err error)) ControllerOption {
	return func(c *Controller) { c.onError = fn }
}

// NewController creates a playback controller and starts its event
// loop. Initial state is Idle.
func NewController(gen Generator, cache *Cache, player Player, opts ...ControllerOption) *Controller {
	c := &Controller{
		gen:     gen,
		cache:   cache,
		player:  player,
		onState: func(Status) {},
		onError: func(string, error) {},
		events:  make(chan event, 16),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}

	go c.run()
	return c
}

// Toggle requests playback for id. If id is currently playing it is
// stopped instead. Any other active stream is stopped before the new
// one starts. text is the source text used on a cache miss.
func (c *Controller) Toggle(id, text string) {
	c.post(event{kind: evRequest, id: id, text: text})
}

// Close stops the active stream and shuts the controller down.
func (c *Controller) Close() {
	c.post(event{kind: evShutdown})
	<-c.done
}

func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// run is the single event-processing loop.
func (c *Controller) run() {
	state := StateIdle
	activeID := ""
	seq := 0

	notify := func() {
		st := Status{State: state}
		if state != StateIdle {
			st.ID = activeID
		}
		c.onState(st)
	}

	stop := func() {
		c.player.Stop()
		seq++
		state = StateIdle
		activeID = ""
	}

	startPlayback := func(id string, h *Handle) {
		seq++
		playSeq := seq
		err := c.player.Play(h.WAV(), func(playErr error) {
			if playErr != nil {
				c.post(event{kind: evPlayErr, seq: playSeq, id: id, err: playErr})
				return
			}
			c.post(event{kind: evPlayDone, seq: playSeq, id: id})
		})
		if err != nil {
			state = StateIdle
			activeID = ""
			c.onError(id, fmt.Errorf("%w: %v", ErrPlaybackFault, err))
			notify()
			return
		}
		state = StatePlaying
		activeID = id
		notify()
	}

	for ev := range c.events {
		switch ev.kind {
		case evRequest:
			if state == StatePlaying {
				prev := activeID
				stop()
				notify()
				if prev == ev.id {
					// Toggled the playing stream off.
					continue
				}
			}
			if state == StateGenerating {
				if activeID == ev.id {
					// Already generating this id.
					continue
				}
				// Abandon interest in the previous generation; the
				// in-flight request itself cannot be cancelled.
				seq++
			}

			if h := c.cache.Get(ev.id); h != nil {
				startPlayback(ev.id, h)
				continue
			}

			seq++
			state = StateGenerating
			activeID = ev.id
			notify()
			go c.generate(seq, ev.id, ev.text)

		case evGenerated:
			h := NewHandle(ev.id, ev.wav)
			winner, stored := c.cache.Put(ev.id, h)
			if !stored {
				// A concurrent generation won the race; the new
				// handle is orphaned and must not leak.
				h.Release()
			}
			if ev.seq != seq || state != StateGenerating {
				// Superseded while generating; cached for later, not
				// played.
				continue
			}
			startPlayback(ev.id, winner)

		case evGenFailed:
			if ev.seq != seq || state != StateGenerating {
				continue
			}
			state = StateIdle
			activeID = ""
			c.onError(ev.id, fmt.Errorf("%w: %v", ErrGenerationFailed, ev.err))
			notify()

		case evPlayDone:
			if ev.seq != seq || state != StatePlaying {
				continue
			}
			state = StateIdle
			activeID = ""
			notify()

		case evPlayErr:
			if ev.seq != seq || state != StatePlaying {
				continue
			}
			state = StateIdle
			activeID = ""
			c.onError(ev.id, fmt.Errorf("%w: %v", ErrPlaybackFault, ev.err))
			notify()

		case evShutdown:
			if state == StatePlaying {
				c.player.Stop()
			}
			state = StateIdle
			activeID = ""
			notify()
			close(c.done)
			return
		}
	}
}

// generate runs the generation pipeline off the event loop. No
// client-side timeout is imposed on the external call; a request that
// never returns is abandoned, not cancelled.
func (c *Controller) generate(seq int, id, text string) {
	wav, err := synthesize(context.Background(), c.gen, text)
	if err != nil {
		log.Printf("Generation failed for %s: %v", id, err)
		c.post(event{kind: evGenFailed, seq: seq, id: id, err: err})
		return
	}
	c.post(event{kind: evGenerated, seq: seq, id: id, wav: wav})
}

// synthesize runs generate -> decode -> WAV encode.
func synthesize(ctx context.Context, gen Generator, text string) ([]byte, error) {
	payload, format, err := gen.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	buf, err := decode.Base64(format, payload)
	if err != nil {
		return nil, fmt.Errorf("decoding speech payload: %w", err)
	}

	wav, err := audio.EncodeWAV(buf)
	if err != nil {
		return nil, fmt.Errorf("encoding speech audio: %w", err)
	}

	return wav, nil
}
