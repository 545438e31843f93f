package narration

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/retry"
	"github.com/snappy-loop/bedtime-stories/internal/speech"
)

var (
	// ErrSuperseded ends a task replaced by a newer Narrate call.
	ErrSuperseded = errors.New("narration superseded by a newer request")
	// ErrStopped ends a task cancelled through Narrator.Stop.
	ErrStopped = errors.New("narration stopped")
)

// Options tunes the narrator's readiness handling.
type Options struct {
	// Retry bounds the wait for the engine to go idle and for a voice to
	// become selectable.
	Retry retry.Policy
	// SpeakDelay is the pause between the last readiness check and Speak.
	SpeakDelay time.Duration
}

// Narrator speaks stories through an engine, one at a time.
type Narrator struct {
	engine  speech.Engine
	catalog *Catalog
	opts    Options

	mu      sync.Mutex
	current *Task
}

// NewNarrator creates a Narrator that picks voices from catalog.
func NewNarrator(engine speech.Engine, catalog *Catalog, opts Options) *Narrator {
	return &Narrator{engine: engine, catalog: catalog, opts: opts}
}

// Narrate starts narrating story and returns immediately. An empty story
// yields an already finished task and no engine call. The previous task, if
// still running, ends with ErrSuperseded.
func (n *Narrator) Narrate(ctx context.Context, story string) *Task {
	if story == "" {
		return finishedTask(nil)
	}

	t := newTask(ctx)
	n.mu.Lock()
	prev := n.current
	n.current = t
	n.mu.Unlock()

	if prev != nil {
		prev.stop(ErrSuperseded)
	}

	go n.run(t, story)
	return t
}

// Current is the most recent task, or nil.
func (n *Narrator) Current() *Task {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Stop ends the current task and silences the engine.
func (n *Narrator) Stop() {
	n.mu.Lock()
	t := n.current
	n.current = nil
	n.mu.Unlock()

	if t != nil {
		t.stop(ErrStopped)
	}
	n.engine.Cancel()
}

func (n *Narrator) run(t *Task, story string) {
	var voice speech.Voice
	err := retry.Until(t.ctx, n.opts.Retry, func() bool {
		if n.engine.Speaking() {
			log.Warn().Msg("Speech already in progress, stopping and restarting")
			n.engine.Cancel()
			return false
		}
		v, ok := n.catalog.Select()
		if !ok {
			log.Warn().Msg("Voices not loaded yet, retrying")
			return false
		}
		voice = v
		return true
	})
	if err != nil {
		if cause := context.Cause(t.ctx); cause != nil {
			err = cause
		}
		log.Error().Err(err).Msg("Narration could not start")
		t.finish(err)
		return
	}

	u := &speech.Utterance{
		Text:   story,
		Voice:  voice,
		Rate:   1,
		Pitch:  1,
		Volume: 1,
		OnEnd: func() {
			log.Info().Msg("Speech completed")
			t.finish(nil)
		},
		OnError: func(err error) {
			log.Error().Err(err).Msg("Speech synthesis error")
			t.finish(err)
		},
	}
	t.setUtterance(u)

	timer := time.NewTimer(n.opts.SpeakDelay)
	select {
	case <-t.ctx.Done():
		timer.Stop()
		t.finish(context.Cause(t.ctx))
		return
	case <-timer.C:
	}
	if t.ctx.Err() != nil {
		t.finish(context.Cause(t.ctx))
		return
	}

	log.Debug().Str("voice", voice.Name).Int("text_length", len(story)).Msg("Submitting utterance")
	n.engine.Speak(u)

	select {
	case <-t.done:
	case <-t.ctx.Done():
		select {
		case <-t.done:
			return
		default:
		}
		cause := context.Cause(t.ctx)
		// a superseding task handles the engine itself
		if !errors.Is(cause, ErrSuperseded) {
			n.engine.Cancel()
		}
		t.finish(cause)
	}
}
