package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/llm"
)

// Synthesizer turns text into audio; llm.Client implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*llm.Audio, error)
}

// AudioSink plays or stores synthesized audio.
type AudioSink interface {
	Play(ctx context.Context, audio *llm.Audio) error
}

// GeminiVoices are the Gemini TTS prebuilt voices published by GeminiEngine.
var GeminiVoices = []Voice{
	{Name: "Google Zephyr (Bright)", ID: "Zephyr", Lang: "en-US"},
	{Name: "Google Aoede (Breezy)", ID: "Aoede", Lang: "en-US"},
	{Name: "Google Puck (Upbeat)", ID: "Puck", Lang: "en-US"},
	{Name: "Google Kore (Firm)", ID: "Kore", Lang: "en-US"},
	{Name: "Google Leda (Youthful)", ID: "Leda", Lang: "en-US"},
}

// GeminiEngine is an Engine backed by Gemini TTS. Speech is synthesized in
// the background and handed to an AudioSink.
type GeminiEngine struct {
	synth Synthesizer
	sink  AudioSink

	mu       sync.Mutex
	voices   []Voice
	changed  chan struct{}
	speaking bool
	cancel   context.CancelFunc
	seq      uint64
}

// NewGeminiEngine creates an engine with an empty voice list; call Start to
// publish voices.
func NewGeminiEngine(synth Synthesizer, sink AudioSink) *GeminiEngine {
	return &GeminiEngine{
		synth:   synth,
		sink:    sink,
		changed: make(chan struct{}, 1),
	}
}

// Start publishes voices asynchronously and signals VoicesChanged.
func (e *GeminiEngine) Start(voices []Voice) {
	published := append([]Voice(nil), voices...)
	go e.setVoices(published)
}

func (e *GeminiEngine) setVoices(voices []Voice) {
	e.mu.Lock()
	e.voices = voices
	e.mu.Unlock()

	select {
	case e.changed <- struct{}{}:
	default:
	}
	log.Debug().Int("voices", len(voices)).Msg("Voice list updated")
}

func (e *GeminiEngine) Voices() []Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Voice(nil), e.voices...)
}

func (e *GeminiEngine) VoicesChanged() <-chan struct{} {
	return e.changed
}

func (e *GeminiEngine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speaking
}

func (e *GeminiEngine) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Speak cancels whatever is in progress and starts u in the background.
func (e *GeminiEngine) Speak(u *Utterance) {
	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.seq++
	seq := e.seq
	e.speaking = true
	e.cancel = cancel
	e.mu.Unlock()

	go e.run(ctx, seq, u)
}

func (e *GeminiEngine) run(ctx context.Context, seq uint64, u *Utterance) {
	err := e.speak(ctx, u)

	e.mu.Lock()
	if e.seq == seq {
		e.speaking = false
		e.cancel = nil
	}
	e.mu.Unlock()

	if ctx.Err() != nil {
		err = ErrCanceled
	}
	if err != nil {
		if u.OnError != nil {
			u.OnError(err)
		}
		return
	}
	if u.OnEnd != nil {
		u.OnEnd()
	}
}

func (e *GeminiEngine) speak(ctx context.Context, u *Utterance) error {
	audio, err := e.synth.Synthesize(ctx, u.Text, u.Voice.ID)
	if err != nil {
		return err
	}
	if audio == nil {
		return errors.New("synthesizer returned no audio")
	}
	return e.sink.Play(ctx, audio)
}
