package speech

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snappy-loop/bedtime-stories/internal/llm"
)

// fakeSynth is a Synthesizer whose behavior is set per test.
type fakeSynth struct {
	synthesize func(ctx context.Context, text, voice string) (*llm.Audio, error)
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice string) (*llm.Audio, error) {
	if f.synthesize != nil {
		return f.synthesize(ctx, text, voice)
	}
	data := []byte("RIFF....WAVE")
	return &llm.Audio{Data: bytes.NewReader(data), Size: int64(len(data)), MimeType: "audio/wav"}, nil
}

func waitFor(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for utterance callback")
		return nil
	}
}

func TestGeminiEngine_StartPublishesVoices(t *testing.T) {
	e := NewGeminiEngine(&fakeSynth{}, nil)
	if len(e.Voices()) != 0 {
		t.Fatalf("expected empty voice list before Start")
	}

	e.Start(GeminiVoices)

	select {
	case <-e.VoicesChanged():
	case <-time.After(2 * time.Second):
		t.Fatal("VoicesChanged never fired")
	}
	if got := e.Voices(); len(got) != len(GeminiVoices) || got[0] != GeminiVoices[0] {
		t.Errorf("voices = %v", got)
	}
}

func TestGeminiEngine_SpeakWritesFileAndEnds(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	voices := make(chan string, 1)
	synth := &fakeSynth{synthesize: func(ctx context.Context, text, voice string) (*llm.Audio, error) {
		voices <- voice
		data := []byte("RIFF....WAVE")
		return &llm.Audio{Data: bytes.NewReader(data), Size: int64(len(data)), MimeType: "audio/wav"}, nil
	}}
	e := NewGeminiEngine(synth, sink)

	done := make(chan error, 1)
	e.Speak(&Utterance{
		Text:    "Goodnight, Mia.",
		Voice:   GeminiVoices[0],
		OnEnd:   func() { done <- nil },
		OnError: func(err error) { done <- err },
	})

	if err := waitFor(t, done); err != nil {
		t.Fatalf("utterance failed: %v", err)
	}
	if got := <-voices; got != "Zephyr" {
		t.Errorf("voice id = %q", got)
	}
	if e.Speaking() {
		t.Errorf("engine still speaking after OnEnd")
	}
	path := sink.LastPath()
	if filepath.Dir(path) != dir {
		t.Fatalf("narration written to %q, want dir %q", path, dir)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "RIFF....WAVE" {
		t.Errorf("file contents = %q, err %v", data, err)
	}
}

func TestGeminiEngine_CancelReportsError(t *testing.T) {
	started := make(chan struct{})
	synth := &fakeSynth{synthesize: func(ctx context.Context, text, voice string) (*llm.Audio, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	e := NewGeminiEngine(synth, nil)

	done := make(chan error, 1)
	e.Speak(&Utterance{
		Text:    "A long story",
		OnEnd:   func() { done <- nil },
		OnError: func(err error) { done <- err },
	})
	<-started
	if !e.Speaking() {
		t.Fatal("expected Speaking while synthesizing")
	}

	e.Cancel()

	if err := waitFor(t, done); !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if e.Speaking() {
		t.Errorf("engine still speaking after cancel")
	}
}

func TestGeminiEngine_SynthesisErrorReported(t *testing.T) {
	boom := errors.New("quota exceeded")
	e := NewGeminiEngine(&fakeSynth{synthesize: func(context.Context, string, string) (*llm.Audio, error) {
		return nil, boom
	}}, nil)

	done := make(chan error, 1)
	e.Speak(&Utterance{
		Text:    "story",
		OnEnd:   func() { done <- nil },
		OnError: func(err error) { done <- err },
	})

	if err := waitFor(t, done); !errors.Is(err, boom) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
}
