package narration

import (
	"sync"

	"github.com/snappy-loop/bedtime-stories/internal/speech"
)

// fakeEngine is a scriptable speech.Engine. Utterances stay "speaking" until
// the test calls finish.
type fakeEngine struct {
	mu        sync.Mutex
	voices    []speech.Voice
	voicesFn  func(calls int) []speech.Voice
	voiceCall int
	speaking  bool
	cancels   int
	spoken    []*speech.Utterance
	changed   chan struct{}
	spokeCh   chan *speech.Utterance
}

func newFakeEngine(voices ...speech.Voice) *fakeEngine {
	return &fakeEngine{
		voices:  voices,
		changed: make(chan struct{}, 1),
		spokeCh: make(chan *speech.Utterance, 8),
	}
}

func (f *fakeEngine) Voices() []speech.Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voiceCall++
	if f.voicesFn != nil {
		return f.voicesFn(f.voiceCall)
	}
	return append([]speech.Voice(nil), f.voices...)
}

func (f *fakeEngine) setVoices(voices []speech.Voice) {
	f.mu.Lock()
	f.voices = voices
	f.mu.Unlock()
	f.changed <- struct{}{}
}

func (f *fakeEngine) VoicesChanged() <-chan struct{} { return f.changed }

func (f *fakeEngine) Speaking() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speaking
}

func (f *fakeEngine) setSpeaking(v bool) {
	f.mu.Lock()
	f.speaking = v
	f.mu.Unlock()
}

func (f *fakeEngine) Cancel() {
	f.mu.Lock()
	f.cancels++
	f.speaking = false
	f.mu.Unlock()
}

func (f *fakeEngine) Speak(u *speech.Utterance) {
	f.mu.Lock()
	f.speaking = true
	f.spoken = append(f.spoken, u)
	f.mu.Unlock()
	f.spokeCh <- u
}

// finish completes u as the engine would, with err == nil meaning success.
func (f *fakeEngine) finish(u *speech.Utterance, err error) {
	f.setSpeaking(false)
	if err != nil {
		u.OnError(err)
		return
	}
	u.OnEnd()
}

func (f *fakeEngine) stats() (cancels, spoken int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancels, len(f.spoken)
}
