package storyclient

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// MsgGenerateFailed is shown in place of a story when the request fails.
const MsgGenerateFailed = "Failed to generate story. Please try again."

// Generator produces a story for a prompt; RelayClient implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FormState is a snapshot of the story form.
type FormState struct {
	Name      string
	Age       string
	StoryType string
	Loading   bool
	Story     string
}

// Form holds the story form and runs story requests against a Generator.
// Every submission is numbered; only the latest one may update the form.
type Form struct {
	gen      Generator
	onChange func(FormState)

	mu    sync.Mutex
	state FormState
	seq   uint64
}

// NewForm creates an empty form. onChange, if set, receives a snapshot after
// every state change; it is called without the form's lock held.
func NewForm(gen Generator, onChange func(FormState)) *Form {
	return &Form{gen: gen, onChange: onChange}
}

func (f *Form) SetName(v string) {
	f.update(func(s *FormState) { s.Name = v })
}

func (f *Form) SetAge(v string) {
	f.update(func(s *FormState) { s.Age = v })
}

func (f *Form) SetStoryType(v string) {
	f.update(func(s *FormState) { s.StoryType = v })
}

// State returns a snapshot of the form.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CanSubmit mirrors the submit button: disabled while loading or while any
// field is blank.
func (f *Form) CanSubmit() bool {
	s := f.State()
	return !s.Loading && fieldsFilled(s)
}

// GenerateStory requests a story for the current fields and blocks until it
// settles. It does nothing when a field is blank. A submission that is no
// longer the latest when it settles leaves the form untouched.
func (f *Form) GenerateStory(ctx context.Context) {
	f.mu.Lock()
	if !fieldsFilled(f.state) {
		f.mu.Unlock()
		return
	}
	f.seq++
	seq := f.seq
	prompt := BuildPrompt(f.state.StoryType, f.state.Age, f.state.Name)
	f.state.Loading = true
	f.state.Story = ""
	snapshot := f.state
	f.mu.Unlock()
	f.notify(snapshot)

	story, err := f.gen.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Uint64("seq", seq).Msg("Error generating story")
		story = MsgGenerateFailed
	}

	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		log.Debug().Uint64("seq", seq).Msg("Discarding stale story response")
		return
	}
	f.state.Story = story
	f.state.Loading = false
	snapshot = f.state
	f.mu.Unlock()
	f.notify(snapshot)
}

func (f *Form) update(apply func(*FormState)) {
	f.mu.Lock()
	apply(&f.state)
	snapshot := f.state
	f.mu.Unlock()
	f.notify(snapshot)
}

func (f *Form) notify(s FormState) {
	if f.onChange != nil {
		f.onChange(s)
	}
}

func fieldsFilled(s FormState) bool {
	return strings.TrimSpace(s.Name) != "" &&
		strings.TrimSpace(s.Age) != "" &&
		strings.TrimSpace(s.StoryType) != ""
}
