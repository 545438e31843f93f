package storyclient

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeGenerator records prompts and answers through generate.
type fakeGenerator struct {
	mu       sync.Mutex
	prompts  []string
	generate func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.generate != nil {
		return f.generate(ctx, prompt)
	}
	return "story", nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func filledForm(gen Generator, onChange func(FormState)) *Form {
	f := NewForm(gen, onChange)
	f.SetName("Mia")
	f.SetAge("7")
	f.SetStoryType("adventure")
	return f
}

func TestGenerateStory_SendsTemplatePrompt(t *testing.T) {
	gen := &fakeGenerator{}
	f := filledForm(gen, nil)

	f.GenerateStory(context.Background())

	if gen.calls() != 1 {
		t.Fatalf("calls = %d, want 1", gen.calls())
	}
	want := "Create a captivating adventure story for a 7-year-old child named Mia. The story should be engaging, imaginative, and suitable for their age. Keep it fun, adventurous, and full of surprises!"
	if gen.prompts[0] != want {
		t.Errorf("prompt = %q", gen.prompts[0])
	}
	if s := f.State(); s.Story != "story" || s.Loading {
		t.Errorf("state = %+v", s)
	}
}

func TestGenerateStory_BlankFieldsAreNoop(t *testing.T) {
	tests := []struct {
		name, age, storyType string
	}{
		{"", "7", "adventure"},
		{"Mia", "", "adventure"},
		{"Mia", "7", ""},
		{"   ", "7", "adventure"},
		{"Mia", "\t", "adventure"},
		{"Mia", "7", " \n "},
	}
	for _, tt := range tests {
		gen := &fakeGenerator{}
		f := NewForm(gen, nil)
		f.SetName(tt.name)
		f.SetAge(tt.age)
		f.SetStoryType(tt.storyType)

		if f.CanSubmit() {
			t.Errorf("%+v: CanSubmit should be false", tt)
		}
		f.GenerateStory(context.Background())

		if gen.calls() != 0 {
			t.Errorf("%+v: expected zero outbound calls, got %d", tt, gen.calls())
		}
		if s := f.State(); s.Loading || s.Story != "" {
			t.Errorf("%+v: state changed: %+v", tt, s)
		}
	}
}

func TestGenerateStory_LoadingSpansRequest(t *testing.T) {
	for _, fail := range []bool{false, true} {
		var f *Form
		var loadingDuring, submitDuring bool
		gen := &fakeGenerator{generate: func(context.Context, string) (string, error) {
			loadingDuring = f.State().Loading
			submitDuring = f.CanSubmit()
			if fail {
				return "", errors.New("network down")
			}
			return "story", nil
		}}
		f = filledForm(gen, nil)

		f.GenerateStory(context.Background())

		if !loadingDuring {
			t.Errorf("fail=%v: loading should be true while the request is in flight", fail)
		}
		if submitDuring {
			t.Errorf("fail=%v: CanSubmit should be false while loading", fail)
		}
		if f.State().Loading {
			t.Errorf("fail=%v: loading should be cleared after settlement", fail)
		}
	}
}

func TestGenerateStory_FailureShowsMessage(t *testing.T) {
	gen := &fakeGenerator{generate: func(context.Context, string) (string, error) {
		return "", errors.New("relay returned non-success status: 500")
	}}
	f := filledForm(gen, nil)

	f.GenerateStory(context.Background())

	if got := f.State().Story; got != MsgGenerateFailed {
		t.Errorf("story = %q, want %q", got, MsgGenerateFailed)
	}
}

func TestGenerateStory_ClearsPreviousStoryAndNotifies(t *testing.T) {
	var states []FormState
	gen := &fakeGenerator{}
	f := filledForm(gen, func(s FormState) { states = append(states, s) })
	f.GenerateStory(context.Background())
	states = nil

	gen.generate = func(context.Context, string) (string, error) { return "second story", nil }
	f.GenerateStory(context.Background())

	if len(states) != 2 {
		t.Fatalf("notifications = %d, want 2: %+v", len(states), states)
	}
	if !states[0].Loading || states[0].Story != "" {
		t.Errorf("start state = %+v, want loading with cleared story", states[0])
	}
	if states[1].Loading || states[1].Story != "second story" {
		t.Errorf("end state = %+v", states[1])
	}
}

func TestGenerateStory_StaleResponseDiscarded(t *testing.T) {
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})
	gen := &fakeGenerator{generate: func(ctx context.Context, prompt string) (string, error) {
		if prompt == BuildPrompt("adventure", "7", "Mia") {
			close(firstStarted)
			<-releaseFirst
			return "first story", nil
		}
		return "second story", nil
	}}
	f := filledForm(gen, nil)

	done := make(chan struct{})
	go func() {
		f.GenerateStory(context.Background())
		close(done)
	}()
	<-firstStarted

	f.SetStoryType("mystery")
	f.GenerateStory(context.Background())
	close(releaseFirst)
	<-done

	s := f.State()
	if s.Story != "second story" {
		t.Errorf("story = %q, want the latest response", s.Story)
	}
	if s.Loading {
		t.Errorf("loading should be false once the latest request settled")
	}
}
