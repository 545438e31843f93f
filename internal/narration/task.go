package narration

import (
	"context"
	"sync"

	"github.com/snappy-loop/bedtime-stories/internal/speech"
)

// Task is the handle for one narration request. It owns the in-flight
// utterance so the engine's callbacks stay reachable until speech ends.
type Task struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	done   chan struct{}
	once   sync.Once

	mu        sync.Mutex
	err       error
	utterance *speech.Utterance
}

func newTask(parent context.Context) *Task {
	ctx, cancel := context.WithCancelCause(parent)
	return &Task{ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

func finishedTask(err error) *Task {
	t := newTask(context.Background())
	t.finish(err)
	return t
}

// finish records err and closes Done; only the first call has an effect.
func (t *Task) finish(err error) {
	t.once.Do(func() {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		t.cancel(err)
		close(t.done)
	})
}

// stop ends the task with cause unless it has already finished.
func (t *Task) stop(cause error) {
	t.cancel(cause)
	t.finish(cause)
}

func (t *Task) setUtterance(u *speech.Utterance) {
	t.mu.Lock()
	t.utterance = u
	t.mu.Unlock()
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err is nil while running and after a successful narration.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Utterance is the utterance submitted for this task, or nil if none was.
func (t *Task) Utterance() *speech.Utterance {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.utterance
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
