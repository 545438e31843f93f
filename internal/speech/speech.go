// Package speech models the host speech-synthesis subsystem the narrator
// talks to: a voice catalog that may fill in late, a single speaking slot and
// utterances that report completion through callbacks.
package speech

import "errors"

// ErrCanceled is reported to an utterance's OnError when Cancel interrupts it.
var ErrCanceled = errors.New("speech canceled")

// Voice is one narration voice offered by an engine.
type Voice struct {
	Name string // display name, e.g. "Google Zephyr (Bright)"
	ID   string // engine voice id, e.g. "Zephyr"
	Lang string
}

// Utterance is a single unit of text submitted to an engine.
type Utterance struct {
	Text   string
	Voice  Voice
	Rate   float64
	Pitch  float64
	Volume float64

	// OnEnd runs once speech finishes normally. OnError runs instead when
	// synthesis or playback fails or the utterance is canceled.
	OnEnd   func()
	OnError func(error)
}

// Engine is the host speech subsystem.
type Engine interface {
	// Voices returns the current voice list; it may be empty until the
	// engine has finished loading.
	Voices() []Voice
	// VoicesChanged fires whenever the voice list is replaced.
	VoicesChanged() <-chan struct{}
	// Speaking reports whether an utterance is in progress.
	Speaking() bool
	// Cancel stops the utterance in progress, if any.
	Cancel()
	// Speak starts u and returns without waiting for it to finish.
	Speak(u *Utterance)
}
