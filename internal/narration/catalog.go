package narration

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/retry"
	"github.com/snappy-loop/bedtime-stories/internal/speech"
)

// preferredVoiceMarker picks a voice by display name when one is available.
const preferredVoiceMarker = "Google"

// Catalog holds the engine's voice list as last observed.
type Catalog struct {
	engine speech.Engine
	policy retry.Policy

	mu     sync.RWMutex
	voices []speech.Voice
}

// NewCatalog creates an empty catalog; policy bounds Load's polling.
func NewCatalog(engine speech.Engine, policy retry.Policy) *Catalog {
	return &Catalog{engine: engine, policy: policy}
}

// Load reads the engine's voices, re-checking on the policy's schedule
// while the list is empty.
func (c *Catalog) Load(ctx context.Context) error {
	err := retry.Until(ctx, c.policy, func() bool {
		voices := c.engine.Voices()
		if len(voices) == 0 {
			log.Debug().Msg("Voices not available yet")
			return false
		}
		c.set(voices)
		return true
	})
	if err != nil {
		return err
	}
	log.Info().Int("voices", c.Len()).Msg("Voice catalog loaded")
	return nil
}

// Watch replaces the catalog with the engine's list every time the engine
// signals a change, until ctx ends. It blocks.
func (c *Catalog) Watch(ctx context.Context) {
	changed := c.engine.VoicesChanged()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			voices := c.engine.Voices()
			c.set(voices)
			log.Debug().Int("voices", len(voices)).Msg("Voice catalog refreshed")
		}
	}
}

func (c *Catalog) set(voices []speech.Voice) {
	c.mu.Lock()
	c.voices = append([]speech.Voice(nil), voices...)
	c.mu.Unlock()
}

// Voices returns a copy of the catalog.
func (c *Catalog) Voices() []speech.Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]speech.Voice(nil), c.voices...)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.voices)
}

// Select returns the first voice whose name contains "Google", otherwise the
// first voice. ok is false when the catalog is empty.
func (c *Catalog) Select() (speech.Voice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.voices {
		if strings.Contains(v.Name, preferredVoiceMarker) {
			return v, true
		}
	}
	if len(c.voices) == 0 {
		return speech.Voice{}, false
	}
	return c.voices[0], true
}
