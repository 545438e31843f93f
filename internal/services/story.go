package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/llm"
	"github.com/snappy-loop/bedtime-stories/internal/metrics"
	"github.com/snappy-loop/bedtime-stories/internal/models"
)

// MsgPromptRequired is the validation message for a missing prompt.
const MsgPromptRequired = "Prompt is required"

// StoryService relays prompts to the generator. It keeps no state between calls.
type StoryService struct {
	generator storyGenerator
}

// NewStoryService creates a new StoryService
func NewStoryService(generator storyGenerator) *StoryService {
	return &StoryService{generator: generator}
}

// Generate validates prompt, makes exactly one generator call and returns the story.
func (s *StoryService) Generate(ctx context.Context, prompt string) (*models.GenerateResponse, error) {
	if prompt == "" {
		metrics.GenerateRequestsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, &ValidationError{Message: MsgPromptRequired}
	}

	start := time.Now()
	story, err := s.generator.GenerateStory(ctx, prompt)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerateRequestsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Debug().Err(err).Int("prompt_length", len(prompt)).Msg("Story generation failed upstream")
		return nil, &GenerationError{Err: err}
	}

	if story == "" {
		story = llm.FallbackStory
	}
	outcome := metrics.OutcomeSuccess
	if story == llm.FallbackStory {
		outcome = metrics.OutcomeFallback
	}
	metrics.GenerateRequestsTotal.WithLabelValues(outcome).Inc()

	log.Info().
		Int("prompt_length", len(prompt)).
		Int("story_length", len(story)).
		Dur("elapsed", time.Since(start)).
		Msg("Story generated")

	return &models.GenerateResponse{Story: story}, nil
}
