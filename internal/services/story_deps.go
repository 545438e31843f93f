package services

import "context"

// storyGenerator is the subset of the LLM client used by StoryService.
type storyGenerator interface {
	GenerateStory(ctx context.Context, prompt string) (string, error)
}
