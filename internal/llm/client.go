package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// FallbackStory is returned when Gemini answers without any candidate text.
const FallbackStory = "No story generated."

// maxGeminiResponseLogBytes is the max length of a Gemini response body to log in full (to avoid huge logs).
const maxGeminiResponseLogBytes = 8192

// logGeminiResponse logs Gemini response text at debug level, truncating if over maxGeminiResponseLogBytes.
func logGeminiResponse(caller, raw string) {
	if len(raw) <= maxGeminiResponseLogBytes {
		log.Debug().Str("caller", caller).Str("gemini_response", raw).Msg("Gemini response")
		return
	}
	log.Debug().
		Str("caller", caller).
		Str("gemini_response", raw[:maxGeminiResponseLogBytes]+"... [truncated]").
		Int("gemini_response_len", len(raw)).
		Msg("Gemini response")
}

// Options configures a Client.
type Options struct {
	APIKey     string
	Endpoint   string // optional base URL override, e.g. http://host.docker.internal:31300/gemini
	Model      string // text model, e.g. gemini-1.5-flash
	ModelTTS   string // TTS model, e.g. gemini-2.5-flash-preview-tts
	HTTPClient *http.Client
}

// Client wraps the unified Gemini API client
type Client struct {
	model    string
	modelTTS string
	genai    *genai.Client
}

// Audio represents synthesized speech
type Audio struct {
	Data     io.Reader
	Size     int64
	Duration float64
	Model    string
	MimeType string // e.g. "audio/wav"
}

// NewClient creates a new LLM client backed by the Gemini API.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Model == "" {
		opts.Model = "gemini-1.5-flash"
	}
	if opts.ModelTTS == "" {
		opts.ModelTTS = "gemini-2.5-flash-preview-tts"
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.Endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.Endpoint}
	}

	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	log.Info().
		Str("model", opts.Model).
		Str("model_tts", opts.ModelTTS).
		Str("api_endpoint", opts.Endpoint).
		Msg("LLM client initialized")

	return &Client{
		model:    opts.Model,
		modelTTS: opts.ModelTTS,
		genai:    gc,
	}, nil
}

// GenerateStory sends prompt as the only part of a single-turn request and
// returns the text of the first candidate's first part. A response without
// that text yields FallbackStory. Transport and API failures are returned
// as-is; there are no retries.
func (c *Client) GenerateStory(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	story := firstCandidateText(resp)
	if story == "" {
		log.Warn().Str("model", c.model).Msg("Gemini returned no candidate text, using fallback")
		return FallbackStory, nil
	}
	logGeminiResponse("GenerateStory", story)
	return story, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return ""
	}
	return cand.Content.Parts[0].Text
}
