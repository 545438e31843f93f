package storyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/snappy-loop/bedtime-stories/internal/models"
)

// ErrRelayStatus is returned for any non-2xx relay response.
var ErrRelayStatus = errors.New("relay returned non-success status")

// RelayClient calls the story relay over HTTP.
type RelayClient struct {
	baseURL string
	httpCli *http.Client
}

// NewRelayClient creates a client for the relay at baseURL (e.g.
// http://localhost:8080). timeout of 0 leaves requests unbounded.
func NewRelayClient(baseURL string, timeout time.Duration) *RelayClient {
	return &RelayClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpCli: &http.Client{Timeout: timeout},
	}
}

// Generate posts prompt to /generate and returns the story.
func (c *RelayClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(models.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %d", ErrRelayStatus, resp.StatusCode)
	}

	var out models.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode relay response: %w", err)
	}
	return out.Story, nil
}
