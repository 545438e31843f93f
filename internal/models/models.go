package models

// GenerateRequest represents the body of POST /generate
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse represents a successful story generation
type GenerateResponse struct {
	Story string `json:"story"`
}

// ErrorResponse is the body of every non-2xx relay response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
