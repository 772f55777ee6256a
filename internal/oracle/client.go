// Package oracle calls the external vision-language model that judges meal
// photos. The model is opaque; this package owns the request shape, the
// deadline, and the mapping of every failure mode onto OracleError.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"platefeed/internal/config"
	"platefeed/internal/models"
	"platefeed/internal/observability"
)

// Judge produces a meal judgement from a pair of meal photos.
type Judge interface {
	JudgeMeal(ctx context.Context, frontImage, backImage string) (*models.Judgement, error)
}

// Client is an HTTP client for an OpenAI-compatible chat completions endpoint
// with vision support.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	http    *http.Client
}

// NewClient returns a Judge backed by the configured completions endpoint.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.OracleBaseURL,
		apiKey:  cfg.OracleAPIKey,
		model:   cfg.OracleModel,
		timeout: cfg.OracleTimeout(),
		http:    &http.Client{},
	}
}

const judgementPrompt = `You are given two photos of a meal: the plate and its nutrition label or packaging.
Estimate the meal's nutritional content and respond with a single JSON object with these fields:
food_name (string), calories (integer), health_score (number 0-10), ingredients (comma-separated string),
chal1 (bool, meal includes vegetables), chal2 (bool, meal contains wholegrains),
chal3 (bool, meal contains protein), chal4 (bool, meal contains no fried food),
total_chals (number, count of true challenge fields).`

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// JudgeMeal sends both meal photos to the model and parses its structured
// verdict. Any failure, including the deadline expiring, surfaces as
// OracleError; the caller must not have mutated any state yet.
func (c *Client) JudgeMeal(ctx context.Context, frontImage, backImage string) (*models.Judgement, error) {
	start := time.Now()
	span, ctx := observability.NewSpan(ctx, "oracle.judge_meal")
	defer span.End()
	span.AddAttributes(attribute.String("oracle.model", c.model))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: judgementPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: frontImage}},
				{Type: "image_url", ImageURL: &imageURL{URL: backImage}},
			},
		}},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		observability.RecordOracleRequest("error", start)
		return nil, models.NewOracleError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		observability.RecordOracleRequest("error", start)
		return nil, models.NewOracleError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		observability.RecordOracleRequest(outcome, start)
		span.SetError(err)
		return nil, models.NewOracleError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		observability.RecordOracleRequest("error", start)
		span.SetError(err)
		return nil, models.NewOracleError(err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("oracle returned status %d: %s", resp.StatusCode, body)
		observability.RecordOracleRequest("error", start)
		span.SetError(err)
		return nil, models.NewOracleError(err)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		observability.RecordOracleRequest("malformed", start)
		span.SetError(err)
		return nil, models.NewOracleError(err)
	}
	if len(completion.Choices) == 0 {
		err := errors.New("oracle response has no choices")
		observability.RecordOracleRequest("malformed", start)
		span.SetError(err)
		return nil, models.NewOracleError(err)
	}

	var judgement models.Judgement
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &judgement); err != nil {
		observability.RecordOracleRequest("malformed", start)
		span.SetError(err)
		return nil, models.NewOracleError(err)
	}
	if err := judgement.Validate(); err != nil {
		observability.RecordOracleRequest("malformed", start)
		span.SetError(err)
		return nil, models.NewOracleError(err)
	}

	observability.RecordOracleRequest("ok", start)
	return &judgement, nil
}
