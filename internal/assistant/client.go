package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to an OpenAI-compatible chat/completions endpoint.
type Client struct {
	BaseURL     string
	APIKey      string
	Model       string
	ImageModel  string
	Temperature float64

	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model, imageModel string, temperature float64) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Model:       model,
		ImageModel:  imageModel,
		Temperature: temperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// complete runs one chat/completions round trip. extra is merged into
// the request body, for tools and response_format.
func (c *Client) complete(ctx context.Context, messages []chatMessage, extra map[string]any) (*chatResponse, error) {
	body := map[string]any{
		"model":       c.Model,
		"temperature": c.Temperature,
		"messages":    messages,
	}
	for k, v := range extra {
		body[k] = v
	}

	raw, err := c.post(ctx, c.BaseURL+"/chat/completions", body)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}
	return &resp, nil
}

// GenerateImage asks the images endpoint for a single image and
// returns its URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":  c.ImageModel,
		"prompt": prompt,
		"n":      1,
		"size":   "512x512",
	}

	raw, err := c.post(ctx, c.BaseURL+"/images/generations", body)
	if err != nil {
		return "", err
	}

	var resp struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("no image in response")
	}
	return resp.Data[0].URL, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant http error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("assistant status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}
