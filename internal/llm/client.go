package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is a client for the OpenAI chat and text completion APIs.
// The API key is passed per call because it lives in the user's settings.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new OpenAI client. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// StreamChat sends a streaming chat completion request. On a 2xx response it
// returns a Stream over the body, which the caller must Close. Non-2xx
// responses are returned as *APIError.
func (c *Client) StreamChat(ctx context.Context, apiKey string, req ChatRequest) (*Stream, error) {
	req.Stream = true

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/v1/chat/completions", apiKey, req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() {
			_ = resp.Body.Close()
		}()
		return nil, parseAPIError(resp)
	}

	return NewStream(resp.Body), nil
}

// Complete sends a text completion request and returns the whole response.
func (c *Client) Complete(ctx context.Context, apiKey string, req CompletionRequest) (CompletionResponse, error) {
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/v1/completions", apiKey, req)
	if err != nil {
		return CompletionResponse{}, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CompletionResponse{}, parseAPIError(resp)
	}

	var out CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return CompletionResponse{}, ErrNoChoices
	}
	return out, nil
}

// ListModels returns the models visible to apiKey.
func (c *Client) ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/v1/models", apiKey, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp)
	}

	var out ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}
	return out.Data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, apiKey string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
