// Package assistant talks to the question-answering service behind the
// dashboard's "ask" box.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxResponseSize = 1 << 20 // 1 MiB

// Client sends questions to the assistant endpoint. One request is in
// flight per user interaction; the UI prevents re-submission, so the client
// carries no retry or cancellation machinery.
type Client struct {
	url  string
	http *http.Client
}

// New creates a Client for the given endpoint URL.
func New(url string) *Client {
	return &Client{url: url, http: &http.Client{}}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// Ask submits a question and returns the answer text. Transport failures
// and error-shaped responses both come back as errors; the handler decides
// how to surface them.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("assistant response: %w", err)
	}

	var parsed askResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("assistant response: %w", err)
	}
	if parsed.Error != "" {
		return "", errors.New(parsed.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant status %d", resp.StatusCode)
	}
	return parsed.Answer, nil
}
