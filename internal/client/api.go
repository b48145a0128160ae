package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
	"github.com/somaarjun/portfolio/backend/internal/model/contact"
	"github.com/somaarjun/portfolio/backend/internal/model/portfolio"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// APIClient talks to the portfolio backend over HTTP.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient targets baseURL, e.g. "http://localhost:8080/api". A nil
// httpClient gets a client with a generous timeout.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Chat sends one turn to POST /chat.
func (c *APIClient) Chat(ctx context.Context, req aiService.Request) (*aiService.Reply, error) {
	var reply aiService.Reply
	if err := c.do(ctx, http.MethodPost, "/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// PortfolioData fetches GET /portfolio-data.
func (c *APIClient) PortfolioData(ctx context.Context) (portfolio.Document, error) {
	var doc portfolio.Document
	err := c.do(ctx, http.MethodGet, "/portfolio-data", nil, &doc)
	return doc, err
}

// Assistant fetches the greeting, quick actions and vocabulary.
func (c *APIClient) Assistant(ctx context.Context) (assistant.Manifest, error) {
	var m assistant.Manifest
	err := c.do(ctx, http.MethodGet, "/assistant", nil, &m)
	return m, err
}

// Contact submits the contact form and returns the submission id.
func (c *APIClient) Contact(ctx context.Context, form contact.Form) (string, error) {
	var resp struct {
		Success      bool   `json:"success"`
		SubmissionID string `json:"submissionId"`
	}
	if err := c.do(ctx, http.MethodPost, "/contact", form, &resp); err != nil {
		return "", err
	}
	return resp.SubmissionID, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			message = failure.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
