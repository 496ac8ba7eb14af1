// Package api is the HTTP client for the Jessica Core backend. It owns
// the wire contracts for chat routing, transcription, service health and
// the cloud memory store, and converts transport and backend failures
// into the typed errors in errors.go. It performs no retries; resubmission
// is the caller's decision.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultBaseURL = "http://localhost:8000"

type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SendMessage submits one chat turn. An empty provider leaves routing to
// the backend; a non-empty one overrides it for this turn only.
func (c *Client) SendMessage(ctx context.Context, message string, provider Provider) (*ChatResponse, error) {
	body := struct {
		Message  string   `json:"message"`
		Provider Provider `json:"provider,omitempty"`
	}{Message: message, Provider: provider}

	var parsed ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Transcribe uploads a local audio file and returns the recognized text.
// Validation failures are local and never reach the network; a structured
// error field in an otherwise successful response surfaces as a
// BackendError carrying the backend's message.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &ValidationError{Reason: "cannot read audio file: " + err.Error()}
	}
	if err := ValidateAudioFile(path, info.Size()); err != nil {
		return "", err
	}
	file, err := os.Open(path)
	if err != nil {
		return "", &ValidationError{Reason: "cannot read audio file: " + err.Error()}
	}
	defer file.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", audioContentTypes[strings.ToLower(filepath.Ext(path))])
	part, err := form.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &BackendError{StatusCode: resp.StatusCode, Message: backendMessage(payload)}
	}
	var parsed transcriptionResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("decode /transcribe response: %w", err)
	}
	if parsed.Error != "" {
		return "", &BackendError{StatusCode: resp.StatusCode, Message: parsed.Error}
	}
	return parsed.Text, nil
}

// Status fetches the backend's view of its own service health.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var parsed StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/status", nil, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// AllMemories lists every record in the cloud memory store.
func (c *Client) AllMemories(ctx context.Context) ([]MemoryRecord, error) {
	var parsed memoryListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/memory/cloud/all", nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Results, nil
}

// SearchMemories runs a relevance search over the cloud memory store.
func (c *Client) SearchMemories(ctx context.Context, query string) ([]MemoryRecord, error) {
	body := struct {
		Query string `json:"query"`
	}{Query: query}
	var parsed memoryListResponse
	if err := c.doJSON(ctx, http.MethodPost, "/memory/cloud/search", body, &parsed); err != nil {
		return nil, err
	}
	return parsed.Results, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BackendError{StatusCode: resp.StatusCode, Message: backendMessage(payload)}
	}
	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

// backendMessage digs the human-readable message out of an error payload.
// The backend uses "error"; its Flask plumbing sometimes emits "detail".
func backendMessage(payload []byte) string {
	var parsed struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Detail != "" {
			return parsed.Detail
		}
	}
	return ""
}
