// Package api is the HTTP client for the code assistant backend. Every method
// issues exactly one request: there is no retry and no backoff.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/logging"
)

// Client talks to the backend on behalf of an already authenticated session.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	sessionCookie string
	token         string
	log           *logrus.Entry
}

// Config holds client configuration. A zero Timeout means requests may hang
// until the backend answers.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	SessionCookie string
	Token         string
	HTTPClient    *http.Client
}

// New creates a new client.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    hc,
		sessionCookie: cfg.SessionCookie,
		token:         cfg.Token,
		log:           logging.NewLogger("api"),
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UploadFile is one file part of an upload.
type UploadFile struct {
	Name string
	Data io.Reader
}

func (c *Client) ListFiles(ctx context.Context, path string) (*ListFilesResponse, error) {
	var out ListFilesResponse
	err := c.get(ctx, "/api/files", url.Values{"path": {path}}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReadFile(ctx context.Context, path string) (*ReadFileResponse, error) {
	var out ReadFileResponse
	err := c.get(ctx, "/api/read_file", url.Values{"path": {path}}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Preview returns only the content of a file. It backs hover previews.
func (c *Client) Preview(ctx context.Context, path string) (string, error) {
	resp, err := c.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *Client) Search(ctx context.Context, keyword string) (*SearchResponse, error) {
	var out SearchResponse
	err := c.post(ctx, "/api/search", map[string]string{"keyword": keyword}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchSemantic(ctx context.Context, query string) (*SemanticSearchResponse, error) {
	var out SemanticSearchResponse
	err := c.post(ctx, "/api/search_semantic", map[string]string{"query": query}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RunTests(ctx context.Context, testPath string) (*TestRunResponse, error) {
	var out TestRunResponse
	err := c.post(ctx, "/api/run_tests", map[string]string{"test_path": testPath}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Analyze(ctx context.Context, path, tool string) (*AnalyzeResponse, error) {
	var out AnalyzeResponse
	err := c.post(ctx, "/api/analyze", map[string]string{"path": path, "tool": tool}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Context(ctx context.Context) (*ContextResponse, error) {
	var out ContextResponse
	if err := c.get(ctx, "/api/context", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GitStatus(ctx context.Context) (*GitStatusResponse, error) {
	var out GitStatusResponse
	if err := c.get(ctx, "/api/git/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GitCommit(ctx context.Context, message string) (*GitCommitResponse, error) {
	var out GitCommitResponse
	err := c.post(ctx, "/api/git/commit", map[string]string{"message": message}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Suggest(ctx context.Context, kind, code string) (*SuggestResponse, error) {
	var out SuggestResponse
	err := c.post(ctx, "/api/suggest", map[string]string{"type": kind, "code": code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat implements the backend chat provider.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var out ChatResponse
	if err := c.post(ctx, "/api/chat", req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Upload sends files as multipart "files" parts plus a "target_dir" field.
func (c *Client) Upload(ctx context.Context, targetDir string, files []UploadFile) (*UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part for %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Data); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := mw.WriteField("target_dir", targetDir); err != nil {
		return nil, fmt.Errorf("failed to write target_dir: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var out UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload", nil, &body, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), "application/json", out)
}

// do sends one request and decodes the reply. A body carrying an "error"
// field wins over the status code; a non-2xx reply without one still fails.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	c.applyAuth(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Warnf("%s %s failed", method, path)
		return transportError(path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debugf("%s %s", method, path)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(path, err)
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= 300 {
			return &BackendError{Endpoint: path, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return transportError(path, fmt.Errorf("malformed JSON: %w", err))
	}
	if envelope.Error != "" {
		return &BackendError{Endpoint: path, Status: resp.StatusCode, Message: envelope.Error}
	}
	if resp.StatusCode >= 300 {
		msg := envelope.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &BackendError{Endpoint: path, Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return transportError(path, fmt.Errorf("malformed JSON: %w", err))
	}
	return nil
}

func (c *Client) applyAuth(req *http.Request) {
	if c.sessionCookie != "" {
		req.Header.Set("Cookie", c.sessionCookie)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
