package services

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

	"github.com/desertthunder/convx/internal/shared"
)

// defaultBaseURL matches the conversion service's development default.
const defaultBaseURL = "http://localhost:8000/api"

// errBodyPreview caps how much of an unparseable error body is echoed back.
const errBodyPreview = 200

// SessionSource provides the transport with the current bearer token and the
// single permitted side effect of an authorization failure: clearing it.
type SessionSource interface {
	AccessToken() string
	Clear() error
}

// PayloadKind classifies a successful response body by declared content type.
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadJSON
	PayloadBinary
)

// Payload represents a classified successful response.
type Payload struct {
	StatusCode int
	Headers    http.Header
	Kind       PayloadKind
	Body       []byte
}

// Decode unmarshals a JSON payload into v.
func (p *Payload) Decode(v any) error {
	if p.Kind != PayloadJSON {
		return fmt.Errorf("%w: expected JSON, got content type %q", shared.ErrDecode, p.Headers.Get("Content-Type"))
	}
	if err := json.Unmarshal(p.Body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return nil
}

// Client performs authenticated HTTP calls against the conversion service.
//
// Every non-success response raises a typed failure; every success is
// classified by content type. There is no silent-nil path: callers always get
// either a classified payload or an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionSource
}

// NewClient creates a transport client for the given base URL. A nil
// [http.Client] falls back to [http.DefaultClient]; sessions may be nil for
// unauthenticated use.
func NewClient(baseURL string, client *http.Client, sessions SessionSource) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		sessions:   sessions,
	}
}

// BaseURL returns the resolved service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*Payload, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil, "")
}

// GetWithQuery performs a GET request with query parameters.
func (c *Client) GetWithQuery(ctx context.Context, path string, query url.Values) (*Payload, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "")
}

// Post performs a POST request with a raw JSON body.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*Payload, error) {
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), "application/json")
}

// PostJSON marshals v and POSTs it as a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, v any) (*Payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.Post(ctx, path, data)
}

// Upload POSTs a multipart form with one file part named "file" plus the
// given string fields.
func (c *Client) Upload(ctx context.Context, path, filename string, content io.Reader, fields map[string]string) (*Payload, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}

	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, &buf, form.FormDataContentType())
}

// do builds, signs and executes a request, then classifies the response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*Payload, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Request-ID", shared.GenerateID())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.sessions != nil {
		if token := c.sessions.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.sessions != nil {
			if clearErr := c.sessions.Clear(); clearErr != nil {
				return nil, fmt.Errorf("%w: additionally failed to clear session: %v", shared.ErrUnauthorized, clearErr)
			}
		}
		return nil, fmt.Errorf("%w: session invalid or expired", shared.ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyError(resp, data)
	}

	return &Payload{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Kind:       classifyKind(resp.Header.Get("Content-Type")),
		Body:       data,
	}, nil
}

// classifyKind maps a declared content type to a payload kind. The catalog
// and job endpoints always declare JSON and results always declare a binary
// stream; anything else is treated as raw text.
func classifyKind(contentType string) PayloadKind {
	switch {
	case strings.Contains(contentType, "application/octet-stream"):
		return PayloadBinary
	case strings.Contains(contentType, "application/json"):
		return PayloadJSON
	default:
		return PayloadText
	}
}

// classifyError converts a non-success response into a typed failure.
// JSON error bodies surface the server-supplied message; non-JSON bodies
// state only that the request failed, without fabricating a message.
func classifyError(resp *http.Response, body []byte) error {
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err == nil {
			for _, key := range []string{"detail", "message", "error"} {
				if msg, ok := payload[key].(string); ok && msg != "" {
					return fmt.Errorf("%w: %s (status %d)", shared.ErrRequestFailed, msg, resp.StatusCode)
				}
			}
		}

		preview := body
		if len(preview) > errBodyPreview {
			preview = preview[:errBodyPreview]
		}
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrRequestFailed, resp.StatusCode, string(preview))
	}

	return fmt.Errorf("%w: status %d", shared.ErrRequestFailed, resp.StatusCode)
}
