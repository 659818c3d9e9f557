package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Match represents a single candidate match from the search service.
type Match struct {
	AnilistID  int64   `json:"anilist"`
	Filename   string  `json:"filename"`
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	Similarity float64 `json:"similarity"`
	Video      string  `json:"video"`
	Image      string  `json:"image"`
}

// Response models the trace.moe search response envelope.
type Response struct {
	FrameCount int64   `json:"frameCount"`
	Error      string  `json:"error"`
	Result     []Match `json:"result"`
}

// Searcher defines the search operations used by the scan pipeline.
type Searcher interface {
	SearchURL(ctx context.Context, imageURL string) (*Response, error)
	SearchImage(ctx context.Context, filename string, image io.Reader) (*Response, error)
}

// Client provides access to the trace.moe API.
type Client struct {
	baseURL    string
	apiKey     string
	cutBorders bool
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIKey sends the given trace.moe API key with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithCutBorders asks the service to trim black borders before matching.
func WithCutBorders(enabled bool) Option {
	return func(c *Client) {
		c.cutBorders = enabled
	}
}

// New creates a trace.moe client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("trace base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchURL searches for the scene shown at the provided image URL.
func (c *Client) SearchURL(ctx context.Context, imageURL string) (*Response, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, errors.New("image url must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse trace url: %w", err)
	}
	params := url.Values{}
	params.Set("url", imageURL)
	if c.cutBorders {
		params.Set("cutBorders", "")
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

// SearchImage searches for the scene shown in the provided image data.
func (c *Client) SearchImage(ctx context.Context, filename string, image io.Reader) (*Response, error) {
	if image == nil {
		return nil, errors.New("image reader must not be nil")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "image"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	endpoint := c.baseURL + "/search"
	if c.cutBorders {
		endpoint += "?cutBorders="
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	if c.apiKey != "" {
		req.Header.Set("x-trace-key", c.apiKey)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The service reports the failure reason in the error field
		// even on non-200 responses.
		var payload Response
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Error != "" {
			return nil, fmt.Errorf("trace search returned %d: %s", resp.StatusCode, payload.Error)
		}
		return nil, fmt.Errorf("trace search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode trace response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("trace search failed: %s", payload.Error)
	}
	return &payload, nil
}
