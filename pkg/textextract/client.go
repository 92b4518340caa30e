package textextract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmptyBaseURL is returned when a client is created without a server URL.
	ErrEmptyBaseURL = errors.New("extraction server URL cannot be empty")

	// ErrExtractionFailed wraps non-2xx responses from the extraction server.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// Extractor converts an uploaded file to plain text.
type Extractor interface {
	ExtractText(ctx context.Context, filename string, file io.Reader) (string, error)
}

// Config holds the configuration for the extraction client.
type Config struct {
	BaseURL string        `env:"UNSTRUCTURED_SERVER_URL"`
	APIKey  string        `env:"UNSTRUCTURED_API_KEY"`
	Timeout time.Duration `env:"UNSTRUCTURED_TIMEOUT" envDefault:"60s"`
}

// Client talks to an unstructured-text extraction server: it uploads a
// file and receives the extracted text elements as JSON. Extracted text
// is NFC-normalized so downstream embedding and storage see one
// canonical representation per document.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient creates an extraction client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConfig creates a Client from configuration.
func NewClientFromConfig(cfg Config, opts ...ClientOption) (*Client, error) {
	allOpts := make([]ClientOption, 0, len(opts)+2)
	if cfg.APIKey != "" {
		allOpts = append(allOpts, WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		allOpts = append(allOpts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	allOpts = append(allOpts, opts...)

	return NewClient(cfg.BaseURL, allOpts...)
}

// element is one extracted fragment in the server's response.
type element struct {
	Text string `json:"text"`
}

// ExtractText uploads file and returns its extracted plain text with
// fragments joined by blank lines.
func (c *Client) ExtractText(ctx context.Context, filename string, file io.Reader) (string, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/general/v0/general", strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("unstructured-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: server returned %d: %s",
			ErrExtractionFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var elements []element
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return "", fmt.Errorf("failed to decode extraction response: %w", err)
	}

	texts := make([]string, 0, len(elements))
	for _, el := range elements {
		if t := strings.TrimSpace(el.Text); t != "" {
			texts = append(texts, t)
		}
	}

	return norm.NFC.String(strings.Join(texts, "\n\n")), nil
}
