// Package heuristics derives fault-localization hints for a mined bug from
// its fixing commit: which files the commit touched, which functions live in
// the buggy file, and which of those functions cover the buggy lines.
package heuristics

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GitHubClient is a minimal client for the two GitHub REST endpoints the
// extraction needs: commit metadata and file contents at a ref.
type GitHubClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the GitHubClient during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// NewGitHubClient creates a client for the GitHub REST API. The token is
// optional; without one the client runs against the unauthenticated rate
// limit.
func NewGitHubClient(token string, opts ...Option) (*GitHubClient, error) {
	cfg := &clientConfig{baseURL: "https://api.github.com"}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &GitHubClient{
		baseURL:    strings.TrimSuffix(cfg.baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithBaseURL overrides the API endpoint, for GitHub Enterprise or tests.
func WithBaseURL(u string) Option {
	return func(cfg *clientConfig) error {
		if u == "" {
			return fmt.Errorf("heuristics: baseURL must not be empty")
		}
		cfg.baseURL = u
		return nil
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

type commitResponse struct {
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// CommitFiles returns the paths touched by the given commit.
func (c *GitHubClient) CommitFiles(ctx context.Context, owner, repo, sha string) ([]string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.baseURL, owner, repo, sha)

	var resp commitResponse
	if err := c.getJSON(ctx, u, "get commit", &resp); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, f.Filename)
	}
	return files, nil
}

// FileAtCommit returns the decoded content of path at the given ref.
func (c *GitHubClient) FileAtCommit(ctx context.Context, owner, repo, path, sha string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.baseURL, owner, repo, path, url.QueryEscape(sha))

	var resp contentsResponse
	if err := c.getJSON(ctx, u, "get contents", &resp); err != nil {
		return "", err
	}
	if resp.Encoding != "base64" {
		return "", fmt.Errorf("get contents: unexpected encoding %q", resp.Encoding)
	}

	// GitHub wraps the payload in newlines that the std decoder rejects.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("get contents: decode content: %w", err)
	}
	return string(raw), nil
}

func (c *GitHubClient) getJSON(ctx context.Context, url, operation string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	c.logger.DebugContext(ctx, "API request", "operation", operation, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var errRS errorResponse
		if json.Unmarshal(respBody, &errRS) == nil && errRS.Message != "" {
			return newAPIError(operation, resp.StatusCode, errRS.Message)
		}
		msg := string(respBody)
		if msg == "" {
			msg = resp.Status
		}
		return newAPIError(operation, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}
