// Package github talks to the GitHub releases REST API. Only the two
// lookups the fetch workflow needs are implemented: release by tag and
// the release listing used for "latest" selection.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "ghfetch/internal/errors"
)

const defaultBaseURL = "https://api.github.com"

// HTTPClient represents the subset of http.Client methods required by the client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs release metadata lookups. Each lookup is exactly one
// network call; failures surface immediately without retries.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	token      string
	userAgent  string
}

// ClientOption customises Client construction.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for API requests.
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithToken sets a bearer token for authenticated requests and
// rate-limit relief. Empty means unauthenticated.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient constructs a Client with a fixed request-wide timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		userAgent:  "ghfetch/1.0 (Go release fetcher)",
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return c
}

// ReleaseByTag fetches the release metadata for one exact tag.
func (c *Client) ReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(tag))

	var release Release
	if err := c.getJSON(ctx, endpoint, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// LatestRelease lists the repository's releases and returns the first
// entry. The API orders releases newest-first, so the first entry is
// the most recent one; assets of later entries are never considered.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	var releases []Release
	if err := c.getJSON(ctx, endpoint, &releases); err != nil {
		return nil, err
	}

	if len(releases) == 0 {
		return nil, apperrors.NetworkError(apperrors.CodeResolutionFailed, "repository has no releases", nil).
			WithModule("github").
			WithOperation("LatestRelease").
			WithFields(apperrors.Metadata{"owner": owner, "repo": repo})
	}

	return &releases[0], nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NetworkError(apperrors.CodeResolutionFailed, "failed to create API request", err).
			WithModule("github").
			WithField("url", endpoint)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NetworkError(apperrors.CodeResolutionFailed, "release lookup request failed", err).
			WithModule("github").
			WithField("url", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apperrors.NetworkError(apperrors.CodeResolutionFailed, "release lookup failed", nil).
			WithModule("github").
			WithFields(apperrors.Metadata{
				"url":    endpoint,
				"status": resp.StatusCode,
				"body":   strings.TrimSpace(string(body)),
			})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NetworkError(apperrors.CodeResolutionFailed, "failed to decode release JSON", err).
			WithModule("github").
			WithField("url", endpoint)
	}

	return nil
}
