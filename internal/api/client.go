package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL        = "https://hacker-news.firebaseio.com/v0"
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxConcurrent  = 6
	DefaultUserAgent      = "hnstories/1.0"
)

// HTTPDoer is the subset of *http.Client the Client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h HTTPDoer) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.http.(*http.Client); ok {
			hc.Timeout = d
		}
	}
}

// WithMaxConcurrent bounds the fan-out of GetStories.
func WithMaxConcurrent(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxConcurrent = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// Client is the HN API client. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	http          HTTPDoer
	baseURL       string
	userAgent     string
	maxConcurrent int
	log           logrus.FieldLogger
}

// NewClient creates a new HN API client.
func NewClient(opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		http: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
		baseURL:       DefaultBaseURL,
		userAgent:     DefaultUserAgent,
		maxConcurrent: DefaultMaxConcurrent,
		log:           discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// MaxConcurrent returns the fan-out limit.
func (c *Client) MaxConcurrent() int {
	return c.maxConcurrent
}

// get fetches a URL and decodes the JSON response into dst.
func (c *Client) get(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Kind: RequestFailed, URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Kind: RequestFailed, URL: url, Err: err}
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"url":     url,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("GET")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &FetchError{
			Kind:       RequestFailed,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &FetchError{Kind: DecodeFailed, URL: url, Err: err}
	}
	return nil
}

// GetStoryIDs fetches the list of story IDs for a list category.
func (c *Client) GetStoryIDs(ctx context.Context, cat Category) (StoryIDList, error) {
	url, err := ListURL(c.baseURL, cat)
	if err != nil {
		return nil, err
	}
	var ids StoryIDList
	if err := c.get(ctx, url, &ids); err != nil {
		return nil, fmt.Errorf("fetching %s stories: %w", cat, err)
	}
	if ids == nil {
		ids = StoryIDList{}
	}
	return ids, nil
}

// GetStory fetches a single item by ID. The API answers an unknown ID with
// a JSON null, which is reported as a decode failure.
func (c *Client) GetStory(ctx context.Context, id uint64) (*Story, error) {
	url := ItemURL(c.baseURL, id)
	var story *Story
	if err := c.get(ctx, url, &story); err != nil {
		return nil, fmt.Errorf("fetching item %d: %w", id, err)
	}
	if story == nil {
		return nil, fmt.Errorf("fetching item %d: %w", id,
			&FetchError{Kind: DecodeFailed, URL: url, Err: fmt.Errorf("item not found")})
	}
	return story, nil
}

// GetStories fetches multiple items concurrently with a concurrency limit.
// Results are in the same order as ids. The first failure cancels the rest.
func (c *Client) GetStories(ctx context.Context, ids []uint64) ([]*Story, error) {
	results := make([]*Story, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			story, err := c.GetStory(ctx, id)
			if err != nil {
				return err
			}
			results[i] = story
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
