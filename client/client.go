// Package client talks to the discover REST API on behalf of a session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/davidnwogucodes/sadaora/model"
	"github.com/davidnwogucodes/sadaora/session"
)

// APIError is returned for every non-2xx answer
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client is safe for concurrent use
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

// Option configures a Client
type Option func(*Client)

// WithTransport replaces the round tripper, e.g. with a traced one
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a client for the API rooted at baseURL
// (e.g. http://localhost:3000/api)
func New(baseURL string, s *session.Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(u.String(), "/"),
		session: s,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Feed fetches a page of the unfiltered feed
func (c *Client) Feed(ctx context.Context, page int) (model.FeedPage, error) {
	var out model.FeedPage
	q := url.Values{"page": {strconv.Itoa(page)}}
	err := c.do(ctx, http.MethodGet, "/feed?"+q.Encode(), nil, &out)
	return out, err
}

// FilteredFeed fetches a page of the feed narrowed to a comma separated
// interest list
func (c *Client) FilteredFeed(ctx context.Context, page int, interests string) (model.FeedPage, error) {
	var out model.FeedPage
	q := url.Values{"page": {strconv.Itoa(page)}, "interests": {interests}}
	err := c.do(ctx, http.MethodGet, "/feed/filter?"+q.Encode(), nil, &out)
	return out, err
}

// FollowStatus tells whether the session user follows the profile id
func (c *Client) FollowStatus(ctx context.Context, id string) (bool, error) {
	var out model.FollowStatus
	err := c.do(ctx, http.MethodGet, followPath(id), nil, &out)
	return out.IsFollowing, err
}

// Follow follows the profile id
func (c *Client) Follow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, followPath(id), struct{}{}, nil)
}

// Unfollow stops following the profile id
func (c *Client) Unfollow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, followPath(id), nil, nil)
}

// Me fetches the profile of the session user
func (c *Client) Me(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodGet, "/profile/me", nil, &out)
	return out, err
}

// CreateMe creates the session user profile
func (c *Client) CreateMe(ctx context.Context, update model.ProfileUpdate) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodPost, "/profile/me", update, &out)
	return out, err
}

// UpdateMe replaces the editable fields of the session user profile
func (c *Client) UpdateMe(ctx context.Context, update model.ProfileUpdate) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodPut, "/profile/me", update, &out)
	return out, err
}

// DeleteMe deletes the session user profile
func (c *Client) DeleteMe(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/profile/me", nil, nil)
}

func followPath(id string) string {
	return "/profile/" + url.PathEscape(id) + "/follow"
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.session.Authorize(req); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var reqErr model.RequestError
		if json.Unmarshal(data, &reqErr) == nil && reqErr.Message != "" {
			apiErr.Message = reqErr.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}
