package activities

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// ErrMalformedResponse is returned when the API answers with something that
// is not the expected JSON document.
var ErrMalformedResponse = errors.New("malformed activities response")

// Client talks to the activities API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListActivities fetches the full activity collection. Caches are bypassed so
// the board never renders a stale roster.
func (c *Client) ListActivities(ctx context.Context) ([]Activity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", nil)
	if err != nil {
		return nil, fmt.Errorf("build activities request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read activities: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch activities: unexpected status %d", resp.StatusCode)
	}

	return DecodeActivities(body)
}

// Signup registers email for the named activity.
func (c *Client) Signup(ctx context.Context, activity, email string) (Result, error) {
	return c.mutate(ctx, http.MethodPost, activity, email)
}

// Unregister removes email from the named activity.
func (c *Client) Unregister(ctx context.Context, activity, email string) (Result, error) {
	return c.mutate(ctx, http.MethodDelete, activity, email)
}

// SignupURL returns the address shared by the signup and unregister calls.
// Both the activity path segment and the email query value are
// percent-encoded.
func (c *Client) SignupURL(activity, email string) string {
	query := url.Values{"email": {email}}
	return c.baseURL + "/activities/" + url.PathEscape(activity) + "/signup?" + query.Encode()
}

func (c *Client) mutate(ctx context.Context, method, activity, email string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.SignupURL(activity, email), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%s signup: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read %s response: %w", strings.ToLower(method), err)
	}
	if !gjson.ValidBytes(body) {
		return Result{}, fmt.Errorf("%w: status %d with non-JSON body", ErrMalformedResponse, resp.StatusCode)
	}

	payload := gjson.ParseBytes(body)
	return Result{
		StatusCode: resp.StatusCode,
		Message:    payload.Get("message").String(),
		Detail:     payload.Get("detail").String(),
	}, nil
}

// DecodeActivities parses a GET /activities document. The top-level object is
// walked in document order so the board renders activities the way the API
// listed them.
func DecodeActivities(body []byte) ([]Activity, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object of activities", ErrMalformedResponse)
	}

	list := []Activity{}
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		activity, err := decodeActivity(key.String(), value)
		if err != nil {
			decodeErr = err
			return false
		}
		list = append(list, activity)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return list, nil
}

func decodeActivity(name string, value gjson.Result) (Activity, error) {
	if !value.IsObject() {
		return Activity{}, fmt.Errorf("%w: activity %q is not an object", ErrMalformedResponse, name)
	}
	capacity := value.Get("max_participants")
	if capacity.Type != gjson.Number {
		return Activity{}, fmt.Errorf("%w: activity %q has no numeric max_participants", ErrMalformedResponse, name)
	}
	roster := value.Get("participants")
	if !roster.IsArray() {
		return Activity{}, fmt.Errorf("%w: activity %q has no participants array", ErrMalformedResponse, name)
	}

	participants := []string{}
	for _, p := range roster.Array() {
		participants = append(participants, p.String())
	}

	return Activity{
		Name:            name,
		Description:     value.Get("description").String(),
		Schedule:        value.Get("schedule").String(),
		MaxParticipants: int(capacity.Int()),
		Participants:    participants,
	}, nil
}
