package oagunth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/oagunth/oagunth-cli/internal/logger"
	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the server root, e.g. https://localhost:8080.
	BaseURL string
	// User is the account whose monthly tracking is read and written.
	User      string
	Token     string
	TokenFile string
	OAuth     OAuth
	// Timeout bounds every request. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient is the base client; http.DefaultTransport is used when nil.
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client is the HTTP time-sheet backend. It never retries.
type Client struct {
	baseURL    string
	user       string
	httpClient *http.Client
	log        *logger.Logger
}

var _ tracking.Backend = (*Client)(nil)

// NewClient creates a client for opts. Requests carry a bearer token when
// one is available (see Options.Token and Options.TokenFile).
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.User == "" {
		return nil, fmt.Errorf("user is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	hc := &http.Client{Transport: base.Transport, Timeout: base.Timeout}

	ts, err := tokenSource(ctx, opts, log)
	if err != nil {
		return nil, err
	}
	if ts != nil {
		hc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		user:       opts.User,
		httpClient: hc,
		log:        log.With("backend", "http"),
	}, nil
}

// FetchActivities returns the activity catalog.
func (c *Client) FetchActivities(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	if err := c.do(ctx, "fetch activities", http.MethodGet, "/api/activities", nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// FetchCurrentMonth returns the user's current monthly calendar.
func (c *Client) FetchCurrentMonth(ctx context.Context) (model.MonthlyCalendar, error) {
	var payload model.MonthlyCalendar
	path := fmt.Sprintf("/api/monthly-tracking/%s/current", url.PathEscape(c.user))
	if err := c.do(ctx, "fetch current month", http.MethodGet, path, nil, &payload); err != nil {
		return model.MonthlyCalendar{}, err
	}
	return payload, nil
}

// SaveActivities posts req under the month and year of day.
func (c *Client) SaveActivities(ctx context.Context, day timecalc.Date, req model.SaveRequest) error {
	path := fmt.Sprintf("/api/monthly-tracking/%s/month/%d/year/%d", url.PathEscape(c.user), int(day.Month), day.Year)
	return c.do(ctx, "save activities", http.MethodPost, path, req, nil)
}

// SubmitActivities submits the week. The request has no body.
func (c *Client) SubmitActivities(ctx context.Context, month, year, weekNumber int) error {
	path := fmt.Sprintf("/api/monthly-tracking/%s/month/%d/year/%d/week/%d/submit", url.PathEscape(c.user), month, year, weekNumber)
	return c.do(ctx, "submit activities", http.MethodPost, path, nil, nil)
}

// do sends one request. Transport failures and non-2xx responses become
// *model.NetworkError; encoding and decoding failures *model.ParsingError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return model.NewParsingError(op, "encoding request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return model.NewNetworkError(op, 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return model.NewNetworkError(op, 0, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))
	if err != nil {
		return model.NewNetworkError(op, resp.StatusCode, fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return model.NewNetworkError(op, resp.StatusCode, fmt.Errorf("%s: %s", resp.Status, snippet(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return model.NewParsingError(op, "decoding response", err)
	}
	return nil
}

// snippet trims a response body for error messages.
func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
