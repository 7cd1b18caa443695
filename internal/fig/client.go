package fig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error taxonomy for the upstream FIG API. Handlers map these onto
// distinct HTTP classes so clients can tell retryable conditions
// apart.
var (
	ErrUpstream    = errors.New("fig: upstream failure")
	ErrRateLimited = errors.New("fig: rate limited by upstream")
	ErrTimeout     = errors.New("fig: upstream timeout")
	ErrNotImage    = errors.New("fig: upstream returned non-image content")
	ErrTooLarge    = errors.New("fig: image exceeds size limit")
	ErrNotFound    = errors.New("fig: not found")
)

// Athlete mirrors the license record shape of the FIG public API.
type Athlete struct {
	FigID     string `json:"gymnastid"`
	FirstName string `json:"preferredfirstname"`
	LastName  string `json:"preferredlastname"`
	Gender    string `json:"gender"`
	Country   string `json:"country"`
	Birth     string `json:"birth"`
	ValidTo   string `json:"validto"`
}

type Client struct {
	BaseURL       string
	HTTP          *http.Client
	MaxImageBytes int64
}

func NewClient(baseURL string, timeout time.Duration, maxImageBytes int64) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxImageBytes <= 0 {
		maxImageBytes = 2 << 20
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTP:          &http.Client{Timeout: timeout},
		MaxImageBytes: maxImageBytes,
	}
}

// Athletes fetches the aerobic-gymnastics license list for a country.
func (c *Client) Athletes(ctx context.Context, country string) ([]Athlete, error) {
	u := fmt.Sprintf("%s/athletes.php?function=searchLicenses&discipline=AER&country=%s",
		c.BaseURL, url.QueryEscape(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fig: build request: %w", err)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode)
	}

	var athletes []Athlete
	if err := json.NewDecoder(res.Body).Decode(&athletes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return athletes, nil
}

// Image fetches an athlete photo by FIG id. The body is capped at
// MaxImageBytes and the content type must be an image.
func (c *Client) Image(ctx context.Context, figID string) ([]byte, string, error) {
	u := fmt.Sprintf("%s/athletepictures/%s.jpg", c.BaseURL, url.PathEscape(figID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fig: build request: %w", err)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", classify(err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, "", ErrNotFound
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, "", ErrRateLimited
	case res.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, c.MaxImageBytes+1))
	if err != nil {
		return nil, "", classify(err)
	}
	if int64(len(data)) > c.MaxImageBytes {
		return nil, "", ErrTooLarge
	}
	return data, contentType, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
