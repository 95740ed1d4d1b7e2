package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrInvalidURL indicates a URL the client refuses to fetch.
var ErrInvalidURL = errors.New("invalid remote file url")

// Client downloads tabular files published over HTTP.
type Client interface {
	Fetch(ctx context.Context, rawURL string) (*File, error)
}

// File is a downloaded file together with the name used to pick its decoder.
type File struct {
	Name string
	Data []byte
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	maxBytes   int64
}

// NewClient builds a client with the given request timeout and body size cap.
func NewClient(timeout time.Duration, maxBytes int64) *APIClient {
	restyClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, application/octet-stream, */*").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &APIClient{httpClient: restyClient, maxBytes: maxBytes}
}

// Fetch downloads rawURL. Only http and https URLs are accepted.
func (c *APIClient) Fetch(ctx context.Context, rawURL string) (*File, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", u.Redacted(), resp.StatusCode())
	}

	var reader io.Reader = body
	if c.maxBytes > 0 {
		reader = io.LimitReader(body, c.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", u.Redacted(), err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", u.Redacted(), c.maxBytes)
	}

	return &File{Name: path.Base(u.Path), Data: data}, nil
}
