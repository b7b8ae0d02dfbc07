package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/utils"
)

const DefaultTimeout = 30 * time.Second

var ErrTooLarge = errors.New("response exceeds size limit")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DefaultHTTPClient{Client: &http.Client{Timeout: timeout}}
}

// Fetch GETs url and returns the body. A body larger than maxSize fails
// with ErrTooLarge instead of being truncated.
func Fetch(ctx context.Context, c HTTPClient, url string, maxSize int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/yaml, text/yaml, */*")

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer utils.Try(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	var src io.Reader = resp.Body
	if maxSize > 0 {
		src = io.LimitReader(resp.Body, maxSize+1)
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if maxSize > 0 && int64(len(body)) > maxSize {
		return nil, fmt.Errorf("GET %s: %w (%d bytes)", url, ErrTooLarge, maxSize)
	}
	return body, nil
}
