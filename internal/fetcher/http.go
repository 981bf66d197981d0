package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"Domain_Monitor/internal/models"
)

// maxSourceSize bounds the remote list body (domain lists run a few MB)
const maxSourceSize = 16 * 1024 * 1024

// HTTPFetcher implements Service using HTTP requests against a remote list URL
type HTTPFetcher struct {
	client *http.Client
	url    string
}

// NewHTTPFetcher creates a new HTTP-based domain list fetcher
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Allow up to 5 redirects
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		url: url,
	}
}

// Fetch retrieves the domain list from the configured URL
func (f *HTTPFetcher) Fetch(ctx context.Context) (map[string]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Domain-Monitor/1.0")
	req.Header.Set("Accept", "text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("failed to fetch domain list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected HTTP status %d %s", models.ErrSourceUnavailable, resp.StatusCode, resp.Status)
	}

	body, err := f.readBodyWithLimit(resp.Body, maxSourceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseDomainLines(string(body)), nil
}

// readBodyWithLimit reads the response body with a size limit
func (f *HTTPFetcher) readBodyWithLimit(body io.Reader, maxSize int64) ([]byte, error) {
	limitedReader := io.LimitReader(body, maxSize)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, err
	}

	if int64(len(data)) >= maxSize {
		return nil, fmt.Errorf("domain list too large (exceeds %d bytes)", maxSize)
	}

	return data, nil
}
