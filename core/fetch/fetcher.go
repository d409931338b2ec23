// Package fetch implements the Fetcher interface.
// A location is "-" for stdin, an http(s) URL, or a file path.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gaurav-prasanna/notepipe/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "notepipe/1.0 (https://github.com/gaurav-prasanna/notepipe)"

	// Stdin is the location that reads from standard input.
	Stdin = "-"
)

// Fetcher loads notes and pages from local files, stdin or HTTP.
type Fetcher struct {
	client *http.Client
	stdin  io.Reader
}

// New creates a Fetcher. A non-positive timeout selects the default.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		stdin:  os.Stdin,
	}
}

// WithStdin replaces the reader used for the "-" location.
func (f *Fetcher) WithStdin(r io.Reader) *Fetcher {
	f.stdin = r
	return f
}

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch reads the body at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*core.FetchResult, error) {
	switch {
	case location == Stdin:
		body, err := io.ReadAll(f.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return &core.FetchResult{Location: location, Body: string(body)}, nil
	case IsURL(location):
		return f.fetchURL(ctx, location)
	default:
		body, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", location, err)
		}
		return &core.FetchResult{Location: location, Body: string(body)}, nil
	}
}

func (f *Fetcher) fetchURL(ctx context.Context, location string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/markdown,text/plain,text/html;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, location)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		Location:   location,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}
