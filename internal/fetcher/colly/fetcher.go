// Package collyfetcher implements crawler.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/ferit-stup/radovi-crawler/internal/crawler"
)

// Config controls collector behavior for listing and detail fetches. The
// user agent and referer are anti-blocking measures the target site expects
// from a browser, so they stay configurable rather than baked in.
type Config struct {
	UserAgent string
	Referer   string
	Timeout   time.Duration
}

// Fetcher performs single HTTP GETs with a cloned Colly collector per
// request. Redirects are followed and TLS certificates verified by the
// underlying transport; content-encoding negotiation is transparent.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher with a pooled transport.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Fetcher{cfg: cfg, baseCollector: c}
}

// Fetch executes one HTTP GET and returns the response body as text.
// Connection-level failures surface as *crawler.TransportError and responses
// with status >= 400 as *crawler.StatusError. Retrying is the caller's call;
// this layer never does it.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	collector := f.baseCollector.Clone()
	// Clones share visited-URL storage; each Fetch is an independent GET.
	collector.AllowURLRevisit = true
	collector.IgnoreRobotsTxt = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	var (
		body     string
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		if f.cfg.Referer != "" {
			r.Headers.Set("Referer", f.cfg.Referer)
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode >= http.StatusBadRequest {
			fetchErr = &crawler.StatusError{URL: url, Code: r.StatusCode}
			return
		}
		fetchErr = &crawler.TransportError{URL: url, Err: err}
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", &crawler.TransportError{URL: url, Err: ctx.Err()}
	case err := <-done:
		if fetchErr != nil {
			return "", fetchErr
		}
		if err != nil {
			return "", &crawler.TransportError{URL: url, Err: err}
		}
		return body, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
