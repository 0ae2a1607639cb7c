package crawler

import "context"

// Fetcher retrieves the raw HTML body of a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
