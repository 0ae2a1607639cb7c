package crawler

import "fmt"

// StatusError reports a non-success HTTP response (status >= 400).
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d for %s", e.Code, e.URL)
}

// TransportError reports a connection-level fetch failure (DNS, TLS, timeout).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
