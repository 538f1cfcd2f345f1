package client

import "fmt"

// TransportError indicates the request never produced a usable HTTP
// response (DNS failure, connection reset, timeout) after all retries.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("feed transport error on %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteServiceError indicates the feed answered with a non-success
// status and retries (if any) were exhausted. Carries the last status
// and body for diagnostics.
type RemoteServiceError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("feed returned status %d on %s: %s", e.Status, e.Endpoint, e.Body)
}

// RateLimitError is raised on a 429 response. The feed is telling us to
// back off, so the client fails immediately instead of retrying into
// the throttle window.
type RateLimitError struct {
	Endpoint string
	Body     string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("feed rate limit hit on %s: %s", e.Endpoint, e.Body)
}
