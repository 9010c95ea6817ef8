package upstream

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

const maxLoggedBody = 64 << 10

type errorLoggingTransport struct {
	next http.RoundTripper
}

// withErrorLogging returns a copy of c that logs the body of every non-2xx
// gateway response. The body is restored so the caller can still decode it.
func withErrorLogging(c *http.Client) *http.Client {
	next := c.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	wrapped := *c
	wrapped.Transport = &errorLoggingTransport{next: next}
	return &wrapped
}

func (t *errorLoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	slog.Error("ai gateway error response",
		"status", resp.StatusCode,
		"url", req.URL.Redacted(),
		"body", string(body),
		"read_error", readErr)

	return resp, nil
}
