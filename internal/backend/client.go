package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"parkspotter-admin/internal/metrics"
)

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Resource string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	Resource string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http status: %d", e.Resource, e.Code)
}

// DecodeError is a 2xx response whose payload did not have the expected shape.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

const maxErrorBody = 512

type Client struct {
	baseURL    string
	authScheme string
	http       *http.Client
}

func NewClient(baseURL, authScheme string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authScheme: authScheme,
		http:       &http.Client{Timeout: timeout},
	}
}

// do sends one request. An empty token sends no Authorization header.
func (c *Client) do(ctx context.Context, resource, method, path, token string, body, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.BackendRequests.WithLabelValues(resource, outcome).Inc()
		metrics.BackendLatency.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			outcome = "encode_error"
			return fmt.Errorf("%s: encode body: %w", resource, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		outcome = "transport_error"
		return &TransportError{Resource: resource, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", c.authScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		return &TransportError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "status_error"
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Resource: resource, Code: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "transport_error"
		return &TransportError{Resource: resource, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		outcome = "decode_error"
		return &DecodeError{Resource: resource, Err: err}
	}
	return nil
}

// getList accepts either a bare JSON array or a paginated {"results": [...]} envelope.
func getList[T any](ctx context.Context, c *Client, resource, path, token string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, resource, http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil || page.Results == nil {
			return nil, &DecodeError{Resource: resource, Err: fmt.Errorf("expected list or results envelope")}
		}
		trimmed = page.Results
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	return items, nil
}
