package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPStore keeps the snapshot at a URL of a file-hosting service that
// answers GET with the stored bytes and accepts PUT to replace them.
type HTTPStore struct {
	url    string
	token  string
	client *http.Client
}

type HTTPOption func(*HTTPStore)

// WithBearerToken sends an Authorization: Bearer header on every request.
func WithBearerToken(token string) HTTPOption {
	return func(s *HTTPStore) { s.token = token }
}

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPStore) {
		c := *s.client
		c.Timeout = d
		s.client = &c
	}
}

func NewHTTPStore(url string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{url: url, client: &http.Client{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPStore) Load(ctx context.Context) ([]byte, error) {
	req, err := s.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote snapshot: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNoSnapshot
	case resp.StatusCode != http.StatusOK:
		return nil, statusError("fetching remote snapshot", resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote snapshot: %w", err)
	}
	return data, nil
}

func (s *HTTPStore) Save(ctx context.Context, data []byte) error {
	req, err := s.newRequest(ctx, http.MethodPut, data)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading remote snapshot: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError("uploading remote snapshot", resp)
	}
	return nil
}

func (s *HTTPStore) newRequest(ctx context.Context, method string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.url, r)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

func statusError(action string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: %s: %s", action, resp.Status, bytes.TrimSpace(msg))
}
