package validator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single Remote round-trip when no timeout is set.
const DefaultTimeout = 5 * time.Second

// Remote asks an HTTP endpoint whether a candidate identifier is free.
// The candidate is sent as the "id" query parameter of a GET request:
// 2xx accepts, 409 Conflict rejects, any other status is an error.
type Remote struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewRemote returns a Remote for endpoint.
func NewRemote(endpoint string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Remote{URL: endpoint, Timeout: timeout, Client: http.DefaultClient}
}

func (r *Remote) Validate(ctx context.Context, id string) (bool, error) {
	endpoint, err := url.Parse(r.URL)
	if err != nil {
		return false, fmt.Errorf("validator: invalid URL %q: %w", r.URL, err)
	}
	query := endpoint.Query()
	query.Set("id", id)
	endpoint.RawQuery = query.Encode()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false, err
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("validator: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusConflict:
		return false, nil
	default:
		return false, fmt.Errorf("validator: unexpected status %s", resp.Status)
	}
}
