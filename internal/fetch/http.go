package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"hiqsync/internal/hiqerr"
)

// httpFetcher is the concrete Fetcher backed by a shared *http.Client, in
// the teacher's service/fetcher.go idiom (configurable base URL, bounded
// timeout, JSON decode into domain structs).
type httpFetcher struct {
	client  *http.Client
	baseURL string
}

// New builds a Fetcher against baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) Fetcher {
	return &httpFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON issues a GET against path+query and decodes the JSON body into v.
func (f *httpFetcher) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := f.baseURL + path
	if query != nil {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", hiqerr.ErrRequest, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", hiqerr.ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", hiqerr.ErrRequest, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", hiqerr.ErrDecode, err)
	}
	return nil
}

// parseFloatTolerant treats the upstream's "-" placeholder for an absent
// numeric field as zero, matching the source's tolerant-decode policy
// instead of failing the whole row over one missing cell.
func parseFloatTolerant(raw json.Number) float64 {
	if raw == "" || raw == "-" {
		return 0
	}
	f, err := raw.Float64()
	if err != nil {
		return 0
	}
	return f
}
