package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Source is a datasource that streams the body of a single URL.
type Source struct {
	client *Client
	url    string
}

// NewSource returns a Source for url using client.
func NewSource(client *Client, url string) *Source {
	return &Source{client: client, url: url}
}

// Open fetches the URL. Anything other than 200 OK is an error; the body
// of a failed response is discarded.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url, http.Header{"Accept": []string{"application/sql, text/plain, */*"}})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", s.url, resp.Status)
	}
	return resp.Body, nil
}
