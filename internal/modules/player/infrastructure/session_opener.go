package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Compile-time check that HTTPSessionOpener implements SessionOpener.
var _ SessionOpener = (*HTTPSessionOpener)(nil)

// HTTPSessionOpener opens provider-hosted audio through a stream gateway
// service that transmuxes provider sessions into plain HTTP audio.
type HTTPSessionOpener struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSessionOpener creates an opener for the gateway at baseURL.
func NewHTTPSessionOpener(baseURL string, client *http.Client) *HTTPSessionOpener {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSessionOpener{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Open starts streaming the referenced audio from the gateway.
func (o *HTTPSessionOpener) Open(
	ctx context.Context,
	provider, reference string,
) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf(
		"%s/v1/streams/%s/%s",
		o.baseURL,
		url.PathEscape(provider),
		url.PathEscape(reference),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open session stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("session stream request returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
