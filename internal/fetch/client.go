// Package fetch provides API clients for the upstream chain and bridge
// telemetry providers. All retry behavior lives here; the scoring core
// never retries.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
)

const userAgent = "chain-migration-analyzer/1.0"

// newRetryClient creates an HTTP client with retry logic. The timeout
// bounds the whole fetch including retries; a stalled upstream fails
// instead of hanging the caller.
func newRetryClient(timeout time.Duration) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 3 * time.Second
	retryClient.Logger = nil

	client := retryClient.StandardClient()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.Timeout = timeout
	return client
}

// getJSON fetches url and decodes the response body into out. Failures are
// returned as structured upstream errors preserving the original message.
func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("Fetching %s", url)
	resp, err := client.Do(req)
	if err != nil {
		return apierror.Upstream(err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the retry transport can reuse the connection
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return apierror.UpstreamStatus(resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierror.Upstream(fmt.Errorf("error decoding response: %w", err), url)
	}
	return nil
}
