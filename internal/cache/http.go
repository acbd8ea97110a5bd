package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

// LocationHeader carries the location ids a BAN request targets
const LocationHeader = "X-Location-Id"

// HTTPPurger bans cached pages on a reverse proxy
type HTTPPurger struct {
	url    string
	client *http.Client
	logger log.FieldLogger
}

// NewHTTPPurger creates a purger sending BAN requests to purgeURL
func NewHTTPPurger(purgeURL string, timeout time.Duration, logger log.FieldLogger) (*HTTPPurger, error) {
	u, err := url.Parse(purgeURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid purge URL %q", purgeURL)
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &HTTPPurger{
		url:    purgeURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// Purge sends a single BAN request matching all of the locations
func (p *HTTPPurger) Purge(ctx context.Context, locationIDs []int64) error {
	if len(locationIDs) == 0 {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "BAN", p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build purge request: %w", err)
	}
	req.Header.Set(LocationHeader, "("+joinIDs(locationIDs, "|")+")")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("purge request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("purge request failed: %s", resp.Status)
	}

	p.logger.WithFields(log.Fields{
		"url":       p.url,
		"locations": req.Header.Get(LocationHeader),
	}).Debug("sent BAN request")
	return nil
}
