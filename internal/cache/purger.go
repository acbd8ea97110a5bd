package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Taichi-iskw/rmtrans/internal/config"
	log "github.com/sirupsen/logrus"
)

// Purger invalidates cached representations of locations
type Purger interface {
	Purge(ctx context.Context, locationIDs []int64) error
}

// Closer is implemented by purgers holding connections
type Closer interface {
	Close() error
}

// NoopPurger only logs what would have been purged
type NoopPurger struct {
	Logger log.FieldLogger
}

func (p *NoopPurger) Purge(ctx context.Context, locationIDs []int64) error {
	if p.Logger != nil {
		p.Logger.WithField("locations", joinIDs(locationIDs, ",")).Debug("no cache backend configured, skipping purge")
	}
	return nil
}

// MultiPurger purges every backend and joins their errors
type MultiPurger []Purger

func (m MultiPurger) Purge(ctx context.Context, locationIDs []int64) error {
	var errs []error
	for _, p := range m {
		if err := p.Purge(ctx, locationIDs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every backend that holds connections
func (m MultiPurger) Close() error {
	var errs []error
	for _, p := range m {
		if c, ok := p.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// NewPurgerFromConfig builds the purger for the configured backends.
// Redis and HTTP are combined when both are set; with neither it returns a NoopPurger.
func NewPurgerFromConfig(cfg *config.Config, logger log.FieldLogger) (Purger, error) {
	timeout := cfg.Cache.Timeout
	if timeout <= 0 {
		timeout = config.DefaultPurgeTimeout
	}

	var purgers MultiPurger
	if cfg.RedisURL != "" {
		p, err := NewRedisPurger(RedisPurgerOptions{
			URL:     cfg.RedisURL,
			Prefix:  cfg.Cache.Prefix,
			Timeout: timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		purgers = append(purgers, p)
	}
	if cfg.Cache.PurgeURL != "" {
		p, err := NewHTTPPurger(cfg.Cache.PurgeURL, timeout, logger)
		if err != nil {
			_ = purgers.Close()
			return nil, err
		}
		purgers = append(purgers, p)
	}

	switch len(purgers) {
	case 0:
		return &NoopPurger{Logger: logger}, nil
	case 1:
		return purgers[0], nil
	default:
		return purgers, nil
	}
}

// Close closes p if it holds connections
func Close(p Purger) error {
	if c, ok := p.(Closer); ok {
		return c.Close()
	}
	return nil
}

func joinIDs(ids []int64, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, sep)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
