package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisPurgerOptions configures the Redis purger.
type RedisPurgerOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Prefix is prepended to all keys (e.g., "ezcache:")
	Prefix string

	// Timeout bounds connecting and each purge
	Timeout time.Duration

	Logger log.FieldLogger
}

// RedisPurger deletes cache entries tagged with a location.
// Entries are tracked in one set per location, <prefix>tag:location-<id>.
type RedisPurger struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
	logger  log.FieldLogger
}

// NewRedisPurger connects to Redis and verifies the connection.
func NewRedisPurger(opts RedisPurgerOptions) (*RedisPurger, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if opts.Timeout > 0 {
		redisOpts.DialTimeout = opts.Timeout
		redisOpts.ReadTimeout = opts.Timeout
		redisOpts.WriteTimeout = opts.Timeout
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := withTimeout(context.Background(), opts.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisPurgerWithClient(client, opts.Prefix, opts.Timeout, opts.Logger), nil
}

// NewRedisPurgerWithClient wraps an existing client.
func NewRedisPurgerWithClient(client redis.UniversalClient, prefix string, timeout time.Duration, logger log.FieldLogger) *RedisPurger {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &RedisPurger{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
		logger:  logger,
	}
}

// TagKey returns the tag set key of a location.
func (p *RedisPurger) TagKey(locationID int64) string {
	return p.prefix + "tag:location-" + strconv.FormatInt(locationID, 10)
}

// Purge deletes every entry tagged with one of the locations, then the tag sets.
func (p *RedisPurger) Purge(ctx context.Context, locationIDs []int64) error {
	if len(locationIDs) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	keys := make([]string, 0, len(locationIDs))
	for _, id := range locationIDs {
		tag := p.TagKey(id)
		members, err := p.client.SMembers(ctx, tag).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to read cache tag %s: %w", tag, err)
		}
		for _, member := range members {
			keys = append(keys, p.prefix+member)
		}
		keys = append(keys, tag)
	}

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache entries: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"locations": joinIDs(locationIDs, ","),
		"keys":      len(keys),
	}).Debug("purged redis cache")
	return nil
}

// Close closes the Redis connection.
func (p *RedisPurger) Close() error {
	return p.client.Close()
}
