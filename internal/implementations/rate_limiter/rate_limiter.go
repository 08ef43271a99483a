package ratelimiter

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
)

// Redis counts calls per key in fixed windows aligned to the interval.
// Redis failures let the call through.
type Redis struct {
	client *redis.Client
	log    logging.Logger
	now    func() time.Time
}

func NewRedis(client *redis.Client, log logging.Logger, now func() time.Time) *Redis {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{client: client, log: log, now: now}
}

func windowKey(key string, interval ratelimiter.Interval, now time.Time) string {
	d := interval.Duration()
	if d <= 0 {
		panic("invalid rate limiting interval")
	}
	return fmt.Sprintf("rate-limit::%s::%s::%d", key, interval, now.UTC().Truncate(d).Unix())
}

func (r *Redis) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	k := windowKey(key, limit.Interval, r.now())

	cmds, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, limit.Interval.Duration())
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return ratelimiter.NotAllowed()
	}
	if err != nil {
		r.log.Error(
			ctx,
			"Could not check rate limit due to Redis client error.",
			logging.Entry("key", key),
			logging.Entry("err", err),
		)
		return ratelimiter.Allowed()
	}
	if cmds[0].(*redis.IntCmd).Val() > int64(limit.Value) {
		return ratelimiter.NotAllowed()
	}
	return ratelimiter.Allowed()
}
