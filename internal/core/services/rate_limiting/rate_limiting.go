package ratelimiting

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/services"
	"context"
)

type keyed interface {
	GetRateLimitKey() string
}

type service[T keyed, S any] struct {
	log         logging.Logger
	rateLimiter ratelimiter.RateLimiter
	limit       ratelimiter.Limit
	inner       services.Service[T, S]
}

// WithRateLimiting rejects calls with ErrRateLimitExceeded once the
// input's key has been seen more than limit.Value times in the current window.
func WithRateLimiting[T keyed, S any](
	log logging.Logger,
	rateLimiter ratelimiter.RateLimiter,
	limit ratelimiter.Limit,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if rateLimiter == nil {
		panic(e.NewNilArgumentError("rateLimiter"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		log:         log,
		rateLimiter: rateLimiter,
		limit:       limit,
		inner:       inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	key := input.GetRateLimitKey()
	if s.rateLimiter.CheckLimit(ctx, key, s.limit).IsAllowed {
		return s.inner.Run(ctx, input)
	}

	s.log.Warning(
		ctx,
		"Rate limit exceeded.",
		logging.Entry("key", key),
		logging.Entry("limit", s.limit),
	)
	return result, ratelimiter.ErrRateLimitExceeded
}
