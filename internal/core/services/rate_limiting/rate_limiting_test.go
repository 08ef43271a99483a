package ratelimiting

import (
	"accounts/internal/core/domain/logging"
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type input struct {
	key string
}

func (i input) GetRateLimitKey() string {
	return i.key
}

type result struct {
	value int
}

type innerService struct {
	calls int
}

func (s *innerService) Run(ctx context.Context, in input) (result, error) {
	s.calls++
	return result{value: 42}, nil
}

func TestAllowed(t *testing.T) {
	limiter := ratelimiter.NewFakeRateLimiter(true)
	inner := &innerService{}
	service := WithRateLimiting[input, result](
		logging.NewFakeLogger(),
		limiter,
		ratelimiter.Limit{Interval: ratelimiter.Minute, Value: 5},
		inner,
	)

	res, err := service.Run(context.Background(), input{key: "test-key"})

	require.NoError(t, err)
	require.Equal(t, 42, res.value)
	require.Equal(t, 1, inner.calls)
	require.Equal(t, []string{"test-key"}, limiter.CheckedKeys)
}

func TestNotAllowed(t *testing.T) {
	log := logging.NewFakeLogger()
	inner := &innerService{}
	service := WithRateLimiting[input, result](
		log,
		ratelimiter.NewFakeRateLimiter(false),
		ratelimiter.Limit{Interval: ratelimiter.Hour, Value: 1},
		inner,
	)

	_, err := service.Run(context.Background(), input{key: "test-key"})

	require.ErrorIs(t, err, ratelimiter.ErrRateLimitExceeded)
	require.Equal(t, 0, inner.calls)
	require.Equal(t, 1, log.CountByLevel(logging.WARNING))
}
