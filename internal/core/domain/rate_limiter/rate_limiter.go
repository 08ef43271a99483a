package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

type Interval struct {
	name     string
	duration time.Duration
}

var (
	Minute = Interval{name: "minute", duration: time.Minute}
	Hour   = Interval{name: "hour", duration: time.Hour}
)

func (i Interval) Duration() time.Duration {
	return i.duration
}

func (i Interval) String() string {
	return i.name
}

// Limit allows Value calls per fixed Interval window.
type Limit struct {
	Value    uint16
	Interval Interval
}

func (l Limit) String() string {
	return fmt.Sprintf("%d/%s", l.Value, l.Interval)
}

type Result struct {
	IsAllowed bool
}

func Allowed() Result {
	return Result{IsAllowed: true}
}

func NotAllowed() Result {
	return Result{IsAllowed: false}
}

type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit Limit) Result
}
