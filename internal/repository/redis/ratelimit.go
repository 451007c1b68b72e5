package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set of request timestamps. Replies with
// {allowed, hits, retry_after_ms}.
// KEYS[1] = window key, ARGV = now_ms, window_ms, limit, unique member.
const rateLimitScript = `
local k = KEYS[1]
local now_ms = tonumber(ARGV[1])
local win_ms = tonumber(ARGV[2])
local max_hits = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', k, 0, now_ms - win_ms)
redis.call('ZADD', k, 'NX', now_ms, ARGV[4])
redis.call('PEXPIRE', k, win_ms)

local hits = redis.call('ZCARD', k)
if hits <= max_hits then
  return {1, hits, 0}
end

local oldest = redis.call('ZRANGE', k, 0, 0, 'WITHSCORES')
local oldest_ms = tonumber(oldest[2]) or (now_ms - win_ms)
local wait_ms = win_ms - (now_ms - oldest_ms)
if wait_ms < 0 then wait_ms = 0 end
return {0, hits, wait_ms}
`

type SlidingWindowLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	script *redis.Script
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	prefix string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		script: redis.NewScript(rateLimitScript),
	}
}

// Allow records one hit for the given subject and reports whether it is
// within the limit, the current hit count, and how long to wait if not.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, suffix string) (bool, int64, time.Duration, error) {
	key := l.prefix + ":" + suffix

	res, err := l.script.Run(ctx, l.rdb, []string{key},
		time.Now().UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
		nonce(),
	).Result()
	if err != nil {
		return false, 0, 0, err
	}

	reply, ok := res.([]any)
	if !ok || len(reply) != 3 {
		return false, 0, 0, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	allowed := asInt64(reply[0]) == 1
	hits := asInt64(reply[1])
	wait := time.Duration(asInt64(reply[2])) * time.Millisecond

	return allowed, hits, wait, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

// nonce distinguishes concurrent hits landing on the same millisecond.
func nonce() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
