package ratelimiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zanix-io/auth/core/cache"
)

// windowScript is the atomic server-side window transition. It mirrors
// checkLocked exactly: first observation opens the window, later requests
// increment under the existing TTL, and exceeding the quota advances the
// failed-attempts counter, clearing it at the threshold.
//
// KEYS[1] window record (hash: count, createdAt)
// KEYS[2] failed-attempts counter
// ARGV[1] maxRequests, ARGV[2] window seconds, ARGV[3] maxFailedAttempts, ARGV[4] now
//
// Returns {count, createdAt, failedAttempts, canContinue}.
const windowScript = `
local key = KEYS[1]
local failedKey = KEYS[2]
local maxRequests = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local maxFailed = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local count = tonumber(redis.call('HGET', key, 'count'))
if not count then
  redis.call('HSET', key, 'count', 1, 'createdAt', now)
  redis.call('EXPIRE', key, window)
  redis.call('SET', failedKey, 0, 'EX', window * 2)
  return {1, now, 0, 1}
end

local createdAt = tonumber(redis.call('HGET', key, 'createdAt')) or now
count = redis.call('HINCRBY', key, 'count', 1)

if count > maxRequests then
  local failed = redis.call('INCR', failedKey)
  redis.call('EXPIRE', failedKey, window * 2)
  if failed >= maxFailed then
    redis.call('DEL', failedKey)
  end
  return {count, createdAt, failed, 0}
end

local failed = tonumber(redis.call('GET', failedKey)) or 0
return {count - 1, createdAt, failed, 1}
`

// checkScripted runs the window transition atomically on the server.
func (l *Limiter) checkScripted(ctx context.Context, scripter cache.Scripter, key string, maxRequests, window, maxFailed int) (*Result, error) {
	raw, err := scripter.Eval(ctx, windowScript,
		[]string{key, failedKey(key)},
		maxRequests, window, maxFailed, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("ratelimiter: eval window script: %w", err)
	}

	fields, ok := raw.([]any)
	if !ok || len(fields) != 4 {
		return nil, fmt.Errorf("ratelimiter: unexpected script result %T", raw)
	}

	return &Result{
		Count:          int(toInt64(fields[0])),
		CreatedAt:      toInt64(fields[1]),
		FailedAttempts: int(toInt64(fields[2])),
		CanContinue:    toInt64(fields[3]) == 1,
	}, nil
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}
