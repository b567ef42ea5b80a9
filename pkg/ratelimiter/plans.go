package ratelimiter

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// EnvPlans configures the plan table: "idx:max;idx:max;...". When set, a
// session's rateLimit claim is treated as an index into the table.
const EnvPlans = "RATE_LIMIT_PLANS"

var plans = struct {
	mu     sync.RWMutex
	table  map[int]int
	loaded bool
}{}

// PlanLookup maps a session's rateLimit value to a window quota. With a
// plan table configured the value is an index, falling back to itself when
// the index is absent; without a table the value is the quota directly.
func PlanLookup(sessionRateLimit int) int {
	table := planTable()
	if table == nil {
		return sessionRateLimit
	}
	if maxRequests, ok := table[sessionRateLimit]; ok {
		return maxRequests
	}
	return sessionRateLimit
}

// ResetPlans drops the cached plan table so the next lookup re-reads the
// environment. Intended for tests.
func ResetPlans() {
	plans.mu.Lock()
	plans.table = nil
	plans.loaded = false
	plans.mu.Unlock()
}

func planTable() map[int]int {
	plans.mu.RLock()
	if plans.loaded {
		table := plans.table
		plans.mu.RUnlock()
		return table
	}
	plans.mu.RUnlock()

	var table map[int]int
	if raw := os.Getenv(EnvPlans); raw != "" {
		table = make(map[int]int)
		for _, pair := range strings.Split(raw, ";") {
			idx, maxRequests, ok := strings.Cut(strings.TrimSpace(pair), ":")
			if !ok {
				continue
			}
			i, err1 := strconv.Atoi(strings.TrimSpace(idx))
			m, err2 := strconv.Atoi(strings.TrimSpace(maxRequests))
			if err1 != nil || err2 != nil {
				continue
			}
			table[i] = m
		}
		if len(table) == 0 {
			table = nil
		}
	}

	plans.mu.Lock()
	plans.table = table
	plans.loaded = true
	plans.mu.Unlock()
	return table
}
