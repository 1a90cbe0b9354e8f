package util

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter spaces requests per ATS host, so several boards on
// boards-api.greenhouse.io share one budget while api.lever.co keeps its own.
// A nil *HostLimiter, or one built with a non-positive rate, never blocks.
type HostLimiter struct {
	perSec rate.Limit
	burst  int

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	return &HostLimiter{
		perSec: rate.Limit(reqPerSec),
		burst:  max(burst, 1),
		hosts:  map[string]*rate.Limiter{},
	}
}

// WaitURL blocks until the host of raw may be hit again or ctx ends.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	if hl == nil || hl.perSec <= 0 {
		return nil
	}
	return hl.forHost(hostOf(raw)).Wait(ctx)
}

func (hl *HostLimiter) forHost(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	lim, ok := hl.hosts[host]
	if !ok {
		lim = rate.NewLimiter(hl.perSec, hl.burst)
		hl.hosts[host] = lim
	}
	return lim
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "_"
	}
	return strings.ToLower(u.Hostname())
}
