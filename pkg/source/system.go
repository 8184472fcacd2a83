package source

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// System is a Sampler over live system metrics via gopsutil. It also
// implements CachedSampler: every successful Evaluate refreshes a per
// expression cache consulted by CachedSample within the configured TTL.
type System struct {
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cachedValue
}

type cachedValue struct {
	raw  string
	when time.Time
}

// NewSystem creates a system source. cacheTTL bounds CachedSample staleness;
// zero means 500ms.
func NewSystem(cacheTTL time.Duration) *System {
	if cacheTTL <= 0 {
		cacheTTL = 500 * time.Millisecond
	}
	return &System{
		cacheTTL: cacheTTL,
		cache:    make(map[string]cachedValue),
	}
}

// Expressions returns the expression strings this source understands, for
// help output and completion.
func (s *System) Expressions() []string {
	return []string{
		"cpu.percent",
		"mem.used_percent",
		"mem.available_mb",
		"swap.used_percent",
		"load.load1",
		"load.load5",
		"load.load15",
		"net.bytes_recv",
		"net.bytes_sent",
		"disk.used_percent",
		"host.procs",
		"host.uptime_sec",
	}
}

// Evaluate resolves one system metric expression to its current value,
// formatted as decimal text.
func (s *System) Evaluate(ctx context.Context, expr string) (string, error) {
	v, err := s.evaluate(ctx, expr)
	if err != nil {
		return "", err
	}
	raw := strconv.FormatFloat(v, 'f', -1, 64)

	s.mu.Lock()
	s.cache[expr] = cachedValue{raw: raw, when: time.Now()}
	s.mu.Unlock()

	return raw, nil
}

// CachedSample returns the last evaluated value for expr if it is younger
// than the cache TTL.
func (s *System) CachedSample(expr string) (string, bool) {
	s.mu.RLock()
	cv, ok := s.cache[expr]
	s.mu.RUnlock()

	if !ok || time.Since(cv.when) > s.cacheTTL {
		return "", false
	}
	return cv.raw, true
}

func (s *System) evaluate(ctx context.Context, expr string) (float64, error) {
	switch expr {
	case "cpu.percent":
		// Interval 0 measures since the previous call, which is exactly
		// the acquisition tick cadence.
		pcts, err := cpu.PercentWithContext(ctx, 0, false)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, expr, err)
		}
		if len(pcts) == 0 {
			return 0, fmt.Errorf("%w: %s", ErrUnavailable, expr)
		}
		return pcts[0], nil

	case "mem.used_percent", "mem.available_mb":
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, expr, err)
		}
		if expr == "mem.used_percent" {
			return vm.UsedPercent, nil
		}
		return float64(vm.Available) / (1024 * 1024), nil

	case "swap.used_percent":
		sm, err := mem.SwapMemoryWithContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, expr, err)
		}
		return sm.UsedPercent, nil

	case "load.load1", "load.load5", "load.load15":
		avg, err := load.AvgWithContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, expr, err)
		}
		switch expr {
		case "load.load1":
			return avg.Load1, nil
		case "load.load5":
			return avg.Load5, nil
		default:
			return avg.Load15, nil
		}

	case "net.bytes_recv", "net.bytes_sent":
		counters, err := net.IOCountersWithContext(ctx, false)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, expr, err)
		}
		if len(counters) == 0 {
			return 0, fmt.Errorf("%w: %s", ErrUnavailable, expr)
		}
		if expr == "net.bytes_recv" {
			return float64(counters[0].BytesRecv), nil
		}
		return float64(counters[0].BytesSent), nil

	case "disk.used_percent":
		usage, err := disk.UsageWithContext(ctx, "/")
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, expr, err)
		}
		return usage.UsedPercent, nil

	case "host.procs", "host.uptime_sec":
		info, err := host.InfoWithContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, expr, err)
		}
		if expr == "host.procs" {
			return float64(info.Procs), nil
		}
		return float64(info.Uptime), nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownExpression, expr)
	}
}
