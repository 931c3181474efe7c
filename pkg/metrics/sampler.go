// Package metrics simulates the host gauges shown next to the console.
package metrics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultInterval is the refresh period of Run when none is given.
const DefaultInterval = 2 * time.Second

// Snapshot is one reading of the simulated host.
type Snapshot struct {
	CPU    float64       `json:"cpu"`
	RAM    float64       `json:"ram"`
	Disk   float64       `json:"disk"`
	Uptime time.Duration `json:"uptime"`
}

// UptimeString formats Uptime as "1h 2m 3s".
func (s Snapshot) UptimeString() string {
	return FormatUptime(s.Uptime)
}

// FormatUptime renders d as whole hours, minutes and seconds.
func FormatUptime(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}

// Sampler is a bounded random walk over CPU and RAM. Disk never moves.
type Sampler struct {
	mu      sync.Mutex
	current Snapshot
	start   time.Time
	now     func() time.Time
	rnd     *rand.Rand
	gauges  *gauges
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithSeed makes the walk reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		s.rnd = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithNow replaces time.Now for uptime.
func WithNow(now func() time.Time) Option {
	return func(s *Sampler) {
		s.now = now
	}
}

// WithInitial overrides the starting CPU, RAM and disk readings.
func WithInitial(cpu, ram, disk float64) Option {
	return func(s *Sampler) {
		s.current.CPU = clamp(cpu, cpuMin, cpuMax)
		s.current.RAM = clamp(ram, ramMin, ramMax)
		s.current.Disk = disk
	}
}

// WithRegisterer exports every Tick as prometheus gauges registered on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Sampler) {
		s.gauges = newGauges(reg)
	}
}

const (
	cpuMin, cpuMax, cpuStep = 2.0, 90.0, 2.0
	ramMin, ramMax, ramStep = 20.0, 80.0, 0.75
)

// NewSampler starts the uptime clock at creation.
func NewSampler(opts ...Option) *Sampler {
	s := &Sampler{
		current: Snapshot{CPU: 12, RAM: 38, Disk: 25},
		now:     time.Now,
		rnd:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	s.gauges.set(s.current)
	return s
}

// Snapshot returns the last reading.
func (s *Sampler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Tick advances the walk by one step and returns the new reading.
func (s *Sampler) Tick() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.CPU = clamp(s.current.CPU+s.delta(cpuStep), cpuMin, cpuMax)
	s.current.RAM = clamp(s.current.RAM+s.delta(ramStep), ramMin, ramMax)
	s.current.Uptime = s.now().Sub(s.start)
	s.gauges.set(s.current)
	return s.current
}

// Run ticks every interval and hands each reading to fn until ctx is done.
func (s *Sampler) Run(ctx context.Context, interval time.Duration, fn func(Snapshot)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap := s.Tick()
			if fn != nil {
				fn(snap)
			}
		}
	}
}

// delta is uniform in [-step, step).
func (s *Sampler) delta(step float64) float64 {
	return s.rnd.Float64()*2*step - step
}

func clamp(v, lo, hi float64) float64 {
	return min(hi, max(lo, v))
}
