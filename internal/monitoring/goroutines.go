package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Gauge reports a current value, such as the number of connected viewers
type Gauge func() int

// Monitor periodically samples the goroutine count and registered gauges.
// The websocket feed registers its viewer count so leaked connections show up
// in the logs.
type Monitor struct {
	logger zerolog.Logger

	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	gauges         map[string]Gauge
	gaugeValues    map[string]int
}

// NewMonitor creates a monitor sampling every interval
func NewMonitor(interval time.Duration, logger zerolog.Logger) *Monitor {
	baseline := runtime.NumGoroutine()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		logger:         logger.With().Str("component", "Monitor").Logger(),
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  interval,
		alertThreshold: 1000,
		alertCooldown:  5 * time.Minute,
		gauges:         make(map[string]Gauge),
		gaugeValues:    make(map[string]int),
	}
}

// Register adds a named gauge sampled on every check
func (m *Monitor) Register(name string, g Gauge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = g
}

// Run samples until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Debug().Int("baseline", m.baseline).Msg("Started goroutine monitoring")

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check()
		case <-ctx.Done():
			return
		}
	}
}

// Check takes one sample and logs it
func (m *Monitor) Check() {
	current := runtime.NumGoroutine()

	m.mu.Lock()
	gauges := make(map[string]Gauge, len(m.gauges))
	for name, g := range m.gauges {
		gauges[name] = g
	}
	m.mu.Unlock()

	values := make(map[string]int, len(gauges))
	for name, g := range gauges {
		values[name] = g()
	}

	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	m.gaugeValues = values

	shouldAlert := current > m.alertThreshold &&
		time.Since(m.lastAlert) > m.alertCooldown
	if shouldAlert {
		m.lastAlert = time.Now()
	}
	peak := m.peak
	m.mu.Unlock()

	ev := m.logger.Debug().
		Int("current", current).
		Int("baseline", m.baseline).
		Int("peak", peak)
	for name, v := range values {
		ev = ev.Int(name, v)
	}
	ev.Msg("Goroutine metrics")

	if shouldAlert {
		m.logger.Warn().
			Int("current", current).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// GetMetrics returns the last sample
func (m *Monitor) GetMetrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Metrics{
		Current:  m.current,
		Baseline: m.baseline,
		Peak:     m.peak,
		Growth:   m.current - m.baseline,
		Gauges:   copyMap(m.gaugeValues),
	}
}

// Metrics contains goroutine statistics and gauge values
type Metrics struct {
	Current  int            `json:"current"`
	Baseline int            `json:"baseline"`
	Peak     int            `json:"peak"`
	Growth   int            `json:"growth"`
	Gauges   map[string]int `json:"gauges"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
