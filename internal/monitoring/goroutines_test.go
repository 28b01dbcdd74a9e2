package monitoring

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/friendseek/internal/testutil"
)

func TestMonitor_CheckRecordsGauges(t *testing.T) {
	m := NewMonitor(time.Hour, testutil.NopLogger())

	viewers := 3
	m.Register("viewers", func() int { return viewers })
	m.Check()

	metrics := m.GetMetrics()
	assert.Equal(t, 3, metrics.Gauges["viewers"])
	assert.GreaterOrEqual(t, metrics.Peak, metrics.Current)
	assert.Equal(t, metrics.Current-metrics.Baseline, metrics.Growth)

	viewers = 1
	m.Check()
	assert.Equal(t, 1, m.GetMetrics().Gauges["viewers"])
}

func TestMonitor_PeakTracksGrowth(t *testing.T) {
	m := NewMonitor(time.Hour, testutil.NopLogger())

	stop := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() { <-stop }()
	}
	m.Check()
	peak := m.GetMetrics().Peak
	close(stop)

	assert.GreaterOrEqual(t, peak, m.GetMetrics().Baseline+5)
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	m := NewMonitor(5*time.Millisecond, testutil.NopLogger())

	var samples atomic.Int32
	m.Register("samples", func() int { return int(samples.Add(1)) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return samples.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMonitor_DefaultInterval(t *testing.T) {
	m := NewMonitor(0, testutil.NopLogger())
	assert.Equal(t, 30*time.Second, m.checkInterval)
}
