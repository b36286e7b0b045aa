package profiler

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestProfilerReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithMemStats(false), WithLogger(zap.NewNop()))

	reports := 0
	var last Report
	for i := 0; i < 100; i++ {
		clock.advance(20 * time.Millisecond)
		if r, ok := p.Tick(2); ok {
			reports++
			last = r
		}
	}

	if reports != 2 {
		t.Fatalf("reports = %d, want 2", reports)
	}
	if last.FPS != 50 {
		t.Errorf("FPS = %v, want 50", last.FPS)
	}
	if last.Animating != 2 {
		t.Errorf("Animating = %v, want 2", last.Animating)
	}
}

func TestProfilerAveragesAnimating(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithInterval(100*time.Millisecond), WithMemStats(false), WithLogger(zap.NewNop()))

	counts := []int{0, 1, 2, 3}
	var r Report
	var ok bool
	for _, n := range counts {
		clock.advance(25 * time.Millisecond)
		r, ok = p.Tick(n)
	}
	if !ok {
		t.Fatalf("Tick() did not report after the interval elapsed")
	}
	if r.Animating != 1.5 {
		t.Errorf("Animating = %v, want 1.5", r.Animating)
	}
	if r.FPS != 40 {
		t.Errorf("FPS = %v, want 40", r.FPS)
	}
}

func TestProfilerNoReportBeforeInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithLogger(zap.NewNop()))
	clock.advance(500 * time.Millisecond)
	if _, ok := p.Tick(0); ok {
		t.Errorf("Tick() reported before the interval elapsed")
	}
}

func TestProfilerMemStats(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithLogger(zap.NewNop()))
	clock.advance(time.Second)
	r, ok := p.Tick(0)
	if !ok {
		t.Fatalf("Tick() did not report")
	}
	if r.SysMB <= 0 {
		t.Errorf("SysMB = %v, want > 0", r.SysMB)
	}
}

func TestNewProfilerNilOptionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewProfiler(nil) did not panic")
		}
	}()
	NewProfiler(nil)
}
