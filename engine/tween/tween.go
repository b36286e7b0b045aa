// Package tween animates float32 values toward targets over time with named easing curves.
//
// A Tweener is driven by explicit Tick calls so the owner decides what "time" is: the engine
// frame loop in production and a manual clock in tests. Every tween is keyed by the address of
// the value it animates and starting a new tween on the same address always replaces the old one.
package tween

// Options configures a single tween.
type Options struct {
	// Duration is the length of the tween in seconds. Zero or negative completes on the next tick.
	Duration float64

	// Ease shapes the progress. Nil means Linear.
	Ease Ease

	// OnComplete is called once when the tween reaches its end value naturally.
	// It is never called for a tween that was killed or overwritten.
	OnComplete func()
}

// tween is one in-flight animation of a single value.
type tween struct {
	target     *float32
	from, to   float32
	duration   float64
	elapsed    float64
	ease       Ease
	onComplete func()
	cancelled  bool
}

// tweener is the implementation of the Tweener interface.
type tweener struct {
	active   []*tween
	byTarget map[*float32]*tween
	pending  []*tween
}

// Tweener schedules and advances tweens. It is not safe for concurrent use; it is meant to be
// owned by the single goroutine that runs the frame loop.
type Tweener interface {
	// To starts animating *target from its current value to the given value.
	// Any tween already running on target is cancelled without completing (overwrite).
	//
	// Parameters:
	//   - target: the value to animate
	//   - to: the end value
	//   - opts: duration, easing and completion callback
	To(target *float32, to float32, opts Options)

	// Tick advances every tween by dt seconds and writes the new values.
	// Completion callbacks run after all values are written, in the order the tweens were started.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous tick
	Tick(dt float64)

	// Kill cancels the tweens on the given targets. Their completion callbacks never run.
	//
	// Parameters:
	//   - targets: the values whose tweens should stop
	Kill(targets ...*float32)

	// Active reports whether target currently has a running tween.
	//
	// Parameters:
	//   - target: the value to check
	//
	// Returns:
	//   - bool: true if a tween is running on target
	Active(target *float32) bool

	// Len returns the number of running tweens.
	//
	// Returns:
	//   - int: the running tween count
	Len() int
}

var _ Tweener = &tweener{}

// NewTweener creates an empty Tweener.
//
// Returns:
//   - Tweener: a tweener with no running tweens
func NewTweener() Tweener {
	return &tweener{
		byTarget: make(map[*float32]*tween),
	}
}

func (tw *tweener) To(target *float32, to float32, opts Options) {
	if target == nil {
		panic("tween: To called with nil target")
	}
	tw.cancel(target)

	ease := opts.Ease
	if ease == nil {
		ease = Linear
	}
	t := &tween{
		target:     target,
		from:       *target,
		to:         to,
		duration:   opts.Duration,
		ease:       ease,
		onComplete: opts.OnComplete,
	}
	tw.active = append(tw.active, t)
	tw.byTarget[target] = t
}

func (tw *tweener) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}

	var finished []*tween
	remaining := tw.active[:0]
	for _, t := range tw.active {
		t.elapsed += dt
		if t.duration <= 0 || t.elapsed >= t.duration {
			*t.target = t.to
			finished = append(finished, t)
			delete(tw.byTarget, t.target)
			continue
		}
		p := float32(t.ease(t.elapsed / t.duration))
		*t.target = t.from + (t.to-t.from)*p
		remaining = append(remaining, t)
	}
	for i := len(remaining); i < len(tw.active); i++ {
		tw.active[i] = nil
	}
	tw.active = remaining

	// callbacks may start or kill tweens, including ones that finished in this same tick
	tw.pending = finished
	for _, t := range finished {
		if t.cancelled || t.onComplete == nil {
			continue
		}
		t.cancelled = true
		t.onComplete()
	}
	tw.pending = nil
}

func (tw *tweener) Kill(targets ...*float32) {
	for _, target := range targets {
		tw.cancel(target)
	}
}

func (tw *tweener) Active(target *float32) bool {
	_, ok := tw.byTarget[target]
	return ok
}

func (tw *tweener) Len() int {
	return len(tw.active)
}

// cancel stops the running tween on target and suppresses a completion still waiting to fire.
func (tw *tweener) cancel(target *float32) {
	for _, t := range tw.pending {
		if t.target == target {
			t.cancelled = true
		}
	}

	t, ok := tw.byTarget[target]
	if !ok {
		return
	}
	t.cancelled = true
	delete(tw.byTarget, target)
	for i, a := range tw.active {
		if a == t {
			tw.active = append(tw.active[:i], tw.active[i+1:]...)
			break
		}
	}
}
