package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"github.com/Carmen-Shannon/oxy-hover/engine/profiler"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
	"github.com/Carmen-Shannon/oxy-hover/engine/window"
	"go.uber.org/zap"
)

// maxFrameDelta caps the tween step after a stall so transitions do not jump to their end.
const maxFrameDelta = 100 * time.Millisecond

// postQueueSize is the capacity of the event channel between window callbacks and the frame loop.
const postQueueSize = 256

// Drawable is something the engine draws every frame, e.g. a textured plane.
type Drawable interface {
	// Prepare runs after the render hooks and before the render pass begins. Drawables fire
	// their own per-frame notifications and queue their uniform uploads here.
	//
	// Parameters:
	//   - r: the renderer the frame is drawn with
	Prepare(r renderer.Renderer)

	// Draw records the drawable's draw calls into the current render pass.
	//
	// Parameters:
	//   - r: the renderer the frame is drawn with
	//
	// Returns:
	//   - error: an error if the draw could not be recorded
	Draw(r renderer.Renderer) error
}

// engine implements the Engine interface.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	tweener  tween.Tweener

	posts chan func()

	running  bool
	wg       sync.WaitGroup
	quitChan chan struct{}
	quitOnce sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool
	animating        func() int

	renderHooks   []func(dt float64)
	resizeHooks   []func(width, height int)
	shutdownHooks []func()

	drawables map[int]Drawable

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	now              func() time.Time
	lastFrame        time.Time

	log *zap.Logger
}

// Engine owns the window, the renderer and the shared tweener, and runs one serialized frame loop.
//
// Window callbacks never touch engine state directly: they Post closures that the loop drains at the
// start of each frame. Each frame then ticks the tweener, runs the render hooks, prepares and draws
// every Drawable in ascending key order and presents. All hooks run on the frame loop goroutine.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Tweener returns the tweener ticked once per frame before the render hooks.
	//
	// Returns:
	//   - tween.Tweener: the shared tweener
	Tweener() tween.Tweener

	// Post queues fn to run on the frame loop at the start of the next frame.
	// Safe to call from any goroutine. Posts after Quit are dropped.
	//
	// Parameters:
	//   - fn: the function to run
	Post(fn func())

	// OnRender registers a hook run every frame after the tweener tick.
	//
	// Parameters:
	//   - fn: the hook, receiving the frame delta in seconds
	OnRender(fn func(dt float64))

	// OnResize registers a hook run on the frame loop after the surface has been reconfigured.
	//
	// Parameters:
	//   - fn: the hook, receiving the framebuffer size in pixels
	OnResize(fn func(width, height int))

	// OnShutdown registers a hook run on the frame loop after the last frame, before the renderer is released.
	//
	// Parameters:
	//   - fn: the hook
	OnShutdown(fn func())

	// AddDrawable registers d at the given z-index key. Drawables are drawn in ascending key order.
	//
	// Parameters:
	//   - key: the z-index (lower draws first)
	//   - d: the drawable
	AddDrawable(key int, d Drawable)

	// RemoveDrawable removes the drawable at key.
	//
	// Parameters:
	//   - key: the z-index of the drawable to remove
	RemoveDrawable(key int)

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop and pumps window messages on the calling goroutine until the
	// window closes. The shutdown hooks have run and the renderer is released when Run returns.
	Run()

	// Quit stops the frame loop and asks the window to close.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// A window and a renderer are required.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		posts:     make(chan func(), postQueueSize),
		quitChan:  make(chan struct{}),
		drawables: make(map[int]Drawable),
		now:       time.Now,
		log:       logging.Named("engine"),
	}

	for _, opt := range options {
		if opt == nil {
			panic("engine: nil option")
		}
		opt(e)
	}

	if e.window == nil {
		panic("engine: a window is required, use WithWindow")
	}
	if e.renderer == nil {
		panic("engine: a renderer is required, use WithRenderer")
	}
	if e.tweener == nil {
		e.tweener = tween.NewTweener()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	e.window.SetResizeCallback(func(width, height int) {
		e.Post(func() { e.resize(width, height) })
	})
	e.window.SetCloseCallback(e.Quit)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Tweener() tween.Tweener {
	return e.tweener
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-e.quitChan:
		return
	default:
	}
	select {
	case <-e.quitChan:
	case e.posts <- fn:
	}
}

func (e *engine) OnRender(fn func(dt float64)) {
	e.renderHooks = append(e.renderHooks, fn)
}

func (e *engine) OnResize(fn func(width, height int)) {
	e.resizeHooks = append(e.resizeHooks, fn)
}

func (e *engine) OnShutdown(fn func()) {
	e.shutdownHooks = append(e.shutdownHooks, fn)
}

func (e *engine) AddDrawable(key int, d Drawable) {
	e.drawables[key] = d
}

func (e *engine) RemoveDrawable(key int) {
	delete(e.drawables, key)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() {
	e.running = true
	e.wg.Add(1)
	go e.handleRender()
	e.window.ProcessMessages()
	e.Quit()
	e.wg.Wait()
	e.running = false
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChan)
		e.window.RequestClose()
	})
}

// handleRender runs the frame loop until Quit, then runs the shutdown hooks and releases the renderer.
// A panic inside a frame is logged and stops the loop.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer e.shutdown()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("frame loop recovered from panic", zap.String("panic", fmt.Sprint(r)))
			e.Quit()
		}
	}()

	e.lastFrame = e.now()
	for {
		select {
		case <-e.quitChan:
			return
		default:
		}

		start := e.now()
		dt := start.Sub(e.lastFrame)
		e.lastFrame = start
		e.frame(dt)

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// frame runs one iteration of the loop: posted events, tweens, render hooks, drawing.
func (e *engine) frame(elapsed time.Duration) {
	e.drainPosts()

	if elapsed > maxFrameDelta {
		elapsed = maxFrameDelta
	}
	dt := elapsed.Seconds()
	e.tweener.Tick(dt)

	for _, hook := range e.renderHooks {
		hook(dt)
	}

	keys := make([]int, 0, len(e.drawables))
	for k := range e.drawables {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		e.drawables[k].Prepare(e.renderer)
	}

	if err := e.renderer.BeginFrame(); err == nil {
		for _, k := range keys {
			if drawErr := e.drawables[k].Draw(e.renderer); drawErr != nil {
				e.log.Warn("draw failed", zap.Int("key", k), zap.Error(drawErr))
			}
		}
		e.renderer.EndFrame()
		e.renderer.Present()
	} else if err != renderer.ErrSurfaceUnavailable {
		e.log.Warn("begin frame failed", zap.Error(err))
	}

	if e.profilingEnabled && e.profiler != nil {
		animating := 0
		if e.animating != nil {
			animating = e.animating()
		}
		e.profiler.Tick(animating)
	}
}

func (e *engine) drainPosts() {
	for {
		select {
		case fn := <-e.posts:
			fn()
		default:
			return
		}
	}
}

func (e *engine) resize(width, height int) {
	e.renderer.Resize(width, height)
	if width <= 0 || height <= 0 {
		return
	}
	for _, hook := range e.resizeHooks {
		hook(width, height)
	}
}

func (e *engine) shutdown() {
	e.drainPosts()
	for _, hook := range e.shutdownHooks {
		hook()
	}
	e.renderer.Release()
}
