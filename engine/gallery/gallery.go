// Package gallery builds one hover controller per manifest slide and routes window input to them.
//
// The gallery decides once, at construction, between the hover effect and the static fallback.
// In the fallback every slide is a plain cover-scaled image and no controllers exist. Otherwise
// pointer moves are hit-tested against the slide rects and delivered as enter and exit
// transitions, and framebuffer resizes are debounced before the slides are relaid out.
package gallery

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine"
	"github.com/Carmen-Shannon/oxy-hover/engine/capability"
	"github.com/Carmen-Shannon/oxy-hover/engine/config"
	"github.com/Carmen-Shannon/oxy-hover/engine/hover"
	"github.com/Carmen-Shannon/oxy-hover/engine/inspector"
	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"github.com/Carmen-Shannon/oxy-hover/engine/plane"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
	"go.uber.org/zap"
)

// ResizeDebounce is how long the framebuffer size must stay unchanged before the slides are resized.
const ResizeDebounce = 150 * time.Millisecond

// Host is the part of the engine the gallery runs in. engine.Engine satisfies it.
type Host interface {
	Tweener() tween.Tweener
	Post(fn func())
	OnResize(fn func(width, height int))
	OnShutdown(fn func())
	AddDrawable(key int, d engine.Drawable)
	RemoveDrawable(key int)
	EnableProfiler()
}

var _ Host = engine.Engine(nil)

// Input is the window event source the gallery listens to. window.Window satisfies it.
type Input interface {
	SetMouseMoveCallback(callback func(x, y float64))
	SetMouseLeaveCallback(callback func())
	SetKeyDownCallback(callback func(keyCode uint32))
}

type stopper interface {
	Stop() bool
}

// slide is one manifest slide and what was built for it.
type slide struct {
	index      int
	cfg        config.Config
	plane      plane.Plane
	controller hover.Controller // nil in the static fallback
}

// gallery is the implementation of the Gallery interface.
type gallery struct {
	host           Host
	manifest       *config.Manifest
	manifestPath   string
	hoverPipeline  pipeline.Pipeline
	staticPipeline pipeline.Pipeline
	signals        *capability.Signals
	debug          bool
	maxTexture     int
	workers        int
	debounce       time.Duration
	gap            float64
	log            *zap.Logger

	after func(d time.Duration, fn func()) stopper

	viewW, viewH float64
	fallback     bool
	slides       []*slide
	inspector    inspector.Inspector

	hovered            int
	pointerX, pointerY float64
	pointerIn          bool

	resizeTimer stopper
	resizeSeq   int
	closed      bool
}

// Gallery owns the slides of one manifest. Except for New and Attach, all methods must be called
// from the frame loop goroutine.
type Gallery interface {
	// Fallback reports whether the static presentation replaced the hover effect.
	Fallback() bool

	// Controllers returns the hover controllers in slide order. Empty in the fallback.
	Controllers() []hover.Controller

	// Planes returns the slide planes in slide order.
	Planes() []plane.Plane

	// Inspector returns the debug inspector, or nil when debug mode is off.
	Inspector() inspector.Inspector

	// Attach routes the pointer and key events of a window into the frame loop.
	//
	// Parameters:
	//   - in: the window to listen to
	Attach(in Input)

	// HandleMouseMove hit-tests the pointer against the slides. The topmost slide under the pointer
	// is entered and the previously hovered one is exited.
	//
	// Parameters:
	//   - x, y: the pointer position in framebuffer pixels
	HandleMouseMove(x, y float64)

	// HandleMouseLeave exits the hovered slide.
	HandleMouseLeave()

	// HandleKey forwards a key press to the inspector, if there is one.
	//
	// Parameters:
	//   - key: the key code
	HandleKey(key uint32)

	// Resize schedules a relayout for a new framebuffer size. Only the last size of a burst of
	// calls within the debounce window is applied.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// Animating returns the number of controllers whose time uniform is advancing.
	Animating() int

	// Close destroys every controller and removes every plane. Calling it more than once is safe.
	Close()
}

var _ Gallery = &gallery{}

// New builds the gallery: it loads the manifest, evaluates the capability gate, decodes the slide
// images in parallel and creates one plane, and unless falling back one controller, per slide.
// A host and both pipelines are required.
//
// Parameters:
//   - options: variadic list of GalleryBuilderOption functions
//
// Returns:
//   - Gallery: the gallery, its planes registered as drawables on the host
//   - error: a *config.ManifestError if the manifest cannot be loaded
func New(options ...GalleryBuilderOption) (Gallery, error) {
	g := &gallery{
		workers:  max(runtime.NumCPU()-1, 1),
		debounce: ResizeDebounce,
		gap:      DefaultGap,
		viewW:    float64(config.DefaultWindow().Width),
		viewH:    float64(config.DefaultWindow().Height),
		hovered:  -1,
		log:      logging.Named("gallery"),
		after: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
	for _, opt := range options {
		if opt == nil {
			panic("gallery: nil option")
		}
		opt(g)
	}
	if g.host == nil {
		panic("gallery: a host is required, use WithHost")
	}
	if g.hoverPipeline == nil || g.staticPipeline == nil {
		panic("gallery: both pipelines are required, use WithPipelines")
	}

	if g.manifest == nil {
		if g.manifestPath == "" {
			panic("gallery: a manifest is required, use WithManifest or WithManifestPath")
		}
		m, err := config.LoadManifest(g.manifestPath)
		if err != nil {
			return nil, err
		}
		g.manifest = m
	}

	doc := g.manifest.Document()
	g.debug = g.debug || doc.Debug

	signals := capability.Probe(capability.Overrides{})
	if g.signals != nil {
		signals = *g.signals
	}
	gate := capability.NewGate(signals)
	g.fallback = gate.ShouldFallback()
	if g.fallback {
		g.log.Info("using static fallback", zap.String("reason", gate.Reason()))
	}

	g.build(doc)

	g.host.OnResize(g.Resize)
	g.host.OnShutdown(g.Close)

	if g.debug {
		g.host.EnableProfiler()
		if controllers := g.Controllers(); len(controllers) > 0 {
			targets := make([]inspector.Target, len(controllers))
			for i, c := range controllers {
				targets[i] = c
			}
			g.inspector = inspector.NewInspector(targets)
		}
	}

	g.log.Info("gallery ready",
		zap.Int("slides", len(g.slides)),
		zap.Bool("fallback", g.fallback),
		zap.Bool("debug", g.debug),
	)
	return g, nil
}

// build decodes the images and creates the planes and controllers.
func (g *gallery) build(doc config.Config) {
	m := g.manifest
	rects := Layout(m.Slides, g.viewW, g.viewH, g.gap)

	sources := make([]common.ImageSource, len(m.Slides))
	for i := range m.Slides {
		sources[i] = common.ImageSource{Path: m.ImagePath(i), MaxDimension: g.maxTexture}
	}
	start := time.Now()
	images := decodeAll(sources, g.workers)
	g.log.Debug("slides decoded", zap.Int("slides", len(images)), zap.Duration("took", time.Since(start)))

	for i, s := range m.Slides {
		img := images[i]
		if img.err != nil {
			g.log.Warn("slide image failed to decode",
				zap.Int("slide", i), zap.String("image", sources[i].Path), zap.Error(img.err))
		}

		planeW, planeH := rects[i].W, rects[i].H
		if s.HasRect() {
			planeW, planeH = s.PlaneSize()
		}
		texW, texH := s.TextureSize(float64(img.size.X), float64(img.size.Y))
		cover, err := common.CoverScale(planeW, planeH, texW, texH)
		if err != nil {
			g.log.Warn("cover scale falls back to 1:1", zap.Int("slide", i), zap.Error(err))
		}

		sl := &slide{index: i, cfg: m.SlideConfig(doc, i)}
		label := fmt.Sprintf("slide %d", i)

		block := uniform.Rest()
		block.Tex1Scale = cover.Float32()
		block.Resolution = [2]float32{float32(g.viewW), float32(g.viewH)}

		p := g.hoverPipeline
		if g.fallback {
			p = g.staticPipeline
		}
		sl.plane = plane.NewPlane(label,
			plane.WithPipeline(p),
			plane.WithLayout(rects[i], g.viewW, g.viewH),
			plane.WithTexture(img.texture),
			plane.WithDeclarations(block, uniform.Declarations(block)),
		)

		if !g.fallback {
			params, err := hover.NewParameterSet(sl.cfg.Parameters(), cover)
			if err != nil {
				g.log.Warn("slide configuration adjusted", zap.Int("slide", i), zap.Error(err))
			}
			sl.controller = hover.NewController(
				hover.WithID(i),
				hover.WithSurface(sl.plane),
				hover.WithParameters(params),
				hover.WithTweener(g.host.Tweener()),
				hover.WithResolution(g.viewW, g.viewH),
			)
		}

		g.slides = append(g.slides, sl)
		g.host.AddDrawable(i, sl.plane)
	}
}

func (g *gallery) Fallback() bool {
	return g.fallback
}

func (g *gallery) Controllers() []hover.Controller {
	var out []hover.Controller
	for _, s := range g.slides {
		if s.controller != nil {
			out = append(out, s.controller)
		}
	}
	return out
}

func (g *gallery) Planes() []plane.Plane {
	out := make([]plane.Plane, len(g.slides))
	for i, s := range g.slides {
		out[i] = s.plane
	}
	return out
}

func (g *gallery) Inspector() inspector.Inspector {
	return g.inspector
}

func (g *gallery) Attach(in Input) {
	in.SetMouseMoveCallback(func(x, y float64) {
		g.host.Post(func() { g.HandleMouseMove(x, y) })
	})
	in.SetMouseLeaveCallback(func() {
		g.host.Post(g.HandleMouseLeave)
	})
	in.SetKeyDownCallback(func(key uint32) {
		g.host.Post(func() { g.HandleKey(key) })
	})
}

func (g *gallery) HandleMouseMove(x, y float64) {
	if g.closed || g.fallback {
		return
	}
	g.pointerX, g.pointerY, g.pointerIn = x, y, true

	hit := g.hitTest(x, y)
	if hit >= 0 {
		s := g.slides[hit]
		s.controller.SetMouse(s.plane.Rect().Local(x, y))
	}
	if hit == g.hovered {
		return
	}
	if g.hovered >= 0 {
		g.slides[g.hovered].plane.PointerLeave()
	}
	g.hovered = hit
	if hit >= 0 {
		g.slides[hit].plane.PointerEnter()
	}
}

// hitTest returns the index of the topmost live slide under (x, y), or -1.
func (g *gallery) hitTest(x, y float64) int {
	for i := len(g.slides) - 1; i >= 0; i-- {
		s := g.slides[i]
		if s.controller == nil || s.controller.Inert() || s.controller.Destroyed() {
			continue
		}
		if s.plane.Rect().Contains(x, y) {
			return i
		}
	}
	return -1
}

func (g *gallery) HandleMouseLeave() {
	g.pointerIn = false
	if g.hovered < 0 {
		return
	}
	g.slides[g.hovered].plane.PointerLeave()
	g.hovered = -1
}

func (g *gallery) HandleKey(key uint32) {
	if g.closed || g.inspector == nil {
		return
	}
	g.inspector.HandleKey(key)
}

func (g *gallery) Resize(width, height int) {
	if g.closed {
		return
	}
	if g.resizeTimer != nil {
		g.resizeTimer.Stop()
	}
	g.resizeSeq++
	seq := g.resizeSeq
	g.resizeTimer = g.after(g.debounce, func() {
		g.host.Post(func() {
			if seq != g.resizeSeq {
				return
			}
			g.applyResize(float64(width), float64(height))
		})
	})
}

// applyResize relays out the slides and pushes the new resolution to every controller.
func (g *gallery) applyResize(width, height float64) {
	if g.closed {
		return
	}
	g.resizeTimer = nil
	g.viewW, g.viewH = width, height

	rects := Layout(g.manifest.Slides, width, height, g.gap)
	for i, s := range g.slides {
		s.plane.SetLayout(rects[i], width, height)
		if s.controller != nil {
			s.controller.Resize(width, height)
		}
	}
	g.log.Debug("slides resized", zap.Float64("width", width), zap.Float64("height", height))

	// slides may have moved under a resting pointer
	if g.pointerIn {
		g.HandleMouseMove(g.pointerX, g.pointerY)
	}
}

func (g *gallery) Animating() int {
	n := 0
	for _, s := range g.slides {
		if s.controller != nil && !s.controller.Destroyed() && s.controller.State().Animating() {
			n++
		}
	}
	return n
}

func (g *gallery) Close() {
	if g.closed {
		return
	}
	g.closed = true
	if g.resizeTimer != nil {
		g.resizeTimer.Stop()
		g.resizeTimer = nil
	}
	if g.inspector != nil {
		g.inspector.Close()
	}
	for _, s := range g.slides {
		if s.controller != nil {
			s.controller.Destroy()
		} else {
			s.plane.Remove()
		}
		g.host.RemoveDrawable(s.index)
	}
	g.hovered = -1
	g.log.Info("gallery closed", zap.Int("slides", len(g.slides)))
}
