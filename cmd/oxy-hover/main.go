// Command oxy-hover opens a window and shows the slides of a gallery manifest with the hover
// distortion effect.
//
// Usage:
//
//	oxy-hover -manifest gallery.yaml [-debug] [-vsync=false] [-msaa 1] [-software]
//
// The capability gate's signals are probed from the host and can be overridden with
// -reduced-motion, -save-data, -memory and -cores.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-hover/engine"
	"github.com/Carmen-Shannon/oxy-hover/engine/capability"
	"github.com/Carmen-Shannon/oxy-hover/engine/config"
	"github.com/Carmen-Shannon/oxy-hover/engine/gallery"
	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"github.com/Carmen-Shannon/oxy-hover/engine/plane"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer"
	"github.com/Carmen-Shannon/oxy-hover/engine/window"
	"go.uber.org/zap"
)

// options is the parsed command line.
type options struct {
	manifest string
	debug    bool
	vsync    bool
	msaa     int
	software bool
	fps      float64

	overrides capability.Overrides
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// parseFlags parses args. Capability overrides are only set for flags that were passed.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("oxy-hover", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.manifest, "manifest", "gallery.yaml", "gallery manifest (YAML)")
	fs.BoolVar(&o.debug, "debug", false, "start the inspector and the profiler, log at debug level")
	fs.BoolVar(&o.vsync, "vsync", true, "wait for vertical blank when presenting")
	fs.IntVar(&o.msaa, "msaa", int(renderer.MSAA4x), "MSAA sample count, 1 or 4")
	fs.BoolVar(&o.software, "software", false, "force the software (fallback) GPU adapter")
	fs.Float64Var(&o.fps, "fps", 0, "frame rate cap, 0 for none")

	reducedMotion := fs.Bool("reduced-motion", false, "override the reduced-motion preference")
	saveData := fs.Bool("save-data", false, "override the data-saving preference")
	memory := fs.Float64("memory", 0, "override the device memory in GB")
	cores := fs.Int("cores", 0, "override the logical core count")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.msaa != int(renderer.MSAAOff) && o.msaa != int(renderer.MSAA4x) {
		return o, fmt.Errorf("-msaa must be 1 or 4, got %d", o.msaa)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "reduced-motion":
			o.overrides.ReducedMotion = reducedMotion
		case "save-data":
			o.overrides.SaveData = saveData
		case "memory":
			o.overrides.DeviceMemoryGB = memory
		case "cores":
			o.overrides.LogicalCores = cores
		}
	})
	return o, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// run starts the gallery and blocks until its window closes. It returns the process exit code.
func run(args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	// ── Logging ─────────────────────────────────────────────────────────
	logger, err := newLogger(opts.debug)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logging.SetLogger(logger)
	log := logging.Named("main")

	// ── Manifest ────────────────────────────────────────────────────────
	manifest, err := config.LoadManifest(opts.manifest)
	if err != nil {
		log.Error("cannot read manifest", zap.Error(err))
		return 1
	}
	ws := manifest.WindowSettings()

	// ── Window ──────────────────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(ws.Title),
		window.WithSize(ws.Width, ws.Height),
	)
	if err != nil {
		log.Error("cannot open window", zap.Error(err))
		return 1
	}
	defer func() {
		if err := win.Close(); err != nil {
			log.Warn("window close", zap.Error(err))
		}
	}()

	// ── Renderer ────────────────────────────────────────────────────────
	presentMode := renderer.PresentModeVSync
	if !opts.vsync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(opts.msaa)),
		renderer.WithForceSoftwareRenderer(opts.software),
	)
	if err != nil {
		log.Error("cannot start the GPU", zap.Error(err))
		return 1
	}

	// ── Run ─────────────────────────────────────────────────────────────
	if err := start(log, opts, manifest, win, r); err != nil {
		log.Error("cannot start the gallery", zap.Error(err))
		r.Release()
		return 1
	}
	return 0
}

// start registers the pipelines, builds the engine and the gallery and runs the loop until the window closes.
func start(log *zap.Logger, opts options, manifest *config.Manifest, win window.Window, r renderer.Renderer) error {
	hoverPipeline, err := plane.NewHoverPipeline()
	if err != nil {
		return err
	}
	staticPipeline, err := plane.NewStaticPipeline()
	if err != nil {
		return err
	}
	if err := r.RegisterPipelines(hoverPipeline, staticPipeline); err != nil {
		return err
	}

	// ── Engine ──────────────────────────────────────────────────────────
	var g gallery.Gallery
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithRenderFrameLimit(opts.fps),
		engine.WithAnimatingCounter(func() int {
			if g == nil {
				return 0
			}
			return g.Animating()
		}),
	)

	// ── Gallery ─────────────────────────────────────────────────────────
	g, err = gallery.New(
		gallery.WithHost(eng),
		gallery.WithManifest(manifest),
		gallery.WithPipelines(hoverPipeline, staticPipeline),
		gallery.WithViewport(win.Width(), win.Height()),
		gallery.WithSignals(capability.Probe(opts.overrides)),
		gallery.WithDebug(opts.debug),
		gallery.WithMaxTextureDimension(r.MaxTextureDimension()),
	)
	if err != nil {
		return err
	}
	g.Attach(win)

	log.Info("running", zap.String("manifest", opts.manifest), zap.Int("slides", len(manifest.Slides)))
	eng.Run()
	return nil
}
