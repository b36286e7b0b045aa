package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

type fakeWindow struct {
	onResize       func(width, height int)
	onClose        func()
	closeRequested bool
}

func (w *fakeWindow) SetUpdateCallback(func()) {}
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y float64)) {}
func (w *fakeWindow) SetMouseLeaveCallback(func()) {}
func (w *fakeWindow) SetCloseCallback(cb func()) { w.onClose = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return !w.closeRequested }
func (w *fakeWindow) RequestClose() { w.closeRequested = true }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) ProcessMessages() {}
func (w *fakeWindow) Width() int { return 800 }
func (w *fakeWindow) Height() int { return 600 }

type fakeRenderer struct {
	events   *[]string
	beginErr error
	resizes  [][2]int
	released bool
}

func (r *fakeRenderer) Pipeline(string) pipeline.Pipeline { return nil }
func (r *fakeRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }
func (r *fakeRenderer) Resize(width, height int) { r.resizes = append(r.resizes, [2]int{width, height}) }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) MaxTextureDimension() int { return 8192 }
func (r *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (r *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}
func (r *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}
func (r *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}
func (r *fakeRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}
func (r *fakeRenderer) BeginFrame() error {
	*r.events = append(*r.events, "begin")
	return r.beginErr
}
func (r *fakeRenderer) DrawCall(string, bind_group_provider.BindGroupProvider, ...bind_group_provider.BindGroupProvider) error {
	return nil
}
func (r *fakeRenderer) EndFrame() { *r.events = append(*r.events, "end") }
func (r *fakeRenderer) Present() { *r.events = append(*r.events, "present") }
func (r *fakeRenderer) Release() { r.released = true }

type fakeDrawable struct {
	name   string
	events *[]string
}

func (d *fakeDrawable) Prepare(renderer.Renderer) { *d.events = append(*d.events, "prepare "+d.name) }
func (d *fakeDrawable) Draw(renderer.Renderer) error {
	*d.events = append(*d.events, "draw "+d.name)
	return nil
}

func newTestEngine(t *testing.T) (*engine, *fakeWindow, *fakeRenderer, *[]string) {
	t.Helper()
	events := &[]string{}
	w := &fakeWindow{}
	r := &fakeRenderer{events: events}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithLogger(zap.NewNop())).(*engine)
	return e, w, r, events
}

func TestFrameOrder(t *testing.T) {
	e, _, _, events := newTestEngine(t)

	var value float32
	e.Tweener().To(&value, 1, tween.Options{Duration: 0.1, Ease: tween.MustParseEase("linear")})

	e.Post(func() { *events = append(*events, "post") })
	e.OnRender(func(dt float64) {
		if value == 0 {
			t.Errorf("render hook ran before the tweener ticked")
		}
		*events = append(*events, "hook")
	})
	e.AddDrawable(2, &fakeDrawable{name: "b", events: events})
	e.AddDrawable(1, &fakeDrawable{name: "a", events: events})

	e.frame(50 * time.Millisecond)

	want := []string{"post", "hook", "prepare a", "prepare b", "begin", "draw a", "draw b", "end", "present"}
	if len(*events) != len(want) {
		t.Fatalf("events = %v, want %v", *events, want)
	}
	for i := range want {
		if (*events)[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, (*events)[i], want[i])
		}
	}
}

func TestFrameClampsDelta(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	var value float32
	e.Tweener().To(&value, 1, tween.Options{Duration: 1, Ease: tween.MustParseEase("linear")})
	var got float64
	e.OnRender(func(dt float64) { got = dt })

	e.frame(5 * time.Second)

	if got != maxFrameDelta.Seconds() {
		t.Errorf("dt = %v, want %v", got, maxFrameDelta.Seconds())
	}
	if value >= 1 {
		t.Errorf("tween finished after a stalled frame, value = %v", value)
	}
}

func TestFrameSkipsDrawWhenSurfaceUnavailable(t *testing.T) {
	e, _, r, events := newTestEngine(t)
	r.beginErr = renderer.ErrSurfaceUnavailable
	e.AddDrawable(0, &fakeDrawable{name: "a", events: events})

	e.frame(time.Millisecond)

	for _, ev := range *events {
		if ev == "draw a" || ev == "present" {
			t.Errorf("unexpected %q while the surface is unavailable", ev)
		}
	}
}

func TestResizeRunsOnLoop(t *testing.T) {
	e, w, r, _ := newTestEngine(t)
	var hooked [2]int
	e.OnResize(func(width, height int) { hooked = [2]int{width, height} })

	w.onResize(1024, 768)
	if len(r.resizes) != 0 {
		t.Fatalf("renderer resized from the window callback")
	}

	e.frame(time.Millisecond)
	if len(r.resizes) != 1 || r.resizes[0] != [2]int{1024, 768} {
		t.Errorf("resizes = %v, want [[1024 768]]", r.resizes)
	}
	if hooked != [2]int{1024, 768} {
		t.Errorf("resize hook got %v, want [1024 768]", hooked)
	}
}

func TestZeroSizeResizeSkipsHooks(t *testing.T) {
	e, w, r, _ := newTestEngine(t)
	called := false
	e.OnResize(func(int, int) { called = true })

	w.onResize(0, 0)
	e.frame(time.Millisecond)

	if called {
		t.Errorf("resize hook ran for a minimized window")
	}
	if len(r.resizes) != 1 {
		t.Errorf("renderer.Resize calls = %d, want 1", len(r.resizes))
	}
}

func TestQuitRunsShutdownAndDropsPosts(t *testing.T) {
	e, w, r, _ := newTestEngine(t)
	shut := false
	e.OnShutdown(func() { shut = true })

	w.onClose()
	if !w.closeRequested {
		t.Errorf("Quit did not request the window to close")
	}
	e.Post(func() { t.Errorf("post after quit ran") })

	e.shutdown()
	if !shut {
		t.Errorf("shutdown hook did not run")
	}
	if !r.released {
		t.Errorf("renderer not released on shutdown")
	}
	e.Quit()
}

func TestNewEnginePanics(t *testing.T) {
	tests := []struct {
		name string
		opts []EngineBuilderOption
	}{
		{"no window", []EngineBuilderOption{WithRenderer(&fakeRenderer{events: &[]string{}})}},
		{"no renderer", []EngineBuilderOption{WithWindow(&fakeWindow{})}},
		{"nil option", []EngineBuilderOption{nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("NewEngine did not panic")
				}
			}()
			NewEngine(tt.opts...)
		})
	}
}
