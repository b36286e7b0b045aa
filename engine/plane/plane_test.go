package plane

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

type recordingRenderer struct {
	bindGroups int
	textures   int
	samplers   int
	meshes     int
	indexCount int
	writes     []bind_group_provider.BufferWrite
	draws      []string
	drawGroups []int
	textureErr error
}

var _ renderer.Renderer = &recordingRenderer{}

func (r *recordingRenderer) Pipeline(string) pipeline.Pipeline { return nil }
func (r *recordingRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }
func (r *recordingRenderer) Resize(int, int) {}
func (r *recordingRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *recordingRenderer) MaxTextureDimension() int { return 8192 }
func (r *recordingRenderer) InitMeshBuffers(p bind_group_provider.BindGroupProvider, v, i []byte, n int) error {
	r.meshes++
	r.indexCount = n
	p.SetIndexCount(n)
	return nil
}
func (r *recordingRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	r.bindGroups++
	return nil
}
func (r *recordingRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	r.textures++
	return r.textureErr
}
func (r *recordingRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	r.samplers++
	return nil
}
func (r *recordingRenderer) WriteBuffers(w []bind_group_provider.BufferWrite) {
	r.writes = append(r.writes, w...)
}
func (r *recordingRenderer) BeginFrame() error { return nil }
func (r *recordingRenderer) DrawCall(key string, mesh bind_group_provider.BindGroupProvider, groups ...bind_group_provider.BindGroupProvider) error {
	r.draws = append(r.draws, key)
	for _, g := range groups {
		r.drawGroups = append(r.drawGroups, g.Group())
	}
	return nil
}
func (r *recordingRenderer) EndFrame() {}
func (r *recordingRenderer) Present() {}
func (r *recordingRenderer) Release() {}

func testTexture() common.TextureStagingData {
	return common.TextureStagingData{Pixels: make([]byte, 4*4*4), Width: 4, Height: 4}
}

func newTestPlane(t *testing.T, opts ...PlaneBuilderOption) Plane {
	t.Helper()
	p, err := NewHoverPipeline()
	if err != nil {
		t.Fatalf("NewHoverPipeline() error = %v", err)
	}
	base := []PlaneBuilderOption{
		WithPipeline(p),
		WithLayout(Rect{X: 100, Y: 50, W: 400, H: 300}, 800, 600),
		WithTexture(testTexture()),
		WithLogger(zap.NewNop()),
	}
	return NewPlane("slide 0", append(base, opts...)...)
}

func f32At(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}

func TestGrid(t *testing.T) {
	vertices, indices := Grid([4]float32{-1, 1, 1, -1}, Segments, Segments)
	if len(vertices) != 21*21 {
		t.Fatalf("len(vertices) = %d, want %d", len(vertices), 21*21)
	}
	if len(indices) != 20*20*6 {
		t.Fatalf("len(indices) = %d, want %d", len(indices), 20*20*6)
	}

	first, last := vertices[0], vertices[len(vertices)-1]
	if first.Position != [2]float32{-1, 1} || first.UV != [2]float32{0, 0} {
		t.Errorf("first vertex = %+v, want top-left with uv (0,0)", first)
	}
	if last.Position != [2]float32{1, -1} || last.UV != [2]float32{1, 1} {
		t.Errorf("last vertex = %+v, want bottom-right with uv (1,1)", last)
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			t.Fatalf("indices[%d] = %d out of range", i, idx)
		}
	}
}

func TestGridTrianglesAreCounterClockwise(t *testing.T) {
	vertices, indices := Grid([4]float32{-1, 1, 1, -1}, 2, 2)
	for i := 0; i < len(indices); i += 3 {
		a := vertices[indices[i]].Position
		b := vertices[indices[i+1]].Position
		c := vertices[indices[i+2]].Position
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		if cross <= 0 {
			t.Errorf("triangle %d winding cross = %v, want > 0", i/3, cross)
		}
	}
}

func TestGridClampsSegments(t *testing.T) {
	vertices, indices := Grid([4]float32{-1, 1, 1, -1}, 0, -3)
	if len(vertices) != 4 || len(indices) != 6 {
		t.Errorf("Grid(0, -3) = %d vertices, %d indices, want 4 and 6", len(vertices), len(indices))
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 20, true},
		{109.9, 69.9, true},
		{110, 40, false},
		{50, 70, false},
		{9, 40, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if x, y := r.Local(60, 45); x != 0.5 || y != 0.5 {
		t.Errorf("Local(60, 45) = (%v, %v), want (0.5, 0.5)", x, y)
	}
	if (Rect{W: 0, H: 10}).Contains(0, 0) {
		t.Errorf("empty rect contains a point")
	}
}

func TestValidateDeclarations(t *testing.T) {
	p, err := NewHoverPipeline()
	if err != nil {
		t.Fatalf("NewHoverPipeline() error = %v", err)
	}
	fields := p.Shader(shader.ShaderTypeFragment).StructFields(UniformStruct)
	decls := uniform.Declarations(uniform.Rest())

	if err := ValidateDeclarations(decls, fields); err != nil {
		t.Fatalf("ValidateDeclarations() error = %v", err)
	}

	wrongType := append([]uniform.Declaration(nil), decls...)
	wrongType[0].Kind = uniform.KindVec2

	missing := append([]uniform.Declaration(nil), decls...)
	missing = append(missing, uniform.Declaration{Name: "warp", Kind: uniform.KindF32})

	undeclared := append([]uniform.Declaration(nil), decls[1:]...)

	tests := []struct {
		name   string
		decls  []uniform.Declaration
		fields []shader.StructField
	}{
		{"wrong type", wrongType, fields},
		{"not in shader", missing, fields},
		{"field not declared", undeclared, fields},
		{"no struct", decls, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeclarations(tt.decls, tt.fields)
			if !errors.Is(err, ErrDeclarationMismatch) {
				t.Errorf("ValidateDeclarations() error = %v, want ErrDeclarationMismatch", err)
			}
		})
	}
}

func TestStaticPipelineBindsSlide(t *testing.T) {
	p, err := NewStaticPipeline()
	if err != nil {
		t.Fatalf("NewStaticPipeline() error = %v", err)
	}
	if got := p.GroupCount(); got != 2 {
		t.Errorf("GroupCount() = %d, want 2", got)
	}
	pl := newTestPlane(t, WithPipeline(p))
	if !pl.Valid() {
		t.Errorf("static plane is not valid")
	}
}

func TestNewPlaneInvalid(t *testing.T) {
	tests := []struct {
		name string
		opt  PlaneBuilderOption
	}{
		{"empty texture", WithTexture(common.TextureStagingData{})},
		{"empty rect", WithLayout(Rect{W: 0, H: 100}, 800, 600)},
		{"bad declarations", WithDeclarations(uniform.Rest(), []uniform.Declaration{{Name: "time", Kind: uniform.KindVec2}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlane(t, tt.opt)
			if p.Valid() {
				t.Fatalf("Valid() = true, want false")
			}
			fired := false
			p.OnReady(func() { fired = true })
			r := &recordingRenderer{}
			p.Prepare(r)
			if fired || r.bindGroups != 0 {
				t.Errorf("invalid plane initialized")
			}
		})
	}
}

func TestNewPlanePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"no pipeline", func() { NewPlane("x", WithTexture(testTexture())) }},
		{"nil option", func() { NewPlane("x", nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("NewPlane did not panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestPrepareInitializesOnceAndFiresReady(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}

	readyCount := 0
	renderCount := 0
	p.OnReady(func() {
		readyCount++
		p.OnRender(func() { renderCount++ })
	})

	p.Prepare(r)
	p.Prepare(r)
	p.Prepare(r)

	if readyCount != 1 {
		t.Errorf("ready fired %d times, want 1", readyCount)
	}
	if renderCount != 3 {
		t.Errorf("render fired %d times, want 3", renderCount)
	}
	if r.bindGroups != 2 || r.textures != 1 || r.samplers != 1 || r.meshes != 1 {
		t.Errorf("init calls = %d bind groups, %d textures, %d samplers, %d meshes, want 2, 1, 1, 1",
			r.bindGroups, r.textures, r.samplers, r.meshes)
	}
	if r.indexCount != Segments*Segments*6 {
		t.Errorf("index count = %d, want %d", r.indexCount, Segments*Segments*6)
	}
	if !p.Ready() {
		t.Errorf("Ready() = false after Prepare")
	}
}

func TestOnReadyAfterReadyFiresNextFrame(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}
	p.Prepare(r)

	fired := false
	p.OnReady(func() { fired = true })
	if fired {
		t.Fatalf("ready fired synchronously")
	}
	p.Prepare(r)
	if !fired {
		t.Errorf("ready did not fire on the next frame")
	}
}

func TestPrepareUploadsMirroredUniforms(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}
	p.Prepare(r)
	if len(r.writes) != 2 {
		t.Fatalf("first frame writes = %d, want 2", len(r.writes))
	}

	r.writes = nil
	p.Prepare(r)
	if len(r.writes) != 0 {
		t.Errorf("writes without changes = %d, want 0", len(r.writes))
	}

	b := uniform.Rest()
	b.Progress = 0.25
	p.Mirror(b)
	p.Prepare(r)
	if len(r.writes) != 1 {
		t.Fatalf("writes after Mirror = %d, want 1", len(r.writes))
	}
	if got := f32At(r.writes[0].Data, 4); got != 0.25 {
		t.Errorf("uploaded progress = %v, want 0.25", got)
	}
	if len(r.writes[0].Data) != 64 {
		t.Errorf("uniform upload = %d bytes, want 64", len(r.writes[0].Data))
	}
}

func TestHighlightUploadsParams(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}
	p.Prepare(r)
	r.writes = nil

	p.SetHighlight(true)
	p.Prepare(r)
	if len(r.writes) != 1 {
		t.Fatalf("writes after SetHighlight = %d, want 1", len(r.writes))
	}
	data := r.writes[0].Data
	if got := f32At(data, 0); got != 400 {
		t.Errorf("extent.x = %v, want 400", got)
	}
	if got := f32At(data, 8); got != 1 {
		t.Errorf("highlight = %v, want 1", got)
	}
	if got := f32At(data, 12); got != DefaultOutlineWidth {
		t.Errorf("outline = %v, want %v", got, DefaultOutlineWidth)
	}
	if !p.Highlighted() {
		t.Errorf("Highlighted() = false")
	}
}

func TestDraw(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}

	if err := p.Draw(r); err != nil || len(r.draws) != 0 {
		t.Fatalf("Draw before ready recorded %v (err %v)", r.draws, err)
	}

	p.Prepare(r)
	if err := p.Draw(r); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if len(r.draws) != 1 || r.draws[0] != HoverPipelineKey {
		t.Errorf("draws = %v, want [%s]", r.draws, HoverPipelineKey)
	}
	if len(r.drawGroups) != 2 || r.drawGroups[0] != 0 || r.drawGroups[1] != 1 {
		t.Errorf("draw groups = %v, want [0 1]", r.drawGroups)
	}
}

func TestSetLayoutRebuildsMesh(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}
	p.Prepare(r)

	p.SetLayout(Rect{X: 0, Y: 0, W: 200, H: 100}, 1024, 768)
	p.Prepare(r)
	if r.meshes != 2 {
		t.Errorf("meshes built = %d, want 2", r.meshes)
	}
	if got := p.Rect(); got.W != 200 || got.H != 100 {
		t.Errorf("Rect() = %+v, want 200x100", got)
	}
}

func TestRemove(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}
	renders := 0
	p.OnReady(func() { p.OnRender(func() { renders++ }) })
	p.Prepare(r)

	p.Remove()
	p.Remove()
	if !p.Removed() {
		t.Fatalf("Removed() = false")
	}

	p.Prepare(r)
	if renders != 1 {
		t.Errorf("render callbacks after Remove: %d calls, want 1", renders)
	}
	r.draws = nil
	if err := p.Draw(r); err != nil || len(r.draws) != 0 {
		t.Errorf("removed plane drew %v (err %v)", r.draws, err)
	}
}

func TestRemoveDuringRenderCallback(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{}
	p.OnReady(func() { p.OnRender(p.Remove) })
	p.Prepare(r)

	if !p.Removed() {
		t.Fatalf("plane not removed by its render callback")
	}
	if len(r.writes) != 0 {
		t.Errorf("removed plane uploaded %d writes", len(r.writes))
	}
}

func TestInitFailureMakesPlaneInvalid(t *testing.T) {
	p := newTestPlane(t)
	r := &recordingRenderer{textureErr: errors.New("out of memory")}
	fired := false
	p.OnReady(func() { fired = true })

	p.Prepare(r)
	if fired {
		t.Errorf("ready fired after a failed init")
	}
	if p.Valid() || p.Ready() {
		t.Errorf("Valid() = %v, Ready() = %v after a failed init, want false", p.Valid(), p.Ready())
	}
}

func TestPointerDispatch(t *testing.T) {
	p := newTestPlane(t)
	enters, leaves := 0, 0

	p.PointerEnter()
	p.PointerLeave()
	if enters != 0 || leaves != 0 {
		t.Fatalf("handlers ran before BindPointer")
	}

	p.BindPointer(func() { enters++ }, func() { leaves++ })
	p.PointerEnter()
	p.PointerEnter()
	if !p.Hovered() || enters != 1 {
		t.Errorf("enters = %d, Hovered() = %v, want 1, true", enters, p.Hovered())
	}
	p.PointerLeave()
	p.PointerLeave()
	if p.Hovered() || leaves != 1 {
		t.Errorf("leaves = %d, Hovered() = %v, want 1, false", leaves, p.Hovered())
	}

	p.UnbindPointer()
	p.PointerEnter()
	if enters != 1 {
		t.Errorf("enter ran after UnbindPointer")
	}
}
