package hover

import "github.com/Carmen-Shannon/oxy-hover/engine/uniform"

// fakeSurface records every call a controller makes on its surface.
type fakeSurface struct {
	valid     bool
	ready     func()
	render    func()
	enter     func()
	leave     func()
	last      uniform.Block
	mirrors   int
	highlight bool
	removed   int
	binds     int
	unbinds   int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{valid: true}
}

func (f *fakeSurface) Valid() bool          { return f.valid }
func (f *fakeSurface) OnReady(fn func())    { f.ready = fn }
func (f *fakeSurface) OnRender(fn func())   { f.render = fn }
func (f *fakeSurface) SetHighlight(on bool) { f.highlight = on }
func (f *fakeSurface) Remove()              { f.removed++ }

func (f *fakeSurface) BindPointer(enter, leave func()) {
	f.enter, f.leave = enter, leave
	f.binds++
}

func (f *fakeSurface) UnbindPointer() {
	f.enter, f.leave = nil, nil
	f.unbinds++
}

func (f *fakeSurface) Mirror(b uniform.Block) {
	f.last = b
	f.mirrors++
}

func (f *fakeSurface) fireReady() {
	if f.ready != nil {
		f.ready()
	}
}

func (f *fakeSurface) pointerEnter() {
	if f.enter != nil {
		f.enter()
	}
}

func (f *fakeSurface) pointerLeave() {
	if f.leave != nil {
		f.leave()
	}
}

func (f *fakeSurface) frame() {
	if f.render != nil {
		f.render()
	}
}
