package hover

import "github.com/Carmen-Shannon/oxy-hover/engine/uniform"

// Surface is the drawable a Controller drives: a textured plane with the hover shader.
// Implementations call the registered callbacks from the frame loop goroutine only.
type Surface interface {
	// Valid reports whether the surface initialized. An invalid surface never becomes ready.
	//
	// Returns:
	//   - bool: true if the surface has a drawable region and GPU resources can be created
	Valid() bool

	// OnReady registers a function called once, after the surface's GPU resources exist.
	// If the surface is already ready the function is called on the next frame.
	//
	// Parameters:
	//   - fn: the ready callback
	OnReady(fn func())

	// OnRender registers a function called once per rendered frame, before the surface is drawn.
	//
	// Parameters:
	//   - fn: the render callback
	OnRender(fn func())

	// BindPointer installs the pointer-enter and pointer-leave handlers for this surface.
	//
	// Parameters:
	//   - enter: called when the pointer enters the surface
	//   - leave: called when the pointer leaves the surface
	BindPointer(enter, leave func())

	// UnbindPointer removes the handlers installed by BindPointer.
	UnbindPointer()

	// Mirror copies the uniform state into the surface for the next draw.
	//
	// Parameters:
	//   - b: the uniform state to draw with
	Mirror(b uniform.Block)

	// SetHighlight toggles the debug outline around the surface.
	//
	// Parameters:
	//   - on: true to draw the outline
	SetHighlight(on bool)

	// Remove releases the surface's GPU resources. Calling it more than once is safe.
	Remove()
}
