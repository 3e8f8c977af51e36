package layer

import (
	"lamina/pkg/css"
)

// Surface is a graphics target a Layer paints onto. Backends decide what a
// surface is made of (a bitmap, a recorded op list); the layer tree only
// drives the lifecycle below.
//
// Surfaces form their own tree: a Layer that owns a surface hooks it into
// the surface of its nearest surface-owning ancestor with AppendChild, in
// paint order, and compositing the surface tree bottom-up yields the final
// frame.
type Surface interface {
	// InitBitmapData sizes the surface's backing store for the given
	// viewport. Previous content is discarded.
	InitBitmapData(width, height int)
	// Clear erases the surface content.
	Clear()

	// BeginTransparency opens a transparency group: everything painted
	// until the matching EndTransparency composites back with the given
	// uniform alpha. Groups nest.
	BeginTransparency(alpha float64)
	EndTransparency()

	// Transform sets the transformation applied to the surface when it is
	// composited into its parent.
	Transform(m css.Matrix)

	// AppendChild and RemoveChild maintain the compositing order of child
	// surfaces; AppendChild places the child after all current children.
	AppendChild(child Surface)
	RemoveChild(child Surface)

	// Dispose releases the backing store. The surface must not be used
	// afterwards.
	Dispose()
}

// Canvas is the drawing interface render nodes paint with. Backends that
// can rasterize implement it alongside Surface; recording backends log the
// calls instead.
type Canvas interface {
	FillRect(r css.Rect, c css.Color)
	StrokeRect(r css.Rect, c css.Color, lineWidth float64)
}

// Host connects the layer tree to its document controller. Layers report
// invalidations upward through it and allocate surfaces from it, so the
// controller decides the backend and schedules the follow-up passes.
type Host interface {
	// NewSurface allocates a fresh, unsized surface.
	NewSurface() Surface
	// ScheduleGraphicsUpdate requests an UpdateGraphicsContext pass before
	// the next frame.
	ScheduleGraphicsUpdate()
	// ScheduleRepaint requests a Render pass for the next frame.
	ScheduleRepaint()
}
