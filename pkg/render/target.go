package render

import "tv-frame/pkg/frame"

// DisplayTarget is a drawing surface owned by the platform. Its lifecycle is
// reported to the Synchronizer; the Synchronizer only borrows it per render.
type DisplayTarget interface {
	// Bounds reports the current drawable size.
	Bounds() (width, height int32)
	// Acquire grants exclusive drawing access. ok is false when the surface
	// is not ready, in which case the render is skipped.
	Acquire() (c Canvas, ok bool)
}

// Canvas is the exclusive drawing context handed out by Acquire.
type Canvas interface {
	Clear()
	Blit(buf *frame.Buffer, m Matrix) error
	Present()
	// Release gives the surface back. It is called on every path after a
	// successful Acquire.
	Release()
}
