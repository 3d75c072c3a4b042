package avplayer

import "tv-frame/pkg/frame"

// Handle is the opaque key a decode engine uses to address its owning Player.
// It does not keep the Player reachable. Zero is never a valid handle.
type Handle uint64

// Engine is the contract of the external decode engine. Status codes are
// zero on success. Prepare must call OnPrepared before it returns success,
// and Stop must not return while any of the engine's goroutines can still
// invoke a callback.
type Engine interface {
	Initialize(owner Handle)
	Prepare(source string) int
	Start() int
	Stop() int
	State() int
}

// FrameSink receives the frame buffer and render requests produced by a
// Player. render.Synchronizer implements it. Both methods must be safe to
// call from any goroutine.
type FrameSink interface {
	Bind(buf *frame.Buffer)
	RequestRender()
}

// NotifyFunc observes status codes sent through OnNotify. It runs on the
// engine's goroutine.
type NotifyFunc func(code, ext1, ext2 int)

// Status codes passed to OnNotify. NotifyError carries the engine's error
// code in ext1. NotifyInfo is sent with the first picture after Start, with
// its width and height in ext1 and ext2.
const (
	NotifyEndOfStream = 2
	NotifyError       = 100
	NotifyInfo        = 200
)
