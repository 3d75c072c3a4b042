// Package enginetest provides a deterministic decode engine that records the
// calls made to it and lets tests drive the callback bridge by hand.
package enginetest

import (
	"sync"

	"tv-frame/pkg/avplayer"
	"tv-frame/pkg/frame"
)

// Engine is a scriptable avplayer.Engine.
type Engine struct {
	mu sync.Mutex

	// Width and Height are reported through OnPrepared.
	Width, Height int
	// PrepareCode, StartCode and StopCode are returned by the matching calls.
	PrepareCode, StartCode, StopCode int
	// SkipPrepared makes Prepare return without invoking OnPrepared.
	SkipPrepared bool

	owner   avplayer.Handle
	buf     *frame.Buffer
	calls   []string
	sources []string
	running bool
}

// New returns an engine that prepares width x height frames successfully.
func New(width, height int) *Engine {
	return &Engine{Width: width, Height: height}
}

func (e *Engine) record(call string) {
	e.mu.Lock()
	e.calls = append(e.calls, call)
	e.mu.Unlock()
}

func (e *Engine) Initialize(owner avplayer.Handle) {
	e.mu.Lock()
	e.owner = owner
	e.calls = append(e.calls, "initialize")
	e.mu.Unlock()
}

func (e *Engine) Prepare(source string) int {
	e.mu.Lock()
	e.calls = append(e.calls, "prepare")
	e.sources = append(e.sources, source)
	owner, w, h, skip, code := e.owner, e.Width, e.Height, e.SkipPrepared, e.PrepareCode
	e.mu.Unlock()

	if !skip {
		buf := avplayer.OnPrepared(owner, w, h)
		e.mu.Lock()
		e.buf = buf
		e.mu.Unlock()
	}
	return code
}

func (e *Engine) Start() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "start")
	if e.StartCode == 0 {
		e.running = true
	}
	return e.StartCode
}

func (e *Engine) Stop() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "stop")
	if e.StopCode == 0 {
		e.running = false
	}
	return e.StopCode
}

func (e *Engine) State() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return 1
	}
	return 0
}

// Close records the release of the engine.
func (e *Engine) Close() error {
	e.record("close")
	return nil
}

// EmitFrame writes pix into the last buffer handed out by OnPrepared and
// signals a decoded frame, the way a decoder goroutine would.
func (e *Engine) EmitFrame(pix []byte) {
	e.mu.Lock()
	owner, buf := e.owner, e.buf
	e.mu.Unlock()

	if buf != nil {
		buf.Write(pix)
	}
	avplayer.OnFrameDecoded(owner)
}

// Notify sends a status code through the bridge.
func (e *Engine) Notify(code, ext1, ext2 int) {
	e.mu.Lock()
	owner := e.owner
	e.mu.Unlock()
	avplayer.OnNotify(owner, code, ext1, ext2)
}

// Owner returns the handle passed to Initialize.
func (e *Engine) Owner() avplayer.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.owner
}

// Buffer returns the buffer received from the last OnPrepared call.
func (e *Engine) Buffer() *frame.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf
}

// Calls returns the recorded calls in order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Count returns how many times call was made.
func (e *Engine) Count(call string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c == call {
			n++
		}
	}
	return n
}

// Sources returns the sources passed to Prepare.
func (e *Engine) Sources() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.sources...)
}
