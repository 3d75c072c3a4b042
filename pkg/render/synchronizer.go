package render

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"tv-frame/pkg/frame"
	"tv-frame/pkg/performance"
)

type eventKind int

const (
	surfaceCreated eventKind = iota
	surfaceChanged
	surfaceDestroyed
	bindBuffer
)

type event struct {
	kind   eventKind
	width  int32
	height int32
	buf    *frame.Buffer
}

// Synchronizer renders a frame buffer onto a DisplayTarget. Surface events,
// buffer bindings and render requests may be posted from any goroutine; they
// are applied in order by whichever goroutine owns the drawing context,
// through Pump or Run.
type Synchronizer struct {
	target  DisplayTarget
	monitor *performance.Monitor

	mu      sync.Mutex
	events  []event
	pending bool
	wake    chan struct{}

	// pump is held while events are applied and a render executes, so at
	// most one render is ever in flight. The fields below are guarded by it.
	pump      sync.Mutex
	buf       *frame.Buffer
	matrix    Matrix
	boundsW   int32
	boundsH   int32
	available bool
}

// NewSynchronizer creates a Synchronizer for target. A nil monitor gets a
// private one.
func NewSynchronizer(target DisplayTarget, monitor *performance.Monitor) *Synchronizer {
	if monitor == nil {
		monitor = performance.NewMonitor(120)
	}
	return &Synchronizer{
		target:  target,
		monitor: monitor,
		matrix:  Identity(),
		wake:    make(chan struct{}, 1),
	}
}

// SurfaceCreated reports that the target can be drawn on.
func (s *Synchronizer) SurfaceCreated() {
	s.post(event{kind: surfaceCreated})
}

// SurfaceChanged reports new target bounds.
func (s *Synchronizer) SurfaceChanged(width, height int32) {
	s.post(event{kind: surfaceChanged, width: width, height: height})
}

// SurfaceDestroyed suspends rendering. The bound buffer and the matrix are kept.
func (s *Synchronizer) SurfaceDestroyed() {
	s.post(event{kind: surfaceDestroyed})
}

// Bind attaches the buffer to render from. nil detaches it.
func (s *Synchronizer) Bind(buf *frame.Buffer) {
	s.post(event{kind: bindBuffer, buf: buf})
}

// RequestRender asks for the bound buffer to be drawn. Requests made before
// the next Pump collapse into one.
func (s *Synchronizer) RequestRender() {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		s.monitor.RecordFrameCoalesced()
		return
	}
	s.pending = true
	s.mu.Unlock()
	s.signal()
}

func (s *Synchronizer) post(ev event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	s.signal()
}

func (s *Synchronizer) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pump applies queued events and executes at most one render. It must be
// called from the goroutine that owns the target's drawing context and
// returns the number of renders performed.
func (s *Synchronizer) Pump() int {
	s.pump.Lock()
	defer s.pump.Unlock()

	s.mu.Lock()
	events := s.events
	s.events = nil
	requested := s.pending
	s.pending = false
	s.mu.Unlock()

	needRender := false
	for _, ev := range events {
		switch ev.kind {
		case surfaceCreated:
			s.available = true
			if s.boundsW == 0 || s.boundsH == 0 {
				s.boundsW, s.boundsH = s.target.Bounds()
				s.updateMatrix()
			}
			needRender = true
		case surfaceChanged:
			s.boundsW, s.boundsH = ev.width, ev.height
			s.updateMatrix()
			needRender = true
		case surfaceDestroyed:
			s.available = false
			needRender = false
		case bindBuffer:
			s.buf = ev.buf
			s.updateMatrix()
		}
	}

	if requested {
		if s.available {
			needRender = true
		} else {
			s.monitor.RecordRenderSkipped()
		}
	}
	if !needRender || !s.available {
		return 0
	}
	if s.render() {
		return 1
	}
	return 0
}

// Run pumps on a dedicated OS thread until ctx is done. It is meant for
// targets that are not driven by an existing main loop.
func (s *Synchronizer) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		s.Pump()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

// Matrix returns the transform used by the next render.
func (s *Synchronizer) Matrix() Matrix {
	s.pump.Lock()
	defer s.pump.Unlock()
	return s.matrix
}

// Monitor returns the render statistics.
func (s *Synchronizer) Monitor() *performance.Monitor {
	return s.monitor
}

func (s *Synchronizer) updateMatrix() {
	if s.buf == nil {
		return
	}
	s.matrix = FitCenter(int32(s.buf.Width()), int32(s.buf.Height()), s.boundsW, s.boundsH)
}

func (s *Synchronizer) render() bool {
	if s.buf == nil {
		return false
	}

	canvas, ok := s.target.Acquire()
	if !ok {
		s.monitor.RecordRenderSkipped()
		return false
	}
	defer canvas.Release()

	start := time.Now()
	canvas.Clear()
	if err := canvas.Blit(s.buf, s.matrix); err != nil {
		log.Printf("render: blit failed: %v", err)
		return false
	}
	canvas.Present()
	s.monitor.RecordFrameRender(time.Since(start))
	return true
}
