package avplayer

import (
	"io"
	"log"
	"os"
	"sync"

	"tv-frame/pkg/frame"
)

// Option configures a Player.
type Option func(*Player)

// WithPixelFormat sets the pixel format of frame buffers allocated for the engine.
func WithPixelFormat(format frame.PixelFormat) Option {
	return func(p *Player) {
		p.format = format
	}
}

// WithOnNotify registers an observer for engine status codes.
func WithOnNotify(fn NotifyFunc) Option {
	return func(p *Player) {
		p.onNotify = fn
	}
}

// Player drives a decode engine through prepare/start/stop and owns the
// frame buffer the engine decodes into.
//
// Control methods are meant to be called from one goroutine; they are
// serialized internally. Engine callbacks arrive through the package-level
// bridge functions and never block on a control method.
type Player struct {
	engine Engine
	sink   FrameSink
	format frame.PixelFormat
	handle Handle

	// ops serializes control operations. Engine calls are made while holding
	// ops but never mu, so callbacks issued during those calls can take mu.
	ops sync.Mutex

	mu       sync.Mutex
	state    State
	source   string
	active   string
	fb       *frame.Buffer
	pending  *frame.Buffer
	onNotify NotifyFunc
	closed   bool
}

// NewPlayer registers a new Player with engine. A nil sink discards frames.
func NewPlayer(engine Engine, sink FrameSink, opts ...Option) *Player {
	if sink == nil {
		sink = discardSink{}
	}
	p := &Player{
		engine: engine,
		sink:   sink,
		format: frame.RGB565,
		state:  StateUnknown,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.handle = register(p)
	engine.Initialize(p.handle)
	p.state = StateUninitialized
	return p
}

// Handle returns the key under which the engine reaches this Player.
func (p *Player) Handle() Handle {
	return p.handle
}

// SetOnNotify replaces the status observer. nil drops notifications.
func (p *Player) SetOnNotify(fn NotifyFunc) {
	p.mu.Lock()
	p.onNotify = fn
	p.mu.Unlock()
}

// SetSource stores the media source used by the next Prepare. It does not
// touch the engine.
func (p *Player) SetSource(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.state == StatePreparing {
		return ErrInvalidState
	}
	p.source = path
	return nil
}

// Source returns the configured media source.
func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// FrameBuffer returns the buffer allocated by the last successful prepare,
// or nil when the Player is not Prepared or Playing.
func (p *Player) FrameBuffer() *frame.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePrepared && p.state != StatePlaying {
		return nil
	}
	return p.fb
}

// Prepare opens the configured source in the engine. It blocks until the
// engine has finished preparing. On failure the state is left as it was.
func (p *Player) Prepare() error {
	p.ops.Lock()
	defer p.ops.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	prev := p.state
	if prev != StateUninitialized && prev != StatePrepared {
		p.mu.Unlock()
		return ErrInvalidState
	}
	source := p.source
	p.mu.Unlock()

	if !sourceReadable(source) {
		log.Printf("Prepare: source not readable | source=%q", source)
		return ErrSourceNotFound
	}

	p.mu.Lock()
	p.state = StatePreparing
	p.pending = nil
	p.mu.Unlock()

	code := p.engine.Prepare(source)

	p.mu.Lock()
	buf := p.pending
	p.pending = nil
	if code != 0 {
		p.state = prev
		p.mu.Unlock()
		log.Printf("Prepare: engine failed | source=%q code=%d", source, code)
		return &EngineError{Op: "prepare", Code: code}
	}
	if buf == nil {
		p.state = prev
		p.mu.Unlock()
		return ErrNoFrameBuffer
	}
	p.fb = buf
	p.active = source
	p.state = StatePrepared
	p.mu.Unlock()

	p.sink.Bind(buf)
	log.Printf("Prepare: ready | source=%q frame=%dx%d format=%s", source, buf.Width(), buf.Height(), buf.Format())
	return nil
}

// Start begins decoding. The Player must be Prepared.
func (p *Player) Start() error {
	p.ops.Lock()
	defer p.ops.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.state != StatePrepared {
		p.mu.Unlock()
		return ErrInvalidState
	}
	p.mu.Unlock()

	if code := p.engine.Start(); code != 0 {
		return &EngineError{Op: "start", Code: code}
	}

	p.mu.Lock()
	p.state = StatePlaying
	p.mu.Unlock()
	return nil
}

// Stop halts decoding and waits until the engine can no longer call back.
// Stopping a Prepared player is a no-op.
func (p *Player) Stop() error {
	p.ops.Lock()
	defer p.ops.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	state := p.state
	p.mu.Unlock()

	switch state {
	case StatePrepared:
		return nil
	case StatePlaying:
	default:
		return ErrInvalidState
	}

	if code := p.engine.Stop(); code != 0 {
		log.Printf("Stop: engine failed | code=%d engineState=%d", code, p.engine.State())
		return &EngineError{Op: "stop", Code: code}
	}

	p.mu.Lock()
	p.state = StatePrepared
	p.mu.Unlock()
	return nil
}

// Close stops playback, releases the handle and drops the frame buffer.
// Callbacks that arrive afterwards are ignored. Close is idempotent.
func (p *Player) Close() error {
	p.ops.Lock()
	defer p.ops.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	state := p.state
	p.mu.Unlock()

	var err error
	if state == StatePlaying {
		if code := p.engine.Stop(); code != 0 {
			err = &EngineError{Op: "stop", Code: code}
		}
	}

	unregister(p.handle)
	if c, ok := p.engine.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	p.mu.Lock()
	hadBuffer := p.fb != nil
	p.fb = nil
	p.state = StateUnknown
	p.closed = true
	p.mu.Unlock()

	if hadBuffer {
		p.sink.Bind(nil)
	}
	log.Printf("Close: player released | source=%q", p.active)
	return err
}

func (p *Player) onPrepared(width, height int) *frame.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePreparing {
		log.Printf("onPrepared: ignored outside of prepare | state=%s", p.state)
		return nil
	}
	buf, err := frame.New(width, height, p.format)
	if err != nil {
		log.Printf("onPrepared: %v", err)
		return nil
	}
	p.pending = buf
	return buf
}

func (p *Player) onFrameDecoded() {
	p.sink.RequestRender()
}

func (p *Player) notify(code, ext1, ext2 int) {
	p.mu.Lock()
	fn := p.onNotify
	p.mu.Unlock()

	if fn != nil {
		fn(code, ext1, ext2)
	}
}

func sourceReadable(path string) bool {
	if path == "" {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	return err == nil && !info.IsDir()
}

type discardSink struct{}

func (discardSink) Bind(*frame.Buffer) {}
func (discardSink) RequestRender()     {}
