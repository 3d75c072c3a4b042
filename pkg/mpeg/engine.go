package mpeg

import (
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tv-frame/pkg/avplayer"
	"tv-frame/pkg/frame"
)

// Engine states reported by State.
const (
	StateIdle = iota
	StatePrepared
	StatePlaying
	StateEnded
)

// Result codes. Negative values below -10 are produced by the engine itself;
// the rest come from the FFmpeg decoder.
const (
	CodeOK           = 0
	CodeNoOwner      = -11
	CodeNoBuffer     = -12
	CodeNotPrepared  = -13
	CodeOutputFailed = -14
)

// Engine decodes live transport streams with FFmpeg and delivers frames to
// the avplayer callback bridge. It satisfies avplayer.Engine.
type Engine struct {
	resolve func(string) string

	mu    sync.Mutex
	owner avplayer.Handle
	dec   *videoDecoder
	fb    *frame.Buffer
	state atomic.Int32

	stopCh chan struct{}
	done   chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver maps the media source handed to Prepare to the URL FFmpeg
// opens, e.g. a channel session file to the adapter's DVR device.
func WithResolver(fn func(source string) string) Option {
	return func(e *Engine) { e.resolve = fn }
}

// NewEngine creates an idle engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize records the owner handle passed back through every callback.
func (e *Engine) Initialize(owner avplayer.Handle) {
	e.mu.Lock()
	e.owner = owner
	e.mu.Unlock()
}

// Prepare opens source and asks the owner for a frame buffer sized to the
// stream. The previous decoder is only replaced once the new one is ready.
func (e *Engine) Prepare(source string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.owner == 0 {
		return CodeNoOwner
	}
	e.stopLocked()

	url := source
	if e.resolve != nil {
		url = e.resolve(source)
	}
	format := ""
	if strings.HasPrefix(url, "/dev/dvb/") {
		format = "mpegts"
	}

	start := time.Now()
	dec, code := openDecoder(url, format)
	if code != CodeOK {
		log.Printf("Prepare: failed to open %s | code=%d", url, code)
		return code
	}

	fb := avplayer.OnPrepared(e.owner, dec.width, dec.height)
	if fb == nil {
		dec.close()
		return CodeNoBuffer
	}
	if code := dec.setOutput(fb.Format()); code != CodeOK {
		dec.close()
		log.Printf("Prepare: output setup failed | code=%d", code)
		return CodeOutputFailed
	}

	if e.dec != nil {
		e.dec.close()
	}
	e.dec = dec
	e.fb = fb
	e.state.Store(StatePrepared)
	log.Printf("Prepare: opened %s | video=%s took=%v", url, dec, time.Since(start))
	return CodeOK
}

// Start launches the decode loop.
func (e *Engine) Start() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dec == nil || e.fb == nil {
		return CodeNotPrepared
	}
	if e.state.Load() == StatePlaying {
		return CodeOK
	}
	// reap a loop that ended on its own
	e.stopLocked()

	e.dec.abort(false)
	e.stopCh = make(chan struct{})
	e.done = make(chan struct{})
	e.state.Store(StatePlaying)
	go e.run(e.owner, e.dec, e.fb, e.stopCh, e.done)
	return CodeOK
}

// Stop interrupts the decode loop and waits for it to exit. The decoder and
// frame buffer are kept for a later Start.
func (e *Engine) Stop() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return CodeOK
}

// State reports one of the State constants.
func (e *Engine) State() int {
	return int(e.state.Load())
}

// Close stops decoding and frees the decoder.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	if e.dec != nil {
		e.dec.close()
		e.dec = nil
	}
	e.fb = nil
	e.state.Store(StateIdle)
	return nil
}

// stopLocked must be called with e.mu held. The decode goroutine never takes
// e.mu, so waiting here cannot deadlock.
func (e *Engine) stopLocked() {
	if e.stopCh == nil {
		return
	}
	e.dec.abort(true)
	close(e.stopCh)
	<-e.done
	e.stopCh = nil
	e.done = nil
	e.state.CompareAndSwap(StatePlaying, StatePrepared)
}

func (e *Engine) run(owner avplayer.Handle, dec *videoDecoder, fb *frame.Buffer, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / dec.fps))
	defer ticker.Stop()

	frames := 0
	for {
		select {
		case <-stop:
			log.Printf("run: stopped after %d frames", frames)
			return
		case <-ticker.C:
		}

		switch ret := dec.decodeInto(fb); {
		case ret > 0:
			frames++
			avplayer.OnFrameDecoded(owner)
			if frames == 1 {
				avplayer.OnNotify(owner, avplayer.NotifyInfo, dec.width, dec.height)
			}
		case ret == 0:
			if dec.aborted() {
				return
			}
			log.Printf("run: end of stream after %d frames", frames)
			e.state.CompareAndSwap(StatePlaying, StateEnded)
			avplayer.OnNotify(owner, avplayer.NotifyEndOfStream, 0, 0)
			return
		default:
			log.Printf("run: decode error | code=%d frames=%d", ret, frames)
			e.state.CompareAndSwap(StatePlaying, StateEnded)
			avplayer.OnNotify(owner, avplayer.NotifyError, ret, 0)
			return
		}
	}
}
