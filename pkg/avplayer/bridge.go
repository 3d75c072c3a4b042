package avplayer

import "tv-frame/pkg/frame"

// The functions below are the callback surface of the decode engine. They
// may be called from any goroutine. A handle whose Player has been closed
// resolves to nothing and the call becomes a no-op.

// OnPrepared allocates the frame buffer for the prepare in progress and
// returns it for the engine to write into. It returns nil when the handle is
// unknown, no prepare is running, or the dimensions are invalid.
func OnPrepared(h Handle, width, height int) *frame.Buffer {
	p := lookup(h)
	if p == nil {
		return nil
	}
	return p.onPrepared(width, height)
}

// OnFrameDecoded signals that the frame buffer holds a new picture.
func OnFrameDecoded(h Handle) {
	if p := lookup(h); p != nil {
		p.onFrameDecoded()
	}
}

// OnAudioSamples is reserved for an audio output path. No samples are consumed.
func OnAudioSamples(h Handle, samples []int16) int {
	return 0
}

// OnNotify forwards an engine status code to the Player's observer, if any.
func OnNotify(h Handle, code, ext1, ext2 int) {
	if p := lookup(h); p != nil {
		p.notify(code, ext1, ext2)
	}
}
