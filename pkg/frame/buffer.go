package frame

import (
	"fmt"
	"sync"
)

// PixelFormat describes the memory layout of a single pixel in a Buffer.
type PixelFormat int

const (
	// RGB565 packs a pixel into 16 bits, little endian. Default for decoded broadcast video.
	RGB565 PixelFormat = iota
	// RGBA8888 stores one byte per channel.
	RGBA8888
)

// BytesPerPixel returns the pixel size for the format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case RGBA8888:
		return 4
	default:
		return 2
	}
}

// String returns a human-readable format name
func (f PixelFormat) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case RGBA8888:
		return "RGBA8888"
	default:
		return "Unknown"
	}
}

// Buffer is a fixed-size pixel buffer. The decode engine writes into it and
// the renderer reads from it; both go through the buffer's lock.
type Buffer struct {
	width  int
	height int
	format PixelFormat

	mu  sync.RWMutex
	pix []byte
}

// New allocates a zeroed buffer of width x height pixels.
func New(width, height int, format PixelFormat) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	return &Buffer{
		width:  width,
		height: height,
		format: format,
		pix:    make([]byte, width*height*format.BytesPerPixel()),
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Format returns the pixel format.
func (b *Buffer) Format() PixelFormat { return b.format }

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int { return b.width * b.format.BytesPerPixel() }

// Len returns the buffer size in bytes.
func (b *Buffer) Len() int { return len(b.pix) }

// Write copies src into the buffer and returns the number of bytes copied.
// Extra source bytes are ignored; a short source leaves the tail untouched.
func (b *Buffer) Write(src []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copy(b.pix, src)
}

// Read gives fn read access to the pixels. fn must not retain pix.
func (b *Buffer) Read(fn func(pix []byte, stride int)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(b.pix, b.Stride())
}

// Snapshot returns a copy of the current pixels.
func (b *Buffer) Snapshot() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}
