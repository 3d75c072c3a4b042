package surface

import (
	"fmt"
	"log"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"tv-frame/pkg/frame"
	"tv-frame/pkg/render"
)

// Target draws frame buffers through an SDL2 renderer. All methods must be
// called on the thread that created the renderer.
type Target struct {
	renderer *sdl.Renderer
	overlay  func(*sdl.Renderer)

	mu    sync.Mutex
	ready bool

	texture *sdl.Texture
	texW    int
	texH    int
	texFmt  frame.PixelFormat
}

// NewTarget wraps renderer. The target starts out ready.
func NewTarget(renderer *sdl.Renderer) *Target {
	return &Target{renderer: renderer, ready: true}
}

// SetOverlay installs a hook drawn on top of each frame before it is presented.
func (t *Target) SetOverlay(fn func(*sdl.Renderer)) {
	t.overlay = fn
}

// SetReady marks the window as drawable or not, e.g. when it is hidden or
// minimized.
func (t *Target) SetReady(ready bool) {
	t.mu.Lock()
	t.ready = ready
	t.mu.Unlock()
}

// Bounds reports the renderer's output size.
func (t *Target) Bounds() (int32, int32) {
	w, h, err := t.renderer.GetOutputSize()
	if err != nil {
		log.Printf("surface: failed to query output size: %v", err)
		return 0, 0
	}
	return w, h
}

// Acquire locks the target for one render.
func (t *Target) Acquire() (render.Canvas, bool) {
	if !t.mu.TryLock() {
		return nil, false
	}
	if !t.ready || t.renderer == nil {
		t.mu.Unlock()
		return nil, false
	}
	return &canvas{t: t}, true
}

// Destroy frees the streaming texture.
func (t *Target) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.texture != nil {
		t.texture.Destroy()
		t.texture = nil
	}
}

// textureFor returns a streaming texture matching buf, recreating it when the
// buffer geometry changes.
func (t *Target) textureFor(buf *frame.Buffer) (*sdl.Texture, error) {
	if t.texture != nil && t.texW == buf.Width() && t.texH == buf.Height() && t.texFmt == buf.Format() {
		return t.texture, nil
	}
	if t.texture != nil {
		t.texture.Destroy()
		t.texture = nil
	}

	texture, err := t.renderer.CreateTexture(sdlFormat(buf.Format()), sdl.TEXTUREACCESS_STREAMING, int32(buf.Width()), int32(buf.Height()))
	if err != nil {
		return nil, fmt.Errorf("failed to create texture: %v", err)
	}
	log.Printf("surface: created %dx%d %s texture", buf.Width(), buf.Height(), buf.Format())

	t.texture = texture
	t.texW, t.texH, t.texFmt = buf.Width(), buf.Height(), buf.Format()
	return texture, nil
}

func sdlFormat(f frame.PixelFormat) uint32 {
	if f == frame.RGBA8888 {
		return uint32(sdl.PIXELFORMAT_RGBA32)
	}
	return uint32(sdl.PIXELFORMAT_RGB565)
}

type canvas struct {
	t        *Target
	released bool
}

func (c *canvas) Clear() {
	c.t.renderer.SetDrawColor(0, 0, 0, 255)
	c.t.renderer.Clear()
}

func (c *canvas) Blit(buf *frame.Buffer, m render.Matrix) error {
	texture, err := c.t.textureFor(buf)
	if err != nil {
		return err
	}

	pixels, pitch, err := texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("failed to lock texture: %v", err)
	}
	buf.Read(func(pix []byte, stride int) {
		if pitch == stride {
			copy(pixels, pix)
			return
		}
		for y := 0; y < buf.Height(); y++ {
			copy(pixels[y*pitch:y*pitch+stride], pix[y*stride:(y+1)*stride])
		}
	})
	texture.Unlock()

	r := m.MapRect(int32(buf.Width()), int32(buf.Height()))
	dst := sdl.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	return c.t.renderer.Copy(texture, nil, &dst)
}

func (c *canvas) Present() {
	if c.t.overlay != nil {
		c.t.overlay(c.t.renderer)
	}
	c.t.renderer.Present()
}

func (c *canvas) Release() {
	if c.released {
		return
	}
	c.released = true
	c.t.mu.Unlock()
}
