package input

import "github.com/veandco/go-sdl2/sdl"

// KeyPressTracker turns the polled keyboard state into edge-triggered presses
type KeyPressTracker struct {
	pressed map[sdl.Scancode]bool
}

// NewKeyPressTracker creates a new KeyPressTracker
func NewKeyPressTracker() KeyPressTracker {
	return KeyPressTracker{
		pressed: make(map[sdl.Scancode]bool),
	}
}

// IsPressed reports whether scancode went down since the previous call for
// the same key. A nil keyState releases the key.
func (kpt *KeyPressTracker) IsPressed(keyState []uint8, scancode sdl.Scancode) bool {
	down := int(scancode) < len(keyState) && keyState[scancode] != 0
	was := kpt.pressed[scancode]
	kpt.pressed[scancode] = down
	return down && !was
}

// AnyPressed checks every scancode, so all of them have their state updated,
// and reports whether at least one was just pressed
func (kpt *KeyPressTracker) AnyPressed(keyState []uint8, scancodes ...sdl.Scancode) bool {
	hit := false
	for _, sc := range scancodes {
		if kpt.IsPressed(keyState, sc) {
			hit = true
		}
	}
	return hit
}

// Reset takes over keyState as the current state, e.g. when a screen gets
// input focus back. Keys held at that moment are not reported as new presses.
func (kpt *KeyPressTracker) Reset(keyState []uint8) {
	clear(kpt.pressed)
	for sc, v := range keyState {
		if v != 0 {
			kpt.pressed[sdl.Scancode(sc)] = true
		}
	}
}

// MousePressTracker does the same for mouse buttons
type MousePressTracker struct {
	// Keyed by SDL button mask (e.g. sdl.ButtonLMask())
	pressed map[uint32]bool
}

// NewMousePressTracker creates a new MousePressTracker
func NewMousePressTracker() MousePressTracker {
	return MousePressTracker{
		pressed: make(map[uint32]bool),
	}
}

// IsPressed reports whether the button went down since the previous call
func (mpt *MousePressTracker) IsPressed(mouseState uint32, buttonMask uint32) bool {
	down := mouseState&buttonMask != 0
	was := mpt.pressed[buttonMask]
	mpt.pressed[buttonMask] = down
	return down && !was
}

// Reset takes over mouseState as the current state; buttons held at that
// moment are not reported as new presses
func (mpt *MousePressTracker) Reset(mouseState uint32) {
	clear(mpt.pressed)
	for bit := uint32(1); bit != 0; bit <<= 1 {
		if mouseState&bit != 0 {
			mpt.pressed[bit] = true
		}
	}
}
