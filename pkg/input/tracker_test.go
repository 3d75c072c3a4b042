package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

// numScancodes matches SDL_NUM_SCANCODES.
const numScancodes = 512

func TestKeyPressIsEdgeTriggered(t *testing.T) {
	kpt := NewKeyPressTracker()
	state := make([]uint8, numScancodes)

	assert.False(t, kpt.IsPressed(state, sdl.SCANCODE_RETURN))

	state[sdl.SCANCODE_RETURN] = 1
	assert.True(t, kpt.IsPressed(state, sdl.SCANCODE_RETURN))
	assert.False(t, kpt.IsPressed(state, sdl.SCANCODE_RETURN), "held key must not repeat")

	state[sdl.SCANCODE_RETURN] = 0
	assert.False(t, kpt.IsPressed(state, sdl.SCANCODE_RETURN))
	state[sdl.SCANCODE_RETURN] = 1
	assert.True(t, kpt.IsPressed(state, sdl.SCANCODE_RETURN))
}

func TestNilKeyStateReleases(t *testing.T) {
	kpt := NewKeyPressTracker()
	state := make([]uint8, numScancodes)
	state[sdl.SCANCODE_ESCAPE] = 1

	assert.True(t, kpt.IsPressed(state, sdl.SCANCODE_ESCAPE))
	assert.False(t, kpt.IsPressed(nil, sdl.SCANCODE_ESCAPE))
	assert.True(t, kpt.IsPressed(state, sdl.SCANCODE_ESCAPE))
}

func TestAnyPressedUpdatesAllKeys(t *testing.T) {
	kpt := NewKeyPressTracker()
	state := make([]uint8, numScancodes)
	state[sdl.SCANCODE_RETURN] = 1
	state[sdl.SCANCODE_SPACE] = 1

	assert.True(t, kpt.AnyPressed(state, sdl.SCANCODE_RETURN, sdl.SCANCODE_SPACE))
	assert.False(t, kpt.IsPressed(state, sdl.SCANCODE_SPACE))

	kpt.Reset(nil)
	assert.True(t, kpt.IsPressed(state, sdl.SCANCODE_SPACE))
}

func TestKeyHeldAcrossResetIsNotNewPress(t *testing.T) {
	kpt := NewKeyPressTracker()
	state := make([]uint8, numScancodes)

	// another screen consumed this press while the tracker was idle
	state[sdl.SCANCODE_ESCAPE] = 1
	kpt.Reset(state)
	assert.False(t, kpt.IsPressed(state, sdl.SCANCODE_ESCAPE))
	assert.False(t, kpt.IsPressed(state, sdl.SCANCODE_RETURN))

	state[sdl.SCANCODE_ESCAPE] = 0
	assert.False(t, kpt.IsPressed(state, sdl.SCANCODE_ESCAPE))
	state[sdl.SCANCODE_ESCAPE] = 1
	assert.True(t, kpt.IsPressed(state, sdl.SCANCODE_ESCAPE))
}

func TestMousePress(t *testing.T) {
	mpt := NewMousePressTracker()
	assert.True(t, mpt.IsPressed(sdl.ButtonLMask(), sdl.ButtonLMask()))
	assert.False(t, mpt.IsPressed(sdl.ButtonLMask(), sdl.ButtonLMask()))
	assert.False(t, mpt.IsPressed(0, sdl.ButtonLMask()))
}

func TestMouseHeldAcrossResetIsNotNewPress(t *testing.T) {
	mpt := NewMousePressTracker()
	mpt.Reset(sdl.ButtonLMask())
	assert.False(t, mpt.IsPressed(sdl.ButtonLMask(), sdl.ButtonLMask()))
	assert.False(t, mpt.IsPressed(0, sdl.ButtonLMask()))
	assert.True(t, mpt.IsPressed(sdl.ButtonLMask(), sdl.ButtonLMask()))
}
