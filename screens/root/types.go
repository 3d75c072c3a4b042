package root

import (
	"errors"

	"tv-frame/pkg/config"
	"tv-frame/pkg/input"
	"tv-frame/screens/channelBrowser"
	"tv-frame/screens/tvPlayer"
	"tv-frame/ui"

	"github.com/veandco/go-sdl2/sdl"
)

// ErrQuit is returned by Update when the user asked to leave.
var ErrQuit = errors.New("quit requested")

type mode int

const (
	modeDeviceError mode = iota
	modeChannels
	modePlayer
)

// RootScreen gates the application on the device check and switches between
// the channel browser and the player
type RootScreen struct {
	cfg config.Config

	// SDL2 rendering
	window   *sdl.Window
	renderer *sdl.Renderer
	fonts    *ui.Fonts

	mode      mode
	deviceErr error

	browser *channelBrowser.ChannelsScreen
	player  *tvPlayer.TVPlayerScreen

	// Background channel list sync
	syncCh     chan syncResult
	syncCancel func()

	// Input tracking
	keyState       []uint8
	mouseX, mouseY int32
	mouseButtons   uint32
	keyTracker   input.KeyPressTracker
}

// Result of a background S3 channel list sync
type syncResult struct {
	names []string
	err   error
}
