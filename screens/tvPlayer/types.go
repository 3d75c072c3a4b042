package tvPlayer

import (
	"time"

	"tv-frame/pkg/avplayer"
	"tv-frame/pkg/channels"
	"tv-frame/pkg/input"
	"tv-frame/pkg/render"
	"tv-frame/pkg/stream"
	"tv-frame/pkg/surface"
	"tv-frame/ui"

	"github.com/veandco/go-sdl2/sdl"
)

// EngineFactory creates a fresh decode engine for every session.
type EngineFactory func() avplayer.Engine

// TVPlayerScreen shows one channel full screen and zaps through the list
// it was started from.
type TVPlayerScreen struct {
	renderer   *sdl.Renderer
	fonts      *ui.Fonts
	sessionDir string
	newEngine  EngineFactory

	target  *surface.Target
	sync    *render.Synchronizer
	session *stream.Session

	// Channel list being zapped through
	list    []channels.Channel
	current int

	// On-screen display
	bannerUntil time.Time
	showStats   bool
	lastReport  time.Time

	finished bool
	err      error

	keyTracker input.KeyPressTracker
}

const (
	bannerDuration = 4 * time.Second
	reportInterval = 10 * time.Second
)
