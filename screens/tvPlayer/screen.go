package tvPlayer

import (
	"fmt"
	"log"
	"time"

	"tv-frame/pkg/channels"
	"tv-frame/pkg/input"
	"tv-frame/pkg/render"
	"tv-frame/pkg/stream"
	"tv-frame/pkg/surface"
	"tv-frame/ui"

	"github.com/veandco/go-sdl2/sdl"
)

// NewTVPlayerScreen creates the player screen. Sessions write their channel
// files to sessionDir.
func NewTVPlayerScreen(renderer *sdl.Renderer, fonts *ui.Fonts, sessionDir string, newEngine EngineFactory) *TVPlayerScreen {
	s := &TVPlayerScreen{
		renderer:   renderer,
		fonts:      fonts,
		sessionDir: sessionDir,
		newEngine:  newEngine,
		target:     surface.NewTarget(renderer),
		keyTracker: input.NewKeyPressTracker(),
	}
	s.sync = render.NewSynchronizer(s.target, nil)
	s.target.SetOverlay(s.drawOverlay)
	return s
}

// Watch starts playing list[index]. Any running session is closed first.
// Keys held in keyState, such as the Enter that chose the channel, are not
// taken as presses.
func (s *TVPlayerScreen) Watch(list []channels.Channel, index int, keyState []uint8) error {
	if index < 0 || index >= len(list) {
		return fmt.Errorf("channel %d out of range", index)
	}
	s.list = list
	s.finished = false
	s.err = nil
	s.keyTracker.Reset(keyState)

	w, h, err := s.renderer.GetOutputSize()
	if err != nil {
		log.Printf("Watch: failed to query output size: %v", err)
	}
	s.sync.SurfaceChanged(w, h)
	s.sync.SurfaceCreated()

	return s.tune(index)
}

// SetShowStats toggles the render statistics overlay
func (s *TVPlayerScreen) SetShowStats(show bool) {
	s.showStats = show
}

// Channel returns the channel on screen
func (s *TVPlayerScreen) Channel() channels.Channel {
	if s.current < 0 || s.current >= len(s.list) {
		return channels.Channel{}
	}
	return s.list[s.current]
}

// Finished reports whether the screen wants to hand control back, together
// with the reason when playback failed
func (s *TVPlayerScreen) Finished() (bool, error) {
	return s.finished, s.err
}

func (s *TVPlayerScreen) tune(index int) error {
	s.closeSession()
	s.current = index
	ch := s.list[index]

	s.drawTuning(ch)

	session, err := stream.Start(ch, s.sessionDir, s.newEngine(), s.sync)
	if err != nil {
		log.Printf("tune: failed to start %q: %v", ch.Name, err)
		return err
	}
	s.session = session
	s.bannerUntil = time.Now().Add(bannerDuration)
	s.sync.Monitor().Reset()
	s.lastReport = time.Now()
	return nil
}

// Update handles input and engine notifications
func (s *TVPlayerScreen) Update(keyState []uint8) error {
	if s.finished {
		return nil
	}

	if s.keyTracker.AnyPressed(keyState, sdl.SCANCODE_ESCAPE, sdl.SCANCODE_BACKSPACE) {
		s.stop(nil)
		return nil
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_UP) || s.keyTracker.IsPressed(keyState, sdl.SCANCODE_PAGEUP) {
		s.zap(-1)
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_DOWN) || s.keyTracker.IsPressed(keyState, sdl.SCANCODE_PAGEDOWN) {
		s.zap(1)
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_I) {
		s.bannerUntil = time.Now().Add(bannerDuration)
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_S) {
		s.showStats = !s.showStats
	}

	s.handleEvents()
	s.logReport()
	return nil
}

func (s *TVPlayerScreen) zap(delta int) {
	if len(s.list) < 2 {
		return
	}
	next := ((s.current+delta)%len(s.list) + len(s.list)) % len(s.list)
	if err := s.tune(next); err != nil {
		s.stop(err)
	}
}

func (s *TVPlayerScreen) handleEvents() {
	if s.session == nil {
		return
	}
	select {
	case ev := <-s.session.Events():
		log.Printf("handleEvents: %q: %s", s.session.Channel().Name, ev)
		if ev.Ended() {
			s.stop(fmt.Errorf("%s: %s", s.session.Channel().Name, ev))
		}
	default:
	}
}

func (s *TVPlayerScreen) logReport() {
	if time.Since(s.lastReport) < reportInterval {
		return
	}
	s.lastReport = time.Now()
	r := s.sync.Monitor().GetReport()
	log.Printf("Render stats | rendered=%d coalesced=%d (%.1f%%) skipped=%d avg=%.2fms healthy=%t",
		r.Rendered, r.Coalesced, r.CoalesceRate, r.Skipped, r.AvgRenderMs, r.IsHealthy)
}

// Draw applies pending surface events and renders the newest frame, if any
func (s *TVPlayerScreen) Draw() error {
	s.sync.Pump()
	return nil
}

// HandleWindowEvent forwards window lifecycle changes to the synchronizer
func (s *TVPlayerScreen) HandleWindowEvent(e *sdl.WindowEvent) {
	switch e.Event {
	case sdl.WINDOWEVENT_SIZE_CHANGED:
		w, h, err := s.renderer.GetOutputSize()
		if err != nil {
			w, h = e.Data1, e.Data2
		}
		s.sync.SurfaceChanged(w, h)
	case sdl.WINDOWEVENT_HIDDEN, sdl.WINDOWEVENT_MINIMIZED:
		s.target.SetReady(false)
		s.sync.SurfaceDestroyed()
	case sdl.WINDOWEVENT_SHOWN, sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_EXPOSED:
		s.target.SetReady(true)
		s.sync.SurfaceCreated()
	}
}

func (s *TVPlayerScreen) stop(err error) {
	s.closeSession()
	s.finished = true
	s.err = err
}

func (s *TVPlayerScreen) closeSession() {
	if s.session == nil {
		return
	}
	if err := s.session.Close(); err != nil {
		log.Printf("closeSession: %v", err)
	}
	s.session = nil
	s.sync.Pump()
}

// Close stops playback and frees the streaming texture
func (s *TVPlayerScreen) Close() {
	s.closeSession()
	s.target.Destroy()
}

func (s *TVPlayerScreen) drawTuning(ch channels.Channel) {
	w, h, _ := s.renderer.GetOutputSize()
	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()
	if s.fonts != nil && s.fonts.Large != nil {
		ui.RenderTextCentered(s.renderer, "Tuning "+ch.Name+" ...", 0, h/2-16, w, sdl.Color{R: 255, G: 255, B: 255, A: 255}, s.fonts.Large)
	}
	s.renderer.Present()
}

// drawOverlay runs inside a render, before the frame is presented
func (s *TVPlayerScreen) drawOverlay(renderer *sdl.Renderer) {
	if s.fonts == nil {
		return
	}
	w, h, err := renderer.GetOutputSize()
	if err != nil {
		return
	}

	if time.Now().Before(s.bannerUntil) && s.fonts.Large != nil {
		renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
		renderer.SetDrawColor(15, 23, 42, 200)
		renderer.FillRect(&sdl.Rect{X: 0, Y: h - 110, W: w, H: 110})
		label := fmt.Sprintf("%d  %s", s.current+1, s.Channel().Name)
		ui.RenderText(renderer, label, 40, h-90, sdl.Color{R: 255, G: 255, B: 255, A: 255}, s.fonts.Large)
		if s.fonts.Small != nil {
			ui.RenderText(renderer, "Up/Down Switch Channel | S Stats | ESC Channel List", 40, h-40, sdl.Color{R: 156, G: 163, B: 175, A: 255}, s.fonts.Small)
		}
	}

	if s.showStats && s.fonts.Small != nil && s.session != nil {
		r := s.sync.Monitor().GetReport()
		buf := s.session.Player().FrameBuffer()
		size := "-"
		if buf != nil {
			size = fmt.Sprintf("%dx%d %s", buf.Width(), buf.Height(), buf.Format())
		}
		text := fmt.Sprintf("%s | %.1f ms | merged %.1f%% | skipped %d", size, r.AvgRenderMs, r.CoalesceRate, r.Skipped)
		ui.RenderText(renderer, text, 20, 20, sdl.Color{R: 250, G: 204, B: 21, A: 255}, s.fonts.Small)
	}
}
