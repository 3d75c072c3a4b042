package root

import (
	"context"
	"log"
	"time"

	"tv-frame/pkg/channelFs"
	"tv-frame/pkg/config"
	"tv-frame/pkg/device"
	"tv-frame/pkg/input"
	"tv-frame/screens/channelBrowser"
	"tv-frame/screens/tvPlayer"
	"tv-frame/ui"

	"github.com/veandco/go-sdl2/sdl"
)

const syncTimeout = 30 * time.Second

// NewRootScreen checks the DVB adapter and builds the screens. When the
// device is not usable only an error is shown and no player is created.
func NewRootScreen(window *sdl.Window, renderer *sdl.Renderer, cfg config.Config, newEngine tvPlayer.EngineFactory) *RootScreen {
	rs := &RootScreen{
		cfg:        cfg,
		window:     window,
		renderer:   renderer,
		keyTracker: input.NewKeyPressTracker(),
	}

	fonts, err := ui.LoadFonts()
	if err != nil {
		log.Printf("Warning: Failed to initialize fonts: %v", err)
	}
	rs.fonts = fonts

	if err := device.Check(device.AdapterEndpoints(cfg.Adapter)); err != nil {
		log.Printf("NewRootScreen: %v", err)
		rs.mode = modeDeviceError
		rs.deviceErr = err
		return rs
	}

	rs.browser = channelBrowser.NewChannelsScreen(cfg.ConfigsDir, cfg.SettingsPath)
	rs.player = tvPlayer.NewTVPlayerScreen(renderer, fonts, cfg.SessionDir, newEngine)
	rs.player.SetShowStats(rs.browser.Settings().ShowStats)
	rs.mode = modeChannels

	if cfg.Bucket != "" {
		rs.startSync()
	}
	return rs
}

// startSync downloads channel lists from S3 in the background
func (rs *RootScreen) startSync() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	rs.syncCancel = cancel
	ch := make(chan syncResult, 1)
	rs.syncCh = ch

	go func(cfg config.Config) {
		client, err := channelFs.NewClient(cfg.Region)
		if err != nil {
			ch <- syncResult{err: err}
			return
		}
		names, err := channelFs.SyncFromS3(ctx, client, cfg.Bucket, cfg.Prefix, cfg.ConfigsDir)
		ch <- syncResult{names: names, err: err}
	}(rs.cfg)
}

func (rs *RootScreen) handleSyncResult() {
	if rs.syncCh == nil {
		return
	}
	select {
	case res := <-rs.syncCh:
		rs.syncCh = nil
		rs.syncCancel()
		if res.err != nil {
			log.Printf("sync: channel lists not updated: %v", res.err)
			return
		}
		log.Printf("sync: %d channel list(s) updated", len(res.names))
		if rs.mode == modeChannels {
			rs.browser.Reload()
		}
	default:
	}
}

// Update handles SDL2 input and updates screen state
func (rs *RootScreen) Update() error {
	rs.keyState = sdl.GetKeyboardState()
	rs.mouseX, rs.mouseY, rs.mouseButtons = sdl.GetMouseState()

	rs.handleSyncResult()

	switch rs.mode {
	case modeDeviceError:
		if rs.keyTracker.AnyPressed(rs.keyState, sdl.SCANCODE_RETURN, sdl.SCANCODE_ESCAPE, sdl.SCANCODE_SPACE) {
			return ErrQuit
		}
	case modeChannels:
		action := rs.browser.Update(rs.keyState, rs.mouseX, rs.mouseY, rs.mouseButtons)
		switch action.Kind {
		case channelBrowser.ActionQuit:
			return ErrQuit
		case channelBrowser.ActionWatch:
			rs.watch(action.Index)
		}
	case modePlayer:
		if err := rs.player.Update(rs.keyState); err != nil {
			return err
		}
		if done, err := rs.player.Finished(); done {
			if err != nil {
				rs.browser.SetMessage(err.Error())
			}
			rs.browser.Focus(rs.keyState, rs.mouseButtons)
			rs.mode = modeChannels
		}
	}
	return nil
}

func (rs *RootScreen) watch(index int) {
	list := rs.browser.Channels()
	if err := rs.player.Watch(list, index, rs.keyState); err != nil {
		rs.browser.SetMessage(err.Error())
		return
	}
	rs.browser.SetMessage("")
	rs.mode = modePlayer
}

// HandleWindowEvent forwards window lifecycle changes to the player
func (rs *RootScreen) HandleWindowEvent(e *sdl.WindowEvent) {
	if rs.player != nil {
		rs.player.HandleWindowEvent(e)
	}
}

// Draw renders the current screen. The player presents its own frames.
func (rs *RootScreen) Draw() error {
	if rs.mode == modePlayer {
		return rs.player.Draw()
	}

	w, h, err := rs.renderer.GetOutputSize()
	if err != nil {
		w, h = rs.window.GetSize()
	}

	rs.renderer.SetDrawColor(0, 0, 0, 255)
	rs.renderer.Clear()

	switch rs.mode {
	case modeDeviceError:
		rs.drawDeviceError(w, h)
	case modeChannels:
		if err := rs.browser.Draw(rs.renderer, w, h, rs.fonts); err != nil {
			return err
		}
		if rs.syncCh != nil {
			rs.drawLoadingIcon(w, h)
		}
	}

	rs.renderer.Present()
	return nil
}

func (rs *RootScreen) drawDeviceError(w, h int32) {
	if rs.fonts == nil {
		return
	}
	white := sdl.Color{R: 255, G: 255, B: 255, A: 255}
	muted := sdl.Color{R: 156, G: 163, B: 175, A: 255}
	if rs.fonts.Large != nil {
		ui.RenderTextCentered(rs.renderer, "No usable DVB device found", 0, h/2-60, w, white, rs.fonts.Large)
	}
	if rs.fonts.Small != nil {
		ui.RenderTextCentered(rs.renderer, rs.deviceErr.Error(), 0, h/2, w, muted, rs.fonts.Small)
		ui.RenderTextCentered(rs.renderer, "Press Enter to exit", 0, h/2+40, w, muted, rs.fonts.Small)
	}
}

// Close cleans up resources
func (rs *RootScreen) Close() {
	if rs.syncCancel != nil {
		rs.syncCancel()
	}
	if rs.player != nil {
		rs.player.Close()
	}
	if rs.fonts != nil {
		rs.fonts.Close()
	}
}
