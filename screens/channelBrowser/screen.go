package channelBrowser

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"tv-frame/pkg/channels"
	"tv-frame/pkg/input"
	"tv-frame/pkg/settings"
	"tv-frame/ui"
	"tv-frame/widgets/channelList"
	"tv-frame/widgets/tabs"

	"github.com/veandco/go-sdl2/sdl"
)

// NewChannelsScreen creates the screen and loads the remembered channel list
func NewChannelsScreen(configsDir, settingsPath string) *ChannelsScreen {
	s := &ChannelsScreen{
		configsDir:     configsDir,
		settingsPath:   settingsPath,
		settings:       settings.Load(settingsPath),
		tabsWidget:     tabs.NewWidget(),
		listsWidget:    channelList.NewWidget("Channel Lists", "No channel lists in "+configsDir),
		channelsWidget: channelList.NewWidget("Channels", "Choose a channel list first"),
		keyTracker:     input.NewKeyPressTracker(),
		mouseTracker:   input.NewMousePressTracker(),
	}
	s.Reload()
	return s
}

// Reload rescans the configs directory and reopens the preferred list
func (s *ChannelsScreen) Reload() {
	names, err := channels.ListConfigs(s.configsDir)
	if err != nil {
		log.Printf("Reload: %v", err)
		s.message = err.Error()
	}
	s.listsWidget.SetItems(names)

	name, err := channels.SelectList(s.settings.ChannelList, names)
	if err != nil {
		// Several lists and none remembered: let the user choose.
		s.tabsWidget.SetActiveTab(tabs.ListsTab)
		s.channels = nil
		s.activeList = ""
		s.channelsWidget.SetItems(nil)
		return
	}
	s.listsWidget.Select(name)
	if err := s.openList(name); err != nil {
		s.tabsWidget.SetActiveTab(tabs.ListsTab)
		return
	}
	s.tabsWidget.SetActiveTab(tabs.ChannelsTab)
	if s.settings.LastChannel != "" {
		s.channelsWidget.Select(s.settings.LastChannel)
	}
}

func (s *ChannelsScreen) openList(name string) error {
	list, err := channels.Load(filepath.Join(s.configsDir, name))
	if err != nil {
		log.Printf("openList: %v", err)
		s.message = fmt.Sprintf("Invalid channel configuration: %v", err)
		return err
	}

	names := make([]string, len(list))
	for i, ch := range list {
		names[i] = ch.Name
	}
	s.channels = list
	s.activeList = name
	s.channelsWidget.SetItems(names)
	s.message = ""
	return nil
}

// Channels returns the channels of the open list
func (s *ChannelsScreen) Channels() []channels.Channel {
	return s.channels
}

// ActiveList returns the file name of the open list
func (s *ChannelsScreen) ActiveList() string {
	return s.activeList
}

// Settings returns the persisted preferences
func (s *ChannelsScreen) Settings() settings.Settings {
	return s.settings
}

// SetMessage shows a one-line status, e.g. why playback ended
func (s *ChannelsScreen) SetMessage(msg string) {
	s.message = msg
}

// Focus hands input back to the browser. Keys and buttons still held from
// the previous screen, like the Escape that left the player, are ignored
// until released.
func (s *ChannelsScreen) Focus(keyState []uint8, mouseButtons uint32) {
	s.keyTracker.Reset(keyState)
	s.mouseTracker.Reset(mouseButtons)
}

// Update processes input and reports what the user selected. A left click
// activates the row under the pointer.
func (s *ChannelsScreen) Update(keyState []uint8, mouseX, mouseY int32, mouseButtons uint32) Action {
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_DOWN) {
		s.activeWidget().MoveSelection(1)
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_UP) {
		s.activeWidget().MoveSelection(-1)
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_LEFT) {
		s.tabsWidget.Switch(-1)
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_RIGHT) {
		s.tabsWidget.Switch(1)
	}
	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_F5) {
		s.Reload()
	}

	activate := s.keyTracker.AnyPressed(keyState, sdl.SCANCODE_RETURN, sdl.SCANCODE_SPACE)
	if s.mouseTracker.IsPressed(mouseButtons, sdl.ButtonLMask()) && s.tabsWidget.ActiveTab() != tabs.CloseTab {
		if row := s.activeWidget().RowAt(mouseX, mouseY); row >= 0 {
			s.activeWidget().SetSelected(row)
			activate = true
		}
	}
	if activate {
		return s.activateSelection()
	}

	if s.keyTracker.IsPressed(keyState, sdl.SCANCODE_ESCAPE) {
		return Action{Kind: ActionQuit}
	}
	return Action{}
}

func (s *ChannelsScreen) activeWidget() *channelList.Widget {
	if s.tabsWidget.ActiveTab() == tabs.ListsTab {
		return s.listsWidget
	}
	return s.channelsWidget
}

func (s *ChannelsScreen) activateSelection() Action {
	switch s.tabsWidget.ActiveTab() {
	case tabs.ListsTab:
		idx := s.listsWidget.Selected()
		if idx < 0 {
			return Action{}
		}
		name := s.listsWidget.Items()[idx]
		if err := s.openList(name); err != nil {
			return Action{}
		}
		s.settings.ChannelList = name
		s.save()
		s.tabsWidget.SetActiveTab(tabs.ChannelsTab)
	case tabs.ChannelsTab:
		idx := s.channelsWidget.Selected()
		if idx < 0 {
			return Action{}
		}
		s.settings.LastChannel = s.channels[idx].Name
		s.save()
		return Action{Kind: ActionWatch, Index: idx}
	case tabs.CloseTab:
		return Action{Kind: ActionQuit}
	}
	return Action{}
}

func (s *ChannelsScreen) save() {
	if err := settings.Save(s.settingsPath, s.settings); err != nil {
		log.Printf("save: failed to write settings: %v", err)
	}
}

// Draw renders the channel browser
func (s *ChannelsScreen) Draw(renderer *sdl.Renderer, screenWidth, screenHeight int32, fonts *ui.Fonts) error {
	if fonts == nil {
		return errors.New("fonts not loaded")
	}

	renderer.SetDrawColor(15, 23, 42, 255)
	renderer.FillRect(&sdl.Rect{X: 0, Y: 0, W: screenWidth, H: screenHeight})

	uiWidth := int32(float64(screenWidth) * 0.8)
	uiHeight := int32(float64(screenHeight) * 0.8)
	uiX := (screenWidth - uiWidth) / 2
	uiY := (screenHeight - uiHeight) / 2

	renderer.SetDrawColor(30, 41, 59, 255)
	renderer.FillRect(&sdl.Rect{X: uiX, Y: uiY, W: uiWidth, H: uiHeight})

	if err := s.tabsWidget.Draw(renderer, uiX, uiY, uiWidth, fonts.Medium); err != nil {
		return err
	}

	contentY := uiY + 80
	contentHeight := uiHeight - 130
	white := sdl.Color{R: 255, G: 255, B: 255, A: 255}

	switch s.tabsWidget.ActiveTab() {
	case tabs.ChannelsTab:
		if err := s.channelsWidget.Draw(renderer, uiX, contentY, uiWidth, contentHeight, fonts.Large, fonts.Medium, fonts.Small); err != nil {
			return err
		}
	case tabs.ListsTab:
		if err := s.listsWidget.Draw(renderer, uiX, contentY, uiWidth, contentHeight, fonts.Large, fonts.Medium, fonts.Small); err != nil {
			return err
		}
	case tabs.CloseTab:
		if fonts.Medium != nil {
			ui.RenderTextCentered(renderer, "Press Enter to quit", uiX, contentY+contentHeight/2, uiWidth, white, fonts.Medium)
		}
	}

	if fonts.Small != nil {
		if s.message != "" {
			ui.RenderText(renderer, s.message, uiX+20, uiY+uiHeight-60, sdl.Color{R: 248, G: 113, B: 113, A: 255}, fonts.Small)
		}
		hint := sdl.Color{R: 156, G: 163, B: 175, A: 255}
		ui.RenderText(renderer, "Up/Down Navigate | Left/Right Switch Tabs | Enter Select | F5 Reload | ESC Quit", uiX+20, uiY+uiHeight-30, hint, fonts.Small)
	}
	return nil
}
