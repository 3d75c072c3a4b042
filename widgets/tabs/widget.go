package tabs

import (
	"tv-frame/ui"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

// Widget manages tab navigation UI
type Widget struct {
	activeTab TabID
}

// NewWidget creates a tab bar with the channels tab active
func NewWidget() *Widget {
	return &Widget{activeTab: ChannelsTab}
}

// ActiveTab returns the currently active tab
func (w *Widget) ActiveTab() TabID {
	return w.activeTab
}

// SetActiveTab sets the active tab; unknown tabs are ignored
func (w *Widget) SetActiveTab(tab TabID) {
	if tab >= ChannelsTab && tab <= CloseTab {
		w.activeTab = tab
	}
}

// Switch moves to the neighbouring tab, wrapping at both ends
func (w *Widget) Switch(direction int) {
	n := len(tabNames)
	next := (int(w.activeTab) + direction%n + n) % n
	w.SetActiveTab(TabID(next))
}

// Draw renders the tab bar
func (w *Widget) Draw(renderer *sdl.Renderer, x, y, width int32, font *ttf.Font) error {
	tabWidth := width / int32(len(tabNames))
	tabHeight := int32(60)

	for i, tabText := range tabNames {
		tabX := x + int32(i)*tabWidth
		active := TabID(i) == w.activeTab

		if active {
			renderer.SetDrawColor(51, 65, 85, 255)
		} else {
			renderer.SetDrawColor(30, 41, 59, 255)
		}
		renderer.FillRect(&sdl.Rect{X: tabX, Y: y, W: tabWidth, H: tabHeight})

		color := sdl.Color{R: 148, G: 163, B: 184, A: 255}
		if active {
			renderer.SetDrawColor(59, 130, 246, 255)
			renderer.FillRect(&sdl.Rect{X: tabX + 20, Y: y + tabHeight - 4, W: tabWidth - 40, H: 4})
			color = sdl.Color{R: 255, G: 255, B: 255, A: 255}
		}

		if font != nil {
			ui.RenderTextCentered(renderer, tabText, tabX, y+18, tabWidth, color, font)
		}
	}

	return nil
}
