package channelList

import (
	"fmt"

	"tv-frame/ui"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

const rowHeight = int32(44)

var (
	highlightTop    = sdl.Color{R: 59, G: 130, B: 246, A: 255}
	highlightBottom = sdl.Color{R: 37, G: 99, B: 235, A: 255}
)

// Widget shows a scrollable list of names with one selected row
type Widget struct {
	title    string
	empty    string
	items    []string
	selected int
	offset   int

	// rows is where the visible rows were last drawn, for hit testing
	rows    sdl.Rect
	visible int
}

// NewWidget creates a list. empty is shown when there are no items.
func NewWidget(title, empty string) *Widget {
	return &Widget{title: title, empty: empty}
}

// SetItems replaces the rows, keeping the selection when it is still valid
func (w *Widget) SetItems(items []string) {
	w.items = items
	if w.selected >= len(items) {
		w.selected = 0
		w.offset = 0
	}
}

// Items returns the current rows
func (w *Widget) Items() []string {
	return w.items
}

// Selected returns the selected row, or -1 when the list is empty
func (w *Widget) Selected() int {
	if len(w.items) == 0 {
		return -1
	}
	return w.selected
}

// Select moves the selection to the row named name and reports whether it
// was found
func (w *Widget) Select(name string) bool {
	for i, item := range w.items {
		if item == name {
			w.selected = i
			return true
		}
	}
	return false
}

// MoveSelection moves selection up or down with wrapping
func (w *Widget) MoveSelection(delta int) {
	n := len(w.items)
	if n == 0 {
		return
	}
	w.selected = ((w.selected+delta)%n + n) % n
}

// SetSelected selects row i; out of range indices are ignored
func (w *Widget) SetSelected(i int) {
	if i >= 0 && i < len(w.items) {
		w.selected = i
	}
}

// RowAt returns the item drawn at (px, py), or -1 when the point is not on a
// row
func (w *Widget) RowAt(px, py int32) int {
	if w.visible <= 0 {
		return -1
	}
	r := w.rows
	if px < r.X || px >= r.X+r.W || py < r.Y || py >= r.Y+r.H {
		return -1
	}
	i := w.offset + int((py-r.Y)/rowHeight)
	if i >= len(w.items) {
		return -1
	}
	return i
}

// Layout places the list in the given area, scrolls to the selection and
// returns the number of visible rows. Draw calls it; RowAt uses its result.
func (w *Widget) Layout(x, y, width, height int32) int {
	listY := y + 100
	w.visible = 0
	if len(w.items) == 0 {
		return 0
	}
	visible := int((height - 100) / rowHeight)
	if visible <= 0 {
		return 0
	}
	w.scroll(visible)
	w.visible = visible
	w.rows = sdl.Rect{X: x + 30, Y: listY, W: width - 60, H: int32(visible) * rowHeight}
	return visible
}

// scroll keeps the selected row inside a window of visible rows
func (w *Widget) scroll(visible int) {
	if visible <= 0 {
		return
	}
	if w.selected < w.offset {
		w.offset = w.selected
	}
	if w.selected >= w.offset+visible {
		w.offset = w.selected - visible + 1
	}
}

// Draw renders the list into the given area
func (w *Widget) Draw(renderer *sdl.Renderer, x, y, width, height int32, largeFont, mediumFont, smallFont *ttf.Font) error {
	white := sdl.Color{R: 255, G: 255, B: 255, A: 255}
	muted := sdl.Color{R: 148, G: 163, B: 184, A: 255}

	if largeFont != nil {
		ui.RenderText(renderer, w.title, x+40, y+20, white, largeFont)
	}
	if smallFont != nil && len(w.items) > 0 {
		ui.RenderText(renderer, fmt.Sprintf("%d of %d", w.selected+1, len(w.items)), x+40, y+62, muted, smallFont)
	}

	listY := y + 100
	visible := w.Layout(x, y, width, height)
	if len(w.items) == 0 {
		if mediumFont != nil {
			ui.RenderText(renderer, w.empty, x+40, listY, muted, mediumFont)
		}
		return nil
	}

	for i := w.offset; i < len(w.items) && i < w.offset+visible; i++ {
		rowY := listY + int32(i-w.offset)*rowHeight
		color := muted
		if i == w.selected {
			ui.DrawGradientRect(renderer, sdl.Rect{X: x + 30, Y: rowY, W: width - 60, H: rowHeight - 4}, highlightTop, highlightBottom)
			color = white
		}
		if mediumFont != nil {
			ui.RenderText(renderer, w.items[i], x+44, rowY+8, color, mediumFont)
		}
	}

	return nil
}
