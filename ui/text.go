package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

// RenderText renders text with its top-left corner at x, y
func RenderText(renderer *sdl.Renderer, text string, x, y int32, color sdl.Color, font *ttf.Font) error {
	_, err := renderText(renderer, text, color, font, func(w, h int32) sdl.Rect {
		return sdl.Rect{X: x, Y: y, W: w, H: h}
	})
	return err
}

// RenderTextCentered renders text centered horizontally in a band of the
// given width starting at x
func RenderTextCentered(renderer *sdl.Renderer, text string, x, y, width int32, color sdl.Color, font *ttf.Font) error {
	_, err := renderText(renderer, text, color, font, func(w, h int32) sdl.Rect {
		return sdl.Rect{X: x + (width-w)/2, Y: y, W: w, H: h}
	})
	return err
}

func renderText(renderer *sdl.Renderer, text string, color sdl.Color, font *ttf.Font, place func(w, h int32) sdl.Rect) (sdl.Rect, error) {
	if font == nil {
		return sdl.Rect{}, fmt.Errorf("font not available")
	}
	if text == "" {
		return sdl.Rect{}, nil
	}

	surface, err := font.RenderUTF8Blended(text, color)
	if err != nil {
		return sdl.Rect{}, err
	}
	defer surface.Free()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return sdl.Rect{}, err
	}
	defer texture.Destroy()

	_, _, w, h, err := texture.Query()
	if err != nil {
		return sdl.Rect{}, err
	}

	dst := place(w, h)
	return dst, renderer.Copy(texture, nil, &dst)
}
