package ui

import (
	"fmt"
	"log"
	"os"

	"github.com/veandco/go-sdl2/ttf"
)

// fontPaths are tried in order. TV_FONT, when set, is tried first.
var fontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// Fonts holds the TrueType faces used by the screens
type Fonts struct {
	Large  *ttf.Font // 32px for headings and the channel banner
	Medium *ttf.Font // 24px for list rows and tabs
	Small  *ttf.Font // 18px for hints and statistics
}

// LoadFonts initializes TTF and opens the first usable font at each size.
// Missing sizes are left nil; callers skip text they cannot draw.
func LoadFonts() (*Fonts, error) {
	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize TTF: %v", err)
	}

	paths := fontPaths
	if custom := os.Getenv("TV_FONT"); custom != "" {
		paths = append([]string{custom}, paths...)
	}

	fonts := &Fonts{
		Large:  openFirst(paths, 32),
		Medium: openFirst(paths, 24),
		Small:  openFirst(paths, 18),
	}
	if fonts.Large == nil && fonts.Medium == nil && fonts.Small == nil {
		return fonts, fmt.Errorf("no usable font found")
	}
	return fonts, nil
}

func openFirst(paths []string, size int) *ttf.Font {
	for _, path := range paths {
		font, err := ttf.OpenFont(path, size)
		if err == nil {
			return font
		}
	}
	log.Printf("LoadFonts: no font available at %dpx", size)
	return nil
}

// Close cleans up font resources
func (f *Fonts) Close() {
	for _, font := range []*ttf.Font{f.Large, f.Medium, f.Small} {
		if font != nil {
			font.Close()
		}
	}
	ttf.Quit()
}
