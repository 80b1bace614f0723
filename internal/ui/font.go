// Package ui holds the drawable widgets: the terminal surface, the status
// panel and the toolbar. Widgets render state, they never mutate game
// systems directly.
package ui

import (
	"bytes"
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	fontOnce   sync.Once
	fontSource *text.GoTextFaceSource
)

// FontSource loads the embedded monospace face once.
func FontSource() *text.GoTextFaceSource {
	fontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
		if err != nil {
			log.Fatalf("Failed to load terminal font: %v", err)
		}
		fontSource = src
	})
	return fontSource
}

// Face returns a sized face backed by the shared source.
func Face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: FontSource(), Size: size}
}

// The phosphor palette shared by every widget.
var (
	ColorBackground = color.RGBA{0x0a, 0x0e, 0x0a, 0xff}
	ColorText       = color.RGBA{0x66, 0xff, 0x8c, 0xff}
	ColorDim        = color.RGBA{0x2e, 0x7d, 0x46, 0xff}
	ColorAlert      = color.RGBA{0xff, 0x5c, 0x47, 0xff}
	ColorWarn       = color.RGBA{0xff, 0xc2, 0x47, 0xff}
	ColorPanel      = color.RGBA{0x10, 0x18, 0x12, 0xff}
	ColorBarFill    = color.RGBA{0x3d, 0xba, 0x68, 0xff}
	ColorBarEmpty   = color.RGBA{0x1a, 0x2b, 0x1e, 0xff}
)
