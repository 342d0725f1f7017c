// Package overlay rasterizes scene debug text for the screen overlay.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Padding around the text block, in pixels.
const Padding = 4

// Style controls how debug text is drawn.
type Style struct {
	Face       font.Face
	Foreground color.Color
	Background color.Color
}

// DefaultStyle is black 7x13 text on a translucent white panel.
func DefaultStyle() Style {
	return Style{
		Face:       basicfont.Face7x13,
		Foreground: color.Black,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 160},
	}
}

// Rasterize draws text, one line per '\n', into a new image sized to fit.
// It returns nil for empty text.
func Rasterize(text string, style Style) *image.RGBA {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	metrics := style.Face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	width := 0
	for _, line := range lines {
		if w := font.MeasureString(style.Face, line).Ceil(); w > width {
			width = w
		}
	}
	height := lineHeight * len(lines)

	img := image.NewRGBA(image.Rect(0, 0, width+2*Padding, height+2*Padding))
	draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(style.Foreground),
		Face: style.Face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(Padding, Padding+ascent+i*lineHeight)
		d.DrawString(line)
	}

	return img
}

// Cache re-rasterizes only when the text changes.
type Cache struct {
	style Style
	text  string
	img   *image.RGBA
	dirty bool
}

// NewCache creates a cache drawing with style.
func NewCache(style Style) *Cache {
	return &Cache{style: style}
}

// Update sets the text and reports whether the image changed.
func (c *Cache) Update(text string) bool {
	if text == c.text && c.img != nil {
		return false
	}
	if text == c.text && text == "" {
		return false
	}
	c.text = text
	c.img = Rasterize(text, c.style)
	c.dirty = true
	return true
}

// Image returns the current image, or nil when there is no text.
func (c *Cache) Image() *image.RGBA {
	return c.img
}

// TakeDirty reports whether the image changed since the last call.
func (c *Cache) TakeDirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}
