// Package preview renders a marquee the way the daemon would draw it, without
// touching a display.
package preview

import (
	"encoding/binary"
	"errors"
	"image"

	"github.com/danc/dmarquees/internal/assets"
	"github.com/danc/dmarquees/internal/compositor"
	"github.com/danc/dmarquees/internal/display"
	"github.com/danc/dmarquees/internal/types"
	"github.com/fogleman/gg"
)

type Options struct {
	Width     int
	Height    int
	Placement types.Placement
	// Outline strokes the drawn rectangle so letterboxing is easy to see.
	Outline bool
}

// Render composites img onto a black screen of the requested size.
func Render(img *assets.Image, opts Options) (*gg.Context, image.Rectangle, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, image.Rectangle{}, errors.New("preview size must be positive")
	}

	v := display.NewView(opts.Width, opts.Height)
	r := compositor.Composite(v, img, opts.Placement)

	dc := gg.NewContextForRGBA(toRGBA(v))
	if opts.Outline && !r.Empty() {
		dc.SetRGB(1, 0, 1)
		dc.SetLineWidth(1)
		dc.DrawRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx()-1), float64(r.Dy()-1))
		dc.Stroke()
	}

	return dc, r, nil
}

// Save renders img and writes the result to path as a PNG.
func Save(path string, img *assets.Image, opts Options) (image.Rectangle, error) {
	dc, r, err := Render(img, opts)
	if err != nil {
		return r, err
	}
	return r, dc.SavePNG(path)
}

// toRGBA converts XRGB8888 scanout memory into an opaque RGBA image.
func toRGBA(v display.View) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	for y := 0; y < v.Height; y++ {
		row := v.Pix[y*v.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < v.Width; x++ {
			px := binary.LittleEndian.Uint32(row[x*4:])
			dst[x*4+0] = uint8(px >> 16)
			dst[x*4+1] = uint8(px >> 8)
			dst[x*4+2] = uint8(px)
			dst[x*4+3] = 0xff
		}
	}
	return out
}
