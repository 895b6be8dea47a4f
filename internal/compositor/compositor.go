// Package compositor scales decoded marquees into framebuffer memory.
package compositor

import (
	"encoding/binary"
	"image"

	"github.com/danc/dmarquees/internal/assets"
	"github.com/danc/dmarquees/internal/display"
	"github.com/danc/dmarquees/internal/types"
)

// DrawRect returns where a srcW x srcH image lands on a dstW x dstH surface.
// The image is fitted to the full surface width, then to the placement's
// height limit if it is too tall, keeping its aspect ratio either way.
func DrawRect(srcW, srcH, dstW, dstH int, p types.Placement) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}

	boxH := dstH
	if p == types.PlacementBottomHalf {
		boxH = dstH - dstH/2
	}

	w := dstW
	h := srcH * dstW / srcW
	if h > boxH {
		h = boxH
		w = srcW * boxH / srcH
	}
	w = clamp(w, 1, dstW)
	h = clamp(h, 1, boxH)

	switch p {
	case types.PlacementBottomHalf:
		return image.Rect(0, dstH/2, w, dstH/2+h)
	default:
		x := (dstW - w) / 2
		return image.Rect(x, dstH-h, x+w, dstH)
	}
}

// Composite draws img into v with nearest-neighbour sampling and returns the
// rectangle written. The destination is overwritten, never blended; callers
// clear the surface first.
func Composite(v display.View, img *assets.Image, p types.Placement) image.Rectangle {
	if img == nil || v.Empty() || len(img.Pix) < img.Width*img.Height*4 {
		return image.Rectangle{}
	}

	r := DrawRect(img.Width, img.Height, v.Width, v.Height, p)
	if r.Empty() {
		return r
	}

	w, h := r.Dx(), r.Dy()
	for y := 0; y < h; y++ {
		sy := SourceIndex(y, img.Height, h)
		src := img.Pix[sy*img.Width*4:]
		dst := v.Pix[(r.Min.Y+y)*v.Stride+r.Min.X*4:]

		for x := 0; x < w; x++ {
			s := src[SourceIndex(x, img.Width, w)*4:]
			binary.LittleEndian.PutUint32(dst[x*4:], XRGB(s[0], s[1], s[2]))
		}
	}

	return r
}

// SourceIndex maps destination coordinate d of a span of n pixels onto a
// source span of size pixels.
func SourceIndex(d, size, n int) int {
	return clamp(d*size/n, 0, size-1)
}

// XRGB packs a colour as 0x00RRGGBB.
func XRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
