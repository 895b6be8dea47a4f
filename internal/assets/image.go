// Package assets loads marquee images and answers per-title questions about
// them.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	"github.com/spf13/afero"
	"golang.org/x/image/draw"
)

var (
	ErrNotFound = errors.New("asset not found")
	ErrDecode   = errors.New("asset could not be decoded")
)

// Image is a decoded picture as tightly packed, non-premultiplied R, G, B, A
// bytes.
type Image struct {
	Pix    []byte
	Width  int
	Height int
}

// Decoder turns image files into Images. Any format registered with the
// image package is accepted.
type Decoder struct {
	fs afero.Fs
}

func NewDecoder(fsys afero.Fs) *Decoder {
	return &Decoder{fs: fsys}
}

func (d *Decoder) Decode(path string) (*Image, error) {
	f, err := d.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %s: empty image", ErrDecode, path)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	return &Image{
		Pix:    dst.Pix,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}
