package display

import (
	"errors"
	"fmt"
	"image"
)

const (
	bitsPerPixel = 32
	colorDepth   = 24
)

// Framebuffer is the single persistent scanout buffer. Its memory is shared
// with the kernel: writes through View show up on screen once the buffer is
// bound to a CRTC, without any copy.
type Framebuffer struct {
	dev    Device
	buf    DumbBuffer
	fbID   uint32
	mem    []byte
	width  int
	height int
}

// CreateFramebuffer allocates, maps and registers a width x height XRGB8888
// buffer. On failure everything acquired so far is released again.
func CreateFramebuffer(dev Device, width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrAllocationFailed, width, height)
	}

	buf, err := dev.CreateDumb(uint32(width), uint32(height), bitsPerPixel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	mem, err := dev.MapDumb(buf)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrMapFailed, err)
		return nil, errors.Join(err, dev.DestroyDumb(buf.Handle))
	}

	fbID, err := dev.AddFB(buf, colorDepth, bitsPerPixel)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
		return nil, errors.Join(err, dev.Unmap(mem), dev.DestroyDumb(buf.Handle))
	}

	return &Framebuffer{
		dev:    dev,
		buf:    buf,
		fbID:   fbID,
		mem:    mem,
		width:  width,
		height: height,
	}, nil
}

func (f *Framebuffer) ID() uint32 {
	return f.fbID
}

func (f *Framebuffer) Stride() int {
	return int(f.buf.Pitch)
}

func (f *Framebuffer) Size() (int, int) {
	return f.width, f.height
}

// View returns the write window for the compositor. It is empty once the
// framebuffer has been destroyed.
func (f *Framebuffer) View() View {
	if f.mem == nil {
		return View{}
	}
	return View{
		Pix:    f.mem,
		Width:  f.width,
		Height: f.height,
		Stride: int(f.buf.Pitch),
	}
}

// Clear zero-fills r, clipped to the surface.
func (f *Framebuffer) Clear(r image.Rectangle) {
	v := f.View()
	r = r.Intersect(v.Bounds())
	if v.Empty() || r.Empty() {
		return
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * v.Stride
		clear(v.Pix[row+r.Min.X*4 : row+r.Max.X*4])
	}
}

// ClearAll zero-fills the whole mapping, row padding included.
func (f *Framebuffer) ClearAll() {
	clear(f.mem)
}

// Destroy unregisters, unmaps and frees the buffer, in that order. It is safe
// to call more than once.
func (f *Framebuffer) Destroy() error {
	if f == nil || f.dev == nil {
		return nil
	}

	var errs []error
	if f.fbID != 0 {
		if err := f.dev.RmFB(f.fbID); err != nil {
			errs = append(errs, fmt.Errorf("remove fb %d: %w", f.fbID, err))
		}
		f.fbID = 0
	}
	if f.mem != nil {
		if err := f.dev.Unmap(f.mem); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
		f.mem = nil
	}
	if f.buf.Handle != 0 {
		if err := f.dev.DestroyDumb(f.buf.Handle); err != nil {
			errs = append(errs, fmt.Errorf("destroy dumb %d: %w", f.buf.Handle, err))
		}
		f.buf.Handle = 0
	}

	return errors.Join(errs...)
}
