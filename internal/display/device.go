// Package display drives a DRM/KMS output: it discovers connectors and
// modes, owns a single dumb framebuffer and presents it on a CRTC.
package display

import (
	"errors"
	"fmt"
	"image"

	"github.com/NeowayLabs/drm/mode"
)

var (
	ErrNoDisplayFound     = errors.New("no connected display output found")
	ErrAllocationFailed   = errors.New("framebuffer allocation failed")
	ErrMapFailed          = errors.New("framebuffer mapping failed")
	ErrRegistrationFailed = errors.New("framebuffer registration failed")
)

// Device is the subset of the kernel mode-setting interface the daemon uses.
// Card is the real implementation; displaytest.Device is an in-memory fake.
type Device interface {
	Outputs() ([]Output, error)

	CreateDumb(width, height, bpp uint32) (DumbBuffer, error)
	MapDumb(buf DumbBuffer) ([]byte, error)
	Unmap(mem []byte) error
	DestroyDumb(handle uint32) error

	AddFB(buf DumbBuffer, depth, bpp uint8) (uint32, error)
	RmFB(fbID uint32) error

	SetMaster() error
	DropMaster() error
	SetCrtc(crtcID, fbID, connectorID uint32, m Mode) error

	Close() error
}

// DumbBuffer describes a kernel allocated, CPU mappable buffer object.
type DumbBuffer struct {
	Handle uint32
	Width  uint32
	Height uint32
	Pitch  uint32
	Size   uint64
}

// Output is a display connector as seen at startup.
type Output struct {
	ConnectorID uint32
	CrtcID      uint32
	Name        string
	Connected   bool
	Modes       []Mode
}

type Mode struct {
	Width   int
	Height  int
	Refresh uint32
	Name    string

	info mode.Info
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d@%d", m.Width, m.Height, m.Refresh)
}

// View is a bounded write window onto framebuffer memory. Pixels are
// XRGB8888, little endian, Stride bytes per row.
type View struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

func (v View) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

// Empty reports whether the view has nothing that can be written to.
func (v View) Empty() bool {
	return v.Width <= 0 || v.Height <= 0 || len(v.Pix) < (v.Height-1)*v.Stride+v.Width*4
}

// NewView allocates an unbacked view, used for offline rendering.
func NewView(width, height int) View {
	return View{
		Pix:    make([]byte, width*height*4),
		Width:  width,
		Height: height,
		Stride: width * 4,
	}
}
