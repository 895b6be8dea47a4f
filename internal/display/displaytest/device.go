// Package displaytest provides an in-memory display.Device for tests.
package displaytest

import (
	"fmt"
	"sort"
	"syscall"

	"github.com/danc/dmarquees/internal/display"
)

// Step names accepted by Device.Fail.
const (
	StepOutputs    = "outputs"
	StepCreate     = "create"
	StepMap        = "map"
	StepUnmap      = "unmap"
	StepDestroy    = "destroy"
	StepAddFB      = "addfb"
	StepRmFB       = "rmfb"
	StepSetMaster  = "setmaster"
	StepDropMaster = "dropmaster"
	StepSetCrtc    = "setcrtc"
)

// Device emulates the kernel side of a DRM card. Busy simulates a peer
// process holding master.
type Device struct {
	OutputList   []display.Output
	PitchPadding uint32
	Busy         bool
	Fail         map[string]error

	Master     bool
	Presents   int
	LastFB     uint32
	Calls      []string
	Acquires   int
	Releases   int
	nextHandle uint32
	nextFB     uint32
	dumbs      map[uint32]bool
	fbs        map[uint32]bool
	mapped     int
	closed     bool
}

func New(outputs ...display.Output) *Device {
	return &Device{
		OutputList: outputs,
		Fail:       map[string]error{},
		dumbs:      map[uint32]bool{},
		fbs:        map[uint32]bool{},
	}
}

// Connected builds a connected output with the given modes, listed as
// width, height pairs.
func Connected(connectorID uint32, sizes ...int) display.Output {
	out := display.Output{
		ConnectorID: connectorID,
		CrtcID:      connectorID + 100,
		Name:        fmt.Sprintf("HDMI-A-%d", connectorID),
		Connected:   true,
	}
	for i := 0; i+1 < len(sizes); i += 2 {
		out.Modes = append(out.Modes, display.Mode{Width: sizes[i], Height: sizes[i+1], Refresh: 60})
	}
	return out
}

func (d *Device) step(name string) error {
	d.Calls = append(d.Calls, name)
	if err, ok := d.Fail[name]; ok {
		return err
	}
	return nil
}

func (d *Device) Outputs() ([]display.Output, error) {
	if err := d.step(StepOutputs); err != nil {
		return nil, err
	}
	return d.OutputList, nil
}

func (d *Device) CreateDumb(width, height, bpp uint32) (display.DumbBuffer, error) {
	if err := d.step(StepCreate); err != nil {
		return display.DumbBuffer{}, err
	}
	d.nextHandle++
	d.dumbs[d.nextHandle] = true
	pitch := width*bpp/8 + d.PitchPadding
	return display.DumbBuffer{
		Handle: d.nextHandle,
		Width:  width,
		Height: height,
		Pitch:  pitch,
		Size:   uint64(pitch) * uint64(height),
	}, nil
}

func (d *Device) MapDumb(buf display.DumbBuffer) ([]byte, error) {
	if err := d.step(StepMap); err != nil {
		return nil, err
	}
	if !d.dumbs[buf.Handle] {
		return nil, syscall.ENOENT
	}
	d.mapped++
	return make([]byte, buf.Size), nil
}

func (d *Device) Unmap(mem []byte) error {
	if err := d.step(StepUnmap); err != nil {
		return err
	}
	d.mapped--
	return nil
}

func (d *Device) DestroyDumb(handle uint32) error {
	if err := d.step(StepDestroy); err != nil {
		return err
	}
	if !d.dumbs[handle] {
		return syscall.ENOENT
	}
	delete(d.dumbs, handle)
	return nil
}

func (d *Device) AddFB(buf display.DumbBuffer, depth, bpp uint8) (uint32, error) {
	if err := d.step(StepAddFB); err != nil {
		return 0, err
	}
	d.nextFB++
	d.fbs[d.nextFB] = true
	return d.nextFB, nil
}

func (d *Device) RmFB(fbID uint32) error {
	if err := d.step(StepRmFB); err != nil {
		return err
	}
	if !d.fbs[fbID] {
		return syscall.ENOENT
	}
	delete(d.fbs, fbID)
	return nil
}

func (d *Device) SetMaster() error {
	if err := d.step(StepSetMaster); err != nil {
		return err
	}
	if d.Busy {
		return syscall.EBUSY
	}
	d.Master = true
	d.Acquires++
	return nil
}

func (d *Device) DropMaster() error {
	if err := d.step(StepDropMaster); err != nil {
		return err
	}
	if !d.Master {
		return syscall.EINVAL
	}
	d.Master = false
	d.Releases++
	return nil
}

func (d *Device) SetCrtc(crtcID, fbID, connectorID uint32, m display.Mode) error {
	if err := d.step(StepSetCrtc); err != nil {
		return err
	}
	if !d.Master {
		return syscall.EACCES
	}
	d.Presents++
	d.LastFB = fbID
	return nil
}

func (d *Device) Close() error {
	d.closed = true
	return nil
}

func (d *Device) Closed() bool {
	return d.closed
}

// Leaks lists every kernel object or mapping still alive.
func (d *Device) Leaks() []string {
	var leaks []string
	for h := range d.dumbs {
		leaks = append(leaks, fmt.Sprintf("dumb buffer %d", h))
	}
	for id := range d.fbs {
		leaks = append(leaks, fmt.Sprintf("fb %d", id))
	}
	if d.mapped != 0 {
		leaks = append(leaks, fmt.Sprintf("%d mappings", d.mapped))
	}
	if d.Master {
		leaks = append(leaks, "master held")
	}
	sort.Strings(leaks)
	return leaks
}
