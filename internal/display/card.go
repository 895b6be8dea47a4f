package display

import (
	"bytes"
	"fmt"
	"os"

	"github.com/NeowayLabs/drm"
	"github.com/NeowayLabs/drm/mode"
	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// DRM_IO('d', 0x1e) and DRM_IO('d', 0x1f); neither takes an argument.
const (
	ioctlSetMaster  = 0x641e
	ioctlDropMaster = 0x641f
)

var connectorTypeNames = map[uint32]string{
	1:  "VGA",
	2:  "DVI-I",
	3:  "DVI-D",
	4:  "DVI-A",
	5:  "Composite",
	6:  "SVIDEO",
	7:  "LVDS",
	8:  "Component",
	9:  "DIN",
	10: "DP",
	11: "HDMI-A",
	12: "HDMI-B",
	13: "TV",
	14: "eDP",
	15: "Virtual",
	16: "DSI",
	17: "DPI",
	18: "Writeback",
}

// Card is a DRM primary node opened read/write.
type Card struct {
	path string
	file *os.File
}

func OpenCard(path string) (*Card, error) {
	file, err := os.OpenFile(path, os.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrNoDisplayFound, path, err)
	}

	if !drm.HasDumbBuffer(file) {
		file.Close()
		return nil, fmt.Errorf("%w: %s does not support dumb buffers", ErrNoDisplayFound, path)
	}

	return &Card{path: path, file: file}, nil
}

func (c *Card) Path() string {
	return c.path
}

// DriverName returns the kernel driver behind the card, for logging.
func (c *Card) DriverName() string {
	version, err := drm.GetVersion(c.file)
	if err != nil {
		return "unknown"
	}
	return version.Name
}

func (c *Card) Outputs() ([]Output, error) {
	res, err := mode.GetResources(c.file)
	if err != nil {
		return nil, fmt.Errorf("get resources: %w", err)
	}

	outputs := make([]Output, 0, len(res.Connectors))
	for _, id := range res.Connectors {
		conn, err := mode.GetConnector(c.file, id)
		if err != nil {
			log.Debugf("skipping connector %d: %v", id, err)
			continue
		}

		out := Output{
			ConnectorID: conn.ID,
			Name:        connectorName(conn.Type, conn.TypeID),
			Connected:   conn.Connection == mode.Connected,
		}

		if conn.EncoderID != 0 {
			if enc, err := mode.GetEncoder(c.file, conn.EncoderID); err == nil {
				out.CrtcID = enc.CrtcID
			}
		}
		if out.CrtcID == 0 && len(res.Crtcs) > 0 {
			out.CrtcID = res.Crtcs[0]
		}

		for _, info := range conn.Modes {
			// GetConnector always hands back at least one slot, even when the
			// connector reports no modes.
			if info.Hdisplay == 0 || info.Vdisplay == 0 {
				continue
			}
			out.Modes = append(out.Modes, modeFromInfo(info))
		}

		outputs = append(outputs, out)
	}

	return outputs, nil
}

func (c *Card) CreateDumb(width, height, bpp uint32) (DumbBuffer, error) {
	fb, err := mode.CreateFB(c.file, uint16(width), uint16(height), bpp)
	if err != nil {
		return DumbBuffer{}, err
	}
	return DumbBuffer{
		Handle: fb.Handle,
		Width:  width,
		Height: height,
		Pitch:  fb.Pitch,
		Size:   fb.Size,
	}, nil
}

func (c *Card) MapDumb(buf DumbBuffer) ([]byte, error) {
	offset, err := mode.MapDumb(c.file, buf.Handle)
	if err != nil {
		return nil, fmt.Errorf("map dumb: %w", err)
	}

	mem, err := unix.Mmap(int(c.file.Fd()), int64(offset), int(buf.Size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return mem, nil
}

func (c *Card) Unmap(mem []byte) error {
	return unix.Munmap(mem)
}

func (c *Card) DestroyDumb(handle uint32) error {
	return mode.DestroyDumb(c.file, handle)
}

func (c *Card) AddFB(buf DumbBuffer, depth, bpp uint8) (uint32, error) {
	return mode.AddFB(c.file, uint16(buf.Width), uint16(buf.Height), depth, bpp, buf.Pitch, buf.Handle)
}

func (c *Card) RmFB(fbID uint32) error {
	return mode.RmFB(c.file, fbID)
}

func (c *Card) SetMaster() error {
	return c.ioctl(ioctlSetMaster)
}

func (c *Card) DropMaster() error {
	return c.ioctl(ioctlDropMaster)
}

func (c *Card) SetCrtc(crtcID, fbID, connectorID uint32, m Mode) error {
	connectors := connectorID
	info := m.info
	return mode.SetCrtc(c.file, crtcID, fbID, 0, 0, &connectors, 1, &info)
}

func (c *Card) Close() error {
	return c.file.Close()
}

func (c *Card) ioctl(req uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, c.file.Fd(), req, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func modeFromInfo(info mode.Info) Mode {
	name, _, _ := bytes.Cut(info.Name[:], []byte{0})
	return Mode{
		Width:   int(info.Hdisplay),
		Height:  int(info.Vdisplay),
		Refresh: info.Vrefresh,
		Name:    string(name),
		info:    info,
	}
}

func connectorName(typ, typeID uint32) string {
	name, ok := connectorTypeNames[typ]
	if !ok {
		name = "Unknown"
	}
	return fmt.Sprintf("%s-%d", name, typeID)
}
