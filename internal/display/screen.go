package display

// Screen ties the selected output and mode to the framebuffer. Its
// Acquire, Release and Present methods are the display rights the arbiter
// negotiates with.
type Screen struct {
	dev  Device
	out  Output
	mode Mode
	fb   *Framebuffer
}

func NewScreen(dev Device, out Output, m Mode, fb *Framebuffer) *Screen {
	return &Screen{dev: dev, out: out, mode: m, fb: fb}
}

func (s *Screen) Output() Output {
	return s.out
}

func (s *Screen) Mode() Mode {
	return s.mode
}

func (s *Screen) Framebuffer() *Framebuffer {
	return s.fb
}

// Acquire takes DRM master.
func (s *Screen) Acquire() error {
	return s.dev.SetMaster()
}

// Release drops DRM master.
func (s *Screen) Release() error {
	return s.dev.DropMaster()
}

// Present binds the framebuffer to the CRTC with the selected mode.
func (s *Screen) Present() error {
	return s.dev.SetCrtc(s.out.CrtcID, s.fb.ID(), s.out.ConnectorID, s.mode)
}
