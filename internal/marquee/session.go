// Package marquee ties the display, the compositor and the arbiter together
// and runs the command loop.
package marquee

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/arbiter"
	"github.com/danc/dmarquees/internal/assets"
	"github.com/danc/dmarquees/internal/compositor"
	"github.com/danc/dmarquees/internal/display"
	"github.com/danc/dmarquees/internal/types"
)

type Options struct {
	PreferredWidth  int
	PreferredHeight int
	Placement       types.Placement
	Frontend        types.FrontendMode
	Library         *assets.Library
	Lookup          *assets.ScreenLookup
	ArbiterOptions  []arbiter.Option
}

// Session owns everything the daemon mutates: the frontend mode, the asset
// on screen, the framebuffer and the arbiter presenting it.
type Session struct {
	dev       display.Device
	screen    *display.Screen
	arbiter   *arbiter.Arbiter
	library   *assets.Library
	lookup    *assets.ScreenLookup
	placement types.Placement

	mode    types.FrontendMode
	current string
}

// NewSession picks an output on dev and allocates a framebuffer for its mode.
// Master is taken for the allocation when nobody else has it; some drivers
// refuse dumb buffers otherwise. It is always dropped before returning.
func NewSession(dev display.Device, opts Options) (*Session, error) {
	if opts.Library == nil || opts.Lookup == nil {
		return nil, errors.New("marquee session needs an asset library and a screen lookup")
	}

	outputs, err := dev.Outputs()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", display.ErrNoDisplayFound, err)
	}

	out, mode, err := display.SelectOutput(outputs, opts.PreferredWidth, opts.PreferredHeight)
	if err != nil {
		return nil, err
	}
	log.Infof("using %s (connector %d, crtc %d) at %s", out.Name, out.ConnectorID, out.CrtcID, mode)

	master := dev.SetMaster() == nil
	if !master {
		log.Debug("display master unavailable during setup, continuing without it")
	}

	fb, err := display.CreateFramebuffer(dev, mode.Width, mode.Height)
	if master {
		if derr := dev.DropMaster(); derr != nil {
			log.Warnf("drop master after setup: %v", derr)
		}
	}
	if err != nil {
		return nil, err
	}
	fb.ClearAll()

	screen := display.NewScreen(dev, out, mode, fb)

	s := &Session{
		dev:       dev,
		screen:    screen,
		arbiter:   arbiter.New(screen, opts.ArbiterOptions...),
		library:   opts.Library,
		lookup:    opts.Lookup,
		placement: opts.Placement,
		mode:      opts.Frontend,
	}
	if s.placement == "" {
		s.placement = types.PlacementBottomCenter
	}
	if s.mode == "" {
		s.mode = types.FrontendNone
	}
	return s, nil
}

func (s *Session) Mode() types.FrontendMode {
	return s.mode
}

func (s *Session) SetMode(m types.FrontendMode) {
	s.mode = m
}

// Current is the asset or default name last composited.
func (s *Session) Current() string {
	return s.current
}

func (s *Session) Screen() *display.Screen {
	return s.screen
}

func (s *Session) Arbiter() *arbiter.Arbiter {
	return s.arbiter
}

// ShowDefault draws the default marquee for the current mode and presents
// it. A default that cannot be loaded leaves the screen black.
func (s *Session) ShowDefault() {
	name := s.library.DefaultName(s.mode)
	fb := s.screen.Framebuffer()
	fb.ClearAll()

	img, err := s.library.LoadDefault(s.mode)
	if err != nil {
		log.Warnf("default marquee %s: %v", name, err)
	} else {
		compositor.Composite(fb.View(), img, s.placement)
	}

	s.current = name
	s.arbiter.Request(false)
}

// ShowAsset draws the marquee for id. Missing or broken assets fall back to
// the default. In RetroArch mode the arbiter backs off after presenting.
func (s *Session) ShowAsset(id string) {
	img, err := s.library.LoadAsset(id)
	if err != nil {
		log.Warnf("marquee %s: %v, showing default", id, err)
		s.ShowDefault()
		return
	}

	fb := s.screen.Framebuffer()
	fb.ClearAll()
	r := compositor.Composite(fb.View(), img, s.placement)
	log.Debugf("drew %s (%dx%d) into %v", id, img.Width, img.Height, r)

	s.current = id
	s.arbiter.Request(s.mode.HoldsAfterPresent())
}

// Close releases the framebuffer. The device stays open for the caller to
// close.
func (s *Session) Close() error {
	return s.screen.Framebuffer().Destroy()
}
